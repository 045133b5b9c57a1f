// Command api is the PuntaIQ odds-engine API server.
//
// Usage:
//
//	odds-api
//	API_PORT=8080 odds-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/puntaiq/odds-engine/internal/api"
	"github.com/puntaiq/odds-engine/internal/config"
	"github.com/puntaiq/odds-engine/internal/db"
	"github.com/puntaiq/odds-engine/internal/engine"
	"github.com/puntaiq/odds-engine/internal/fallback"
	"github.com/puntaiq/odds-engine/internal/oddsapi"
	"github.com/puntaiq/odds-engine/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.OddsAPIKey == "" {
		logger.Warn("ODDS_API_KEY not set, serving fallback data only")
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Optional Postgres pool for the snapshot store
	var pool *db.Pool
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	} else {
		logger.Info("DATABASE_URL not set, snapshot persistence disabled")
	}

	// Optional Redis hot cache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		logger.Info("Redis snapshot cache enabled", "addr", cfg.RedisAddr)
	}

	// Engine wiring
	feed := oddsapi.NewClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.OddsRequestDelay, logger)
	eng := engine.New(feed, fallback.NewCatalog(), engine.Options{
		Regions:    cfg.OddsRegions,
		CatalogTTL: cfg.SportCatalogTTL,
		Logger:     logger,
	})

	st := store.New(pool, rdb, cfg.SnapshotTTL, logger)

	// Create router
	router := api.NewRouter(eng, st, pool, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting odds-engine API",
			"addr", addr,
			"environment", cfg.Environment,
			"regions", cfg.OddsRegions)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
