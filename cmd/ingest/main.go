// Command ingest is the odds-engine snapshot CLI. It runs one
// fetch-normalize-persist cycle per invocation; cadence belongs to an
// external scheduler (cron or similar).
//
// Usage:
//
//	odds-ingest snapshot --sports football,basketball --days 7
//	odds-ingest live
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/puntaiq/odds-engine/internal/config"
	"github.com/puntaiq/odds-engine/internal/db"
	"github.com/puntaiq/odds-engine/internal/engine"
	"github.com/puntaiq/odds-engine/internal/fallback"
	"github.com/puntaiq/odds-engine/internal/ingest"
	"github.com/puntaiq/odds-engine/internal/oddsapi"
	"github.com/puntaiq/odds-engine/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "odds-ingest",
		Short: "PuntaIQ odds-engine snapshot CLI",
	}

	root.AddCommand(snapshotCmd())
	root.AddCommand(liveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// snapshot command
// --------------------------------------------------------------------------

func snapshotCmd() *cobra.Command {
	var sports string
	var days int
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot upcoming events and odds per sport",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(func(ctx context.Context, eng *engine.Engine, st *store.SnapshotStore) error {
				result := ingest.RunSnapshot(ctx, eng, st, ingest.ParseSports(sports), days, logger)
				logger.Info("Snapshot cycle finished", "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("snapshot error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sports, "sports", "", "Comma-separated internal sports (empty = default set)")
	cmd.Flags().IntVar(&days, "days", 7, "Days ahead to include")
	return cmd
}

// --------------------------------------------------------------------------
// live command
// --------------------------------------------------------------------------

func liveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Snapshot the current in-play matches across all sports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(func(ctx context.Context, eng *engine.Engine, st *store.SnapshotStore) error {
				result := ingest.RunLive(ctx, eng, st, logger)
				logger.Info("Live cycle finished", "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("live snapshot error", "error", e)
				}
				return nil
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runCycle handles config loading, engine/store wiring, and context
// cancellation.
func runCycle(fn func(ctx context.Context, eng *engine.Engine, st *store.SnapshotStore) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.OddsAPIKey == "" {
		logger.Warn("ODDS_API_KEY not set, snapshots will contain fallback data")
	}

	var pool *db.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
	}

	if pool == nil && rdb == nil {
		logger.Warn("Neither DATABASE_URL nor REDIS_ADDR is set, results will not be persisted")
	}

	feed := oddsapi.NewClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.OddsRequestDelay, logger)
	eng := engine.New(feed, fallback.NewCatalog(), engine.Options{
		Regions:    cfg.OddsRegions,
		CatalogTTL: cfg.SportCatalogTTL,
		Logger:     logger,
	})
	st := store.New(pool, rdb, cfg.SnapshotTTL, logger)

	return fn(ctx, eng, st)
}
