package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/puntaiq/odds-engine/internal/api/handler"
	"github.com/puntaiq/odds-engine/internal/config"
	"github.com/puntaiq/odds-engine/internal/db"
	"github.com/puntaiq/odds-engine/internal/engine"
	"github.com/puntaiq/odds-engine/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(eng *engine.Engine, st *store.SnapshotStore, pool *db.Pool, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(eng, st, pool, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sports", h.GetSupportedSports)

		r.Get("/events/today/{sport}", h.GetTodayEvents)
		r.Get("/events/upcoming/{sport}", h.GetUpcomingEvents)
		r.Get("/events/search", h.SearchEvents)

		r.Get("/live/{sport}", h.GetLiveScores)

		r.Get("/snapshots/{sport}", h.GetLatestSnapshot)
	})

	return r
}
