// Package handler provides HTTP handlers for all API endpoints. Handlers
// call the engine directly; the engine never returns an error, so
// engine-backed routes always answer 200 with real or clearly tagged
// fallback data.
package handler

import (
	"net/http"
	"time"

	"github.com/puntaiq/odds-engine/internal/api/respond"
	"github.com/puntaiq/odds-engine/internal/config"
	"github.com/puntaiq/odds-engine/internal/db"
	"github.com/puntaiq/odds-engine/internal/engine"
	"github.com/puntaiq/odds-engine/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	engine *engine.Engine
	store  *store.SnapshotStore
	pool   *db.Pool // nil when persistence is disabled
	cfg    *config.Config
}

// New creates a Handler with shared dependencies. pool and store may be
// nil/disabled; the engine is always present.
func New(eng *engine.Engine, st *store.SnapshotStore, pool *db.Pool, cfg *config.Config) *Handler {
	return &Handler{engine: eng, store: st, pool: pool, cfg: cfg}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "PuntaIQ Odds Engine",
		"version": "1.0.0",
		"status":  "running",
		"features": []string{
			"odds_normalization",
			"cross_bookmaker_averaging",
			"live_score_tracking",
			"deterministic_fallback",
		},
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache verifies Redis connectivity.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || !h.store.CacheConfigured() {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"cache":     "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.store.PingCache(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"cache":     "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
