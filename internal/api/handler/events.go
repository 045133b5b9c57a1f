package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/puntaiq/odds-engine/internal/api/respond"
	"github.com/puntaiq/odds-engine/internal/engine"
	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/sport"
)

// matchesPayload is the response envelope for match listings.
type matchesPayload struct {
	Matches  []normalize.Match `json:"matches"`
	Count    int               `json:"count"`
	Degraded bool              `json:"degraded"`
}

func writeMatches(w http.ResponseWriter, matches []normalize.Match) {
	if matches == nil {
		matches = []normalize.Match{}
	}
	respond.WriteJSONObject(w, http.StatusOK, matchesPayload{
		Matches:  matches,
		Count:    len(matches),
		Degraded: engine.Degraded(matches),
	})
}

// sportKeyParam resolves the {sport} path segment: either an internal
// sport name or a raw provider key.
func sportKeyParam(r *http.Request) string {
	raw := chi.URLParam(r, "sport")
	return sport.ToProviderKey(sport.Sport(raw))
}

// GetTodayEvents serves GET /api/v1/events/today/{sport}.
func (h *Handler) GetTodayEvents(w http.ResponseWriter, r *http.Request) {
	writeMatches(w, h.engine.GetTodayEvents(r.Context(), sportKeyParam(r)))
}

// GetUpcomingEvents serves GET /api/v1/events/upcoming/{sport}.
// Query: days (default 7), from (RFC 3339 or YYYY-MM-DD), regions (CSV of
// user-facing region names).
func (h *Handler) GetUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_DAYS", "days must be an integer between 1 and 60")
			return
		}
		days = n
	}

	var startDate *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_FROM", "from must be RFC 3339 or YYYY-MM-DD")
			return
		}
		startDate = &t
	}

	var regions []string
	if v := r.URL.Query().Get("regions"); v != "" {
		regions = strings.Split(v, ",")
	}

	writeMatches(w, h.engine.GetUpcomingEvents(r.Context(), sportKeyParam(r), days, startDate, regions))
}

// GetLiveScores serves GET /api/v1/live/{sport}; {sport} may be "all".
func (h *Handler) GetLiveScores(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "sport")
	if key != engine.AllSports {
		key = sport.ToProviderKey(sport.Sport(key))
	}
	writeMatches(w, h.engine.GetLiveScores(r.Context(), key))
}

// GetSupportedSports serves GET /api/v1/sports.
func (h *Handler) GetSupportedSports(w http.ResponseWriter, r *http.Request) {
	sports := h.engine.GetSupportedSports(r.Context())
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"sports": sports,
		"count":  len(sports),
	})
}

// SearchEvents serves GET /api/v1/events/search?team=.
func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if strings.TrimSpace(team) == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_TEAM", "team query parameter is required")
		return
	}
	writeMatches(w, h.engine.SearchEventsByTeam(r.Context(), team))
}

// GetLatestSnapshot serves GET /api/v1/snapshots/{sport}: the last
// persisted set for the sport, or a live engine fetch when the store has
// nothing.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	sp := sport.Sport(chi.URLParam(r, "sport"))

	if h.store != nil && h.store.Enabled() {
		matches, ok, err := h.store.LatestSnapshot(r.Context(), sp)
		if err == nil && ok {
			writeMatches(w, matches)
			return
		}
	}
	writeMatches(w, h.engine.GetUpcomingEvents(r.Context(), sport.ToProviderKey(sp), 7, nil, nil))
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
