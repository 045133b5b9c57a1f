package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/puntaiq/odds-engine/internal/config"
	"github.com/puntaiq/odds-engine/internal/engine"
	"github.com/puntaiq/odds-engine/internal/fallback"
	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/oddsapi"
	"github.com/puntaiq/odds-engine/internal/store"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

// fakeFeed implements engine.Feed with pluggable behavior per operation.
type fakeFeed struct {
	sports func(ctx context.Context) ([]oddsapi.SportInfo, error)
	events func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error)
	live   func(ctx context.Context, key, region string) ([]oddsapi.LiveEvent, error)
}

func (f *fakeFeed) Sports(ctx context.Context) ([]oddsapi.SportInfo, error) {
	if f.sports == nil {
		return nil, nil
	}
	return f.sports(ctx)
}

func (f *fakeFeed) Events(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
	if f.events == nil {
		return nil, nil
	}
	return f.events(ctx, key, regions, markets)
}

func (f *fakeFeed) LiveEvents(ctx context.Context, key, region string) ([]oddsapi.LiveEvent, error) {
	if f.live == nil {
		return nil, nil
	}
	return f.live(ctx, key, region)
}

func testRouter(t *testing.T, feed *fakeFeed) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	fb := fallback.NewCatalog()
	fb.Now = func() time.Time { return testNow }
	eng := engine.New(feed, fb, engine.Options{
		PollDelay: time.Millisecond,
		Logger:    logger,
		Now:       func() time.Time { return testNow },
	})
	st := store.New(nil, nil, 30*time.Minute, logger)
	cfg := &config.Config{
		CORSAllowOrigins: []string{"*"},
	}
	return NewRouter(eng, st, nil, cfg)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

type matchesResponse struct {
	Matches  []normalize.Match `json:"matches"`
	Count    int               `json:"count"`
	Degraded bool              `json:"degraded"`
}

func TestRootAndHealth(t *testing.T) {
	h := testRouter(t, &fakeFeed{})

	rr := get(t, h, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("root status = %d", rr.Code)
	}
	var root map[string]any
	decode(t, rr, &root)
	if root["name"] != "PuntaIQ Odds Engine" {
		t.Errorf("root name = %v", root["name"])
	}

	rr = get(t, h, "/health")
	var health map[string]any
	decode(t, rr, &health)
	if health["status"] != "healthy" {
		t.Errorf("health status = %v", health["status"])
	}

	rr = get(t, h, "/health/db")
	var db map[string]any
	decode(t, rr, &db)
	if db["database"] != "not_configured" {
		t.Errorf("db status without pool = %v", db["database"])
	}

	rr = get(t, h, "/health/cache")
	var cache map[string]any
	decode(t, rr, &cache)
	if cache["cache"] != "not_configured" {
		t.Errorf("cache status without redis = %v", cache["cache"])
	}
}

func TestTodayEventsRealData(t *testing.T) {
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			return []oddsapi.Event{{
				ID:           "ev1",
				SportKey:     "soccer_epl",
				SportTitle:   "EPL",
				CommenceTime: testNow.Add(3 * time.Hour),
				HomeTeam:     "Arsenal",
				AwayTeam:     "Chelsea",
			}}, nil
		},
	}
	h := testRouter(t, feed)

	rr := get(t, h, "/api/v1/events/today/football")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp matchesResponse
	decode(t, rr, &resp)
	if resp.Count != 1 || resp.Degraded {
		t.Fatalf("count = %d degraded = %v", resp.Count, resp.Degraded)
	}
	if resp.Matches[0].ID != "football-ev1" {
		t.Errorf("match id = %q", resp.Matches[0].ID)
	}
}

func TestTodayEventsFallbackOnFeedError(t *testing.T) {
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			return nil, &oddsapi.FeedError{Reason: oddsapi.ReasonRateLimited, Op: "events"}
		},
	}
	h := testRouter(t, feed)

	rr := get(t, h, "/api/v1/events/today/football")
	if rr.Code != http.StatusOK {
		t.Fatalf("degraded request must still answer 200, got %d", rr.Code)
	}
	var resp matchesResponse
	decode(t, rr, &resp)
	if !resp.Degraded || resp.Count == 0 {
		t.Fatalf("expected degraded fallback payload, got count=%d degraded=%v", resp.Count, resp.Degraded)
	}
	for _, m := range resp.Matches {
		if m.Status != normalize.StatusQuotaLimited {
			t.Errorf("match %s status = %q", m.ID, m.Status)
		}
	}
}

func TestUpcomingEventsValidation(t *testing.T) {
	h := testRouter(t, &fakeFeed{})

	for _, path := range []string{
		"/api/v1/events/upcoming/football?days=0",
		"/api/v1/events/upcoming/football?days=61",
		"/api/v1/events/upcoming/football?days=abc",
		"/api/v1/events/upcoming/football?from=not-a-date",
	} {
		if rr := get(t, h, path); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rr.Code)
		}
	}
}

func TestSearchRequiresTeam(t *testing.T) {
	h := testRouter(t, &fakeFeed{})

	if rr := get(t, h, "/api/v1/events/search"); rr.Code != http.StatusBadRequest {
		t.Errorf("missing team: status = %d, want 400", rr.Code)
	}
	if rr := get(t, h, "/api/v1/events/search?team=%20%20"); rr.Code != http.StatusBadRequest {
		t.Errorf("blank team: status = %d, want 400", rr.Code)
	}
}

func TestSupportedSports(t *testing.T) {
	feed := &fakeFeed{
		sports: func(ctx context.Context) ([]oddsapi.SportInfo, error) {
			return []oddsapi.SportInfo{
				{Key: "soccer_epl", Group: "Soccer", Title: "EPL", Active: true},
				{Key: "basketball_nba", Group: "Basketball", Title: "NBA", Active: true},
			}, nil
		},
	}
	h := testRouter(t, feed)

	rr := get(t, h, "/api/v1/sports")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Sports []engine.SportDescriptor `json:"sports"`
		Count  int                      `json:"count"`
	}
	decode(t, rr, &resp)
	if resp.Count != 2 {
		t.Fatalf("count = %d", resp.Count)
	}
	if resp.Sports[0].Sport != "football" {
		t.Errorf("sport[0] = %q", resp.Sports[0].Sport)
	}
}

func TestLiveAllTotalOutageStillAnswers(t *testing.T) {
	feed := &fakeFeed{
		live: func(ctx context.Context, key, region string) ([]oddsapi.LiveEvent, error) {
			return nil, &oddsapi.FeedError{Reason: oddsapi.ReasonNetwork, Op: "live"}
		},
	}
	h := testRouter(t, feed)

	rr := get(t, h, "/api/v1/live/all")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp matchesResponse
	decode(t, rr, &resp)
	if !resp.Degraded || resp.Count == 0 {
		t.Fatalf("expected degraded live fallback, got count=%d degraded=%v", resp.Count, resp.Degraded)
	}
}

func TestSnapshotFallsBackToEngine(t *testing.T) {
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			return []oddsapi.Event{{
				ID:           "ev9",
				SportKey:     "basketball_nba",
				SportTitle:   "NBA",
				CommenceTime: testNow.Add(48 * time.Hour),
				HomeTeam:     "Celtics",
				AwayTeam:     "Lakers",
			}}, nil
		},
	}
	h := testRouter(t, feed)

	// Store is disabled, so the handler serves a live engine fetch.
	rr := get(t, h, "/api/v1/snapshots/basketball")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp matchesResponse
	decode(t, rr, &resp)
	if resp.Count != 1 || resp.Matches[0].ID != "basketball-ev9" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
