package engine

import (
	"context"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/puntaiq/odds-engine/internal/fallback"
	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/oddsapi"
	"github.com/puntaiq/odds-engine/internal/sport"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

// fakeFeed implements Feed with pluggable behavior per operation.
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

func testEngine(feed Feed) *Engine {
	fb := &fallback.Catalog{Now: func() time.Time { return testNow }}
	return New(feed, fb, Options{
		PollDelay: time.Millisecond,
		Logger:    slog.Default(),
		Now:       func() time.Time { return testNow },
	})
}

func event(id, key, title, home, away string, start time.Time) oddsapi.Event {
	return oddsapi.Event{
		ID: id, SportKey: key, SportTitle: title,
		CommenceTime: start, HomeTeam: home, AwayTeam: away,
		Bookmakers: []oddsapi.Bookmaker{
			{Key: "bk1", Markets: []oddsapi.Market{
				{Key: "h2h", Outcomes: []oddsapi.Outcome{
					{Name: home, Price: 2.0},
					{Name: away, Price: 3.0},
				}},
			}},
		},
	}
}

func TestGetTodayEventsFiltersToToday(t *testing.T) {
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			return []oddsapi.Event{
				event("1", key, "Premier League - England", "Arsenal", "Chelsea", testNow.Add(3*time.Hour)),
				event("2", key, "Premier League - England", "Leeds", "Everton", testNow.Add(26*time.Hour)),
				event("3", key, "Premier League - England", "Fulham", "Brentford", testNow.Add(-14*time.Hour)),
			}, nil
		},
	}

	matches := testEngine(feed).GetTodayEvents(context.Background(), "soccer_epl")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].ID != "football-1" {
		t.Errorf("kept the wrong match: %q", matches[0].ID)
	}
}

func TestGetTodayEventsFallbackOnRateLimit(t *testing.T) {
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			return nil, &oddsapi.FeedError{Reason: oddsapi.ReasonRateLimited, Op: "/sports/soccer/odds"}
		},
	}
	e := testEngine(feed)

	matches := e.GetTodayEvents(context.Background(), "soccer")
	if len(matches) == 0 {
		t.Fatal("fallback set is empty")
	}
	for _, m := range matches {
		if m.Status != normalize.StatusQuotaLimited {
			t.Errorf("fallback match missing degraded tag: %+v", m)
		}
		if m.Sport != sport.Football {
			t.Errorf("fallback sport = %q", m.Sport)
		}
	}

	// Repeated calls under the same failure are structurally identical.
	again := e.GetTodayEvents(context.Background(), "soccer")
	if !reflect.DeepEqual(matches, again) {
		t.Error("fallback sets diverge across calls")
	}
}

func TestResolveEventsFallbackOnEmptyPayload(t *testing.T) {
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			return []oddsapi.Event{}, nil
		},
	}

	matches := testEngine(feed).GetTodayEvents(context.Background(), "basketball_nba")
	if !Degraded(matches) {
		t.Fatal("empty payload should degrade to fallback")
	}
}

func TestGetUpcomingEventsWindowAndRegions(t *testing.T) {
	var gotRegions []string
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			gotRegions = regions
			return []oddsapi.Event{
				event("1", key, "La Liga - Spain", "Real Madrid", "Barcelona", testNow.Add(24*time.Hour)),
				event("2", key, "La Liga - Spain", "Sevilla", "Valencia", testNow.Add(5*24*time.Hour)),
			}, nil
		},
	}

	start := testNow.Add(12 * time.Hour)
	matches := testEngine(feed).GetUpcomingEvents(
		context.Background(), "soccer_spain_la_liga", 2, &start,
		[]string{"United Kingdom", "Europe"},
	)

	if want := []string{"uk", "eu"}; !reflect.DeepEqual(gotRegions, want) {
		t.Errorf("regions = %v, want %v", gotRegions, want)
	}
	if len(matches) != 1 || matches[0].ID != "football-1" {
		t.Errorf("window filter kept %+v", matches)
	}
}

func TestSearchEventsByTeam(t *testing.T) {
	feed := &fakeFeed{
		events: func(ctx context.Context, key string, regions, markets []string) ([]oddsapi.Event, error) {
			if key == "soccer" {
				return []oddsapi.Event{
					event("1", key, "Premier League - England", "Arsenal", "Chelsea", testNow.Add(time.Hour)),
					event("2", key, "Premier League - England", "Leeds", "Everton", testNow.Add(time.Hour)),
				}, nil
			}
			return []oddsapi.Event{
				event("9", key, "NBA", "Boston Celtics", "Chicago Bulls", testNow.Add(time.Hour)),
			}, nil
		},
	}

	matches := testEngine(feed).SearchEventsByTeam(context.Background(), "arse")
	if len(matches) != 1 || matches[0].HomeTeam != "Arsenal" {
		t.Fatalf("search returned %+v", matches)
	}

	if got := testEngine(feed).SearchEventsByTeam(context.Background(), "  "); got != nil {
		t.Errorf("blank query should return nil, got %+v", got)
	}
}

func TestGetSupportedSports(t *testing.T) {
	feed := &fakeFeed{
		sports: func(ctx context.Context) ([]oddsapi.SportInfo, error) {
			return []oddsapi.SportInfo{
				{Key: "soccer_epl", Group: "Soccer", Title: "EPL", Active: true},
				{Key: "basketball_nba", Group: "Basketball", Title: "NBA", Active: false},
			}, nil
		},
	}

	descriptors := testEngine(feed).GetSupportedSports(context.Background())
	if len(descriptors) != 2 {
		t.Fatalf("got %d descriptors", len(descriptors))
	}
	if descriptors[0].Sport != sport.Football || descriptors[1].Sport != sport.Basketball {
		t.Errorf("internal sports not mapped: %+v", descriptors)
	}
}

func TestGetSupportedSportsDegradesToStaticList(t *testing.T) {
	feed := &fakeFeed{
		sports: func(ctx context.Context) ([]oddsapi.SportInfo, error) {
			return nil, &oddsapi.FeedError{Reason: oddsapi.ReasonNetwork, Op: "/sports"}
		},
	}

	descriptors := testEngine(feed).GetSupportedSports(context.Background())
	if len(descriptors) == 0 {
		t.Fatal("static list is empty")
	}
	seen := map[sport.Sport]bool{}
	for _, d := range descriptors {
		seen[d.Sport] = true
	}
	if !seen[sport.Football] || !seen[sport.Tennis] {
		t.Errorf("static list incomplete: %+v", descriptors)
	}
}
