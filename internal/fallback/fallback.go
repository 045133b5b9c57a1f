// Package fallback provides the deterministic synthetic match catalog
// substituted when the upstream feed is unreachable, rate limited, or
// empty. Entries are schema-valid standardized matches tagged with the
// quota-limited status and a "(data limited)" league marker so consumers
// and tests can tell degraded mode from real data.
package fallback

import (
	"fmt"
	"time"

	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/sport"
)

// Marker is appended to every fallback league name.
const Marker = " (data limited)"

// entry is one fixed catalog fixture. Odds of zero mean the outcome is
// absent (two-outcome sports carry no draw price).
type entry struct {
	league, country string
	home, away      string
	homeOdds        float64
	drawOdds        float64
	awayOdds        float64
}

var catalogs = map[sport.Sport][]entry{
	sport.Football: {
		{"Premier League", "England", "Manchester City", "Liverpool", 2.10, 3.45, 3.30},
		{"La Liga", "Spain", "Real Madrid", "Barcelona", 2.25, 3.50, 2.95},
		{"Serie A", "Italy", "Inter Milan", "AC Milan", 2.40, 3.20, 2.90},
		{"Nigerian Professional League", "Nigeria", "Enyimba", "Kano Pillars", 1.95, 3.10, 3.80},
	},
	sport.Basketball: {
		{"NBA", "USA", "Boston Celtics", "Los Angeles Lakers", 1.75, 0, 2.10},
		{"NBA", "USA", "Golden State Warriors", "Milwaukee Bucks", 1.90, 0, 1.95},
		{"EuroLeague", "Europe", "Real Madrid Baloncesto", "Panathinaikos", 1.80, 0, 2.05},
	},
	sport.Tennis: {
		{"ATP Tour", "International", "C. Alcaraz", "N. Djokovic", 1.85, 0, 1.95},
		{"WTA Tour", "International", "I. Swiatek", "A. Sabalenka", 1.70, 0, 2.15},
	},
}

// generic covers every sport without a dedicated catalog.
var generic = []entry{
	{"Exhibition", "International", "Home Side", "Away Side", 1.90, 3.30, 2.00},
	{"Exhibition", "International", "North Select", "South Select", 2.05, 3.25, 1.85},
}

// Catalog is the swappable fallback source. Now is injectable so tests can
// pin start times; it defaults to time.Now.
type Catalog struct {
	Now func() time.Time
}

// NewCatalog returns the default catalog.
func NewCatalog() *Catalog {
	return &Catalog{Now: time.Now}
}

// Matches returns the synthetic pre-match set for a sport. Repeated calls
// under the same clock return structurally identical sets.
func (c *Catalog) Matches(s sport.Sport) []normalize.Match {
	entries, ok := catalogs[s]
	if !ok {
		entries = generic
	}

	// Fixtures start at the top of upcoming hours so they always look
	// plausibly scheduled regardless of when degradation hits.
	base := c.now().Truncate(time.Hour).Add(2 * time.Hour)

	matches := make([]normalize.Match, 0, len(entries))
	for i, e := range entries {
		matches = append(matches, normalize.Match{
			ID:        fmt.Sprintf("%s-fallback-%d", s, i+1),
			Sport:     s,
			League:    e.league + Marker,
			Country:   e.country,
			HomeTeam:  e.home,
			AwayTeam:  e.away,
			StartTime: base.Add(time.Duration(i) * time.Hour),
			HomeOdds:  optional(e.homeOdds),
			DrawOdds:  optional(e.drawOdds),
			AwayOdds:  optional(e.awayOdds),
			Status:    normalize.StatusQuotaLimited,
		})
	}
	return matches
}

// LiveMatches returns the synthetic in-play set for a sport: the same
// fixtures re-tagged as already running with a placeholder score and clock.
func (c *Catalog) LiveMatches(s sport.Sport) []normalize.Match {
	matches := c.Matches(s)
	started := c.now().Add(-30 * time.Minute)
	for i := range matches {
		home, away := 1, 0
		matches[i].StartTime = started
		matches[i].Score = normalize.Score{Home: &home, Away: &away}
		matches[i].Time = &normalize.Clock{Minutes: 30, Seconds: 0, Period: "1H"}
		// Status stays quota_limited: these are placeholders, not live data.
	}
	return matches
}

func (c *Catalog) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func optional(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
