// Package normalize builds the canonical match record every consumer of the
// engine receives, reconciling provider sport keys, competition titles, and
// per-bookmaker pricing into one shape.
package normalize

import (
	"fmt"
	"time"

	"github.com/puntaiq/odds-engine/internal/oddsapi"
	"github.com/puntaiq/odds-engine/internal/sport"
	"github.com/puntaiq/odds-engine/internal/titleparse"
)

// Status is the live lifecycle state of a match. StatusQuotaLimited tags
// synthetic fallback records so consumers can render degraded mode
// distinctly.
type Status string

const (
	StatusNotStarted   Status = "not_started"
	StatusInPlay       Status = "in_play"
	StatusEnded        Status = "ended"
	StatusQuotaLimited Status = "quota_limited"
)

// Score is the running or final score; nil sides mean no data yet.
type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Clock is the elapsed match clock for in-play matches.
type Clock struct {
	Minutes int    `json:"minutes"`
	Seconds int    `json:"seconds"`
	Period  string `json:"period"`
}

// Match is the standardized match record. Pre-match fields are immutable
// once built; only the live fields (Score, Status, Time) are re-derived as
// new polls arrive. The ID is deterministic per (sport, provider event id)
// so repeated fetches of the same upstream event always agree.
type Match struct {
	ID        string      `json:"id"`
	Sport     sport.Sport `json:"sport"`
	League    string      `json:"league"`
	Country   string      `json:"country"`
	HomeTeam  string      `json:"homeTeam"`
	AwayTeam  string      `json:"awayTeam"`
	StartTime time.Time   `json:"startTime"`
	HomeOdds  *float64    `json:"homeOdds,omitempty"`
	DrawOdds  *float64    `json:"drawOdds,omitempty"`
	AwayOdds  *float64    `json:"awayOdds,omitempty"`
	Score     Score       `json:"score"`
	Status    Status      `json:"status,omitempty"`
	Time      *Clock      `json:"time,omitempty"`
}

// MatchID composes the canonical id for a provider event.
func MatchID(s sport.Sport, providerEventID string) string {
	return fmt.Sprintf("%s-%s", s, providerEventID)
}

// BuildMatch assembles a standardized pre-match record from one raw event.
// An event with zero bookmakers yields nil odds fields, not an error.
func BuildMatch(ev oddsapi.Event, sportKey string) Match {
	s := sport.FromProviderKey(sportKey)
	title := titleparse.Parse(ev.SportTitle)
	odds := Aggregate(ev.Bookmakers, ev.HomeTeam, ev.AwayTeam)

	return Match{
		ID:        MatchID(s, ev.ID),
		Sport:     s,
		League:    title.League,
		Country:   title.Country,
		HomeTeam:  ev.HomeTeam,
		AwayTeam:  ev.AwayTeam,
		StartTime: ev.CommenceTime,
		HomeOdds:  odds.Home,
		DrawOdds:  odds.Draw,
		AwayOdds:  odds.Away,
	}
}

// BuildLiveMatch assembles a standardized record for an in-play listing,
// carrying score, status, and clock on top of the pre-match fields.
func BuildLiveMatch(ev oddsapi.LiveEvent, sportKey string) Match {
	m := BuildMatch(ev.Event, sportKey)
	m.Status = liveStatus(ev.Status)
	if ev.Scores != nil {
		m.Score = Score{Home: ev.Scores.Home, Away: ev.Scores.Away}
	}
	if ev.Time != nil {
		m.Time = &Clock{Minutes: ev.Time.Minutes, Seconds: ev.Time.Seconds, Period: ev.Time.Period}
	}
	return m
}

// liveStatus maps the provider's status vocabulary onto ours. Unrecognized
// values are treated as not started rather than dropped.
func liveStatus(raw string) Status {
	switch raw {
	case "in_play", "live":
		return StatusInPlay
	case "ended", "completed", "finished":
		return StatusEnded
	default:
		return StatusNotStarted
	}
}
