// Package ingest runs snapshot cycles: fetch each configured sport through
// the engine, then persist the normalized result. Sports are processed
// sequentially, never fanned out, so the upstream quota discipline the
// feed client enforces stays intact.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/puntaiq/odds-engine/internal/engine"
	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/sport"
	"github.com/puntaiq/odds-engine/internal/store"
)

// Result summarizes one snapshot cycle.
type Result struct {
	SportsRequested int
	SportsFresh     int // real upstream data
	SportsDegraded  int // fallback data stored
	MatchesStored   int
	Errors          []string
	Duration        time.Duration
}

// Summary renders the result as one log-friendly line.
func (r Result) Summary() string {
	return fmt.Sprintf("sports=%d fresh=%d degraded=%d matches=%d errors=%d in %s",
		r.SportsRequested, r.SportsFresh, r.SportsDegraded,
		r.MatchesStored, len(r.Errors), r.Duration.Round(time.Millisecond))
}

// RunSnapshot fetches upcoming events for each sport and persists them.
// Engine calls never fail; only store writes can contribute errors, and one
// sport's write failure never stops the cycle.
func RunSnapshot(ctx context.Context, eng *engine.Engine, st *store.SnapshotStore, sports []sport.Sport, days int, logger *slog.Logger) Result {
	start := time.Now()
	var result Result
	result.SportsRequested = len(sports)

	for _, sp := range sports {
		matches := eng.GetUpcomingEvents(ctx, sport.ToProviderKey(sp), days, nil, nil)
		record(&result, matches)

		if err := st.SaveSnapshot(ctx, sp, matches); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", sp, err))
			continue
		}
		result.MatchesStored += len(matches)
		logger.Info("snapshot stored", "sport", sp, "matches", len(matches),
			"degraded", engine.Degraded(matches))
	}

	result.Duration = time.Since(start)
	return result
}

// RunLive snapshots the current in-play set across all active sports.
func RunLive(ctx context.Context, eng *engine.Engine, st *store.SnapshotStore, logger *slog.Logger) Result {
	start := time.Now()
	var result Result

	matches := eng.GetLiveScores(ctx, engine.AllSports)

	// Group by sport so each stored blob stays per-sport like the
	// pre-match snapshots.
	grouped := make(map[sport.Sport][]normalize.Match)
	for _, m := range matches {
		grouped[m.Sport] = append(grouped[m.Sport], m)
	}

	result.SportsRequested = len(grouped)
	for sp, set := range grouped {
		record(&result, set)
		if err := st.SaveSnapshot(ctx, sp, set); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", sp, err))
			continue
		}
		result.MatchesStored += len(set)
		logger.Info("live snapshot stored", "sport", sp, "matches", len(set))
	}

	result.Duration = time.Since(start)
	return result
}

func record(r *Result, matches []normalize.Match) {
	if engine.Degraded(matches) {
		r.SportsDegraded++
	} else {
		r.SportsFresh++
	}
}

// ParseSports converts a comma-joined sport list into internal sports.
func ParseSports(raw string) []sport.Sport {
	if raw == "" {
		return []sport.Sport{sport.Football, sport.Basketball, sport.Tennis, sport.AmericanFootball, sport.IceHockey}
	}
	var out []sport.Sport
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, sport.Sport(trimmed))
		}
	}
	return out
}
