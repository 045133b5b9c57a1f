package engine

import (
	"context"

	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/sport"
)

// AllSports asks GetLiveScores to poll every active sport.
const AllSports = "all"

// GetLiveScores returns standardized matches currently in play for one
// sport key, or across every active sport when given AllSports. Polling
// cadence is the caller's responsibility; each call is one poll.
func (e *Engine) GetLiveScores(ctx context.Context, sportKeyOrAll string) []normalize.Match {
	if sportKeyOrAll == AllSports {
		return e.liveAll(ctx)
	}
	return e.liveOne(ctx, sportKeyOrAll)
}

// liveOne polls a single sport through the resilience controller: failure
// or an empty payload degrades to the fallback live set.
func (e *Engine) liveOne(ctx context.Context, sportKey string) []normalize.Match {
	s := sport.FromProviderKey(sportKey)

	events, err := e.feed.LiveEvents(ctx, sportKey, e.liveRegion())
	if err != nil {
		e.logger.Info("substituting fallback live matches",
			"sport", s, "sport_key", sportKey, "reason", failReason(err))
		return e.fb.LiveMatches(s)
	}
	if len(events) == 0 {
		e.logger.Info("substituting fallback live matches",
			"sport", s, "sport_key", sportKey, "reason", "empty_result")
		return e.fb.LiveMatches(s)
	}

	matches := make([]normalize.Match, 0, len(events))
	for _, ev := range events {
		m := normalize.BuildLiveMatch(ev, sportKey)
		if m.Status == normalize.StatusInPlay {
			matches = append(matches, m)
		}
	}
	return matches
}

// liveAll resolves the active sport list and polls each in turn,
// sequentially. One sport failing contributes nothing and never aborts the
// aggregate poll; only a total outage degrades to fallback data.
func (e *Engine) liveAll(ctx context.Context) []normalize.Match {
	keys := e.activeSportKeys(ctx)

	var merged []normalize.Match
	failures := 0
	for i, key := range keys {
		if i > 0 && !e.pause(ctx) {
			break
		}
		events, err := e.feed.LiveEvents(ctx, key, e.liveRegion())
		if err != nil {
			e.logger.Info("skipping sport in live poll",
				"sport_key", key, "reason", failReason(err))
			failures++
			continue
		}
		for _, ev := range events {
			m := normalize.BuildLiveMatch(ev, key)
			if m.Status == normalize.StatusInPlay {
				merged = append(merged, m)
			}
		}
	}

	if len(merged) == 0 && failures > 0 && failures == len(keys) {
		e.logger.Info("all sports failed in live poll, substituting fallback")
		for _, s := range []sport.Sport{sport.Football, sport.Basketball, sport.Tennis} {
			merged = append(merged, e.fb.LiveMatches(s)...)
		}
	}
	return merged
}

// activeSportKeys resolves the provider keys to poll, preferring the live
// catalog and degrading to the featured list.
func (e *Engine) activeSportKeys(ctx context.Context) []string {
	sports, err := e.catalog.Sports(ctx)
	if err != nil || len(sports) == 0 {
		return featuredKeys
	}
	keys := make([]string, 0, len(sports))
	for _, si := range sports {
		if si.Active {
			keys = append(keys, si.Key)
		}
	}
	if len(keys) == 0 {
		return featuredKeys
	}
	return keys
}
