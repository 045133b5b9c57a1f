// Package engine composes the feed client, normalization, and fallback
// catalog into the downstream interface every consumer uses. It is the
// single place where feed failure is absorbed: no public operation here
// ever returns an error, and in the worst case callers get clearly tagged
// synthetic data instead.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/puntaiq/odds-engine/internal/catalog"
	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/oddsapi"
	"github.com/puntaiq/odds-engine/internal/sport"
)

// DefaultPollDelay spaces sequential per-sport fetches in multi-sport
// operations, on top of the client's own request limiter.
const DefaultPollDelay = 300 * time.Millisecond

// Feed is the raw feed client surface the engine consumes.
type Feed interface {
	Sports(ctx context.Context) ([]oddsapi.SportInfo, error)
	Events(ctx context.Context, sportKey string, regions, markets []string) ([]oddsapi.Event, error)
	LiveEvents(ctx context.Context, sportKey, region string) ([]oddsapi.LiveEvent, error)
}

// FallbackSource supplies the synthetic data substituted on failure. It is
// a parameter so the catalog is swappable in tests.
type FallbackSource interface {
	Matches(s sport.Sport) []normalize.Match
	LiveMatches(s sport.Sport) []normalize.Match
}

// SportDescriptor is one supported sport exposed downstream, carrying both
// the provider key and the internal sport value.
type SportDescriptor struct {
	Key          string      `json:"key"`
	Sport        sport.Sport `json:"sport"`
	Group        string      `json:"group"`
	Title        string      `json:"title"`
	Active       bool        `json:"active"`
	HasOutrights bool        `json:"has_outrights"`
}

// Options tune the engine; zero values get defaults.
type Options struct {
	Regions    []string // provider region codes for odds requests
	CatalogTTL time.Duration
	PollDelay  time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// Engine is the match and odds normalization engine.
type Engine struct {
	feed      Feed
	fb        FallbackSource
	catalog   *catalog.Cache
	regions   []string
	pollDelay time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an engine around a feed and a fallback source.
func New(feed Feed, fb FallbackSource, opts Options) *Engine {
	if len(opts.Regions) == 0 {
		opts.Regions = []string{sport.DefaultRegion}
	}
	if opts.PollDelay <= 0 {
		opts.PollDelay = DefaultPollDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		feed:      feed,
		fb:        fb,
		catalog:   catalog.New(feed.Sports, opts.CatalogTTL),
		regions:   opts.Regions,
		pollDelay: opts.PollDelay,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// Degraded reports whether a match set is fallback data rather than real
// upstream data.
func Degraded(matches []normalize.Match) bool {
	return len(matches) > 0 && matches[0].Status == normalize.StatusQuotaLimited
}

// featuredKeys are the sports polled when the caller asks for "everything"
// and for team search; they mirror the sport list the original cache
// updater cycled through.
var featuredKeys = []string{
	"soccer", "basketball", "americanfootball_nfl", "tennis", "icehockey_nhl",
}

// --------------------------------------------------------------------------
// Downstream interface
// --------------------------------------------------------------------------

// GetTodayEvents returns today's standardized matches for a sport key.
func (e *Engine) GetTodayEvents(ctx context.Context, sportKey string) []normalize.Match {
	matches := e.resolveEvents(ctx, sportKey, e.regions)
	if Degraded(matches) {
		return matches
	}
	start := e.now().UTC().Truncate(24 * time.Hour)
	return filterWindow(matches, start, start.Add(24*time.Hour))
}

// GetUpcomingEvents returns standardized matches starting within days of
// startDate (nil means now). regions, when given, are user-facing names
// translated to provider codes.
func (e *Engine) GetUpcomingEvents(ctx context.Context, sportKey string, days int, startDate *time.Time, regions []string) []normalize.Match {
	if days <= 0 {
		days = 7
	}
	regs := e.regions
	if len(regions) > 0 {
		regs = make([]string, 0, len(regions))
		for _, r := range regions {
			regs = append(regs, sport.RegionCode(r))
		}
	}

	matches := e.resolveEvents(ctx, sportKey, regs)
	if Degraded(matches) {
		return matches
	}
	start := e.now().UTC()
	if startDate != nil {
		start = startDate.UTC()
	}
	return filterWindow(matches, start, start.Add(time.Duration(days)*24*time.Hour))
}

// GetSupportedSports returns the provider's sport list via the catalog
// cache, degrading to a static internal list when upstream is unreachable.
func (e *Engine) GetSupportedSports(ctx context.Context) []SportDescriptor {
	sports, err := e.catalog.Sports(ctx)
	if err != nil {
		e.logger.Info("sport catalog unavailable, using static list", "reason", failReason(err))
		return defaultDescriptors()
	}
	out := make([]SportDescriptor, 0, len(sports))
	for _, si := range sports {
		out = append(out, SportDescriptor{
			Key:          si.Key,
			Sport:        sport.FromProviderKey(si.Key),
			Group:        si.Group,
			Title:        si.Title,
			Active:       si.Active,
			HasOutrights: si.HasOutrights,
		})
	}
	return out
}

// SearchEventsByTeam scans the featured sports for matches whose home or
// away team name contains the substring, case-insensitively.
func (e *Engine) SearchEventsByTeam(ctx context.Context, teamSubstring string) []normalize.Match {
	q := strings.ToLower(strings.TrimSpace(teamSubstring))
	if q == "" {
		return nil
	}

	var out []normalize.Match
	for i, key := range featuredKeys {
		if i > 0 && !e.pause(ctx) {
			break
		}
		for _, m := range e.resolveEvents(ctx, key, e.regions) {
			if strings.Contains(strings.ToLower(m.HomeTeam), q) ||
				strings.Contains(strings.ToLower(m.AwayTeam), q) {
				out = append(out, m)
			}
		}
	}
	return out
}

// --------------------------------------------------------------------------
// Resilience controller
// --------------------------------------------------------------------------

// resolveEvents wraps one feed events call: a non-empty payload passes
// through normalized; every failure and the empty payload produce the
// fallback set for the sport plus a single informational log line.
func (e *Engine) resolveEvents(ctx context.Context, sportKey string, regions []string) []normalize.Match {
	s := sport.FromProviderKey(sportKey)

	events, err := e.feed.Events(ctx, sportKey, regions, []string{oddsapi.MarketH2H})
	if err != nil {
		e.logger.Info("substituting fallback matches",
			"sport", s, "sport_key", sportKey, "reason", failReason(err))
		return e.fb.Matches(s)
	}
	if len(events) == 0 {
		e.logger.Info("substituting fallback matches",
			"sport", s, "sport_key", sportKey, "reason", "empty_result")
		return e.fb.Matches(s)
	}

	matches := make([]normalize.Match, 0, len(events))
	for _, ev := range events {
		matches = append(matches, normalize.BuildMatch(ev, sportKey))
	}
	return matches
}

// pause waits the inter-sport poll delay; false means the context ended.
func (e *Engine) pause(ctx context.Context) bool {
	t := time.NewTimer(e.pollDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (e *Engine) liveRegion() string {
	if len(e.regions) > 0 {
		return e.regions[0]
	}
	return sport.DefaultRegion
}

func filterWindow(matches []normalize.Match, start, end time.Time) []normalize.Match {
	out := make([]normalize.Match, 0, len(matches))
	for _, m := range matches {
		if !m.StartTime.Before(start) && m.StartTime.Before(end) {
			out = append(out, m)
		}
	}
	return out
}

// failReason extracts the feed failure reason for log lines.
func failReason(err error) string {
	var fe *oddsapi.FeedError
	if errors.As(err, &fe) {
		return string(fe.Reason)
	}
	return "error"
}

func defaultDescriptors() []SportDescriptor {
	out := make([]SportDescriptor, 0, len(sport.All))
	for _, s := range sport.All {
		out = append(out, SportDescriptor{
			Key:    sport.ToProviderKey(s),
			Sport:  s,
			Title:  titleCase(string(s)),
			Active: true,
		})
	}
	return out
}

func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
