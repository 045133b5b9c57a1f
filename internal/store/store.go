// Package store persists normalized match snapshots: durably to Postgres
// and as a hot JSON blob in Redis under cache:{sport}:odds:latest, the same
// per-sport cache layout the platform's original updater wrote. Either
// sink may be absent; the store writes to whatever it has.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/puntaiq/odds-engine/internal/db"
	"github.com/puntaiq/odds-engine/internal/normalize"
	"github.com/puntaiq/odds-engine/internal/sport"
)

// maxSnapshotRows bounds one latest-snapshot read from Postgres.
const maxSnapshotRows = 200

// SnapshotStore writes and reads normalized match snapshots.
type SnapshotStore struct {
	pool   *db.Pool      // nil disables Postgres
	rdb    *redis.Client // nil disables Redis
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a snapshot store. Either sink may be nil.
func New(pool *db.Pool, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{pool: pool, rdb: rdb, ttl: ttl, logger: logger}
}

// Enabled reports whether at least one sink is configured.
func (s *SnapshotStore) Enabled() bool {
	return s.pool != nil || s.rdb != nil
}

// CacheConfigured reports whether the Redis hot cache is wired.
func (s *SnapshotStore) CacheConfigured() bool {
	return s.rdb != nil
}

// PingCache verifies Redis connectivity.
func (s *SnapshotStore) PingCache(ctx context.Context) error {
	if s.rdb == nil {
		return fmt.Errorf("redis is not configured")
	}
	return s.rdb.Ping(ctx).Err()
}

func cacheKey(sp sport.Sport) string {
	return fmt.Sprintf("cache:%s:odds:latest", sp)
}

// SaveSnapshot persists one sport's normalized match set. Postgres rows are
// upserted by match id; Redis holds the whole set as one expiring blob.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, sp sport.Sport, matches []normalize.Match) error {
	fetchedAt := time.Now().UTC()

	if s.pool != nil {
		for _, m := range matches {
			_, err := s.pool.Exec(ctx, "upsert_match_snapshot",
				m.ID, string(m.Sport), m.League, m.Country,
				m.HomeTeam, m.AwayTeam, m.StartTime,
				m.HomeOdds, m.DrawOdds, m.AwayOdds,
				m.Score.Home, m.Score.Away, string(m.Status), fetchedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert snapshot %s: %w", m.ID, err)
			}
		}
	}

	if s.rdb != nil {
		blob, err := json.Marshal(matches)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		if err := s.rdb.Set(ctx, cacheKey(sp), blob, s.ttl).Err(); err != nil {
			// Redis is a hot cache, not the system of record.
			s.logger.Warn("redis snapshot write failed", "sport", sp, "error", err)
		}
	}

	return nil
}

// LatestSnapshot reads the latest stored match set for a sport, preferring
// the Redis hot cache and falling back to Postgres. ok is false when
// neither sink has data.
func (s *SnapshotStore) LatestSnapshot(ctx context.Context, sp sport.Sport) ([]normalize.Match, bool, error) {
	if s.rdb != nil {
		blob, err := s.rdb.Get(ctx, cacheKey(sp)).Bytes()
		switch {
		case err == nil:
			var matches []normalize.Match
			if jerr := json.Unmarshal(blob, &matches); jerr != nil {
				return nil, false, fmt.Errorf("decode cached snapshot: %w", jerr)
			}
			return matches, true, nil
		case err != redis.Nil:
			s.logger.Warn("redis snapshot read failed", "sport", sp, "error", err)
		}
	}

	if s.pool == nil {
		return nil, false, nil
	}

	rows, err := s.pool.Query(ctx, "latest_match_snapshots", string(sp), maxSnapshotRows)
	if err != nil {
		return nil, false, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var matches []normalize.Match
	for rows.Next() {
		var m normalize.Match
		var sportStr, status string
		if err := rows.Scan(
			&m.ID, &sportStr, &m.League, &m.Country,
			&m.HomeTeam, &m.AwayTeam, &m.StartTime,
			&m.HomeOdds, &m.DrawOdds, &m.AwayOdds,
			&m.Score.Home, &m.Score.Away, &status,
		); err != nil {
			return nil, false, fmt.Errorf("scan snapshot row: %w", err)
		}
		m.Sport = sport.Sport(sportStr)
		m.Status = normalize.Status(status)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return matches, len(matches) > 0, nil
}
