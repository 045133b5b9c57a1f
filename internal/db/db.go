// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking for the snapshot store.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/puntaiq/odds-engine/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. cfg.DatabaseURL must be
// set; callers treat an unset URL as "snapshot persistence disabled" and
// never get here.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the snapshot store
// uses. Prepared statements eliminate parse overhead on every write cycle.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Snapshot upsert, keyed by the deterministic match id.
		"upsert_match_snapshot": `
			INSERT INTO match_snapshots (
				id, sport, league, country, home_team, away_team,
				start_time, home_odds, draw_odds, away_odds,
				score_home, score_away, status, fetched_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			ON CONFLICT (id) DO UPDATE SET
				league = EXCLUDED.league,
				country = EXCLUDED.country,
				home_team = EXCLUDED.home_team,
				away_team = EXCLUDED.away_team,
				start_time = EXCLUDED.start_time,
				home_odds = EXCLUDED.home_odds,
				draw_odds = EXCLUDED.draw_odds,
				away_odds = EXCLUDED.away_odds,
				score_home = EXCLUDED.score_home,
				score_away = EXCLUDED.score_away,
				status = EXCLUDED.status,
				fetched_at = EXCLUDED.fetched_at`,

		// Latest persisted snapshot per sport.
		"latest_match_snapshots": `
			SELECT id, sport, league, country, home_team, away_team,
			       start_time, home_odds, draw_odds, away_odds,
			       score_home, score_away, status
			FROM match_snapshots
			WHERE sport = $1
			ORDER BY start_time
			LIMIT $2`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
