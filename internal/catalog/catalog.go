// Package catalog owns the in-memory cache of the provider's supported
// sport list: the engine's only shared mutable state. The cache fills
// lazily on first use and refreshes by replacing the whole snapshot with a
// single atomic pointer swap, so readers never observe a partial list and
// no per-field locking is needed.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puntaiq/odds-engine/internal/oddsapi"
)

// DefaultTTL is how long a fetched sport list stays fresh.
const DefaultTTL = time.Hour

// Fetcher loads the sport list from upstream.
type Fetcher func(ctx context.Context) ([]oddsapi.SportInfo, error)

type snapshot struct {
	sports    []oddsapi.SportInfo
	fetchedAt time.Time
}

// Cache is the lazily populated, atomically swapped sport-catalog cache.
// The zero value is not usable; use New.
type Cache struct {
	fetch Fetcher
	ttl   time.Duration
	now   func() time.Time

	mu  sync.Mutex // serializes refreshes; readers never take it
	cur atomic.Pointer[snapshot]
}

// New creates a catalog cache around fetch. ttl <= 0 uses DefaultTTL.
func New(fetch Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{fetch: fetch, ttl: ttl, now: time.Now}
}

// Sports returns the cached sport list, refreshing it when stale or empty.
// When a refresh fails but a previous snapshot exists, the stale snapshot
// is returned instead of the error.
func (c *Cache) Sports(ctx context.Context) ([]oddsapi.SportInfo, error) {
	if snap := c.cur.Load(); snap != nil && c.now().Sub(snap.fetchedAt) < c.ttl {
		return snap.sports, nil
	}

	if err := c.Refresh(ctx); err != nil {
		if snap := c.cur.Load(); snap != nil {
			return snap.sports, nil
		}
		return nil, err
	}
	return c.cur.Load().sports, nil
}

// Refresh fetches the sport list and replaces the snapshot wholesale.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another refresh may have completed while we waited on the lock.
	if snap := c.cur.Load(); snap != nil && c.now().Sub(snap.fetchedAt) < c.ttl {
		return nil
	}

	sports, err := c.fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh sport catalog: %w", err)
	}
	c.cur.Store(&snapshot{sports: sports, fetchedAt: c.now()})
	return nil
}

// Invalidate drops the current snapshot; the next read refetches.
func (c *Cache) Invalidate() {
	c.cur.Store(nil)
}
