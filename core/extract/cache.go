package extract

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"plcsync/core/entity"
	"plcsync/core/storage"
)

// SnapshotCache memoizes extracted snapshots by source reference with a
// TTL. The HTTP preview surface hits the same sources repeatedly; the
// cache bounds re-extraction and singleflight collapses concurrent misses
// for one source into a single extraction.
type SnapshotCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
}

type cacheEntry struct {
	set   *entity.EntitySet
	built time.Time
}

// NewSnapshotCache creates a cache with the given TTL. A zero TTL disables
// caching: every Get extracts fresh.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the snapshot for a source reference, extracting it if the
// cached copy is missing or expired.
func (c *SnapshotCache) Get(ctx context.Context, client storage.Client, ref string) (*entity.EntitySet, error) {
	if c.ttl == 0 {
		return Resolve(ctx, client, ref)
	}

	// Fast path: fresh entry.
	c.mu.RLock()
	entry, exists := c.entries[ref]
	c.mu.RUnlock()
	if exists && time.Since(entry.built) <= c.ttl {
		return entry.set, nil
	}

	// Slow path: extract once per reference, however many callers miss.
	result, err, _ := c.sf.Do(ref, func() (interface{}, error) {
		c.mu.RLock()
		entry, exists := c.entries[ref]
		c.mu.RUnlock()
		if exists && time.Since(entry.built) <= c.ttl {
			return entry.set, nil
		}

		set, err := Resolve(ctx, client, ref)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[ref] = &cacheEntry{set: set, built: time.Now()}
		c.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*entity.EntitySet), nil
}

// Invalidate drops the cached snapshot for a source reference.
func (c *SnapshotCache) Invalidate(ref string) {
	c.mu.Lock()
	delete(c.entries, ref)
	c.mu.Unlock()
}
