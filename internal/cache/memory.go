package cache

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

// MemoryCache is the in-process LRU tier, backed by
// hashicorp/golang-lru. Every Get/Set deep-copies the Ticket crossing
// the boundary — the lru.Cache itself is safe for concurrent use, but
// that alone does not stop two goroutines from racing on the same
// *Ticket's fields, so ownership never leaves this package uncopied.
type MemoryCache struct {
	lru *lru.Cache[string, models.CacheEntry]
	now func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewMemoryCache builds a MemoryCache holding at most maxSize entries,
// evicting least-recently-used entries once full.
func NewMemoryCache(maxSize int) (*MemoryCache, error) {
	if maxSize <= 0 {
		return nil, ticketerrors.NewCacheConfiguration("max_size must be positive")
	}
	c := &MemoryCache{now: time.Now}
	l, err := lru.NewWithEvict[string, models.CacheEntry](maxSize, func(string, models.CacheEntry) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, ticketerrors.NewCacheConfiguration(err.Error())
	}
	c.lru = l
	return c, nil
}

// WithClock overrides the time source for deterministic TTL tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, key models.CacheKey) (*models.Ticket, bool, error) {
	k := key.String()
	entry, ok := c.lru.Get(k)
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}
	if entry.IsExpired(c.now()) {
		c.lru.Remove(k)
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return entry.Ticket.Clone(), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key models.CacheKey, ticket *models.Ticket, ttl time.Duration) error {
	now := c.now()
	entry := models.CacheEntry{
		Ticket:    ticket.Clone(),
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	c.lru.Add(key.String(), entry)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key models.CacheKey) error {
	c.lru.Remove(key.String())
	return nil
}

func (c *MemoryCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.lru.Len(),
	}
}
