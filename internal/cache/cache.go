// Package cache implements the Ticket Cache: an in-memory LRU tier and
// a file-backed tier, both keyed by (platform, ticket_id) and both
// returning deep copies so no caller can mutate a cached Ticket out
// from under another (SPEC_FULL.md §4.6).
package cache

import (
	"context"
	"time"

	"github.com/amiad5298/ingot/pkg/models"
)

// Stats summarizes a cache's behavior since construction, exposed by
// the introspection server.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// Cache stores Normalized Tickets keyed by (platform, ticket_id) with
// per-entry TTL expiry.
type Cache interface {
	// Get returns a deep copy of the cached ticket and true, or
	// (nil, false, nil) on a miss or expired entry. FileCache treats an
	// unreadable or corrupt entry file as a miss and returns a nil error.
	Get(ctx context.Context, key models.CacheKey) (*models.Ticket, bool, error)
	// Set stores a deep copy of ticket under key with the given TTL.
	Set(ctx context.Context, key models.CacheKey, ticket *models.Ticket, ttl time.Duration) error
	// Delete removes key if present; deleting an absent key is not an error.
	Delete(ctx context.Context, key models.CacheKey) error
	// Stats returns a snapshot of hit/miss/eviction counters.
	Stats() Stats
}
