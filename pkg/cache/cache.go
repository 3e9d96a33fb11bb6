// Package cache stores rendered artifacts keyed by a content hash.
//
// Only Graphviz output (SVG, PNG) is cached. Reconciliation is always
// recomputed from the snapshot, so a cache entry can never carry stale
// topology: the key covers the exact DOT text and output format.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.ArtifactKey("svg", dotText)
//	if data, ok, _ := c.Get(ctx, key); ok { ... }
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired and unreadable entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
