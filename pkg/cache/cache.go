// Package cache memoizes rendered artifacts.
//
// The HTTP server sees the same network posted repeatedly while a user
// edits a neighbouring file; rendering is deterministic for a given input
// and option set, so the result can be reused. Keys are content hashes
// produced by a [Keyer]; values are the rendered bytes.
//
// [NullCache] disables caching. [MemoryCache] is a bounded in-process
// store with per-entry expiry.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a cached rendering.
const TTLArtifact = 10 * time.Minute

// Cache stores byte values by key.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key if present.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}
