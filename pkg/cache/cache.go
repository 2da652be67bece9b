// Package cache stores rendered graph artifacts.
//
// Rendering a DOT graph with Graphviz is the slowest step of a dirdeps run.
// Because DOT output is deterministic, a rendered image can be keyed by the
// hash of the DOT text and reused until the graph changes.
//
// Four backends implement [Cache]:
//   - [FileCache] for CLI use, one JSON file per entry below a directory
//   - [MemoryCache] for a single server, an LRU in process memory
//   - [RedisCache] for servers sharing artifacts across instances
//   - [NullCache] when caching is disabled
//
// Cache keys come from a [Keyer]; wrap one in [NewScopedKeyer] to keep
// artifacts of different tool versions apart.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
