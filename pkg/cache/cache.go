// Package cache provides pluggable byte caches for external query results.
//
// The primary consumer is the merge-base query layer: the merge-base of two
// fixed commit ids is immutable, so results can be cached indefinitely and
// shared across runs. Backends:
//   - FileCache: per-user cache directory, for CLI usage
//   - RedisCache: shared backend for long-running server deployments
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
