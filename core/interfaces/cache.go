// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import "context"

// Cache defines the interface for cache operations.
// Implementations can be an in-process LRU, Redis, or any other
// caching solution; all in-scope uses are process-local.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns nil with no error on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
