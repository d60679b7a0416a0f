// ABOUTME: Bounded LRU cache implementation backed by hashicorp/golang-lru
// ABOUTME: Safe for concurrent use; eviction keeps the image cache from growing unboundedly

package lru

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the entry bound used for the image data-URI cache.
const DefaultSize = 1000

// LRUCache implements the Cache interface over a fixed-size LRU.
type LRUCache struct {
	entries *lru.Cache[string, []byte]
}

// NewLRUCache creates a cache holding at most size entries; size <= 0
// uses DefaultSize.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultSize
	}

	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}

	return &LRUCache{entries: entries}, nil
}

// Get retrieves a value; a miss returns nil with no error.
func (c *LRUCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.entries.Get(key)
	if !ok {
		return nil, nil
	}

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Set stores a value, evicting the least recently used entry when full.
func (c *LRUCache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries.Add(key, stored)
	return nil
}

// Delete removes a key from the cache.
func (c *LRUCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.entries.Remove(key)
	return nil
}
