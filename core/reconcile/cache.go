package reconcile

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds values built on demand and kept until their TTL expires.
// Concurrent misses on the same key share one build.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry[T]
	sf      singleflight.Group
	ttl     time.Duration
}

// NewCache returns a cache whose entries live for ttl. A zero ttl disables caching.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]*CacheEntry[T]),
		ttl:     ttl,
	}
}

// GetOrBuild returns the cached value for key, or builds a new one if it doesn't exist or
// has expired. Uses singleflight to prevent cache stampedes.
func (c *Cache[T]) GetOrBuild(key string, build func() (T, error)) (T, error) {
	// Fast path: check if entry exists and is fresh
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if exists && !entry.IsExpired() {
		return entry.Value, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		entry, exists := c.entries[key]
		c.mu.RUnlock()

		if exists && !entry.IsExpired() {
			return entry, nil
		}

		value, err := build()
		if err != nil {
			return nil, err
		}

		fresh := &CacheEntry[T]{Value: value, Built: time.Now(), TTL: c.ttl}
		c.mu.Lock()
		c.entries[key] = fresh
		c.mu.Unlock()

		return fresh, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result.(*CacheEntry[T]).Value, nil
}

// Invalidate removes the entry for key from the cache.
// This is useful for testing or forcing a rebuild.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
