package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local ListingCache.
type MemoryCache struct {
	mu       sync.RWMutex
	items    map[string]item
	versions map[string]int64
	now      func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]item), versions: make(map[string]int64), now: time.Now}
}

// Get implements ListingCache. Expired entries count as misses.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[key]
	if !ok || (!it.expiresAt.IsZero() && c.now().After(it.expiresAt)) {
		return nil, false, nil
	}
	return append([]byte(nil), it.value...), true, nil
}

// Version implements ListingCache.
func (c *MemoryCache) Version(_ context.Context, key string) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[key], nil
}

// Set implements ListingCache. A zero ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration, version int64) (bool, error) {
	it := item{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[key] != version {
		return false, nil
	}
	c.items[key] = it
	return true, nil
}

// Invalidate implements ListingCache.
func (c *MemoryCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
		c.versions[k]++
	}
	c.mu.Unlock()
	return nil
}
