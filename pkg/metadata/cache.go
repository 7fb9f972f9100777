package metadata

import (
	"context"
	"strings"
	"sync"
	"time"
)

// loader fetches a metadata value on cache miss.
type loader func(ctx context.Context) (any, error)

// Cache caches metadata lookups against the external store. Entries
// expire on a TTL and the cache is bounded; invalidation is explicit
// rather than event-driven, since the store does not push changes.
type Cache struct {
	cache   map[string]*cacheEntry
	mu      sync.RWMutex
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// CacheConfig configures the metadata cache
type CacheConfig struct {
	MaxSize int
	TTL     time.Duration
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxSize: 500,
		TTL:     10 * time.Minute,
	}
}

// NewCache creates a new metadata cache
func NewCache(config CacheConfig) *Cache {
	return &Cache{
		cache:   make(map[string]*cacheEntry),
		maxSize: config.MaxSize,
		ttl:     config.TTL,
	}
}

// getOrLoad returns the cached value for key, loading and caching it on
// miss or expiry.
func (c *Cache) getOrLoad(ctx context.Context, key string, load loader) (any, error) {
	c.mu.RLock()
	entry, exists := c.cache[key]
	c.mu.RUnlock()

	if exists && time.Now().Before(entry.expiresAt) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return entry.value, nil
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	value, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict half the entries when at capacity
	if len(c.cache) >= c.maxSize {
		c.evictHalf()
	}

	c.cache[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}

	return value, nil
}

// evictHalf removes half the cache entries (must be called with lock held)
func (c *Cache) evictHalf() {
	count := 0
	target := len(c.cache) / 2
	for key := range c.cache {
		delete(c.cache, key)
		count++
		if count >= target {
			break
		}
	}
}

// Invalidate removes a specific key from the cache
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

// InvalidatePrefix removes all keys with the given prefix, including a
// key equal to the prefix itself.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
		}
	}
	c.mu.Unlock()
}

// Clear removes all entries from the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	c.cache = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// CacheStats returns cache statistics
type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}

func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Size:   len(c.cache),
		Hits:   c.hits,
		Misses: c.misses,
	}
}
