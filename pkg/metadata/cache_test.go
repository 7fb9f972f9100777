package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func countingLoader(value any) (loader, *int) {
	calls := 0
	return func(ctx context.Context) (any, error) {
		calls++
		return value, nil
	}, &calls
}

func TestCacheGetOrLoad_LoadsOnceAndServesHits(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())
	load, calls := countingLoader("cached")

	for i := 0; i < 3; i++ {
		value, err := cache.getOrLoad(context.Background(), "key", load)
		assert.NoError(t, err)
		assert.Equal(t, "cached", value)
	}

	assert.Equal(t, 1, *calls)
	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCacheGetOrLoad_LoaderErrorIsNotCached(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())

	calls := 0
	failing := func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("store unavailable")
		}
		return "recovered", nil
	}

	_, err := cache.getOrLoad(context.Background(), "key", failing)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Stats().Size)

	value, err := cache.getOrLoad(context.Background(), "key", failing)
	assert.NoError(t, err)
	assert.Equal(t, "recovered", value)
	assert.Equal(t, 2, calls)
}

func TestCacheGetOrLoad_ExpiredEntryReloads(t *testing.T) {
	cache := NewCache(CacheConfig{MaxSize: 10, TTL: time.Millisecond})
	load, calls := countingLoader("v")

	_, err := cache.getOrLoad(context.Background(), "key", load)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = cache.getOrLoad(context.Background(), "key", load)
	assert.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestCacheInvalidate_ForcesReload(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())
	load, calls := countingLoader("v")

	_, _ = cache.getOrLoad(context.Background(), "key", load)
	cache.Invalidate("key")
	_, _ = cache.getOrLoad(context.Background(), "key", load)

	assert.Equal(t, 2, *calls)
}

func TestCacheInvalidatePrefix_RemovesMatchingKeysOnly(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())
	load, _ := countingLoader("v")

	_, _ = cache.getOrLoad(context.Background(), "fields:contact", load)
	_, _ = cache.getOrLoad(context.Background(), "fields:participant", load)
	_, _ = cache.getOrLoad(context.Background(), "location_types", load)

	cache.InvalidatePrefix("fields:")

	assert.Equal(t, 1, cache.Stats().Size)
}

func TestCacheInvalidatePrefix_RemovesKeyEqualToPrefix(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())
	load, calls := countingLoader("v")

	_, _ = cache.getOrLoad(context.Background(), "location_types", load)
	cache.InvalidatePrefix("location_types")

	assert.Equal(t, 0, cache.Stats().Size)

	_, _ = cache.getOrLoad(context.Background(), "location_types", load)
	assert.Equal(t, 2, *calls)
}

func TestCacheClear_EmptiesEverything(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())
	load, _ := countingLoader("v")

	_, _ = cache.getOrLoad(context.Background(), "a", load)
	_, _ = cache.getOrLoad(context.Background(), "b", load)
	cache.Clear()

	assert.Equal(t, 0, cache.Stats().Size)
}

func TestCacheEviction_BoundsSize(t *testing.T) {
	cache := NewCache(CacheConfig{MaxSize: 4, TTL: time.Minute})
	load, _ := countingLoader("v")

	keys := []string{"a", "b", "c", "d", "e", "f"}
	for _, key := range keys {
		_, _ = cache.getOrLoad(context.Background(), key, load)
	}

	assert.LessOrEqual(t, cache.Stats().Size, 4)
}
