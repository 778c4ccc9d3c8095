package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type prefKey string

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	cache := NewInMemoryCacheManager[prefKey, string]("prefs", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "ui.language", "en", NoExpiration)

	got, ok := cache.Get(ctx, "ui.language")
	require.True(t, ok)
	require.Equal(t, "en", got)

	hits, misses := cache.Stats()
	require.Equal(t, int64(1), hits)
	require.Zero(t, misses)
}

func TestInMemoryCacheManager_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("counts", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Zero(t, got)

	_, misses := cache.Stats()
	require.Equal(t, int64(1), misses)
}

func TestInMemoryCacheManager_WrongTypeIsMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("prefs", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("session.params", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "session.params")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("prefs", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("prefs", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "a", "1", NoExpiration)
	cache.Set(ctx, "b", "2", NoExpiration)
	cache.Set(ctx, "c", "3", NoExpiration)

	require.NoError(t, cache.Delete(ctx))
	require.NoError(t, cache.Delete(ctx, "a", "missing"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	require.True(t, ok)

	require.NoError(t, cache.Flush(ctx))
	_, ok = cache.Get(ctx, "c")
	require.False(t, ok)
}
