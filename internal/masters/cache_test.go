package masters

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCache(client, time.Minute, logger), mr
}

func TestCacheFetchStoresOnMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	loads := 0
	load := func(context.Context) (any, error) {
		loads++
		return []string{"a", "b"}, nil
	}

	data, err := cache.fetch(context.Background(), "masters:test", load)
	require.NoError(t, err)
	require.Equal(t, 1, loads)

	var got []string
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, []string{"a", "b"}, got)
	require.True(t, mr.Exists("masters:test"))

	_, err = cache.fetch(context.Background(), "masters:test", load)
	require.NoError(t, err)
	require.Equal(t, 1, loads)
}

func TestCacheInvalidateDropsKeys(t *testing.T) {
	cache, mr := newTestCache(t)
	load := func(context.Context) (any, error) { return []int{1}, nil }

	_, err := cache.fetch(context.Background(), "masters:test", load)
	require.NoError(t, err)
	require.True(t, mr.Exists("masters:test"))

	before := cache.Generation()
	cache.Invalidate(context.Background(), "masters:test")
	require.False(t, mr.Exists("masters:test"))
	require.Equal(t, before+1, cache.Generation())
}

func TestCacheSupersededFillNotStored(t *testing.T) {
	cache, mr := newTestCache(t)

	// an invalidation lands while the fill is reading from the source;
	// the fill must serve its result without writing it back
	data, err := cache.fetch(context.Background(), "masters:test", func(context.Context) (any, error) {
		cache.Invalidate(context.Background(), "masters:test")
		return []string{"stale"}, nil
	})
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, []string{"stale"}, got)
	require.False(t, mr.Exists("masters:test"))
}

func TestCacheConcurrentFillsCollapse(t *testing.T) {
	cache, _ := newTestCache(t)

	var loads atomic.Int32
	gate := make(chan struct{})
	load := func(context.Context) (any, error) {
		loads.Add(1)
		<-gate
		return []string{"x"}, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.fetch(context.Background(), "masters:test", load)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()
	require.Equal(t, int32(1), loads.Load())
}

func TestCacheNilClientFallsThrough(t *testing.T) {
	var cache *Cache
	loads := 0
	data, err := cache.fetch(context.Background(), "masters:test", func(context.Context) (any, error) {
		loads++
		return []string{"direct"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, loads)

	var got []string
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, []string{"direct"}, got)
}
