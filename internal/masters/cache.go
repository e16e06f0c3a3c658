package masters

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Cache keeps the lookup lists in Redis. Concurrent fills for the same
// key collapse into one fetch via singleflight. Every invalidation bumps
// a generation counter; a fill that started under an older generation is
// discarded instead of overwriting the newer state.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
	gen    atomic.Uint64
}

// NewCache constructs a cache. A nil client disables caching entirely;
// reads fall through to the loader.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Invalidate drops the cached lists after a master-data write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	c.gen.Add(1)
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil && c.logger != nil {
		c.logger.Warn("masters cache invalidate", slog.Any("error", err))
	}
}

// fetch returns the cached value for key, loading and caching it on a
// miss. The load result is JSON; callers unmarshal into their own type.
func (c *Cache) fetch(ctx context.Context, key string, load func(context.Context) (any, error)) ([]byte, error) {
	if c == nil || c.client == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	}

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		return data, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		startGen := c.gen.Load()
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		// A write raced this fill; serve the data but do not cache the
		// stale snapshot over the newer state.
		if c.gen.Load() != startGen {
			if c.logger != nil {
				c.logger.Debug("masters cache fill discarded",
					slog.String("key", key), slog.Any("error", shared.ErrStaleSnapshot))
			}
			return data, nil
		}
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.Warn("masters cache set", slog.String("key", key), slog.Any("error", err))
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Generation exposes the current cache generation for tests.
func (c *Cache) Generation() uint64 {
	if c == nil {
		return 0
	}
	return c.gen.Load()
}
