package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache backs the dedup window with Redis SET NX PX so several service
// instances share one window. Redis handles expiry; there is nothing to
// prune.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache builds a Redis-backed dedup cache.
func NewRedisCache(client *redis.Client) DedupCache {
	return &redisCache{client: client}
}

func (c *redisCache) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, "notify:dedup:"+key, 1, ttl).Result()
}
