package mapping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "requestmapping:result:"

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func cacheKey(id string) string {
	return cachePrefix + id
}

func (c *RedisCache) Put(ctx context.Context, res *Result, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding cached result: %w", err)
	}
	return c.client.Set(ctx, cacheKey(res.ID), raw, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, id string) (*Result, error) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decoding cached result: %w", err)
	}
	return &res, nil
}
