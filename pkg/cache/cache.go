package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a thin JSON cache. A nil *Redis is valid and behaves as a
// cache miss everywhere, so callers can run without a cache backend.
type Redis struct {
	client *redis.Client
	ctx    context.Context
}

func New(redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 3

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{client: client, ctx: ctx}, nil
}

// Get retrieves a JSON-encoded value. Returns false on miss, decode
// failure, or when the cache is disabled.
func (r *Redis) Get(key string, dest interface{}) bool {
	if r == nil {
		return false
	}
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a JSON-encoded value. Failures are silent: the cache is an
// optimization, never a source of truth.
func (r *Redis) Set(key string, value interface{}, ttl time.Duration) {
	if r == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	r.client.Set(r.ctx, key, data, ttl)
}

func (r *Redis) Del(keys ...string) {
	if r == nil {
		return
	}
	r.client.Del(r.ctx, keys...)
}

func (r *Redis) Close() {
	if r == nil {
		return
	}
	r.client.Close()
}
