package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window backend shared across instances.
type Redis struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedis returns a redis-backed limiter. Keys are stored as
// "<prefix>:<key>" with a TTL of window.
func NewRedis(client *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	if prefix == "" {
		prefix = "rate_limit"
	}
	return &Redis{client: client, prefix: prefix, limit: limit, window: window}
}

// Window implements Backend.
func (r *Redis) Window() time.Duration { return r.window }

// Allow implements Backend.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s:%s", r.prefix, key)
	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}
