// Package cache keeps Redis-backed lookups and the dashboard baseline.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV is the subset of the go-redis client used here.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

var _ KV = (*redis.Client)(nil)
