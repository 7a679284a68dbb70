package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared cache backend for multi-instance deployments.
// Expiry is delegated to Redis itself via the key TTL.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewRedis(rdb *redis.Client, log *slog.Logger) *Redis {
	return &Redis{rdb: rdb, ttl: TTL, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache read failed", "key", key, "err", err)
		}
		return nil, false
	}
	return payload, true
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte) {
	// Best-effort: a failed write only costs a refetch later.
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.log.Warn("cache write failed", "key", key, "err", err)
	}
}
