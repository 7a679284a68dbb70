// Package cache provides the TTL cache fronting slow upstream reads.
//
// Values are stored as JSON payloads so the memory and Redis backends are
// interchangeable. A stale entry is logically absent: Get never returns it,
// and the next Set simply overwrites it. There is no single-flight
// deduplication; concurrent misses for the same key may each trigger a fetch,
// which is acceptable because fetches are idempotent upstream reads.
package cache

import (
	"context"
	"encoding/json"

	"hotel-assistant-api/internal/metrics"
)

// Store is the backend contract. The memory implementation is
// single-process only; the Redis implementation is the option for
// horizontally scaled deployments.
type Store interface {
	// Get returns the payload for key, or ok=false when absent or stale.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores payload under key with the store's TTL. Last write wins.
	Set(ctx context.Context, key string, payload []byte)
}

// GetOrFetch returns the cached value for key, or runs fetch on a miss.
// The result is cached only on success, so a failed fetch is retried by the
// next caller immediately (no negative caching). Fetch errors propagate.
func GetOrFetch[T any](ctx context.Context, s Store, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if payload, ok := s.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(payload, &v); err == nil {
			metrics.CacheHit()
			return v, nil
		}
		// Undecodable entry is treated as a miss and overwritten below.
	}
	metrics.CacheMiss()

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if payload, err := json.Marshal(v); err == nil {
		s.Set(ctx, key, payload)
	}
	return v, nil
}
