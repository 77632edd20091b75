package screen

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lusoedu/sge-console/internal/metrics"
)

// Lookup serves a slow-changing reference list (disciplines, classes, school
// years) through a shared Redis cache. Without Redis it degrades to a direct
// platform fetch per call.
type Lookup[T any] struct {
	key     string
	ttl     time.Duration
	redis   *redis.Client
	metrics *metrics.Metrics
	fetch   func(context.Context) ([]T, error)
}

// NewLookup builds a cached lookup. key namespaces the Redis entry; the cache
// is shared across workspaces since reference data is not per-user.
func NewLookup[T any](key string, ttl time.Duration, rdb *redis.Client, m *metrics.Metrics, fetch func(context.Context) ([]T, error)) *Lookup[T] {
	return &Lookup[T]{key: key, ttl: ttl, redis: rdb, metrics: m, fetch: fetch}
}

// Get returns the lookup rows, from cache when fresh.
func (l *Lookup[T]) Get(ctx context.Context) ([]T, error) {
	if l.redis != nil {
		raw, err := l.redis.Get(ctx, l.key).Result()
		if err == nil {
			var out []T
			if json.Unmarshal([]byte(raw), &out) == nil {
				l.metrics.RecordCacheLookup(true)
				return out, nil
			}
		}
		l.metrics.RecordCacheLookup(false)
	}

	items, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if l.redis != nil {
		if raw, err := json.Marshal(items); err == nil {
			l.redis.Set(ctx, l.key, raw, l.ttl)
		}
	}
	return items, nil
}

// Invalidate drops the cached entry so the next Get refetches.
func (l *Lookup[T]) Invalidate(ctx context.Context) {
	if l.redis != nil {
		l.redis.Del(ctx, l.key)
	}
}
