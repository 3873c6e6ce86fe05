package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/savorly/savorly/internal/ports/outbound"
)

// InstrumentedCache counts hits, misses and errors of a CacheRepository
type InstrumentedCache struct {
	next    outbound.CacheRepository
	metrics *MetricsCollector
}

// InstrumentCache wraps cache so every operation is counted. A nil collector
// returns cache unchanged.
func InstrumentCache(cache outbound.CacheRepository, metrics *MetricsCollector) outbound.CacheRepository {
	if metrics == nil {
		return cache
	}
	return &InstrumentedCache{next: cache, metrics: metrics}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.next.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.RecordCacheOperation("get", "hit")
	case errors.Is(err, outbound.ErrCacheMiss):
		c.metrics.RecordCacheOperation("get", "miss")
	default:
		c.metrics.RecordCacheOperation("get", "error")
	}
	return value, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.next.Set(ctx, key, value, ttl)
	c.metrics.RecordCacheOperation("set", result(err))
	return err
}

func (c *InstrumentedCache) Delete(ctx context.Context, key string) error {
	err := c.next.Delete(ctx, key)
	c.metrics.RecordCacheOperation("delete", result(err))
	return err
}

func (c *InstrumentedCache) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := c.next.Exists(ctx, key)
	c.metrics.RecordCacheOperation("exists", result(err))
	return ok, err
}

func (c *InstrumentedCache) Increment(ctx context.Context, key string) (int64, error) {
	n, err := c.next.Increment(ctx, key)
	c.metrics.RecordCacheOperation("increment", result(err))
	return n, err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var _ outbound.CacheRepository = (*InstrumentedCache)(nil)
