package cache

import (
	"context"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// InstrumentedCache counts hits and misses of the wrapped cache
type InstrumentedCache struct {
	next    outbound.CacheRepository
	metrics *monitoring.MetricsCollector
}

// Instrument wraps repo with hit/miss metrics
func Instrument(repo outbound.CacheRepository, metrics *monitoring.MetricsCollector) *InstrumentedCache {
	return &InstrumentedCache{next: repo, metrics: metrics}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.next.Get(ctx, key)
	c.metrics.CacheLookup(err == nil)
	return data, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.next.Set(ctx, key, value, ttl)
}

func (c *InstrumentedCache) Delete(ctx context.Context, key string) error {
	return c.next.Delete(ctx, key)
}

func (c *InstrumentedCache) Exists(ctx context.Context, key string) (bool, error) {
	return c.next.Exists(ctx, key)
}
