// Package cache composes cache repositories: a two-level cache with a local
// first level in front of a shared second level, and a metrics decorator.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"go.uber.org/zap"
)

// TieredCache reads L1 then L2 and writes through to both
type TieredCache struct {
	l1    outbound.CacheRepository
	l2    outbound.CacheRepository
	l1TTL time.Duration
	log   *zap.Logger
}

// NewTieredCache creates a two-level cache. Entries promoted from l2 live
// in l1 for at most l1TTL.
func NewTieredCache(l1, l2 outbound.CacheRepository, l1TTL time.Duration, logger *zap.Logger) *TieredCache {
	return &TieredCache{l1: l1, l2: l2, l1TTL: l1TTL, log: logger.Named("tiered-cache")}
}

// Get implements the cache-first pattern: L1 (local) -> L2 (shared)
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, err := c.l1.Get(ctx, key); err == nil {
		c.log.Debug("Cache L1 hit", zap.String("key", key))
		return data, nil
	}

	data, err := c.l2.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, outbound.ErrCacheMiss) {
			c.log.Warn("L2 cache error", zap.String("key", key), zap.Error(err))
		}
		return nil, err
	}

	c.log.Debug("Cache L2 hit", zap.String("key", key))
	if err := c.l1.Set(ctx, key, data, c.l1TTL); err != nil {
		c.log.Debug("Failed to promote entry to L1", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}

// Set stores data in both levels. L1 keeps it for the shorter of ttl and
// the promotion TTL.
func (c *TieredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l2.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	l1TTL := c.l1TTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	return c.l1.Set(ctx, key, value, l1TTL)
}

// Delete removes key from both levels
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	l1Err := c.l1.Delete(ctx, key)
	if err := c.l2.Delete(ctx, key); err != nil {
		return err
	}
	return l1Err
}

// Exists reports whether either level holds key
func (c *TieredCache) Exists(ctx context.Context, key string) (bool, error) {
	if ok, err := c.l1.Exists(ctx, key); err == nil && ok {
		return true, nil
	}
	return c.l2.Exists(ctx, key)
}
