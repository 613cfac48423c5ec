package gorm

import (
	"context"

	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"gorm.io/gorm"
)

// Ping returns a function that pings the connection pool behind db.
func Ping(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// PoolStats returns a snapshot function of the pool counters.
func PoolStats(db *gorm.DB) func() healthcheck.PoolStats {
	return func() healthcheck.PoolStats {
		sqlDB, err := db.DB()
		if err != nil {
			return healthcheck.PoolStats{}
		}
		stats := sqlDB.Stats()
		return healthcheck.PoolStats{
			Open:    stats.OpenConnections,
			InUse:   stats.InUse,
			Idle:    stats.Idle,
			MaxOpen: stats.MaxOpenConnections,
		}
	}
}
