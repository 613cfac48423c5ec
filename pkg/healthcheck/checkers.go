package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// poolSaturation is the in-use share of the pool above which the database
// is reported degraded.
const poolSaturation = 0.9

// PingFunc reports whether a dependency answers
type PingFunc func(ctx context.Context) error

// PoolStats is a snapshot of a connection pool. MaxOpen is zero when the
// pool is unbounded.
type PoolStats struct {
	Open    int
	InUse   int
	Idle    int
	MaxOpen int
}

// DatabaseChecker pings the ingredient database and inspects its pool. It
// serves database/sql handles and pgx pools alike.
type DatabaseChecker struct {
	ping  PingFunc
	stats func() PoolStats
}

// NewDatabaseChecker creates a database checker. stats may be nil.
func NewDatabaseChecker(ping PingFunc, stats func() PoolStats) *DatabaseChecker {
	return &DatabaseChecker{ping: ping, stats: stats}
}

func (d *DatabaseChecker) Check(ctx context.Context) Check {
	if err := d.ping(ctx); err != nil {
		return Check{Status: StatusUnhealthy, Message: err.Error()}
	}
	if d.stats == nil {
		return Check{Status: StatusHealthy}
	}

	s := d.stats()
	check := Check{
		Status: StatusHealthy,
		Details: map[string]interface{}{
			"open":     s.Open,
			"in_use":   s.InUse,
			"idle":     s.Idle,
			"max_open": s.MaxOpen,
		},
	}
	if s.MaxOpen > 0 && float64(s.InUse)/float64(s.MaxOpen) >= poolSaturation {
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("connection pool nearly exhausted: %d of %d in use", s.InUse, s.MaxOpen)
	}
	return check
}

// RedisChecker pings the suggestion cache's Redis tier
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a Redis checker
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) Check(ctx context.Context) Check {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return Check{Status: StatusUnhealthy, Message: err.Error()}
	}
	return Check{Status: StatusHealthy}
}

// RecipeStore is what the recipe store check needs from a blob store
type RecipeStore interface {
	Read(ctx context.Context) ([]byte, error)
	Describe() string
}

type pinger interface {
	Ping(ctx context.Context) error
}

// RecipeStoreChecker probes the recipe blob store. Stores with a Ping
// method are pinged; others are read once.
type RecipeStoreChecker struct {
	store RecipeStore
}

// NewRecipeStoreChecker creates a recipe store checker
func NewRecipeStoreChecker(store RecipeStore) *RecipeStoreChecker {
	return &RecipeStoreChecker{store: store}
}

func (r *RecipeStoreChecker) Check(ctx context.Context) Check {
	var err error
	if p, ok := r.store.(pinger); ok {
		err = p.Ping(ctx)
	} else {
		_, err = r.store.Read(ctx)
	}

	check := Check{
		Status:  StatusHealthy,
		Details: map[string]interface{}{"store": r.store.Describe()},
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}

// UpstreamChecker calls an HTTP endpoint of a completion provider. A 5xx
// or transport failure is unhealthy; any other non-2xx is degraded.
type UpstreamChecker struct {
	url    string
	client *http.Client
}

// NewUpstreamChecker creates a checker for url with its own client timeout
func NewUpstreamChecker(url string, timeout time.Duration) *UpstreamChecker {
	return &UpstreamChecker{url: url, client: &http.Client{Timeout: timeout}}
}

func (u *UpstreamChecker) Check(ctx context.Context) Check {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		return Check{Status: StatusUnhealthy, Message: err.Error()}
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return Check{Status: StatusUnhealthy, Message: err.Error()}
	}
	defer resp.Body.Close()

	check := Check{
		Status:  StatusHealthy,
		Details: map[string]interface{}{"url": u.url, "status_code": resp.StatusCode},
	}
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		check.Status = StatusUnhealthy
		check.Message = resp.Status
	case resp.StatusCode >= http.StatusMultipleChoices:
		check.Status = StatusDegraded
		check.Message = resp.Status
	}
	return check
}
