// Package healthcheck runs the dependency checks behind the admin server's
// liveness, readiness and detail endpoints.
package healthcheck

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Status of a single check or of the whole report
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// severity orders statuses so a report takes its worst check
func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Check is the outcome of one checker. Name and DurationMS are filled in by
// the registry.
type Check struct {
	Name       string                 `json:"name"`
	Status     Status                 `json:"status"`
	Message    string                 `json:"message,omitempty"`
	DurationMS float64                `json:"duration_ms"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Report aggregates every registered check, sorted by name
type Report struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version"`
	CheckedAt time.Time `json:"checked_at"`
	Checks    []Check   `json:"checks"`
}

// Checker probes one dependency
type Checker interface {
	Check(ctx context.Context) Check
}

// Option tunes a HealthCheck
type Option func(*HealthCheck)

// WithCacheTTL reuses a report for ttl. Zero disables reuse.
func WithCacheTTL(ttl time.Duration) Option {
	return func(h *HealthCheck) { h.cacheTTL = ttl }
}

// WithTimeout bounds one round of checks
func WithTimeout(timeout time.Duration) Option {
	return func(h *HealthCheck) { h.timeout = timeout }
}

// HealthCheck holds the registered checkers and the last report
type HealthCheck struct {
	version  string
	logger   *zap.Logger
	cacheTTL time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	checkers map[string]Checker
	last     *Report
}

// New creates a registry with a five second report cache
func New(version string, logger *zap.Logger, opts ...Option) *HealthCheck {
	h := &HealthCheck{
		version:  version,
		logger:   logger.Named("healthcheck"),
		cacheTTL: 5 * time.Second,
		timeout:  10 * time.Second,
		checkers: make(map[string]Checker),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds or replaces the checker stored under name
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.last = nil
}

// Run executes every checker concurrently, or returns the cached report
// while it is fresh.
func (h *HealthCheck) Run(ctx context.Context) Report {
	h.mu.Lock()
	if h.last != nil && time.Since(h.last.CheckedAt) < h.cacheTTL {
		report := *h.last
		h.mu.Unlock()
		return report
	}
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	checkers := make([]Checker, len(names))
	sort.Strings(names)
	for i, name := range names {
		checkers[i] = h.checkers[name]
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := Report{
		Status:    StatusHealthy,
		Version:   h.version,
		CheckedAt: time.Now(),
		Checks:    make([]Check, len(names)),
	}

	var wg sync.WaitGroup
	for i := range checkers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Now()
			check := checkers[i].Check(ctx)
			check.Name = names[i]
			check.DurationMS = float64(time.Since(start).Microseconds()) / 1000
			report.Checks[i] = check
		}(i)
	}
	wg.Wait()

	for _, check := range report.Checks {
		if check.Status.severity() > report.Status.severity() {
			report.Status = check.Status
		}
		if check.Status != StatusHealthy {
			h.logger.Warn("Dependency check not passing",
				zap.String("check", check.Name),
				zap.String("status", string(check.Status)),
				zap.String("message", check.Message),
			)
		}
	}

	h.mu.Lock()
	h.last = &report
	h.mu.Unlock()

	return report
}

// Liveness answers as long as the process serves requests
func (h *HealthCheck) Liveness() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "version": h.version})
	}
}

// Readiness is 503 while any dependency is unhealthy. A degraded
// dependency still serves traffic.
func (h *HealthCheck) Readiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		report := h.Run(c.Request.Context())

		status, code := "ready", http.StatusOK
		if report.Status == StatusUnhealthy {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "checks": report.Checks})
	}
}

// Details returns the full report
func (h *HealthCheck) Details() gin.HandlerFunc {
	return func(c *gin.Context) {
		report := h.Run(c.Request.Context())

		code := http.StatusOK
		if report.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, report)
	}
}
