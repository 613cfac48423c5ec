package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminServer exposes metrics and health probes on their own port
type AdminServer struct {
	logger *zap.Logger
	server *http.Server
}

// NewAdminServer creates the ops server
func NewAdminServer(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector, health *healthcheck.HealthCheck) *AdminServer {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if cfg.Monitoring.EnableMetrics {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	engine.GET(cfg.Monitoring.HealthCheckPath, health.Liveness())
	engine.GET(cfg.Monitoring.ReadinessPath, health.Readiness())
	engine.GET("/health/details", health.Details())

	return &AdminServer{
		logger: log.Named("admin-server"),
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Monitoring.MetricsPort),
			Handler: engine,
		},
	}
}

// Start listens until Shutdown is called
func (s *AdminServer) Start() error {
	s.logger.Info("Starting admin server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler returns the gin engine
func (s *AdminServer) Handler() http.Handler {
	return s.server.Handler
}

// Shutdown gracefully shuts down the admin server
func (s *AdminServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
