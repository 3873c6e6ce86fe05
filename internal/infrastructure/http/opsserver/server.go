// Package opsserver serves metrics and health endpoints on a separate port
package opsserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/monitoring"
	"github.com/savorly/savorly/pkg/healthcheck"
	"go.uber.org/zap"
)

// Server exposes /metrics, the health endpoint and the readiness endpoint
type Server struct {
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

// New builds the ops server. metrics may be nil when metrics are disabled.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) *Server {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	logger = logger.Named("ops-server")

	engine := gin.New()
	engine.Use(gin.Recovery())
	if metrics != nil {
		engine.Use(metrics.GinMiddleware())
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	engine.GET(cfg.Monitoring.HealthCheckPath, health.Handler())
	engine.GET(cfg.Monitoring.ReadinessPath, health.ReadinessHandler())
	engine.GET("/live", health.LivenessHandler())

	return &Server{
		logger: logger,
		engine: engine,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Monitoring.MetricsPort),
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the gin engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting ops server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
