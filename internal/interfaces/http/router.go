// Package http wires the gin route tree and HTTP server of the analysis API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/DocLens-Intelligence/internal/config"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DocLens-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/DocLens-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	AnalysisHandler *handlers.AnalysisHandler
	HealthHandler   *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	Server        config.ServerConfig
	MetricsConfig config.MetricsConfig
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.Metrics != nil && cfg.MetricsConfig.Enabled {
		path := cfg.MetricsConfig.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.Server.RateLimitRPS))
	{
		api.POST("/analyses", cfg.AnalysisHandler.Submit)
		api.GET("/analyses", cfg.AnalysisHandler.List)
		api.GET("/analyses/search", cfg.AnalysisHandler.Search)
		api.GET("/analyses/:id", cfg.AnalysisHandler.Get)
	}

	return r
}
