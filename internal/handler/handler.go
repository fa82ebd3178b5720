package handler

import (
	"github.com/DanNano/FFQueryAnalyzer/internal/config"
	"github.com/DanNano/FFQueryAnalyzer/internal/metrics"
	"github.com/DanNano/FFQueryAnalyzer/internal/service"
	"github.com/gin-gonic/gin"
)

// Options carries the request-level settings handlers read from config.
type Options struct {
	Defaults            config.DefaultsConfig
	AcceptLegacyIDParam bool
	// Metrics, when set, is served on GET /metrics.
	Metrics *metrics.Manager
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, repo Pinger, svc service.AnalyticsService, opts Options) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	api := r.Group(APIPrefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewAnalyticsHandler(svc, opts).Register(api)
	}
}
