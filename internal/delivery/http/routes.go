package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mujeebabdul-99/sports-card-text-extraction/config"
)

// SetupRouter creates and configures the Gin router.
// /metrics is only mounted when gatherer is non-nil.
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	limited := router.Group("/")
	limited.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		export := limited.Group("/export")
		{
			export.POST("/csv", handler.ExportCSV)
			export.POST("/sheets", handler.ExportSheets)
		}

		cards := limited.Group("/cards")
		{
			cards.GET("/:id", handler.GetCard)
			cards.PUT("/:id", handler.PutCard)
		}
	}

	return router
}
