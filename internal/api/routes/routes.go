package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoodiarize/internal/api/handlers"
	"github.com/yoockh/yoodiarize/internal/api/middleware"
	"github.com/yoockh/yoodiarize/internal/metrics"
)

type Deps struct {
	Analyze *handlers.AnalyzeHandler
	Health  *handlers.HealthHandler
	Metrics *metrics.Metrics
	Logger  *logrus.Logger

	// JWTSecret enables bearer auth on /analyze when non-empty.
	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(gin.Recovery())
	if d.Metrics != nil {
		r.Use(middleware.HTTPMetrics(d.Metrics))
	}

	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/healthz", d.Health.Healthz)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// Analysis endpoint (optionally token-protected)
	auth := r.Group("/")
	auth.Use(middleware.BearerAuth(d.JWTSecret))
	auth.POST("/analyze", d.Analyze.Analyze)
}
