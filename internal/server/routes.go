package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callsync/internal/shared/config"
	"callsync/internal/shared/metrics"
	"callsync/internal/shared/server/middleware"
)

func registerRoutes(r *gin.Engine, cfg config.Config, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Health.Status())
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.APIToken))

	if deps.Session != nil {
		deps.Session.RegisterRoutes(api)
	}
	if deps.Recordings != nil {
		deps.Recordings.RegisterRoutes(api)
	}
	if deps.Control != nil {
		deps.Control.RegisterRoutes(api)
	}
}
