package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"callsync/internal/control"
	"callsync/internal/recordings"
	"callsync/internal/services/health"
	"callsync/internal/session"
	"callsync/internal/shared/config"
	"callsync/internal/shared/server/middleware"
)

// Deps collects the handlers the engine serves.
type Deps struct {
	Health     *health.Service
	Session    *session.Handler
	Recordings *recordings.Handler
	Control    *control.Handler
}

// NewEngine builds the gin engine with middleware and routes registered.
func NewEngine(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	registerRoutes(engine, cfg, deps)
	return engine
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
