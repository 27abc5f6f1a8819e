package control

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"callsync/internal/scanner"
	"callsync/internal/session"
	"callsync/internal/shared/server/respond"
	"callsync/internal/shared/telemetry"
	"callsync/internal/state"
)

// ServiceRunner is the control surface over the background poll loop.
type ServiceRunner interface {
	Start()
	Stop()
	IsRunning() bool
}

// Handler exposes start/stop/status for the background sync service.
type Handler struct {
	Runner     ServiceRunner
	Sessions   *session.Service
	State      *state.Service
	DefaultDir string
}

func NewHandler(runner ServiceRunner, sessions *session.Service, st *state.Service, defaultDir string) *Handler {
	return &Handler{Runner: runner, Sessions: sessions, State: st, DefaultDir: defaultDir}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/service/start", h.start)
	rg.POST("/service/stop", h.stop)
	rg.GET("/service/status", h.status)
}

func (h *Handler) start(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.Sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoProfile) {
			respond.Error(c, http.StatusBadRequest, "no_profile", "login before starting the service", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}

	dir := profile.FolderPath
	if dir == "" {
		dir = h.DefaultDir
	}
	if err := scanner.CheckFolder(dir); err != nil {
		respond.Error(c, http.StatusBadRequest, "folder_unavailable", err.Error(), gin.H{"folder": dir})
		return
	}

	h.Runner.Start()
	telemetry.Info("control.service.started", map[string]any{"folder": dir})
	respond.OK(c, gin.H{"running": true})
}

func (h *Handler) stop(c *gin.Context) {
	h.Runner.Stop()
	telemetry.Info("control.service.stopped", nil)
	respond.OK(c, gin.H{"running": false})
}

// status reports the actual loop liveness. The persisted flag can drift from
// reality after a crash; when it does, status repairs it.
func (h *Handler) status(c *gin.Context) {
	ctx := c.Request.Context()
	running := h.Runner.IsRunning()

	if h.State.ServiceRunning(ctx) != running {
		if err := h.State.SetServiceRunning(ctx, running); err != nil {
			telemetry.Warn("control.status.flag_repair_failed", map[string]any{"error": err.Error()})
		}
	}

	respond.OK(c, gin.H{"running": running})
}
