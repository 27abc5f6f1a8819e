package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"callsync/internal/shared/server/respond"
)

// ServiceController is the slice of the poll runner the session surface
// needs: logout must force the background service to stop first.
type ServiceController interface {
	Stop()
	IsRunning() bool
}

type Handler struct {
	Svc    *Service
	Runner ServiceController
}

func NewHandler(svc *Service, runner ServiceController) *Handler {
	return &Handler{Svc: svc, Runner: runner}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
	rg.GET("/me", h.me)
}

type loginRequest struct {
	Email      string `json:"email"`
	TenantID   int    `json:"tenantId"`
	Type       string `json:"type"`
	FolderPath string `json:"folderPath"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	profile, err := h.Svc.Login(c.Request.Context(), UserProfile{
		Email:         req.Email,
		TenantID:      req.TenantID,
		RecordingType: req.Type,
		FolderPath:    req.FolderPath,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to persist profile", nil)
		return
	}

	respond.OK(c, gin.H{
		"email":      profile.Email,
		"tenantId":   profile.TenantID,
		"type":       profile.RecordingType,
		"folderPath": profile.FolderPath,
		"loggedInAt": profile.LoggedInAt,
	})
}

func (h *Handler) logout(c *gin.Context) {
	// Logout always stops the background service first so the next login
	// never uploads under a stale account.
	if h.Runner != nil && h.Runner.IsRunning() {
		h.Runner.Stop()
	}

	if err := h.Svc.Logout(c.Request.Context()); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear profile", nil)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) me(c *gin.Context) {
	profile, err := h.Svc.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoProfile) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}
	respond.OK(c, gin.H{
		"email":      profile.Email,
		"tenantId":   profile.TenantID,
		"type":       profile.RecordingType,
		"folderPath": profile.FolderPath,
		"loggedInAt": profile.LoggedInAt,
	})
}
