package recordings

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"callsync/internal/session"
	"callsync/internal/shared/server/respond"
	"callsync/internal/uploader"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recordings", h.list)
	rg.GET("/recordings/history", h.history)
	rg.GET("/recordings/history/:id/archive", h.downloadArchive)
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.Svc.ListFolder(c.Request.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoProfile) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list recordings", nil)
		return
	}
	respond.OK(c, gin.H{"recordings": entries})
}

func (h *Handler) history(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recs, err := h.Svc.History(c.Request.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, session.ErrNoProfile) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
		return
	}

	out := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		out = append(out, gin.H{
			"id":          rec.ID,
			"fileName":    rec.FileName,
			"phoneNumber": rec.PhoneNumber,
			"callDate":    rec.CallDate,
			"sizeBytes":   rec.SizeBytes,
			"recordedAt":  rec.RecordedAt,
			"uploadedAt":  rec.UploadedAt,
		})
	}
	respond.OK(c, gin.H{"history": out})
}

func (h *Handler) downloadArchive(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "recording id is required", nil)
		return
	}

	rec, reader, err := h.Svc.OpenArchive(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoProfile):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no archived copy for this recording", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load archived recording", nil)
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", uploader.MimeTypeFor(rec.FileName))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
