package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/service"
)

type UploadHandler struct {
	svc      *service.UploadService
	sessions *Sessions
	log      *slog.Logger
}

func NewUploadHandler(svc *service.UploadService, sessions *Sessions, log *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, sessions: sessions, log: log}
}

// Presign POST /api/uploads/presign
func (h *UploadHandler) Presign(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	var req model.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.svc.PresignImage(c.Request.Context(), id, req.ContentType)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
