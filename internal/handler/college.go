package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/service"
)

const collegeCacheControl = "public, s-maxage=300, stale-while-revalidate=600"

type CollegeHandler struct {
	svc      *service.CollegeService
	sessions *Sessions
	log      *slog.Logger
}

func NewCollegeHandler(svc *service.CollegeService, sessions *Sessions, log *slog.Logger) *CollegeHandler {
	return &CollegeHandler{svc: svc, sessions: sessions, log: log}
}

// Search GET /api/colleges?q=&limit=
func (h *CollegeHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	names, err := h.svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.Header("Cache-Control", collegeCacheControl)
	c.JSON(http.StatusOK, model.CollegeSearchResponse{Colleges: names})
}

// Add POST /api/colleges
func (h *CollegeHandler) Add(c *gin.Context) {
	var req model.AddCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	college, created, err := h.svc.Add(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	msg := "College found and usage count updated"
	if created {
		msg = "New college added successfully. It will be available to other users after admin verification."
	}
	c.JSON(http.StatusOK, model.CollegeResponse{Success: true, College: college, Message: msg})
}

// Verify PATCH /api/admin/colleges/:id
func (h *CollegeHandler) Verify(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	var req model.SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Verified == nil {
		writeError(c, http.StatusBadRequest, "Verified field must be a boolean")
		return
	}

	college, err := h.svc.SetVerified(c.Request.Context(), c.Param("id"), *req.Verified)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.CollegeResponse{Success: true, College: college, Message: "College updated"})
}
