package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/service"
)

type OpportunityHandler struct {
	svc      *service.OpportunityService
	sessions *Sessions
	log      *slog.Logger
}

func NewOpportunityHandler(svc *service.OpportunityService, sessions *Sessions, log *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{svc: svc, sessions: sessions, log: log}
}

// Create POST /api/opportunities
func (h *OpportunityHandler) Create(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	var req model.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	o, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.OpportunityResponse{Success: true, Opportunity: o})
}

// Delete DELETE /api/opportunities/:id
func (h *OpportunityHandler) Delete(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		writeLookupError(c, h.log, err, "Opportunity not found or unauthorized")
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Success: true, Message: "Opportunity deleted successfully"})
}

// Public GET /api/opportunities/public
func (h *OpportunityHandler) Public(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.OpportunityListResponse{Success: true, Opportunities: items})
}

// Mine GET /api/dashboard/opportunities
func (h *OpportunityHandler) Mine(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	items, err := h.svc.ListMine(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.OpportunityListResponse{Success: true, Opportunities: items})
}

// Toggle POST /api/dashboard/toggle-opportunity-status
func (h *OpportunityHandler) Toggle(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	var req model.ToggleOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.svc.SetActive(c.Request.Context(), id, req.OpportunityID, *req.Active); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Success: true, Message: "Opportunity status updated"})
}
