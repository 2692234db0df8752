package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/service"
)

// AdminHandler serves /api/admin. Every method checks the administrator
// role itself.
type AdminHandler struct {
	svc      *service.AdminService
	sessions *Sessions
	log      *slog.Logger
}

func NewAdminHandler(svc *service.AdminService, sessions *Sessions, log *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, sessions: sessions, log: log}
}

// Stats GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.StatsResponse{Success: true, Stats: stats})
}

// ListUsers GET /api/admin/users?page&limit&verified&search
func (h *AdminHandler) ListUsers(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, pagination, err := h.svc.ListUsers(c.Request.Context(), service.UserListQuery{
		Page:     page,
		Limit:    limit,
		Verified: c.Query("verified"),
		Search:   c.Query("search"),
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.AdminUserListResponse{Success: true, Users: users, Pagination: pagination})
}

// UpdateUser PATCH /api/admin/users
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	var req model.AdminUserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), req.UserID, req.Updates)
	if err != nil {
		writeLookupError(c, h.log, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, model.AdminUserResponse{Success: true, Message: "User updated successfully", User: user})
}

// UserDetail GET /api/admin/users/:userId
func (h *AdminHandler) UserDetail(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	detail, err := h.svc.UserDetail(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeLookupError(c, h.log, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SetVerified PATCH /api/admin/users/:userId
func (h *AdminHandler) SetVerified(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	var req model.SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Verified field must be a boolean")
		return
	}

	user, err := h.svc.SetUserVerified(c.Request.Context(), c.Param("userId"), req.Verified)
	if err != nil {
		writeLookupError(c, h.log, err, "User not found")
		return
	}
	state := "unverified"
	if user.Verified {
		state = "verified"
	}
	c.JSON(http.StatusOK, model.AdminUserResponse{
		Success: true,
		Message: fmt.Sprintf("User %s successfully", state),
		User:    user,
	})
}

// DeleteUserContent DELETE /api/admin/users/:userId?type=&itemId=
func (h *AdminHandler) DeleteUserContent(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	kind, err := h.svc.DeleteUserContent(c.Request.Context(), c.Param("userId"), c.Query("type"), c.Query("itemId"))
	if err != nil {
		notFound := "User not found"
		if kind != "" && kind != "user" {
			notFound = fmt.Sprintf("%s not found or doesn't belong to user", kind)
		}
		writeLookupError(c, h.log, err, notFound)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Success: true, Message: fmt.Sprintf("%s deleted successfully", kind)})
}

// ListOpportunities GET /api/admin/opportunities?page&limit&status&type
func (h *AdminHandler) ListOpportunities(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, pagination, err := h.svc.ListOpportunities(c.Request.Context(), service.OpportunityListQuery{
		Page:   page,
		Limit:  limit,
		Status: c.Query("status"),
		Type:   c.Query("type"),
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.AdminOpportunityListResponse{Success: true, Opportunities: items, Pagination: pagination})
}

// UpdateOpportunity PATCH /api/admin/opportunities
func (h *AdminHandler) UpdateOpportunity(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	var req model.AdminOpportunityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	o, err := h.svc.UpdateOpportunity(c.Request.Context(), req.OpportunityID, req.Updates)
	if err != nil {
		writeLookupError(c, h.log, err, "Opportunity not found")
		return
	}
	c.JSON(http.StatusOK, model.OpportunityResponse{Success: true, Opportunity: o})
}

// DeleteOpportunity DELETE /api/admin/opportunities/:id
func (h *AdminHandler) DeleteOpportunity(c *gin.Context) {
	if _, ok := h.sessions.RequireAdmin(c); !ok {
		return
	}
	if err := h.svc.DeleteOpportunity(c.Request.Context(), c.Param("id")); err != nil {
		writeLookupError(c, h.log, err, "Opportunity not found")
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Success: true, Message: "Opportunity deleted successfully"})
}
