package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/service"
)

const (
	categoryCacheControl = "public, s-maxage=60, stale-while-revalidate=300"
	searchCacheControl   = "public, s-maxage=30, stale-while-revalidate=60"
)

type ProductHandler struct {
	svc      *service.ProductService
	sessions *Sessions
	log      *slog.Logger
}

func NewProductHandler(svc *service.ProductService, sessions *Sessions, log *slog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, sessions: sessions, log: log}
}

// Create POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.ProductResponse{Success: true, Product: p})
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLookupError(c, h.log, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, model.ProductResponse{Success: true, Product: p})
}

// Delete DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		writeLookupError(c, h.log, err, "Product not found or unauthorized")
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Success: true, Message: "Product deleted successfully"})
}

// SetSold PATCH /api/products/:id/sold
func (h *ProductHandler) SetSold(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	var req model.SetSoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.svc.SetSold(c.Request.Context(), id, c.Param("id"), *req.Sold); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Success: true, Message: "Product updated"})
}

// ByCategory GET /api/products/category/:category
func (h *ProductHandler) ByCategory(c *gin.Context) {
	products, err := h.svc.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.Header("Cache-Control", categoryCacheControl)
	c.JSON(http.StatusOK, model.ProductListResponse{Products: products})
}

// Search GET /api/search?q=&state=&city=
func (h *ProductHandler) Search(c *gin.Context) {
	products, err := h.svc.Search(c.Request.Context(), c.Query("q"), c.Query("state"), c.Query("city"))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.Header("Cache-Control", searchCacheControl)
	c.JSON(http.StatusOK, model.ProductListResponse{Products: products})
}

// Mine GET /api/dashboard/products
func (h *ProductHandler) Mine(c *gin.Context) {
	id, ok := h.sessions.RequireIdentity(c)
	if !ok {
		return
	}
	products, err := h.svc.ListMine(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.ProductListResponse{Products: products})
}
