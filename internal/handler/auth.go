package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/service"
)

type AuthHandler struct {
	svc      *service.AuthService
	sessions *Sessions
	log      *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, sessions *Sessions, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, log: log}
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	token, id, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			writeError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeServiceError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, model.LoginResponse{Success: true, IsAdmin: id.IsAdmin()})
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	token, user, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, model.SignupResponse{Message: "User created", User: user})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, model.AuthLogoutResponse{Message: "Logged out"})
}

// Me GET /api/auth/me never fails: every unresolved session reads as
// logged out.
func (h *AuthHandler) Me(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	id, ok, err := h.sessions.Identify(c)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "identity probe failed", slog.Any("error", err))
		ok = false
	}
	if !ok {
		c.JSON(http.StatusOK, model.AuthMeResponse{LoggedIn: false})
		return
	}
	c.JSON(http.StatusOK, model.AuthMeResponse{
		LoggedIn: true,
		IsAdmin:  id.IsAdmin(),
		User:     model.MeUserFrom(id),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, token, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}
