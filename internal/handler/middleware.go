package handler

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/ratelimit"
	"github.com/passiton/backend/internal/service"
)

const (
	loginPath       = "/auth/login"
	homePath        = "/"
	requestIDHeader = "X-Request-ID"
)

// IdentityResolver is satisfied by *service.SessionResolver.
type IdentityResolver interface {
	Resolve(ctx context.Context, raw string) (model.Identity, bool, error)
}

func sessionToken(c *gin.Context) string {
	token, err := c.Cookie(service.SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

// Gate guards page routes. Public paths pass without touching the cookie.
// Protected paths resolve the session and redirect on failure; resolver
// errors are treated as an unauthenticated request.
func Gate(resolver IdentityResolver, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		level := Classify(c.Request.URL.Path)
		if level == LevelPublic {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		id, ok, err := resolver.Resolve(ctx, sessionToken(c))
		if err != nil {
			log.ErrorContext(ctx, "gate session resolution failed",
				slog.String("path", c.Request.URL.Path),
				slog.Any("error", err),
			)
			ok = false
		}

		decision := DecidePage(level, id, ok)
		switch decision {
		case DecisionAllow:
			c.Next()
		case DecisionRedirectHome:
			redirect(c, homePath)
		default:
			log.DebugContext(ctx, "gate redirect",
				slog.String("path", c.Request.URL.Path),
				slog.String("level", level.String()),
				slog.String("decision", decision.String()),
			)
			redirect(c, loginPath)
		}
	}
}

func redirect(c *gin.Context, location string) {
	c.Header("Location", location)
	c.AbortWithStatus(http.StatusTemporaryRedirect)
}

// Sessions re-derives the caller for every API request from the cookie.
type Sessions struct {
	resolver IdentityResolver
	log      *slog.Logger
}

func NewSessions(resolver IdentityResolver, log *slog.Logger) *Sessions {
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{resolver: resolver, log: log}
}

// Identify resolves the caller without writing a response.
func (s *Sessions) Identify(c *gin.Context) (model.Identity, bool, error) {
	return s.resolver.Resolve(c.Request.Context(), sessionToken(c))
}

// RequireIdentity writes 401 and returns false when the caller is not
// signed in.
func (s *Sessions) RequireIdentity(c *gin.Context) (model.Identity, bool) {
	return s.require(c, LevelAuthenticated)
}

// RequireAdmin writes 401 and returns false unless the caller is the
// administrator.
func (s *Sessions) RequireAdmin(c *gin.Context) (model.Identity, bool) {
	return s.require(c, LevelAdmin)
}

func (s *Sessions) require(c *gin.Context, level Level) (model.Identity, bool) {
	id, ok, err := s.Identify(c)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "session resolution failed", slog.Any("error", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Internal server error"})
		return model.Identity{}, false
	}
	if DecideAPI(level, id, ok) != DecisionAllow {
		c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized"})
		return model.Identity{}, false
	}
	return id, true
}

// RateLimit throttles a route per client address. Counter failures let
// the request through.
func RateLimit(counter ratelimit.Counter, limit int, window time.Duration, message string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := c.ClientIP() + ":" + c.FullPath()
		res, err := counter.Check(ctx, key, limit, window)
		if err != nil {
			log.WarnContext(ctx, "rate limit check failed", slog.String("key", key), slog.Any("error", err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", retryAfterSeconds(res.RetryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{Error: message})
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// RequestLogger tags each request with an id and logs it on completion.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		log.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				c.Header("Access-Control-Expose-Headers", "Retry-After, X-Request-ID")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
