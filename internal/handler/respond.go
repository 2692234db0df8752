package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/service"
)

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, model.ErrorResponse{Error: message})
}

// writeServiceError maps service errors to responses. Messages from
// validation and quota errors are shown as-is; anything unexpected is
// logged and reported generically.
func writeServiceError(c *gin.Context, log *slog.Logger, err error) {
	var (
		verr  *service.ValidationError
		lerr  *service.LimitError
		rlerr *service.RateLimitError
	)
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &lerr):
		writeError(c, http.StatusForbidden, lerr.Message)
	case errors.As(err, &rlerr):
		c.Header("Retry-After", retryAfterSeconds(rlerr.RetryAfter))
		writeError(c, http.StatusTooManyRequests, rlerr.Message)
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, service.ErrConflict):
		writeError(c, http.StatusConflict, "Already exists")
	case errors.Is(err, service.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, "Service unavailable")
	case errors.Is(err, service.ErrMisconfigured):
		log.ErrorContext(c.Request.Context(), "server misconfigured", slog.Any("error", err))
		writeError(c, http.StatusInternalServerError, "Server configuration error")
	default:
		log.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
		writeError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func badRequest(c *gin.Context) {
	writeError(c, http.StatusBadRequest, "Invalid request")
}

// writeLookupError is writeServiceError with a resource-specific 404 body.
func writeLookupError(c *gin.Context, log *slog.Logger, err error, notFound string) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(c, http.StatusNotFound, notFound)
		return
	}
	writeServiceError(c, log, err)
}
