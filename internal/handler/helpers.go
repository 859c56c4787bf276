package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/nexium/recipe-service/internal/middleware"
)

// callerID returns the identity set by the auth middleware
func callerID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	return userID, userID != ""
}

// logError logs a handler failure with the request's correlation fields
func logError(c *gin.Context, event string, err error, attrs ...any) {
	base := []any{
		slog.String("event", event),
		slog.String("request_id", c.GetString(middleware.RequestIDKey)),
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Any("error", err),
	}
	if userID, ok := callerID(c); ok {
		base = append(base, slog.String("user_id", userID))
	}
	slog.ErrorContext(c.Request.Context(), "request failed", append(base, attrs...)...)
}
