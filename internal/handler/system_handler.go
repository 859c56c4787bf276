package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexium/recipe-service/internal/model"
)

const healthDatabaseDown = "unavailable"

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the welcome and health endpoints
type SystemHandler struct {
	db Pinger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

// Welcome handles GET /
func (h *SystemHandler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the backend server!")
}

// Health handles GET /health, reporting 503 when the database does not answer
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, model.HealthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	// The driver error stays in the logs; it can carry hosts and credentials
	if err := h.db.Ping(ctx); err != nil {
		logError(c, "health_check_failed", err)
		c.JSON(http.StatusServiceUnavailable, model.HealthResponse{Status: "degraded", Database: healthDatabaseDown})
		return
	}
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok", Database: "ok"})
}
