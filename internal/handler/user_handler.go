package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexium/recipe-service/internal/domain"
	"github.com/nexium/recipe-service/internal/service"
)

// UserHandler handles HTTP requests for the caller's user record
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetCurrentUser handles the GET /users/me endpoint
// @Summary Get the current user
// @Description Returns the local user record for the authenticated caller
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "User not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	user, err := h.userService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		// A missing record is expected before POST /users
		if !errors.Is(err, domain.ErrNotFound) {
			logError(c, "get_current_user_failed", err)
		}
		respondServiceError(c, err, ErrUserNotFound, ErrFetchUser)
		return
	}

	c.JSON(http.StatusOK, user)
}

// CreateUser handles the POST /users endpoint
// @Summary Create the current user if absent
// @Description Idempotent. Returns the existing record with 200, or creates one from the identity provider profile and returns 201.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User "Existing user"
// @Success 201 {object} domain.User "Created user"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 409 {object} model.ErrorResponse "User already exists"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	// Existing users come back with 200, new ones with 201
	user, created, err := h.userService.EnsureUser(c.Request.Context(), userID)
	if err != nil {
		logError(c, "create_user_failed", err)
		respondServiceError(c, err, ErrUserNotFound, ErrCreateUser)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}
