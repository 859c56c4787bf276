package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexium/recipe-service/internal/domain"
	"github.com/nexium/recipe-service/internal/imagegen"
	"github.com/nexium/recipe-service/internal/model"
)

// Common error messages
const (
	ErrUnauthorized   = "Unauthorized"
	ErrUserNotFound   = "User not found"
	ErrUserExists     = "User already exists"
	ErrRecipeNotFound = "Recipe not found"
	ErrInvalidJSON    = "Invalid JSON body"
	ErrNoImage        = "No image data provided"
	ErrInvalidImage   = "Invalid image data"
	ErrInternalServer = "Internal server error"
	ErrRecipeCreation = "Failed to create recipe"
	ErrImageUpload    = "Failed to upload image"
	ErrWorkflowDown   = "Failed to reach recipe workflow"
	ErrFetchRecipes   = "Failed to fetch recipes"
	ErrFetchUser      = "Failed to fetch user"
	ErrCreateUser     = "Failed to create user"
	ErrDatabaseDown   = "Database unavailable"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, model.ErrorResponse{Error: message})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, message)
}

// respondUnauthorized sends a 401 Unauthorized response
func respondUnauthorized(c *gin.Context) {
	respondWithError(c, http.StatusUnauthorized, ErrUnauthorized)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, message)
}

// respondConflict sends a 409 Conflict response
func respondConflict(c *gin.Context, message string) {
	respondWithError(c, http.StatusConflict, message)
}

// respondInternalServerError sends a 500 Internal Server Error response
func respondInternalServerError(c *gin.Context, message string) {
	respondWithError(c, http.StatusInternalServerError, message)
}

// respondServiceError maps a service failure onto a status. fallback is the
// message for failures that are not the caller's fault.
func respondServiceError(c *gin.Context, err error, notFound, fallback string) {
	var uploadErr *imagegen.UploadError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respondUnauthorized(c)
	case errors.Is(err, domain.ErrNotFound):
		respondNotFound(c, notFound)
	case errors.Is(err, domain.ErrConflict):
		respondConflict(c, ErrUserExists)
	case errors.Is(err, domain.ErrValidation):
		respondBadRequest(c, ErrInvalidImage)
	case errors.As(err, &uploadErr):
		respondInternalServerError(c, ErrImageUpload)
	default:
		respondInternalServerError(c, fallback)
	}
}
