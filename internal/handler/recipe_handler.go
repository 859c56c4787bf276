package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexium/recipe-service/internal/domain"
	"github.com/nexium/recipe-service/internal/model"
	"github.com/nexium/recipe-service/internal/service"
)

// maxRecipeBody caps creation bodies, which may carry a photo as a data URI
const maxRecipeBody = 20 << 20

// RecipeHandler handles HTTP requests for recipe-related operations
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// ListRecipes handles the GET /recipes endpoint
// @Summary List the caller's recipes
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Recipe
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	// Recipes are keyed by the provider id, not the local user id
	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID)
	if err != nil {
		logError(c, "list_recipes_failed", err)
		respondInternalServerError(c, ErrFetchRecipes)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// GetRecipe handles the GET /recipes/:id endpoint
// @Summary Get a recipe by id
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} domain.Recipe
// @Failure 404 {object} model.ErrorResponse "Recipe not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	// Any recipe is readable by id; malformed ids surface as not found
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logError(c, "get_recipe_failed", err, "recipe_id", c.Param("id"))
		}
		respondServiceError(c, err, ErrRecipeNotFound, ErrFetchRecipes)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe handles the POST /recipes endpoint
// @Summary Generate and save a recipe
// @Description Forwards the body to the recipe workflow, generates an image when the workflow returns a prompt, then saves the normalized recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body model.CreateRecipeRequest true "Generation request"
// @Success 201 {object} domain.Recipe
// @Failure 400 {object} model.ErrorResponse "Invalid JSON body"
// @Failure 401 {object} model.ErrorResponse "No owner for the recipe"
// @Failure 429 {object} model.ErrorResponse "Too many requests"
// @Failure 500 {object} model.ErrorResponse "Failed to create recipe"
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRecipeBody))
	if err != nil {
		respondBadRequest(c, ErrInvalidJSON)
		return
	}

	// An empty body is forwarded as an empty object, anything else must be JSON
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte(`{}`)
	}
	if !json.Valid(body) {
		respondBadRequest(c, ErrInvalidJSON)
		return
	}

	// Anonymous creation is allowed; the caller only backs up a missing userid
	callerUserID, _ := callerID(c)
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), body, callerUserID)
	if err != nil {
		// No owner could be determined for the generated recipe
		if errors.Is(err, domain.ErrUnauthenticated) {
			respondUnauthorized(c)
			return
		}
		logError(c, "create_recipe_failed", err, "body_size", len(body))
		respondInternalServerError(c, ErrRecipeCreation)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// UploadImage handles the POST /upload-image endpoint
// @Summary Upload an image
// @Description Hosts a base64 data URI image on the CDN and returns its URL
// @Tags images
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UploadImageRequest true "Image data URI"
// @Success 200 {object} model.UploadImageResponse
// @Failure 400 {object} model.ErrorResponse "No image data provided"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 429 {object} model.ErrorResponse "Too many requests"
// @Failure 500 {object} model.ErrorResponse "Failed to upload image"
// @Router /upload-image [post]
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		respondUnauthorized(c)
		return
	}

	// Parse request body
	var req model.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		respondBadRequest(c, ErrNoImage)
		return
	}

	url, err := h.recipeService.UploadImage(c.Request.Context(), req.Image)
	if err != nil {
		// Bad input is the caller's problem, not worth an error log
		if !errors.Is(err, domain.ErrValidation) {
			logError(c, "upload_image_failed", err)
		}
		respondServiceError(c, err, ErrImageUpload, ErrImageUpload)
		return
	}

	c.JSON(http.StatusOK, model.UploadImageResponse{ImageURL: url})
}

// PingWorkflow handles the GET /n8n endpoint
// @Summary Ping the recipe workflow
// @Description Returns the workflow engine's health response
// @Tags system
// @Produce json
// @Success 200 {object} object
// @Failure 500 {object} model.ErrorResponse "Failed to reach recipe workflow"
// @Router /n8n [get]
func (h *RecipeHandler) PingWorkflow(c *gin.Context) {
	body, err := h.recipeService.PingWorkflow(c.Request.Context())
	if err != nil {
		logError(c, "ping_workflow_failed", err)
		respondInternalServerError(c, ErrWorkflowDown)
		return
	}

	// Relay the workflow's answer as is
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
