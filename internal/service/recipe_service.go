package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nexium/recipe-service/internal/domain"
	"github.com/nexium/recipe-service/internal/repository"
)

// WorkflowClient is the recipe generation workflow engine
type WorkflowClient interface {
	GenerateRecipe(ctx context.Context, requestBody []byte) (map[string]any, error)
	Ping(ctx context.Context) (json.RawMessage, error)
}

// ImagePipeline generates and hosts images
type ImagePipeline interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateFromImage(ctx context.Context, prompt, inputDataURI string) (string, error)
	UploadRaw(ctx context.Context, dataURI string) (string, error)
}

// RecipeService defines the recipe business logic
type RecipeService interface {
	CreateRecipe(ctx context.Context, requestBody []byte, callerID string) (*domain.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, owner string) ([]domain.Recipe, error)
	UploadImage(ctx context.Context, dataURI string) (string, error)
	PingWorkflow(ctx context.Context) (json.RawMessage, error)
}

// creationRequest is the part of the client's creation body the service itself looks at
type creationRequest struct {
	Type    string `json:"type"`
	Content struct {
		UserID string `json:"userid"`
		Image  string `json:"image"`
	} `json:"content"`
}

// RecipeServiceImpl implements RecipeService
type RecipeServiceImpl struct {
	repository repository.RecipeRepository
	workflow   WorkflowClient
	images     ImagePipeline
	workerPool chan struct{}
}

// NewRecipeService creates a recipe service. maxImageWorkers bounds concurrent image generations.
func NewRecipeService(repo repository.RecipeRepository, workflow WorkflowClient, images ImagePipeline, maxImageWorkers int) *RecipeServiceImpl {
	if maxImageWorkers < 1 {
		maxImageWorkers = 1
	}
	return &RecipeServiceImpl{
		repository: repo,
		workflow:   workflow,
		images:     images,
		workerPool: make(chan struct{}, maxImageWorkers),
	}
}

// CreateRecipe forwards the body to the workflow engine, generates an image when the
// response carries a prompt, normalizes and persists. An image failure does not abort
// creation; the recipe is stored without an image. A recipe nobody can own is rejected
// with domain.ErrUnauthenticated before any image work or write happens.
func (s *RecipeServiceImpl) CreateRecipe(ctx context.Context, requestBody []byte, callerID string) (*domain.Recipe, error) {
	// Generate the recipe text upstream
	raw, err := s.workflow.GenerateRecipe(ctx, requestBody)
	if err != nil {
		return nil, &ServiceError{Op: "generate_recipe", Err: err}
	}

	var req creationRequest
	// the body is forwarded verbatim; a shape we cannot read just disables the extras
	_ = json.Unmarshal(requestBody, &req)

	// Owner precedence: workflow userid, then the body's content.userid, then the caller
	owner := firstNonBlank(stringField(raw, "userid", ""), req.Content.UserID, callerID)
	if owner == "" {
		slog.WarnContext(ctx, "recipe has no owner, refusing to save", "type", req.Type)
		return nil, &ServiceError{Op: "resolve_owner", Err: domain.ErrUnauthenticated}
	}

	imageURL := ""
	if prompt := ImagePrompt(raw); prompt != "" {
		imageURL, err = s.generateImage(ctx, prompt, req)
		if err != nil {
			// degrade to a recipe without image rather than losing the generated text
			slog.WarnContext(ctx, "image generation failed, saving recipe without image", "error", err)
		}
	}

	// Default every missing field, then persist
	recipe := NormalizeRecipe(raw, imageURL)
	recipe.Owner = owner

	created, err := s.repository.CreateRecipe(ctx, &recipe)
	if err != nil {
		return nil, &ServiceError{Op: "create_recipe", Err: err}
	}

	slog.InfoContext(ctx, "recipe created", "recipe_id", created.ID, "owner", created.Owner, "has_image", created.ImageURL != nil)
	return created, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (s *RecipeServiceImpl) generateImage(ctx context.Context, prompt string, req creationRequest) (string, error) {
	// Acquire worker from pool
	select {
	case s.workerPool <- struct{}{}:
		// Release worker back to pool
		defer func() { <-s.workerPool }()
	case <-ctx.Done():
		// Context cancelled while waiting for worker
		return "", &ServiceError{Op: "acquire_image_worker", Err: ctx.Err()}
	}

	// A photo request edits the uploaded image instead of generating from scratch
	if req.Type == "image" && req.Content.Image != "" {
		return s.images.GenerateFromImage(ctx, prompt, req.Content.Image)
	}
	return s.images.Generate(ctx, prompt)
}

// GetRecipe returns a recipe by id regardless of owner
func (s *RecipeServiceImpl) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	recipe, err := s.repository.FindRecipeByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_recipe", Err: err}
	}
	return recipe, nil
}

// ListRecipes returns the owner's recipes
func (s *RecipeServiceImpl) ListRecipes(ctx context.Context, owner string) ([]domain.Recipe, error) {
	recipes, err := s.repository.FindRecipesByOwner(ctx, owner)
	if err != nil {
		return nil, &ServiceError{Op: "list_recipes", Err: err}
	}
	return recipes, nil
}

// UploadImage hosts a user supplied image
func (s *RecipeServiceImpl) UploadImage(ctx context.Context, dataURI string) (string, error) {
	// Format checks happen in the pipeline; only reject what cannot be an image at all
	if dataURI == "" {
		return "", &ServiceError{Op: "upload_image", Err: domain.ErrValidation}
	}
	url, err := s.images.UploadRaw(ctx, dataURI)
	if err != nil {
		return "", &ServiceError{Op: "upload_image", Err: err}
	}
	return url, nil
}

// PingWorkflow checks the workflow engine
func (s *RecipeServiceImpl) PingWorkflow(ctx context.Context) (json.RawMessage, error) {
	body, err := s.workflow.Ping(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "ping_workflow", Err: err}
	}
	return body, nil
}
