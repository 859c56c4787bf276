package repository

import (
	"context"

	"github.com/nexium/recipe-service/internal/domain"
)

// RecipeRepository defines the interface for recipe data operations.
// Recipes are keyed to owners by provider id only; there is no update or delete.
type RecipeRepository interface {
	// FindRecipesByOwner returns the owner's recipes, newest first
	FindRecipesByOwner(ctx context.Context, owner string) ([]domain.Recipe, error)
	// FindRecipeByID returns domain.ErrNotFound for unknown or malformed ids
	FindRecipeByID(ctx context.Context, id string) (*domain.Recipe, error)
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
}
