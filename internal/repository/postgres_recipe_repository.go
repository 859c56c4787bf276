package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexium/recipe-service/internal/domain"
)

const recipeColumns = `id::text, title, description, category, ingredients, instructions,
		prep_time, cook_time, image_url, clerk_id, created_at, updated_at`

// PostgresRecipeRepository implements RecipeRepository using PostgreSQL
type PostgresRecipeRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRecipeRepository creates a new PostgreSQL recipe repository
func NewPostgresRecipeRepository(db *pgxpool.Pool) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{db: db}
}

// FindRecipesByOwner lists an owner's recipes, newest first
func (r *PostgresRecipeRepository) FindRecipesByOwner(ctx context.Context, owner string) ([]domain.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM recipes
		WHERE clerk_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []domain.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe rows: %w", err)
	}

	return recipes, nil
}

// FindRecipeByID fetches a single recipe. Ids that are not valid UUIDs are reported as not found.
func (r *PostgresRecipeRepository) FindRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM recipes
		WHERE id = $1
	`

	recipe, err := scanRecipe(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) || isPgCode(err, pgInvalidTextRepresentation) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

// CreateRecipe inserts a new recipe row
func (r *PostgresRecipeRepository) CreateRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	query := `
		INSERT INTO recipes (title, description, category, ingredients, instructions,
			prep_time, cook_time, image_url, clerk_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at, updated_at
	`

	created := *recipe
	created.Ingredients = nonNil(recipe.Ingredients)
	created.Instructions = nonNil(recipe.Instructions)

	err := r.db.QueryRow(ctx, query,
		created.Title,
		created.Description,
		created.Category,
		created.Ingredients,
		created.Instructions,
		created.PrepTime,
		created.CookTime,
		created.ImageURL,
		created.Owner,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	return &created, nil
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	recipe := &domain.Recipe{}
	err := row.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Category,
		&recipe.Ingredients,
		&recipe.Instructions,
		&recipe.PrepTime,
		&recipe.CookTime,
		&recipe.ImageURL,
		&recipe.Owner,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) || isPgCode(err, pgInvalidTextRepresentation) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}
	recipe.Ingredients = nonNil(recipe.Ingredients)
	recipe.Instructions = nonNil(recipe.Instructions)
	return recipe, nil
}
