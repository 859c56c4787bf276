package domain

import "time"

// Defaults applied to recipe fields the workflow engine leaves out
const (
	DefaultRecipeTitle    = "Untitled Recipe"
	DefaultRecipeCategory = "Uncategorized"
	DefaultRecipeTime     = "N/A"
)

// Recipe is a persisted recipe. Owner holds the identity provider's user id,
// not the local User.ID, so recipes can exist before their owner's local record.
type Recipe struct {
	ID           string    `json:"_id" example:"665f1c2e8b3a4d0012345679"`
	Title        string    `json:"title" example:"Tomato Soup"`
	Description  string    `json:"description"`
	Category     string    `json:"category" example:"Soup"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	PrepTime     string    `json:"prepTime" example:"10 min"`
	CookTime     string    `json:"cookTime" example:"25 min"`
	ImageURL     *string   `json:"imageUrl"`
	Owner        string    `json:"userid" example:"user_2abcDEF"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
