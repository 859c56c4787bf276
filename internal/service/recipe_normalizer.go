package service

import (
	"fmt"
	"strings"

	"github.com/nexium/recipe-service/internal/domain"
)

// NormalizeRecipe maps a workflow response onto a persistable recipe. Every field
// is defaulted on its own, so any subset of missing keys still yields a valid record.
// No validation happens beyond defaulting. The image URL comes from the upstream
// imageUrl, then generatedImageURL, else it stays nil.
func NormalizeRecipe(raw map[string]any, generatedImageURL string) domain.Recipe {
	recipe := domain.Recipe{
		Title:        stringField(raw, "title", domain.DefaultRecipeTitle),
		Description:  stringField(raw, "description", ""),
		Category:     stringField(raw, "category", domain.DefaultRecipeCategory),
		Ingredients:  listField(raw, "ingredients"),
		Instructions: listField(raw, "instructions"),
		PrepTime:     stringField(raw, "prepTime", domain.DefaultRecipeTime),
		CookTime:     stringField(raw, "cookTime", domain.DefaultRecipeTime),
		Owner:        stringField(raw, "userid", ""),
	}

	imageURL := stringField(raw, "imageUrl", generatedImageURL)
	if imageURL != "" {
		recipe.ImageURL = &imageURL
	}

	return recipe
}

// ImagePrompt returns the image generation prompt carried by a workflow response, if any.
// A blank imagePrompt falls through to prompt since it cannot drive a generation.
func ImagePrompt(raw map[string]any) string {
	if p := stringField(raw, "imagePrompt", ""); strings.TrimSpace(p) != "" {
		return p
	}
	if p := stringField(raw, "prompt", ""); strings.TrimSpace(p) != "" {
		return p
	}
	return ""
}

// stringField returns def for falsy values: absent, null, "", 0 and false.
// Anything else is kept as sent, whitespace included; non-zero numbers and true are stringified.
func stringField(raw map[string]any, key, def string) string {
	switch t := raw[key].(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case float64:
		if t == 0 {
			return def
		}
		return fmt.Sprint(t)
	case bool:
		if !t {
			return def
		}
		return "true"
	default:
		return def
	}
}

// listField accepts a JSON array or a single string; anything else is an empty list
func listField(raw map[string]any, key string) []string {
	switch t := raw[key].(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch s := item.(type) {
			case nil:
			case string:
				out = append(out, s)
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out
	case []string:
		return append([]string{}, t...)
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{}
	}
}
