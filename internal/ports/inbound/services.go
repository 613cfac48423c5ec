// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the HTTP layer drives.
package inbound

import (
	"context"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// IngredientService defines the pantry ingredient use cases
type IngredientService interface {
	AddIngredient(ctx context.Context, cmd AddIngredientCommand) (*ingredient.Ingredient, error)
	UpdateIngredient(ctx context.Context, id string, cmd UpdateIngredientCommand) (*ingredient.Ingredient, error)
	ListIngredients(ctx context.Context) ([]ingredient.Ingredient, error)
	AvailableIngredients(ctx context.Context) ([]ingredient.Ingredient, error)
}

// RecipeService defines the flat-file recipe use cases
type RecipeService interface {
	ListRecipes(ctx context.Context) ([]recipe.Recipe, error)
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*recipe.Recipe, error)
	FindRecipes(ctx context.Context, query SearchQuery) ([]recipe.Recipe, error)
	UpdateRecipe(ctx context.Context, rid string, cmd UpdateRecipeCommand) (*recipe.Recipe, error)
}

// SuggestionService produces recipe suggestions from the pantry
type SuggestionService interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// AddIngredientCommand contains data for adding an ingredient.
// Zero values count as missing.
type AddIngredientCommand struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required"`
	Unit     string  `json:"unit" validate:"required"`
}

// UpdateIngredientCommand contains the mutable ingredient fields
type UpdateIngredientCommand struct {
	Quantity float64 `json:"quantity" validate:"required"`
	Unit     string  `json:"unit" validate:"required"`
}

// CreateRecipeCommand contains data for appending a recipe.
// An empty but present ingredients list is accepted.
type CreateRecipeCommand struct {
	RecipeName      string   `json:"recipe_name" validate:"required"`
	Ingredients     []string `json:"ingredients" validate:"required"`
	Instructions    string   `json:"instructions" validate:"required"`
	Taste           string   `json:"taste" validate:"required"`
	Cuisine         string   `json:"cuisine" validate:"required"`
	PreparationTime int      `json:"preparation_time" validate:"required"`
	Favorite        *bool    `json:"favorite,omitempty"`
}

// UpdateRecipeCommand replaces every field of a recipe.
// Favorite must be present; an explicit false is valid.
type UpdateRecipeCommand struct {
	RecipeName      string   `json:"recipe_name" validate:"required"`
	Ingredients     []string `json:"ingredients" validate:"required"`
	Instructions    string   `json:"instructions" validate:"required"`
	Taste           string   `json:"taste" validate:"required"`
	Cuisine         string   `json:"cuisine" validate:"required"`
	PreparationTime int      `json:"preparation_time" validate:"required"`
	Favorite        *bool    `json:"favorite" validate:"required"`
}

// SearchQuery carries the raw search parameters; empty values do not filter
type SearchQuery struct {
	RID             string
	Favorite        string
	PreparationTime string
}
