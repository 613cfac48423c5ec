// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"strconv"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

var units = []string{"g", "kg", "ml", "l", "pcs", "tbsp", "tsp", "cups"}

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe builds a recipe with the given rid. Generated text never contains
// the block or value separators so the record survives a round trip.
func (rf *RecipeFactory) Recipe(rid int) recipe.Recipe {
	count := rf.faker.Number(1, 4)
	ingredients := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ingredients = append(ingredients, rf.faker.Vegetable())
	}

	return recipe.Recipe{
		RID:             strconv.Itoa(rid),
		RecipeName:      rf.faker.Dessert(),
		Ingredients:     ingredients,
		Instructions:    rf.faker.HipsterSentence(6),
		Taste:           rf.faker.RandomString([]string{"sweet", "salty", "sour", "bitter", "umami"}),
		Cuisine:         rf.faker.RandomString([]string{"italian", "mexican", "asian", "french", "indian"}),
		PreparationTime: rf.faker.Number(1, 120),
		Favorite:        rf.faker.Bool(),
	}
}

// CreateCommand builds a valid create command
func (rf *RecipeFactory) CreateCommand() inbound.CreateRecipeCommand {
	r := rf.Recipe(0)
	favorite := r.Favorite
	return inbound.CreateRecipeCommand{
		RecipeName:      r.RecipeName,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		Taste:           r.Taste,
		Cuisine:         r.Cuisine,
		PreparationTime: r.PreparationTime,
		Favorite:        &favorite,
	}
}

// Blob encodes count recipes with rids 1..count as a recipe file
func (rf *RecipeFactory) Blob(count int) ([]byte, []recipe.Recipe) {
	recipes := make([]recipe.Recipe, 0, count)
	blocks := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		r := rf.Recipe(i)
		recipes = append(recipes, r)
		blocks = append(blocks, recipe.EncodeBlock(r))
	}
	return recipe.JoinBlocks(blocks), recipes
}

// IngredientFactory provides methods to create test ingredients
type IngredientFactory struct {
	faker *gofakeit.Faker
}

// NewIngredientFactory creates a new ingredient factory with seeded faker
func NewIngredientFactory(seed int64) *IngredientFactory {
	return &IngredientFactory{
		faker: gofakeit.New(seed),
	}
}

// Ingredient builds a stored-looking ingredient with a positive quantity
func (f *IngredientFactory) Ingredient() ingredient.Ingredient {
	return ingredient.Ingredient{
		ID:        uuid.New(),
		Name:      f.faker.Fruit() + " " + f.faker.LetterN(6),
		Quantity:  f.faker.Float64Range(0.5, 50),
		Unit:      f.faker.RandomString(units),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Named builds an ingredient with a fixed name and quantity
func (f *IngredientFactory) Named(name string, quantity float64) ingredient.Ingredient {
	i := f.Ingredient()
	i.Name = name
	i.Quantity = quantity
	return i
}

// AddCommand builds a valid add command with a unique name
func (f *IngredientFactory) AddCommand() inbound.AddIngredientCommand {
	i := f.Ingredient()
	return inbound.AddIngredientCommand{Name: i.Name, Quantity: i.Quantity, Unit: i.Unit}
}
