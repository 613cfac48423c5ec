// Package recipe provides the application layer for the flat-file recipe
// store. This implements the use cases defined in the inbound ports
package recipe

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgCreateRequired = "recipe_name, ingredients, instructions, taste, cuisine and preparation_time are required"
	msgUpdateRequired = "recipe_name, ingredients, instructions, taste, cuisine, preparation_time and favorite are required"
)

// RecipeService implements the recipe use cases on top of a single blob.
// Every read-modify-write cycle holds writeMu, so two writers in this
// process never interleave. Plain reads never take the lock.
type RecipeService struct {
	store    outbound.RecipeBlobStore
	writeMu  sync.Mutex
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(store outbound.RecipeBlobStore, logger *zap.Logger) inbound.RecipeService {
	return &RecipeService{
		store:    store,
		validate: validator.New(),
		logger:   logger.Named("recipe-service"),
	}
}

// ListRecipes decodes the whole blob in file order
func (s *RecipeService) ListRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	blob, err := s.store.Read(ctx)
	if err != nil {
		return nil, errors.NewStorageError("read recipes", err)
	}

	recipes, err := recipe.DecodeBlob(blob)
	if err != nil {
		return nil, errors.NewStorageError("decode recipes", err)
	}
	return recipes, nil
}

// CreateRecipe appends a new block. The rid is the current block count
// plus one, so it can repeat an existing rid once the file has been edited
// out of order.
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*recipe.Recipe, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(msgCreateRequired)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	blob, err := s.store.Read(ctx)
	if err != nil {
		return nil, errors.NewStorageError("read recipes", err)
	}

	created := recipe.Recipe{
		RID:             recipe.NextRID(blob),
		RecipeName:      cmd.RecipeName,
		Ingredients:     append([]string{}, cmd.Ingredients...),
		Instructions:    cmd.Instructions,
		Taste:           cmd.Taste,
		Cuisine:         cmd.Cuisine,
		PreparationTime: cmd.PreparationTime,
		Favorite:        cmd.Favorite != nil && *cmd.Favorite,
	}

	data := separatorFor(blob) + recipe.EncodeBlock(created) + recipe.BlockSeparator
	if err := s.store.Append(ctx, []byte(data)); err != nil {
		return nil, errors.NewStorageError("append recipe", err)
	}

	s.logger.Info("Recipe created",
		zap.String("rid", created.RID),
		zap.String("recipe_name", created.RecipeName),
		zap.String("store", s.store.Describe()),
	)

	return &created, nil
}

// FindRecipes filters by rid, then favorite, then the preparation time
// upper bound. An empty result is a not found error.
func (s *RecipeService) FindRecipes(ctx context.Context, query inbound.SearchQuery) ([]recipe.Recipe, error) {
	criteria := recipe.Criteria{
		RID:      query.RID,
		Favorite: query.Favorite,
	}
	// a bound that is not a number excludes every record
	unbounded := false
	if query.PreparationTime != "" {
		bound, ok := recipe.ParseLeadingInt(query.PreparationTime)
		unbounded = !ok
		criteria.MaxPreparationTime = &bound
	}

	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	var found []recipe.Recipe
	if !unbounded {
		found = recipe.Filter(recipes, criteria)
	}
	if len(found) == 0 {
		return nil, errors.NewRecipeNotFoundError(query.RID)
	}
	return found, nil
}

// UpdateRecipe replaces every block whose positional rid equals rid and
// rewrites the whole blob. Other blocks are written back untouched.
func (s *RecipeService) UpdateRecipe(ctx context.Context, rid string, cmd inbound.UpdateRecipeCommand) (*recipe.Recipe, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(msgUpdateRequired)
	}
	if rid == "" {
		return nil, errors.NewRecipeNotFoundError(rid)
	}

	updated := recipe.Recipe{
		RID:             rid,
		RecipeName:      cmd.RecipeName,
		Ingredients:     append([]string{}, cmd.Ingredients...),
		Instructions:    cmd.Instructions,
		Taste:           cmd.Taste,
		Cuisine:         cmd.Cuisine,
		PreparationTime: cmd.PreparationTime,
		Favorite:        *cmd.Favorite,
	}
	encoded := recipe.EncodeBlock(updated)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	blob, err := s.store.Read(ctx)
	if err != nil {
		return nil, errors.NewStorageError("read recipes", err)
	}

	blocks := recipe.SplitBlocks(blob)
	matched := 0
	for i, block := range blocks {
		if recipe.BlockRID(block) == rid {
			blocks[i] = encoded
			matched++
		}
	}
	if matched == 0 {
		return nil, errors.NewRecipeNotFoundError(rid)
	}
	if matched > 1 {
		s.logger.Warn("Duplicate rid rewritten in every matching block",
			zap.String("rid", rid),
			zap.Int("blocks", matched),
		)
	}

	if err := s.store.Replace(ctx, recipe.JoinBlocks(blocks)); err != nil {
		return nil, errors.NewStorageError("rewrite recipes", err)
	}

	s.logger.Info("Recipe updated", zap.String("rid", rid))

	return &updated, nil
}

// separatorFor returns what must precede an appended block so it starts
// after a blank line.
func separatorFor(blob []byte) string {
	if strings.TrimSpace(string(blob)) == "" || bytes.HasSuffix(blob, []byte(recipe.BlockSeparator)) {
		return ""
	}
	if bytes.HasSuffix(blob, []byte("\n")) {
		return "\n"
	}
	return recipe.BlockSeparator
}
