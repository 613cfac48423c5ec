// Package ingredient provides the application layer for the pantry
// ingredient store
package ingredient

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgAddRequired    = "name, quantity and unit are required"
	msgUpdateRequired = "quantity and unit are required"
)

// IngredientService implements the ingredient use cases
type IngredientService struct {
	repo     outbound.IngredientRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewIngredientService creates a new ingredient service
func NewIngredientService(repo outbound.IngredientRepository, logger *zap.Logger) inbound.IngredientService {
	return &IngredientService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.Named("ingredient-service"),
	}
}

// AddIngredient inserts a new ingredient row
func (s *IngredientService) AddIngredient(ctx context.Context, cmd inbound.AddIngredientCommand) (*ingredient.Ingredient, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(msgAddRequired)
	}

	entity := &ingredient.Ingredient{
		Name:     cmd.Name,
		Quantity: cmd.Quantity,
		Unit:     cmd.Unit,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		if stderrors.Is(err, outbound.ErrDuplicate) {
			s.logger.Warn("Ingredient name already exists", zap.String("name", cmd.Name))
		}
		return nil, errors.NewDatabaseError("add ingredient", err)
	}

	s.logger.Info("Ingredient added",
		zap.String("ingredient_id", entity.ID.String()),
		zap.String("name", entity.Name),
	)

	return entity, nil
}

// UpdateIngredient overwrites quantity and unit of an existing ingredient
func (s *IngredientService) UpdateIngredient(ctx context.Context, id string, cmd inbound.UpdateIngredientCommand) (*ingredient.Ingredient, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(msgUpdateRequired)
	}

	ingredientID, err := uuid.Parse(id)
	if err != nil {
		// No row can carry an id that is not a uuid
		return nil, errors.NewIngredientNotFoundError(id)
	}

	updated, err := s.repo.UpdateQuantity(ctx, ingredientID, cmd.Quantity, cmd.Unit)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewIngredientNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("update ingredient", err)
	}

	s.logger.Info("Ingredient updated",
		zap.String("ingredient_id", id),
		zap.Float64("quantity", updated.Quantity),
		zap.String("unit", updated.Unit),
	)

	return updated, nil
}

// ListIngredients returns every ingredient in storage order
func (s *IngredientService) ListIngredients(ctx context.Context) ([]ingredient.Ingredient, error) {
	ingredients, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredients", err)
	}
	return ingredients, nil
}

// AvailableIngredients returns the ingredients with a positive quantity
func (s *IngredientService) AvailableIngredients(ctx context.Context) ([]ingredient.Ingredient, error) {
	all, err := s.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]ingredient.Ingredient, 0, len(all))
	for _, i := range all {
		if i.Available() {
			available = append(available, i)
		}
	}
	return available, nil
}
