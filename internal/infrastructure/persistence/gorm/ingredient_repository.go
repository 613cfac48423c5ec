package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

const uniqueViolation = "23505"

// IngredientRepository implements outbound.IngredientRepository using GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new GORM ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create inserts a new ingredient and fills in its generated ID and timestamp
func (r *IngredientRepository) Create(ctx context.Context, i *ingredient.Ingredient) error {
	model := toIngredientModel(i)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("ingredient %q: %w", i.Name, outbound.ErrDuplicate)
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	i.ID = model.ID
	i.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateQuantity overwrites quantity and unit of an existing ingredient
func (r *IngredientRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64, unit string) (*ingredient.Ingredient, error) {
	result := r.db.WithContext(ctx).
		Model(&IngredientModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"unit":       unit,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update ingredient: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, outbound.ErrNotFound
	}

	// Read back from the primary so replicas cannot serve a stale row.
	var model IngredientModel
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, fmt.Errorf("failed to reload ingredient: %w", err)
	}
	return model.toDomain(), nil
}

// FindAll returns every ingredient in storage order
func (r *IngredientRepository) FindAll(ctx context.Context) ([]ingredient.Ingredient, error) {
	var models []IngredientModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	ingredients := make([]ingredient.Ingredient, 0, len(models))
	for i := range models {
		ingredients = append(ingredients, *models[i].toDomain())
	}
	return ingredients, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
