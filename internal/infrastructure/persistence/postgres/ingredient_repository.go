package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation = "23505"

	ingredientColumns = `id, name, COALESCE(quantity, 0), unit, COALESCE(updated_at, NOW())`
)

// IngredientRepository implements outbound.IngredientRepository with pgx
type IngredientRepository struct {
	pool *pgxpool.Pool
}

// NewIngredientRepository creates a new pgx ingredient repository
func NewIngredientRepository(pool *pgxpool.Pool) outbound.IngredientRepository {
	return &IngredientRepository{pool: pool}
}

// Create inserts an ingredient and lets the database assign id and updated_at
func (r *IngredientRepository) Create(ctx context.Context, i *ingredient.Ingredient) error {
	query := `
		INSERT INTO ingredients (name, quantity, unit)
		VALUES ($1, $2, $3)
		RETURNING id, updated_at`

	err := r.pool.QueryRow(ctx, query, i.Name, i.Quantity, i.Unit).Scan(&i.ID, &i.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("ingredient %q: %w", i.Name, outbound.ErrDuplicate)
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// UpdateQuantity overwrites quantity and unit and returns the updated row
func (r *IngredientRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64, unit string) (*ingredient.Ingredient, error) {
	query := `
		UPDATE ingredients
		SET quantity = $2, unit = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + ingredientColumns

	i, err := scanIngredient(r.pool.QueryRow(ctx, query, id, quantity, unit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, outbound.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return i, nil
}

// FindAll returns every ingredient in storage order
func (r *IngredientRepository) FindAll(ctx context.Context) ([]ingredient.Ingredient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ingredientColumns+` FROM ingredients`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []ingredient.Ingredient{}
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func scanIngredient(row pgx.Row) (*ingredient.Ingredient, error) {
	var i ingredient.Ingredient
	if err := row.Scan(&i.ID, &i.Name, &i.Quantity, &i.Unit, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}
