// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by repositories when no row matches
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate record")
	// ErrCacheMiss is returned by caches for absent or expired keys
	ErrCacheMiss = errors.New("cache miss")
)

// IngredientRepository defines the interface for ingredient persistence
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *ingredient.Ingredient) error
	// UpdateQuantity overwrites quantity and unit and returns the stored row.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64, unit string) (*ingredient.Ingredient, error)
	FindAll(ctx context.Context) ([]ingredient.Ingredient, error)
}

// RecipeBlobStore holds the recipe text blob.
// A missing blob reads as empty.
type RecipeBlobStore interface {
	Read(ctx context.Context) ([]byte, error)
	Append(ctx context.Context, data []byte) error
	// Replace overwrites the whole blob.
	Replace(ctx context.Context, data []byte) error
	Describe() string
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CompletionClient sends one prompt to a text-completion provider and
// returns its free-text answer
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
}
