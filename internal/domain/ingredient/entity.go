// Package ingredient contains the pantry ingredient entity.
package ingredient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ingredient is a named pantry item with a quantity and unit.
// Name is unique across all ingredients and never changes after creation.
type Ingredient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available reports whether some of the ingredient is left.
func (i Ingredient) Available() bool {
	return i.Quantity > 0
}

// NormalizeName folds an ingredient name for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
