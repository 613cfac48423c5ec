// Package gorm provides GORM model definitions and repositories for the
// relational ingredient store
package gorm

import (
	"time"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientModel represents the GORM model for ingredients
type IngredientModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Quantity  float64
	Unit      string `gorm:"type:varchar(50);not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for IngredientModel
func (IngredientModel) TableName() string {
	return "ingredients"
}

// BeforeCreate hook to generate UUID if not set
func (m *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func toIngredientModel(i *ingredient.Ingredient) *IngredientModel {
	return &IngredientModel{
		ID:        i.ID,
		Name:      i.Name,
		Quantity:  i.Quantity,
		Unit:      i.Unit,
		UpdatedAt: i.UpdatedAt,
	}
}

func (m *IngredientModel) toDomain() *ingredient.Ingredient {
	return &ingredient.Ingredient{
		ID:        m.ID,
		Name:      m.Name,
		Quantity:  m.Quantity,
		Unit:      m.Unit,
		UpdatedAt: m.UpdatedAt,
	}
}
