package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	gormrepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type IngredientRepositoryTestSuite struct {
	suite.Suite
	repo outbound.IngredientRepository
	ctx  context.Context
}

func (s *IngredientRepositoryTestSuite) SetupTest() {
	db, err := sqlite.SetupDatabase("", gormrepo.NewLogger(zap.NewNop(), "error"))
	s.Require().NoError(err)
	s.T().Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s.repo = gormrepo.NewIngredientRepository(db)
	s.ctx = context.Background()
}

func (s *IngredientRepositoryTestSuite) TestCreate() {
	s.Run("ShouldAssignIDAndTimestamp", func() {
		i := &ingredient.Ingredient{Name: "flour", Quantity: 2, Unit: "kg"}

		err := s.repo.Create(s.ctx, i)

		s.Require().NoError(err)
		s.NotEqual(uuid.Nil, i.ID)
		s.False(i.UpdatedAt.IsZero())

		all, err := s.repo.FindAll(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 1)
		s.Equal(i.ID, all[0].ID)
		s.Equal("flour", all[0].Name)
		s.Equal(2.0, all[0].Quantity)
		s.Equal("kg", all[0].Unit)
	})

	s.Run("DuplicateName_ShouldReturnErrDuplicate", func() {
		s.Require().NoError(s.repo.Create(s.ctx, &ingredient.Ingredient{Name: "salt", Quantity: 1, Unit: "g"}))

		err := s.repo.Create(s.ctx, &ingredient.Ingredient{Name: "salt", Quantity: 5, Unit: "g"})

		s.ErrorIs(err, outbound.ErrDuplicate)
	})
}

func (s *IngredientRepositoryTestSuite) TestUpdateQuantity() {
	s.Run("ShouldOverwriteQuantityAndUnit", func() {
		i := &ingredient.Ingredient{Name: "milk", Quantity: 1, Unit: "l"}
		s.Require().NoError(s.repo.Create(s.ctx, i))
		before := i.UpdatedAt
		time.Sleep(5 * time.Millisecond)

		updated, err := s.repo.UpdateQuantity(s.ctx, i.ID, 0.5, "ml")

		s.Require().NoError(err)
		s.Equal(i.ID, updated.ID)
		s.Equal("milk", updated.Name)
		s.Equal(0.5, updated.Quantity)
		s.Equal("ml", updated.Unit)
		s.True(updated.UpdatedAt.After(before))
	})

	s.Run("ZeroQuantity_ShouldBeStored", func() {
		i := &ingredient.Ingredient{Name: "eggs", Quantity: 6, Unit: "pcs"}
		s.Require().NoError(s.repo.Create(s.ctx, i))

		updated, err := s.repo.UpdateQuantity(s.ctx, i.ID, 0, "pcs")

		s.Require().NoError(err)
		s.Equal(0.0, updated.Quantity)
		s.False(updated.Available())
	})

	s.Run("UnknownID_ShouldReturnErrNotFoundAndLeaveRowsAlone", func() {
		before, err := s.repo.FindAll(s.ctx)
		s.Require().NoError(err)
		s.Require().NotEmpty(before)

		updated, err := s.repo.UpdateQuantity(s.ctx, uuid.New(), 1, "kg")

		s.ErrorIs(err, outbound.ErrNotFound)
		s.Nil(updated)
		after, err := s.repo.FindAll(s.ctx)
		s.Require().NoError(err)
		s.Equal(before, after)
	})
}

func (s *IngredientRepositoryTestSuite) TestFindAll() {
	all, err := s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
	s.NotNil(all)

	for _, name := range []string{"rice", "beans", "corn"} {
		s.Require().NoError(s.repo.Create(s.ctx, &ingredient.Ingredient{Name: name, Quantity: 1, Unit: "cup"}))
	}

	all, err = s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	names := make([]string, 0, len(all))
	for _, i := range all {
		names = append(names, i.Name)
	}
	s.Equal([]string{"rice", "beans", "corn"}, names)
}

func TestIngredientRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(IngredientRepositoryTestSuite))
}

func TestPingAndPoolStats(t *testing.T) {
	db, err := sqlite.SetupDatabase("", nil)
	require.NoError(t, err)

	assert.NoError(t, gormrepo.Ping(db)(context.Background()))
	stats := gormrepo.PoolStats(db)()
	assert.Equal(t, 1, stats.MaxOpen)
	assert.LessOrEqual(t, stats.InUse, stats.Open)
}
