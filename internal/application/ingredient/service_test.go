package ingredient

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type IngredientServiceTestSuite struct {
	suite.Suite
	repo    *testutils.MockIngredientRepository
	factory *testutils.IngredientFactory
	service inbound.IngredientService
	ctx     context.Context
}

func (s *IngredientServiceTestSuite) SetupTest() {
	s.repo = testutils.NewMockIngredientRepository()
	s.factory = testutils.NewIngredientFactory(42)
	s.service = NewIngredientService(s.repo, zap.NewNop())
	s.ctx = context.Background()
}

func (s *IngredientServiceTestSuite) TestAddIngredient_Success() {
	cmd := s.factory.AddCommand()
	s.repo.On("Create", s.ctx, mock.AnythingOfType("*ingredient.Ingredient")).Return(nil)

	created, err := s.service.AddIngredient(s.ctx, cmd)

	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)
	s.Equal(cmd.Name, created.Name)
	s.Equal(cmd.Quantity, created.Quantity)
	s.Equal(cmd.Unit, created.Unit)
	s.False(created.UpdatedAt.IsZero())
	s.repo.AssertExpectations(s.T())
}

func (s *IngredientServiceTestSuite) TestAddIngredient_MissingFields() {
	cases := map[string]inbound.AddIngredientCommand{
		"no name":       {Quantity: 1, Unit: "g"},
		"zero quantity": {Name: "salt", Unit: "g"},
		"no unit":       {Name: "salt", Quantity: 1},
	}

	for name, cmd := range cases {
		s.Run(name, func() {
			_, err := s.service.AddIngredient(s.ctx, cmd)

			appErr, ok := errors.As(err)
			s.Require().True(ok)
			s.Equal(errors.CodeValidationFailed, appErr.Code)
			s.Equal("name, quantity and unit are required", appErr.Message)
		})
	}
	s.repo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *IngredientServiceTestSuite) TestAddIngredient_DuplicateIsDatabaseError() {
	s.repo.On("Create", s.ctx, mock.Anything).Return(outbound.ErrDuplicate)

	_, err := s.service.AddIngredient(s.ctx, s.factory.AddCommand())

	s.True(errors.Is(err, errors.CodeDatabaseError))
	s.True(stderrors.Is(err, outbound.ErrDuplicate))
}

func (s *IngredientServiceTestSuite) TestUpdateIngredient_Success() {
	existing := s.factory.Ingredient()
	updated := existing
	updated.Quantity = 3
	updated.Unit = "kg"
	s.repo.On("UpdateQuantity", s.ctx, existing.ID, 3.0, "kg").Return(&updated, nil)

	got, err := s.service.UpdateIngredient(s.ctx, existing.ID.String(), inbound.UpdateIngredientCommand{Quantity: 3, Unit: "kg"})

	s.Require().NoError(err)
	s.Equal(existing.Name, got.Name)
	s.Equal(3.0, got.Quantity)
	s.Equal("kg", got.Unit)
}

func (s *IngredientServiceTestSuite) TestUpdateIngredient_NotFound() {
	id := uuid.New()
	s.repo.On("UpdateQuantity", s.ctx, id, 2.0, "g").Return(nil, outbound.ErrNotFound)

	_, err := s.service.UpdateIngredient(s.ctx, id.String(), inbound.UpdateIngredientCommand{Quantity: 2, Unit: "g"})

	s.True(errors.Is(err, errors.CodeIngredientNotFound))
}

func (s *IngredientServiceTestSuite) TestUpdateIngredient_InvalidIDIsNotFound() {
	_, err := s.service.UpdateIngredient(s.ctx, "not-a-uuid", inbound.UpdateIngredientCommand{Quantity: 2, Unit: "g"})

	s.True(errors.Is(err, errors.CodeIngredientNotFound))
	s.repo.AssertNotCalled(s.T(), "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *IngredientServiceTestSuite) TestUpdateIngredient_MissingFields() {
	_, err := s.service.UpdateIngredient(s.ctx, uuid.NewString(), inbound.UpdateIngredientCommand{Unit: "g"})

	appErr, ok := errors.As(err)
	s.Require().True(ok)
	s.Equal(400, appErr.StatusCode())
	s.Equal("quantity and unit are required", appErr.Message)
}

func (s *IngredientServiceTestSuite) TestListIngredients_RepositoryFailure() {
	s.repo.On("FindAll", s.ctx).Return(nil, stderrors.New("connection refused"))

	_, err := s.service.ListIngredients(s.ctx)

	s.True(errors.Is(err, errors.CodeDatabaseError))
}

func (s *IngredientServiceTestSuite) TestAvailableIngredients_FiltersEmpty() {
	all := []ingredient.Ingredient{
		s.factory.Named("flour", 2),
		s.factory.Named("sugar", 0),
		s.factory.Named("eggs", 6),
	}
	s.repo.On("FindAll", s.ctx).Return(all, nil)

	available, err := s.service.AvailableIngredients(s.ctx)

	s.Require().NoError(err)
	s.Len(available, 2)
	s.Equal("flour", available[0].Name)
	s.Equal("eggs", available[1].Name)
}

func TestIngredientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngredientServiceTestSuite))
}

func TestNewIngredientService_ReturnsInboundPort(t *testing.T) {
	svc := NewIngredientService(testutils.NewMockIngredientRepository(), zap.NewNop())
	require.NotNil(t, svc)
	_, ok := svc.(*IngredientService)
	assert.True(t, ok)
}
