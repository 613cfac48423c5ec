package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appingredient "github.com/alchemorsel/pantry/internal/application/ingredient"
	apprecipe "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/blob"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/test/testutils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const seedBlob = "RID: 1\nRecipe Name: Tea\nIngredients: water, tea\nInstructions: boil\nTaste: mild\nCuisine: asian\nPreparation Time: 5\nFavorite: Yes\n\n" +
	"RID: 2\nRecipe Name: Stew\nIngredients: beef, carrot\nInstructions: simmer\nTaste: hearty\nCuisine: irish\nPreparation Time: 120\nFavorite: No\n\n"

type mockSuggestionService struct {
	mock.Mock
}

func (m *mockSuggestionService) Suggest(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type HandlerTestSuite struct {
	suite.Suite
	router      chi.Router
	store       *blob.MemoryStore
	repo        *testutils.MockIngredientRepository
	suggestions *mockSuggestionService
	assert      *testutils.HTTPAssertions
}

func (s *HandlerTestSuite) SetupTest() {
	logger := zap.NewNop()
	s.store = blob.NewMemoryStore([]byte(seedBlob))
	s.repo = testutils.NewMockIngredientRepository()
	s.suggestions = &mockSuggestionService{}
	s.assert = testutils.NewHTTPAssertions(s.T())

	ingredients := NewIngredientHandler(appingredient.NewIngredientService(s.repo, logger), logger)
	recipes := NewRecipeHandler(apprecipe.NewRecipeService(s.store, logger), logger)
	suggest := NewSuggestionHandler(s.suggestions, logger)

	r := chi.NewRouter()
	r.Get("/", Index)
	r.Route("/api", func(r chi.Router) {
		r.Route("/ingredients", ingredients.Routes)
		r.Route("/recipes", func(r chi.Router) {
			recipes.Routes(r)
			r.Post("/suggestions", suggest.Suggest)
		})
	})
	s.router = r
}

func (s *HandlerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerTestSuite) TestIndex() {
	rec := s.do(http.MethodGet, "/", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Hello World", rec.Body.String())
}

func (s *HandlerTestSuite) TestListIngredients() {
	rows := []ingredient.Ingredient{{ID: uuid.New(), Name: "flour", Quantity: 2, Unit: "kg"}}
	s.repo.On("FindAll", mock.Anything).Return(rows, nil).Once()

	rec := s.do(http.MethodGet, "/api/ingredients", "")

	var got []ingredient.Ingredient
	s.assert.StatusCode(rec, http.StatusOK)
	s.assert.JSONResponse(rec, &got)
	s.Require().Len(got, 1)
	s.Equal("flour", got[0].Name)
}

func (s *HandlerTestSuite) TestListIngredients_DatabaseFailure() {
	s.repo.On("FindAll", mock.Anything).Return(nil, stderrors.New("connection refused")).Once()

	rec := s.do(http.MethodGet, "/api/ingredients", "")

	body := s.assert.Message(rec, http.StatusInternalServerError, "Error fetching ingredients")
	s.NotContains(body, "error")
}

func (s *HandlerTestSuite) TestAddIngredient() {
	s.repo.On("Create", mock.Anything, mock.AnythingOfType("*ingredient.Ingredient")).Return(nil).Once()

	rec := s.do(http.MethodPost, "/api/ingredients", `{"name":"salt","quantity":1.5,"unit":"g"}`)

	body := s.assert.Message(rec, http.StatusCreated, "Ingredient added successfully")
	data, ok := body["data"].(map[string]interface{})
	s.Require().True(ok)
	s.Equal("salt", data["name"])
	s.NotEmpty(data["id"])
}

func (s *HandlerTestSuite) TestAddIngredient_Errors() {
	cases := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"MalformedJSON", `{"name":`, http.StatusBadRequest, "Invalid JSON payload"},
		{"MissingUnit", `{"name":"salt","quantity":1}`, http.StatusBadRequest, "name, quantity and unit are required"},
		{"ZeroQuantity", `{"name":"salt","quantity":0,"unit":"g"}`, http.StatusBadRequest, "name, quantity and unit are required"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.do(http.MethodPost, "/api/ingredients", tc.body)
			s.assert.Message(rec, tc.status, tc.message)
		})
	}
	s.repo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestAddIngredient_Duplicate() {
	s.repo.On("Create", mock.Anything, mock.Anything).Return(outbound.ErrDuplicate).Once()

	rec := s.do(http.MethodPost, "/api/ingredients", `{"name":"salt","quantity":1,"unit":"g"}`)

	s.assert.Message(rec, http.StatusInternalServerError, "Error adding ingredient")
}

func (s *HandlerTestSuite) TestUpdateIngredient() {
	id := uuid.New()
	s.repo.On("UpdateQuantity", mock.Anything, id, 3.0, "kg").
		Return(&ingredient.Ingredient{ID: id, Name: "flour", Quantity: 3, Unit: "kg"}, nil).Once()

	rec := s.do(http.MethodPut, "/api/ingredients/"+id.String(), `{"quantity":3,"unit":"kg"}`)

	body := s.assert.Message(rec, http.StatusOK, "Ingredient updated successfully")
	s.Equal(id.String(), body["data"].(map[string]interface{})["id"])
}

func (s *HandlerTestSuite) TestUpdateIngredient_NotFound() {
	id := uuid.New()
	s.repo.On("UpdateQuantity", mock.Anything, id, 3.0, "kg").Return(nil, outbound.ErrNotFound).Once()

	rec := s.do(http.MethodPut, "/api/ingredients/"+id.String(), `{"quantity":3,"unit":"kg"}`)
	s.assert.Message(rec, http.StatusNotFound, "Ingredient not found")

	rec = s.do(http.MethodPut, "/api/ingredients/not-a-uuid", `{"quantity":3,"unit":"kg"}`)
	s.assert.Message(rec, http.StatusNotFound, "Ingredient not found")
}

func (s *HandlerTestSuite) TestListRecipes() {
	rec := s.do(http.MethodGet, "/api/recipes", "")

	var got []recipe.Recipe
	s.assert.StatusCode(rec, http.StatusOK)
	s.assert.JSONResponse(rec, &got)
	s.Require().Len(got, 2)
	s.Equal("Tea", got[0].RecipeName)
	s.Equal("Stew", got[1].RecipeName)
}

func (s *HandlerTestSuite) TestListRecipes_Malformed() {
	s.Require().NoError(s.store.Replace(context.Background(), []byte("RID: 1\nRecipe Name: Tea")))

	rec := s.do(http.MethodGet, "/api/recipes", "")

	s.assert.Message(rec, http.StatusInternalServerError, "Error fetching recipes")
}

func (s *HandlerTestSuite) TestCreateRecipe() {
	rec := s.do(http.MethodPost, "/api/recipes",
		`{"recipe_name":"Toast","ingredients":["bread"],"instructions":"toast","taste":"plain","cuisine":"english","preparation_time":2}`)

	body := s.assert.Message(rec, http.StatusCreated, "Recipe added successfully")
	data := body["data"].(map[string]interface{})
	s.Equal("3", data["rid"])
	s.Equal(false, data["favorite"])
	s.Contains(s.store.String(), "RID: 3\nRecipe Name: Toast\n")
}

func (s *HandlerTestSuite) TestCreateRecipe_MissingField() {
	rec := s.do(http.MethodPost, "/api/recipes", `{"recipe_name":"Toast"}`)

	s.assert.Message(rec, http.StatusBadRequest,
		"recipe_name, ingredients, instructions, taste, cuisine and preparation_time are required")
	s.Equal(seedBlob, s.store.String())
}

func (s *HandlerTestSuite) TestCreateRecipe_BodyNotJSON() {
	const required = "recipe_name, ingredients, instructions, taste, cuisine and preparation_time are required"

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader("recipe_name=Toast"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.assert.Message(rec, http.StatusBadRequest, required)

	rec = s.do(http.MethodPost, "/api/recipes", "")
	s.assert.Message(rec, http.StatusBadRequest, required)

	s.Equal(seedBlob, s.store.String())
}

func (s *HandlerTestSuite) TestSearchRecipes() {
	cases := []struct {
		query string
		rids  []string
	}{
		{"", []string{"1", "2"}},
		{"?rid=2", []string{"2"}},
		{"?favorite=true", []string{"1"}},
		{"?preparation_time=60", []string{"1"}},
		{"?favorite=false&preparation_time=120", []string{"2"}},
	}
	for _, tc := range cases {
		s.Run(tc.query, func() {
			rec := s.do(http.MethodGet, "/api/recipes/search"+tc.query, "")

			var got []recipe.Recipe
			s.assert.StatusCode(rec, http.StatusOK)
			s.assert.JSONResponse(rec, &got)
			rids := make([]string, 0, len(got))
			for _, r := range got {
				rids = append(rids, r.RID)
			}
			s.Equal(tc.rids, rids)
		})
	}
}

func (s *HandlerTestSuite) TestSearchRecipes_Errors() {
	rec := s.do(http.MethodGet, "/api/recipes/search?rid=9", "")
	s.assert.Message(rec, http.StatusNotFound, "Recipe not found")

	rec = s.do(http.MethodGet, "/api/recipes/search?preparation_time=soon", "")
	s.assert.Message(rec, http.StatusNotFound, "Recipe not found")
}

func (s *HandlerTestSuite) TestUpdateRecipe() {
	rec := s.do(http.MethodPut, "/api/recipes/2",
		`{"recipe_name":"Stew","ingredients":["beef"],"instructions":"simmer","taste":"hearty","cuisine":"irish","preparation_time":90,"favorite":false}`)

	body := s.assert.Message(rec, http.StatusOK, "Recipe updated successfully")
	s.Equal("2", body["data"].(map[string]interface{})["rid"])
	s.Contains(s.store.String(), "Preparation Time: 90\n")
	s.Contains(s.store.String(), "RID: 1\nRecipe Name: Tea\n")
}

func (s *HandlerTestSuite) TestUpdateRecipe_Errors() {
	full := `{"recipe_name":"X","ingredients":[],"instructions":"x","taste":"x","cuisine":"x","preparation_time":1,"favorite":true}`

	rec := s.do(http.MethodPut, "/api/recipes/7", full)
	s.assert.Message(rec, http.StatusNotFound, "Recipe not found")

	rec = s.do(http.MethodPut, "/api/recipes/1",
		`{"recipe_name":"X","ingredients":[],"instructions":"x","taste":"x","cuisine":"x","preparation_time":1}`)
	s.assert.Message(rec, http.StatusBadRequest,
		"recipe_name, ingredients, instructions, taste, cuisine, preparation_time and favorite are required")

	rec = s.do(http.MethodPut, "/api/recipes/1", `[`)
	s.assert.Message(rec, http.StatusBadRequest, "Invalid JSON payload")
}

func (s *HandlerTestSuite) TestSuggest() {
	s.suggestions.On("Suggest", mock.Anything, "something warm").Return("Make tea. Then relax.", nil).Once()

	rec := s.do(http.MethodPost, "/api/recipes/suggestions", `{"prompt":"something warm"}`)

	body := s.assert.Message(rec, http.StatusOK, "Suggestions generated successfully")
	s.Equal("Make tea. Then relax.", body["suggestions"])
}

func (s *HandlerTestSuite) TestSuggest_Errors() {
	s.suggestions.On("Suggest", mock.Anything, "").Return("", errors.NewValidationError("prompt is required")).Once()
	s.suggestions.On("Suggest", mock.Anything, "dinner").
		Return("", errors.NewExternalServiceError("openai", stderrors.New("quota exceeded"))).Once()

	rec := s.do(http.MethodPost, "/api/recipes/suggestions", `{}`)
	s.assert.Message(rec, http.StatusBadRequest, "prompt is required")

	rec = s.do(http.MethodPost, "/api/recipes/suggestions", `{"prompt":"dinner"}`)
	body := s.assert.Message(rec, http.StatusInternalServerError, "Error generating suggestions")
	s.Equal("quota exceeded", body["error"])
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func TestWriteError_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)

	writeError(rec, req, zap.NewNop(), stderrors.New("boom"), "Error fetching recipes")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Error fetching recipes"}`, rec.Body.String())
}
