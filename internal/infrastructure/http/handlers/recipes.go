package handlers

import (
	"net/http"

	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecipeHandler serves /api/recipes except suggestions
type RecipeHandler struct {
	service inbound.RecipeService
	logger  *zap.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(service inbound.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		service: service,
		logger:  logger.Named("recipe-handler"),
	}
}

// Routes mounts the recipe endpoints. search is registered before {rid}.
func (h *RecipeHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Put("/{rid}", h.Update)
}

// List returns every recipe in file order
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.ListRecipes(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err, "Error fetching recipes")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// Create appends a recipe
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.CreateRecipeCommand
	if err := decode(r, &cmd); err != nil {
		writeError(w, r, h.logger, err, "Error adding recipe")
		return
	}

	created, err := h.service.CreateRecipe(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err, "Error adding recipe")
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Message: "Recipe added successfully",
		Data:    created,
	})
}

// Search filters recipes by the rid, favorite and preparation_time query
// parameters
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recipes, err := h.service.FindRecipes(r.Context(), inbound.SearchQuery{
		RID:             q.Get("rid"),
		Favorite:        q.Get("favorite"),
		PreparationTime: q.Get("preparation_time"),
	})
	if err != nil {
		writeError(w, r, h.logger, err, "Error fetching recipes")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// Update replaces the recipe stored under rid
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.UpdateRecipeCommand
	if err := decode(r, &cmd); err != nil {
		writeError(w, r, h.logger, err, "Error updating recipe")
		return
	}

	updated, err := h.service.UpdateRecipe(r.Context(), chi.URLParam(r, "rid"), cmd)
	if err != nil {
		writeError(w, r, h.logger, err, "Error updating recipe")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "Recipe updated successfully",
		Data:    updated,
	})
}
