package handlers

import (
	"net/http"

	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// IngredientHandler serves /api/ingredients
type IngredientHandler struct {
	service inbound.IngredientService
	logger  *zap.Logger
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(service inbound.IngredientService, logger *zap.Logger) *IngredientHandler {
	return &IngredientHandler{
		service: service,
		logger:  logger.Named("ingredient-handler"),
	}
}

// Routes mounts the ingredient endpoints
func (h *IngredientHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Put("/{id}", h.Update)
}

// List returns every ingredient as a bare array
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListIngredients(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err, "Error fetching ingredients")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// Add creates an ingredient
func (h *IngredientHandler) Add(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.AddIngredientCommand
	if err := decode(r, &cmd); err != nil {
		writeError(w, r, h.logger, err, "Error adding ingredient")
		return
	}

	created, err := h.service.AddIngredient(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err, "Error adding ingredient")
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Message: "Ingredient added successfully",
		Data:    created,
	})
}

// Update sets the quantity and unit of an ingredient
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.UpdateIngredientCommand
	if err := decode(r, &cmd); err != nil {
		writeError(w, r, h.logger, err, "Error updating ingredient")
		return
	}

	updated, err := h.service.UpdateIngredient(r.Context(), chi.URLParam(r, "id"), cmd)
	if err != nil {
		writeError(w, r, h.logger, err, "Error updating ingredient")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "Ingredient updated successfully",
		Data:    updated,
	})
}
