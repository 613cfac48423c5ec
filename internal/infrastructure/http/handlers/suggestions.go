package handlers

import (
	"net/http"

	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const msgSuggestionFailed = "Error generating suggestions"

// SuggestionRequest is the body of POST /api/recipes/suggestions
type SuggestionRequest struct {
	Prompt string `json:"prompt"`
}

// SuggestionResponse carries the flattened completion
type SuggestionResponse struct {
	Message     string `json:"message"`
	Suggestions string `json:"suggestions"`
}

// SuggestionErrorResponse echoes the provider failure to the caller
type SuggestionErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SuggestionHandler serves recipe suggestions
type SuggestionHandler struct {
	service inbound.SuggestionService
	logger  *zap.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(service inbound.SuggestionService, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		service: service,
		logger:  logger.Named("suggestion-handler"),
	}
}

// Suggest asks the completion provider for recipe ideas
func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err, msgSuggestionFailed)
		return
	}

	suggestions, err := h.service.Suggest(r.Context(), req.Prompt)
	if err != nil {
		if appErr, ok := errors.As(err); ok && appErr.StatusCode() < http.StatusInternalServerError {
			writeJSON(w, appErr.StatusCode(), Response{Message: appErr.Message})
			return
		}

		h.logger.Error(msgSuggestionFailed,
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, SuggestionErrorResponse{
			Message: msgSuggestionFailed,
			Error:   errors.RootCause(err).Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, SuggestionResponse{
		Message:     "Suggestions generated successfully",
		Suggestions: suggestions,
	})
}
