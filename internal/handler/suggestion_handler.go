package handler

import (
	"net/http"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/service"
)

// SuggestionHandler collects feature requests.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
	logger      domain.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestions *service.SuggestionService, logger domain.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, logger: logger}
}

type suggestionRequest struct {
	Email   string `json:"email"`
	Feature string `json:"feature"`
}

// Submit handles POST /suggestions.
func (h *SuggestionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err, "Error saving suggestion. Please try again.")
		return
	}

	s, err := h.suggestions.Submit(r.Context(), req.Email, req.Feature, UserNameFromContext(r.Context()))
	if err != nil {
		writeAppError(w, h.logger, err, "Error saving suggestion. Please try again.")
		return
	}
	writeJSON(w, http.StatusCreated, s)
}
