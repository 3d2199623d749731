package handler

import (
	"net/http"
	"strconv"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/service"
)

// AdminHandler exposes admin-only endpoints protected by X-Admin-Secret.
// These endpoints are intended for internal use (support tooling) and should not be exposed publicly without additional safeguards.
type AdminHandler struct {
	suggestions *service.SuggestionService
	logger      domain.Logger
}

func NewAdminHandler(suggestions *service.SuggestionService, logger domain.Logger) *AdminHandler {
	return &AdminHandler{suggestions: suggestions, logger: logger}
}

// ListSuggestions returns the newest feature suggestions.
//
// Auth: requires `X-Admin-Secret` header matching env `ADMIN_API_SECRET`.
// Query: `limit` (default 50).
func (h *AdminHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	suggestions, err := h.suggestions.List(r.Context(), limit)
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to load suggestions")
		return
	}
	if suggestions == nil {
		suggestions = make([]*domain.FeatureSuggestion, 0)
	}
	writeJSON(w, http.StatusOK, suggestions)
}
