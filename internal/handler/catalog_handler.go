package handler

import (
	"net/http"
	"strconv"

	"pdf-toolkit/internal/domain"

	"github.com/gorilla/mux"
)

// CatalogHandler serves the tool metadata.
type CatalogHandler struct {
	catalog domain.ToolCatalog
	logger  domain.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog domain.ToolCatalog, logger domain.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ListTools handles GET /tools. With q it searches; category and active
// filter the list and the search hits alike.
func (h *CatalogHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	activeOnly, _ := strconv.ParseBool(query.Get("active"))
	filter := domain.ToolFilter{
		Category:   query.Get("category"),
		ActiveOnly: activeOnly,
	}

	q := query.Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, nonNil(h.catalog.List(filter)))
		return
	}

	limit := 0
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	if filter == (domain.ToolFilter{}) {
		tools, err := h.catalog.Search(q, limit)
		if err != nil {
			writeAppError(w, h.logger, err, "Error searching tools. Please try again.")
			return
		}
		writeJSON(w, http.StatusOK, nonNil(tools))
		return
	}

	// Rank the whole catalog so filtering cannot starve the page.
	hits, err := h.catalog.Search(q, len(h.catalog.List(domain.ToolFilter{})))
	if err != nil {
		writeAppError(w, h.logger, err, "Error searching tools. Please try again.")
		return
	}
	if limit == 0 {
		limit = domain.DefaultSearchLimit
	}
	tools := make([]domain.ToolDescriptor, 0, len(hits))
	for _, t := range hits {
		if filter.Matches(t) && len(tools) < limit {
			tools = append(tools, t)
		}
	}
	writeJSON(w, http.StatusOK, tools)
}

// GetTool handles GET /tools/{id}.
func (h *CatalogHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	tool, err := h.catalog.Get(mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, h.logger, err, "Error loading tool. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

// nonNil keeps an empty result a JSON array.
func nonNil(tools []domain.ToolDescriptor) []domain.ToolDescriptor {
	if tools == nil {
		return make([]domain.ToolDescriptor, 0)
	}
	return tools
}
