package handler

import (
	"net/http"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/service"

	"github.com/gorilla/mux"
)

// DownloadHandler streams stored results.
type DownloadHandler struct {
	results *service.ResultService
	logger  domain.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(results *service.ResultService, logger domain.Logger) *DownloadHandler {
	return &DownloadHandler{results: results, logger: logger}
}

// Download handles GET /downloads/{id}.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Open(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, h.logger, err, "Error downloading file. Please try again.")
		return
	}

	h.logger.Debug("Serving result", "result_id", result.ID, "tool", result.Tool)
	serveFile(w, r, result.Filename, result.ContentType, result.CreatedAt, result.Data)
}
