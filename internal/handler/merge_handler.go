package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/service"
	apperrors "pdf-toolkit/pkg/errors"

	"github.com/gorilla/mux"
)

// MergeHandler serves the stateless merge and the merge sessions.
type MergeHandler struct {
	merges *service.MergeService
	out    outputResponder
	logger domain.Logger
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(merges *service.MergeService, results *service.ResultService, logger domain.Logger) *MergeHandler {
	return &MergeHandler{
		merges: merges,
		out:    outputResponder{results: results, logger: logger},
		logger: logger,
	}
}

// Merge handles POST /merge: every file under "files" in the posted order,
// with optional insert_at values lined up by position.
func (h *MergeHandler) Merge(w http.ResponseWriter, r *http.Request) {
	uploads, err := formUploads(r)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}

	out, err := h.merges.Merge(r.Context(), uploads)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	h.out.respond(w, r, out)
}

// CreateSession handles POST /merge/sessions.
func (h *MergeHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.merges.CreateSession(r.Context(), UserNameFromContext(r.Context()))
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /merge/sessions/{id}.
func (h *MergeHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.merges.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /merge/sessions/{id}.
func (h *MergeHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.merges.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addFilesResponse struct {
	Session  *domain.SessionView `json:"session"`
	Rejected []domain.Rejection  `json:"rejected"`
}

// AddFiles handles POST /merge/sessions/{id}/files. PDFs in the batch are
// kept and the rest are reported; a batch with no PDF at all fails.
func (h *MergeHandler) AddFiles(w http.ResponseWriter, r *http.Request) {
	uploads, err := formUploads(r)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}

	view, rejected, err := h.merges.AddFiles(r.Context(), mux.Vars(r)["id"], uploads)
	if err != nil {
		if errors.Is(err, domain.ErrNotPDF) {
			h.logger.Debug("Upload rejected", "files", len(rejected))
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:    "Please upload PDF files only",
				Type:     string(apperrors.ErrorTypeValidation),
				Rejected: rejected,
			})
			return
		}
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	if rejected == nil {
		rejected = make([]domain.Rejection, 0)
	}
	writeJSON(w, http.StatusOK, addFilesResponse{Session: view, Rejected: rejected})
}

// RemoveFile handles DELETE /merge/sessions/{id}/files/{index}.
func (h *MergeHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}

	view, err := h.merges.RemoveFile(r.Context(), mux.Vars(r)["id"], index)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type moveRequest struct {
	Direction string `json:"direction"`
}

// MoveFile handles POST /merge/sessions/{id}/files/{index}/move. The
// direction comes from a JSON body or the direction query/form value.
func (h *MergeHandler) MoveFile(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}

	raw := r.FormValue("direction")
	if raw == "" && isJSON(r) {
		var req moveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, h.logger, err, failMerge)
			return
		}
		raw = req.Direction
	}
	direction, err := domain.ParseDirection(raw)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}

	view, err := h.merges.MoveFile(r.Context(), mux.Vars(r)["id"], index, direction)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type insertAtRequest struct {
	InsertAt *int `json:"insert_at"`
}

// SetInsertAt handles PUT /merge/sessions/{id}/files/{index}/insert-at with
// body {"insert_at": n}, or {"insert_at": null} to clear it.
func (h *MergeHandler) SetInsertAt(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}

	var req insertAtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}

	view, err := h.merges.SetInsertAt(r.Context(), mux.Vars(r)["id"], index, req.InsertAt)
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MergeSession handles POST /merge/sessions/{id}/merge.
func (h *MergeHandler) MergeSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.merges.MergeSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, h.logger, err, failMerge)
		return
	}
	h.out.respond(w, r, out)
}

func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		return 0, apperrors.NewValidationError("File index must be a whole number")
	}
	return index, nil
}
