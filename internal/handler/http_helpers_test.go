package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdf-toolkit/internal/domain"
	apperrors "pdf-toolkit/pkg/errors"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusTeapot, "nope")

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type application/json, got %s", ct)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"nope"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not pdf", fmt.Errorf("b.txt: %w", domain.ErrNotPDF), http.StatusBadRequest, "Please upload PDF files only"},
		{"not enough files", domain.ErrNotEnoughFiles, http.StatusBadRequest, "Please select at least 2 PDF files to merge"},
		{"field validation", &domain.ValidationError{Field: "mode", Message: "must be all or range"}, http.StatusBadRequest, "mode: must be all or range"},
		{"session", fmt.Errorf("%w: abc", domain.ErrSessionNotFound), http.StatusNotFound, "merge session not found"},
		{"browser", domain.ErrBrowserUnavailable, http.StatusServiceUnavailable, "html conversion is not configured"},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "Upload is too large"},
		{"app error passes through", apperrors.NewNotFoundError("gone"), http.StatusNotFound, "gone"},
		{"unknown", errors.New("pdfcpu: xref corrupt"), http.StatusUnprocessableEntity, "Error merging PDFs. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAppError(tt.err, failMerge)
			if got.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, got.StatusCode)
			}
			if got.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got.Message)
			}
		})
	}
}

func TestWriteAppError_LogsOnlyFailures(t *testing.T) {
	logger := NewMockHandlerLogger()

	writeAppError(httptest.NewRecorder(), logger, domain.ErrNotEnoughFiles, failMerge)
	if len(logger.Errors()) != 0 {
		t.Fatalf("expected validation errors not to be logged as errors")
	}

	rr := httptest.NewRecorder()
	writeAppError(rr, logger, errors.New("boom"), failMerge)
	if got := logger.Errors(); len(got) != 1 || got[0] != failMerge {
		t.Fatalf("expected one logged failure, got %v", got)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Fatalf("internal cause leaked to the client: %s", rr.Body.String())
	}
}
