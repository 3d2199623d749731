package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

var errSentinel = stderrors.New("sentinel")

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"processing", NewProcessingError("failed", errSentinel), http.StatusUnprocessableEntity},
		{"not found", NewNotFoundError("gone"), http.StatusNotFound},
		{"too large", NewTooLargeError("big"), http.StatusRequestEntityTooLarge},
		{"unavailable", NewUnavailableError("off", nil), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFoundError("gone")), http.StatusNotFound},
		{"plain", errSentinel, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetStatusCode(tt.err); got != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestWrapValidation_KeepsCause(t *testing.T) {
	err := WrapValidation("Please select PDF files only", errSentinel)

	if !stderrors.Is(err, errSentinel) {
		t.Fatalf("expected sentinel to be reachable through %v", err)
	}
	if !IsType(err, ErrorTypeValidation) {
		t.Fatalf("expected validation type, got %s", err.Type)
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("bad range", "5-2")
	if got := err.Error(); got != "validation: bad range (5-2)" {
		t.Fatalf("unexpected message: %s", got)
	}
}
