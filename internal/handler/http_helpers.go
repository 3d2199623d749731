package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"pdf-toolkit/internal/domain"
	apperrors "pdf-toolkit/pkg/errors"
)

type contextKey string

const userNameContextKey contextKey = "user_name"

// UserNameFromContext returns the anonymous identity set by IdentityMiddleware.
func UserNameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(userNameContextKey).(string)
	return name
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type errorResponse struct {
	Error    string             `json:"error"`
	Type     string             `json:"type,omitempty"`
	Details  string             `json:"details,omitempty"`
	Rejected []domain.Rejection `json:"rejected,omitempty"`
}

// writeAppError maps err to a status and a message safe to show. failure
// is the generic message used when err carries nothing the user can act on.
func writeAppError(w http.ResponseWriter, logger domain.Logger, err error, failure string) {
	appErr := toAppError(err, failure)
	if appErr.StatusCode >= http.StatusInternalServerError || appErr.Type == apperrors.ErrorTypeProcessing {
		logger.Error(failure, err)
	} else {
		logger.Debug("Request rejected", "error", err)
	}
	writeJSON(w, appErr.StatusCode, errorResponse{
		Error:   appErr.Message,
		Type:    string(appErr.Type),
		Details: appErr.Details,
	})
}

func toAppError(err error, failure string) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}

	var validation *domain.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &validation):
		return apperrors.WrapValidation(validation.Error(), err)
	case errors.As(err, &tooLarge):
		return apperrors.NewTooLargeError("Upload is too large")
	case errors.Is(err, domain.ErrNotPDF):
		return apperrors.WrapValidation("Please upload PDF files only", err)
	case errors.Is(err, domain.ErrNotEnoughFiles):
		return apperrors.WrapValidation("Please select at least 2 PDF files to merge", err)
	case errors.Is(err, domain.ErrPasswordRequired):
		return apperrors.WrapValidation("Please upload a file and enter an open password", err)
	case errors.Is(err, domain.ErrInvalidSuggestion),
		errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidInsertIndex),
		errors.Is(err, domain.ErrNoValidRanges),
		errors.Is(err, domain.ErrWatermarkEmpty),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrTooManyFiles):
		return apperrors.WrapValidation(err.Error(), err)
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrToolNotFound),
		errors.Is(err, domain.ErrToolUnavailable):
		return apperrors.NewNotFoundError(rootMessage(err))
	case errors.Is(err, domain.ErrBrowserUnavailable):
		return apperrors.NewUnavailableError(domain.ErrBrowserUnavailable.Error(), err)
	}
	return apperrors.NewProcessingError(failure, err)
}

// rootMessage returns the sentinel text without the IDs wrapped around it.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrSessionNotFound,
		domain.ErrResultNotFound,
		domain.ErrToolNotFound,
		domain.ErrToolUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// isJSON reports whether the request body is declared as JSON, ignoring
// parameters such as charset.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return apperrors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}
