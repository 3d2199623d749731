package domain

import "errors"

// Domain errors
var (
	ErrNotPDF             = errors.New("file is not a PDF")
	ErrIndexOutOfRange    = errors.New("file index out of range")
	ErrInvalidDirection   = errors.New("direction must be up or down")
	ErrInvalidInsertIndex = errors.New("insertion index must not be negative")
	ErrNotEnoughFiles     = errors.New("at least 2 PDF files are required to merge")
	ErrPageCountMismatch  = errors.New("page counts do not match the file list")
	ErrEmptyFile          = errors.New("file is empty")
	ErrSessionNotFound    = errors.New("merge session not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrToolNotFound       = errors.New("tool not found")
	ErrToolUnavailable    = errors.New("tool not available")
	ErrNoValidRanges      = errors.New("no valid page ranges")
	ErrUnsupportedFormat  = errors.New("unsupported conversion format")
	ErrPasswordRequired   = errors.New("open password is required")
	ErrWatermarkEmpty     = errors.New("watermark text or image is required")
	ErrBrowserUnavailable = errors.New("html conversion is not configured")
	ErrInvalidSuggestion  = errors.New("invalid feature suggestion")
	ErrTooManyFiles       = errors.New("too many files")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
