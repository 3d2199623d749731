package domain

import "time"

// Result is the stored output of a transform.
type Result struct {
	ID          string    `json:"id"`
	Tool        string    `json:"tool"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	PageCount   int       `json:"page_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Data        []byte    `json:"-"`
}

// Expired reports whether the result is past its expiry at now.
func (r *Result) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// DownloadInfo is what the API returns after a successful transform.
type DownloadInfo struct {
	ID          string    `json:"id"`
	Tool        string    `json:"tool"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	PageCount   int       `json:"page_count,omitempty"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Output is a transform result before it has been stored.
type Output struct {
	Tool        string
	Filename    string
	ContentType string
	Data        []byte
	PageCount   int
}

// Content types produced by the tools.
const (
	ContentTypePDF  = PDFMIMEType
	ContentTypeZIP  = "application/zip"
	ContentTypeText = "text/plain; charset=utf-8"
)
