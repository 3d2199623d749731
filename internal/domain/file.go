package domain

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
	"time"
)

// PDFMIMEType is the only MIME type the upload handlers accept.
const PDFMIMEType = "application/pdf"

// SelectedFile is one uploaded document waiting to be transformed.
type SelectedFile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MIMEType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	PageCount int       `json:"page_count"`
	InsertAt  *int      `json:"insert_at,omitempty"`
	AddedAt   time.Time `json:"added_at"`
	Content   []byte    `json:"-"`
}

// IsPDF reports whether the file declares the PDF MIME type.
func (f *SelectedFile) IsPDF() bool {
	return IsPDFMIME(f.MIMEType)
}

// IsPDFMIME compares the media type, ignoring parameters and case.
func IsPDFMIME(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, PDFMIMEType)
}

// ResolveMIMEType returns the declared type, or a sniffed one when the
// client sent nothing useful.
func ResolveMIMEType(declared string, head []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared
	}
	if bytes.HasPrefix(head, []byte("%PDF-")) {
		return PDFMIMEType
	}
	return http.DetectContentType(head)
}

// Rejection explains why an uploaded file was not accepted.
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
