package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/service"
	apperrors "pdf-toolkit/pkg/errors"
)

// multipartMemory is how much of a form is kept in memory before spilling
// to temp files.
const multipartMemory = 32 << 20

func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return apperrors.NewValidationError("Request must be multipart/form-data")
		}
		return apperrors.NewValidationError("Invalid form data", err.Error())
	}
	return nil
}

func readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, fmt.Errorf("reading %s: %w", fh.Filename, err)
	}
	return service.Upload{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}

// formUploads reads every file posted under "files" or "file", in order.
// insert_at values, when present, line up with the files by position;
// an empty value means none.
func formUploads(r *http.Request) ([]service.Upload, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}

	headers := r.MultipartForm.File["files"]
	headers = append(headers, r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		return nil, apperrors.NewValidationError("File is required")
	}

	insertAt := r.MultipartForm.Value["insert_at"]
	uploads := make([]service.Upload, 0, len(headers))
	for i, fh := range headers {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		if i < len(insertAt) {
			if u.InsertAt, err = parseOptionalIndex(insertAt[i]); err != nil {
				return nil, err
			}
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// formUpload reads the single document of a one-file tool.
func formUpload(r *http.Request) (service.Upload, error) {
	uploads, err := formUploads(r)
	if err != nil {
		return service.Upload{}, err
	}
	if len(uploads) > 1 {
		return service.Upload{}, apperrors.NewValidationError("Only one file can be processed at a time")
	}
	return uploads[0], nil
}

func parseOptionalIndex(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperrors.NewValidationError("insert_at must be a whole number", s)
	}
	return &n, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &domain.ValidationError{Field: key, Message: "must be a whole number"}
	}
	return n, nil
}

func formBool(r *http.Request, key string) (value, present bool) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v == "on", true
	}
	return b, true
}

// wantsDownload reports whether the client asked for the bytes instead of
// a download descriptor.
func wantsDownload(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("download"))
	return v
}

// serveFile streams a document as an attachment.
func serveFile(w http.ResponseWriter, r *http.Request, name, contentType string, modified time.Time, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, name, modified, bytes.NewReader(data))
}
