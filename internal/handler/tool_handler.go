// Package handler provides HTTP handlers for the API.
package handler

import (
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/service"
	apperrors "pdf-toolkit/pkg/errors"
)

// Generic failure messages, one per tool.
const (
	failMerge     = "Error merging PDFs. Please try again."
	failSplit     = "Error splitting PDF. Please try again."
	failCompress  = "Error compressing PDF. Please try again."
	failWatermark = "Error processing watermark. Please try again."
	failProtect   = "Error protecting PDF. Please try again."
	failConvert   = "Error converting PDF. Please try again."
	failInfo      = "Error reading PDF. Please try again."
)

// outputResponder stores an output and answers with its download
// descriptor, or streams it when ?download=1 is set.
type outputResponder struct {
	results *service.ResultService
	logger  domain.Logger
}

func (o outputResponder) respond(w http.ResponseWriter, r *http.Request, out *domain.Output) {
	if wantsDownload(r) {
		serveFile(w, r, out.Filename, out.ContentType, time.Now(), out.Data)
		return
	}

	info, err := o.results.Save(r.Context(), out)
	if err != nil {
		const failStore = "Error storing result. Please try again."
		writeAppError(w, o.logger, apperrors.NewInternalError(failStore, err), failStore)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ToolHandler serves the single-document tools.
type ToolHandler struct {
	tools  *service.ToolService
	out    outputResponder
	logger domain.Logger
}

// NewToolHandler creates a new tool handler
func NewToolHandler(tools *service.ToolService, results *service.ResultService, logger domain.Logger) *ToolHandler {
	return &ToolHandler{
		tools:  tools,
		out:    outputResponder{results: results, logger: logger},
		logger: logger,
	}
}

// Info reports page count, version and page sizes.
func (h *ToolHandler) Info(w http.ResponseWriter, r *http.Request) {
	upload, err := formUpload(r)
	if err != nil {
		writeAppError(w, h.logger, err, failInfo)
		return
	}

	info, err := h.tools.Info(r.Context(), upload)
	if err != nil {
		writeAppError(w, h.logger, err, failInfo)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Split handles POST /split with form fields mode (all|range) and ranges.
func (h *ToolHandler) Split(w http.ResponseWriter, r *http.Request) {
	upload, err := formUpload(r)
	if err != nil {
		writeAppError(w, h.logger, err, failSplit)
		return
	}
	mode, err := domain.ParseSplitMode(r.FormValue("mode"))
	if err != nil {
		writeAppError(w, h.logger, err, failSplit)
		return
	}

	out, err := h.tools.Split(r.Context(), upload, mode, r.FormValue("ranges"))
	if err != nil {
		writeAppError(w, h.logger, err, failSplit)
		return
	}
	h.out.respond(w, r, out)
}

// Compress handles POST /compress with form field level (low|medium|high).
func (h *ToolHandler) Compress(w http.ResponseWriter, r *http.Request) {
	upload, err := formUpload(r)
	if err != nil {
		writeAppError(w, h.logger, err, failCompress)
		return
	}
	level, err := domain.ParseCompressionLevel(r.FormValue("level"))
	if err != nil {
		writeAppError(w, h.logger, err, failCompress)
		return
	}

	out, err := h.tools.Compress(r.Context(), upload, level)
	if err != nil {
		writeAppError(w, h.logger, err, failCompress)
		return
	}
	h.out.respond(w, r, out)
}

// Watermark handles POST /watermark. The document is posted as "file";
// an image watermark as "image".
func (h *ToolHandler) Watermark(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeAppError(w, h.logger, err, failWatermark)
		return
	}
	images := r.MultipartForm.File["image"]
	delete(r.MultipartForm.File, "image")

	upload, err := formUpload(r)
	if err != nil {
		writeAppError(w, h.logger, err, failWatermark)
		return
	}
	spec, err := watermarkSpec(r)
	if err != nil {
		writeAppError(w, h.logger, err, failWatermark)
		return
	}
	if len(images) > 0 {
		img, err := readUpload(images[0])
		if err != nil {
			writeAppError(w, h.logger, err, failWatermark)
			return
		}
		spec.Image = img.Content
	}

	out, err := h.tools.Watermark(r.Context(), upload, spec)
	if err != nil {
		writeAppError(w, h.logger, err, failWatermark)
		return
	}
	h.out.respond(w, r, out)
}

func watermarkSpec(r *http.Request) (domain.WatermarkSpec, error) {
	spec := domain.DefaultWatermarkSpec()
	if v := strings.TrimSpace(r.FormValue("type")); v != "" {
		spec.Type = domain.WatermarkType(strings.ToLower(v))
	}
	if v := strings.TrimSpace(r.FormValue("position")); v != "" {
		spec.Position = domain.WatermarkPosition(v)
	}
	spec.Text = r.FormValue("text")

	var err error
	if spec.Opacity, err = formInt(r, "opacity", spec.Opacity); err != nil {
		return spec, err
	}
	if spec.Rotation, err = formInt(r, "rotation", spec.Rotation); err != nil {
		return spec, err
	}
	if spec.FontSize, err = formInt(r, "font_size", spec.FontSize); err != nil {
		return spec, err
	}
	if spec.ImageSize, err = formInt(r, "image_size", spec.ImageSize); err != nil {
		return spec, err
	}
	return spec, nil
}

// Protect handles POST /protect with open_password, owner_password and the
// permission switches printing, modifying, copying and annotating.
func (h *ToolHandler) Protect(w http.ResponseWriter, r *http.Request) {
	upload, err := formUpload(r)
	if err != nil {
		writeAppError(w, h.logger, err, failProtect)
		return
	}

	opts := domain.ProtectOptions{
		OpenPassword:  r.FormValue("open_password"),
		OwnerPassword: r.FormValue("owner_password"),
		Permissions:   permissions(r),
	}

	out, err := h.tools.Protect(r.Context(), upload, opts)
	if err != nil {
		writeAppError(w, h.logger, err, failProtect)
		return
	}
	h.out.respond(w, r, out)
}

// permissions falls back to the defaults when no switch was posted.
func permissions(r *http.Request) domain.Permissions {
	var p domain.Permissions
	posted := false
	for key, dst := range map[string]*bool{
		"printing":   &p.Printing,
		"modifying":  &p.Modifying,
		"copying":    &p.Copying,
		"annotating": &p.Annotating,
	} {
		if v, ok := formBool(r, key); ok {
			*dst = v
			posted = true
		}
	}
	if !posted {
		return domain.DefaultPermissions()
	}
	return p
}

// Convert handles POST /convert with form field format.
func (h *ToolHandler) Convert(w http.ResponseWriter, r *http.Request) {
	upload, err := formUpload(r)
	if err != nil {
		writeAppError(w, h.logger, err, failConvert)
		return
	}
	format, err := domain.ParseConvertFormat(r.FormValue("format"))
	if err != nil {
		writeAppError(w, h.logger, err, failConvert)
		return
	}

	out, err := h.tools.Convert(r.Context(), upload, format)
	if err != nil {
		writeAppError(w, h.logger, err, failConvert)
		return
	}
	h.out.respond(w, r, out)
}

type convertHTMLRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

// ConvertHTML handles POST /convert/html. It accepts a JSON body, a form,
// or a raw text/html body.
func (h *ToolHandler) ConvertHTML(w http.ResponseWriter, r *http.Request) {
	var req convertHTMLRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, h.logger, err, failConvert)
			return
		}
	case "text/html":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeAppError(w, h.logger, err, failConvert)
			return
		}
		req.HTML = string(body)
	default:
		req.HTML = r.FormValue("html")
		req.URL = r.FormValue("url")
	}

	out, err := h.tools.ConvertHTML(r.Context(), req.HTML, strings.TrimSpace(req.URL))
	if err != nil {
		writeAppError(w, h.logger, err, failConvert)
		return
	}
	h.out.respond(w, r, out)
}
