package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is an inclusive, 1-based page span.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r PageRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Pages is the number of pages in the span.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// SplitMode selects how a document is cut.
type SplitMode string

const (
	SplitAll   SplitMode = "all"
	SplitRange SplitMode = "range"
)

// ParseSplitMode accepts "all" and "range"; empty means all.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SplitAll:
		return SplitAll, nil
	case SplitRange:
		return SplitRange, nil
	}
	return "", &ValidationError{Field: "mode", Message: "must be all or range"}
}

// ParsePageRanges reads "1-3, 4-8, 10". Malformed entries and entries
// outside 1..pageCount are dropped; an empty result is an error.
func ParsePageRanges(spec string, pageCount int) ([]PageRange, error) {
	var ranges []PageRange
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		startStr, endStr, isSpan := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil {
			continue
		}
		end := start
		if isSpan {
			if end, err = strconv.Atoi(strings.TrimSpace(endStr)); err != nil {
				continue
			}
		}

		if start < 1 || end < start || end > pageCount {
			continue
		}
		ranges = append(ranges, PageRange{Start: start, End: end})
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoValidRanges, spec)
	}
	return ranges, nil
}

// SinglePageRanges returns one range per page.
func SinglePageRanges(pageCount int) []PageRange {
	out := make([]PageRange, pageCount)
	for i := range out {
		out[i] = PageRange{Start: i + 1, End: i + 1}
	}
	return out
}

// CompressionLevel trades size for fidelity.
type CompressionLevel string

const (
	CompressionLow    CompressionLevel = "low"
	CompressionMedium CompressionLevel = "medium"
	CompressionHigh   CompressionLevel = "high"
)

// ParseCompressionLevel defaults to medium for an empty string.
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	switch CompressionLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "", CompressionMedium:
		return CompressionMedium, nil
	case CompressionLow:
		return CompressionLow, nil
	case CompressionHigh:
		return CompressionHigh, nil
	}
	return "", &ValidationError{Field: "level", Message: "must be low, medium or high"}
}

// WatermarkType is text or image.
type WatermarkType string

const (
	WatermarkText  WatermarkType = "text"
	WatermarkImage WatermarkType = "image"
)

// WatermarkPosition anchors the watermark on the page.
type WatermarkPosition string

const (
	PositionCenter      WatermarkPosition = "center"
	PositionTopLeft     WatermarkPosition = "topLeft"
	PositionTopRight    WatermarkPosition = "topRight"
	PositionBottomLeft  WatermarkPosition = "bottomLeft"
	PositionBottomRight WatermarkPosition = "bottomRight"
)

// WatermarkSpec describes a watermark applied to every page.
type WatermarkSpec struct {
	Type      WatermarkType     `json:"type"`
	Text      string            `json:"text,omitempty"`
	Image     []byte            `json:"-"`
	Position  WatermarkPosition `json:"position"`
	Opacity   int               `json:"opacity"`    // percent, 10..100
	Rotation  int               `json:"rotation"`   // degrees clockwise, -180..180
	FontSize  int               `json:"font_size"`  // points, 12..120
	ImageSize int               `json:"image_size"` // percent of the image's natural size
}

// DefaultWatermarkSpec mirrors the form defaults of the web tool.
func DefaultWatermarkSpec() WatermarkSpec {
	return WatermarkSpec{
		Type:      WatermarkText,
		Position:  PositionCenter,
		Opacity:   50,
		Rotation:  0,
		FontSize:  48,
		ImageSize: 100,
	}
}

// Validate checks ranges and required fields.
func (w *WatermarkSpec) Validate() error {
	switch w.Type {
	case WatermarkText:
		if strings.TrimSpace(w.Text) == "" {
			return ErrWatermarkEmpty
		}
	case WatermarkImage:
		if len(w.Image) == 0 {
			return ErrWatermarkEmpty
		}
	default:
		return &ValidationError{Field: "type", Message: "must be text or image"}
	}

	switch w.Position {
	case PositionCenter, PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight:
	default:
		return &ValidationError{Field: "position", Message: "must be center, topLeft, topRight, bottomLeft or bottomRight"}
	}
	if w.Opacity < 10 || w.Opacity > 100 {
		return &ValidationError{Field: "opacity", Message: "must be between 10 and 100"}
	}
	if w.Rotation < -180 || w.Rotation > 180 {
		return &ValidationError{Field: "rotation", Message: "must be between -180 and 180"}
	}
	if w.Type == WatermarkText && (w.FontSize < 12 || w.FontSize > 120) {
		return &ValidationError{Field: "font_size", Message: "must be between 12 and 120"}
	}
	if w.Type == WatermarkImage && (w.ImageSize < 1 || w.ImageSize > 400) {
		return &ValidationError{Field: "image_size", Message: "must be between 1 and 400"}
	}
	return nil
}

// Permissions granted to readers of a protected document.
type Permissions struct {
	Printing   bool `json:"printing"`
	Modifying  bool `json:"modifying"`
	Copying    bool `json:"copying"`
	Annotating bool `json:"annotating"`
}

// DefaultPermissions allows printing and annotating only.
func DefaultPermissions() Permissions {
	return Permissions{Printing: true, Annotating: true}
}

// ProtectOptions configures password protection.
type ProtectOptions struct {
	OpenPassword  string      `json:"-"`
	OwnerPassword string      `json:"-"`
	Permissions   Permissions `json:"permissions"`
}

// ConvertFormat is a conversion target.
type ConvertFormat string

const (
	FormatText       ConvertFormat = "text"
	FormatWord       ConvertFormat = "word"
	FormatExcel      ConvertFormat = "excel"
	FormatPowerPoint ConvertFormat = "powerpoint"
)

// ParseConvertFormat accepts the listed formats; empty means text.
func ParseConvertFormat(s string) (ConvertFormat, error) {
	switch f := ConvertFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatWord, FormatExcel, FormatPowerPoint:
		return f, nil
	}
	return "", &ValidationError{Field: "format", Message: "must be text, word, excel or powerpoint"}
}

// DocumentInfo summarizes a PDF without transforming it.
type DocumentInfo struct {
	PageCount int        `json:"page_count"`
	Version   string     `json:"version"`
	Encrypted bool       `json:"encrypted"`
	Size      int64      `json:"size"`
	PageSizes []PageSize `json:"page_sizes,omitempty"`
}

// PageSize is a page's media box in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
