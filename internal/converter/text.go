package converter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"pdf-toolkit/internal/domain"

	"github.com/ledongthuc/pdf"
)

// Extractor names accepted by TEXT_EXTRACTOR.
const (
	ExtractorPure = "pure"
	ExtractorFitz = "fitz"
)

// pageSeparator goes between pages in the text output.
const pageSeparator = "\f\n"

// TextExtractor returns the plain text of every page, in page order.
type TextExtractor interface {
	Pages(ctx context.Context, content []byte) ([]string, error)
}

// PureExtractor reads the text layer with ledongthuc/pdf. It needs no
// native libraries.
type PureExtractor struct {
	logger domain.Logger
}

// NewPureExtractor creates a PureExtractor.
func NewPureExtractor(logger domain.Logger) *PureExtractor {
	return &PureExtractor{logger: logger}
}

// Pages implements TextExtractor.
func (e *PureExtractor) Pages(ctx context.Context, content []byte) (pages []string, err error) {
	// The reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	fonts := make(map[string]*pdf.Font)
	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			e.logger.Warn("Text extraction failed for page", "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}

// joinPages renders extracted pages as one text document.
func joinPages(pages []string) string {
	return strings.Join(pages, pageSeparator)
}
