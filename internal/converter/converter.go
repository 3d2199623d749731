// Package converter changes document formats: PDF to text, and HTML or a
// web page to PDF.
package converter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pdf-toolkit/internal/domain"
)

// Options configures a Converter.
type Options struct {
	// TextExtractor is ExtractorPure or ExtractorFitz. Empty means pure.
	TextExtractor string
	ChromePath    string
	AutoDownload  bool
	// Timeout bounds one HTML conversion. Zero means no limit.
	Timeout time.Duration
}

// Converter implements domain.Converter.
type Converter struct {
	text   TextExtractor
	html   *htmlRenderer
	logger domain.Logger
}

// New creates a Converter. The headless browser is not started until the
// first HTML conversion, so a missing Chrome only affects those calls.
func New(opts Options, logger domain.Logger) (*Converter, error) {
	var text TextExtractor
	switch strings.ToLower(opts.TextExtractor) {
	case "", ExtractorPure:
		text = NewPureExtractor(logger)
	case ExtractorFitz:
		text = NewFitzExtractor(logger, 0)
	default:
		return nil, fmt.Errorf("unknown text extractor %q", opts.TextExtractor)
	}

	return &Converter{
		text: text,
		html: &htmlRenderer{
			chromePath:   opts.ChromePath,
			autoDownload: opts.AutoDownload,
			timeout:      opts.Timeout,
			policy:       requestPolicy{resolve: systemResolver},
			logger:       logger,
		},
		logger: logger,
	}, nil
}

// ToText extracts the text of every page. Pages are separated by a form
// feed.
func (c *Converter) ToText(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", domain.ErrEmptyFile
	}
	pages, err := c.text.Pages(ctx, content)
	if err != nil {
		return "", err
	}
	return joinPages(pages), nil
}

// HTMLToPDF prints an HTML document to PDF.
func (c *Converter) HTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, &domain.ValidationError{Field: "html", Message: "must not be empty"}
	}
	return c.html.renderHTML(ctx, html)
}

// URLToPDF prints the page at rawURL to PDF.
func (c *Converter) URLToPDF(ctx context.Context, rawURL string) ([]byte, error) {
	return c.html.renderURL(ctx, rawURL)
}

// Close stops the browser if it was started. Close is idempotent.
func (c *Converter) Close() error {
	c.html.close()
	return nil
}
