package converter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pdf-toolkit/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const defaultPageTimeout = 90 * time.Second

// FitzExtractor reads text through MuPDF. It copes with documents the pure
// reader cannot parse, at the cost of a native dependency.
type FitzExtractor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

// NewFitzExtractor creates a FitzExtractor. A page that takes longer than
// pageTimeout is returned empty; zero means 90 seconds.
func NewFitzExtractor(logger domain.Logger, pageTimeout time.Duration) *FitzExtractor {
	if pageTimeout <= 0 {
		pageTimeout = defaultPageTimeout
	}
	return &FitzExtractor{logger: logger, pageTimeout: pageTimeout}
}

// Pages implements TextExtractor. MuPDF serialises calls on a document,
// so once a page times out the remaining pages are returned empty and the
// document is left for the stuck call to release.
func (e *FitzExtractor) Pages(ctx context.Context, content []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	type pageResult struct {
		text string
		err  error
	}

	numPages := doc.NumPage()
	pages := make([]string, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		e.logger.Debug("Extracting page text", "page", pageNum+1, "total", numPages)

		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, err := doc.Text(idx)
			resultCh <- pageResult{text: t, err: err}
		}(pageNum)

		select {
		case res := <-resultCh:
			if res.err != nil {
				e.logger.Warn("Text extraction failed for page", "page", pageNum+1, "error", res.err)
				continue
			}
			pages[pageNum] = strings.TrimSpace(res.text)
		case <-time.After(e.pageTimeout):
			e.logger.Warn("Page extraction timeout; skipping remaining pages", "page", pageNum+1, "total", numPages, "timeout_sec", int(e.pageTimeout.Seconds()))
			go func() {
				<-resultCh
				doc.Close()
			}()
			return pages, nil
		case <-ctx.Done():
			go func() {
				<-resultCh
				doc.Close()
			}()
			return nil, ctx.Err()
		}
	}

	doc.Close()
	return pages, nil
}
