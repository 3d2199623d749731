// Package pdfengine runs page-level PDF work through pdfcpu.
//
// Documents travel as byte slices; every call reads its input from memory
// and writes its output to a fresh buffer, so an Engine is safe for
// concurrent use.
package pdfengine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"pdf-toolkit/internal/domain"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Engine implements domain.PDFEngine.
type Engine struct {
	logger domain.Logger
}

// New creates an engine. pdfcpu's on-disk config directory is disabled
// process-wide; all configuration is built in code.
func New(logger domain.Logger) *Engine {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Engine{logger: logger}
}

func newConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func reader(content []byte) io.ReadSeeker {
	return bytes.NewReader(content)
}

// PageCount returns the number of pages in content.
func (e *Engine) PageCount(ctx context.Context, content []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(content) == 0 {
		return 0, domain.ErrEmptyFile
	}
	n, err := api.PageCount(reader(content), newConf())
	if err != nil {
		return 0, fmt.Errorf("reading page count: %w", err)
	}
	return n, nil
}

// Info reads page count, version, encryption and page sizes.
func (e *Engine) Info(ctx context.Context, content []byte) (*domain.DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, domain.ErrEmptyFile
	}

	pdfCtx, err := api.ReadContext(reader(content), newConf())
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("reading page tree: %w", err)
	}

	info := &domain.DocumentInfo{
		PageCount: pdfCtx.PageCount,
		Encrypted: pdfCtx.Encrypt != nil,
		Size:      int64(len(content)),
	}
	if pdfCtx.HeaderVersion != nil {
		info.Version = pdfCtx.HeaderVersion.String()
	}

	dims, err := pdfCtx.PageDims()
	if err != nil {
		e.logger.Warn("Could not read page dimensions", "error", err)
		return info, nil
	}
	for _, d := range dims {
		info.PageSizes = append(info.PageSizes, domain.PageSize{Width: d.Width, Height: d.Height})
	}
	return info, nil
}

// Merge concatenates docs and then reorders the pages to follow plan.
// A nil plan, or one equal to plain concatenation, skips the reorder step.
func (e *Engine) Merge(ctx context.Context, docs [][]byte, plan []domain.PageRef) ([]byte, error) {
	if len(docs) == 0 {
		return nil, domain.ErrNotEnoughFiles
	}

	counts := make([]int, len(docs))
	for i, doc := range docs {
		n, err := e.PageCount(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", i, err)
		}
		counts[i] = n
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged bytes.Buffer
	if len(docs) == 1 {
		merged.Write(docs[0])
	} else {
		rsc := make([]io.ReadSeeker, len(docs))
		for i, doc := range docs {
			rsc[i] = reader(doc)
		}
		if err := api.MergeRaw(rsc, &merged, false, newConf()); err != nil {
			return nil, fmt.Errorf("merging documents: %w", err)
		}
	}

	if plan == nil || domain.IsSequential(plan, counts) {
		e.logger.Debug("Merged documents", "files", len(docs), "pages", sum(counts))
		return merged.Bytes(), nil
	}

	selected, err := collectSelection(plan, counts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.Collect(reader(merged.Bytes()), &out, selected, newConf()); err != nil {
		return nil, fmt.Errorf("ordering merged pages: %w", err)
	}

	e.logger.Debug("Merged documents with insertions", "files", len(docs), "pages", len(plan))
	return out.Bytes(), nil
}

// collectSelection maps plan entries to page numbers of the concatenated
// document.
func collectSelection(plan []domain.PageRef, counts []int) ([]string, error) {
	offsets := make([]int, len(counts))
	for i := 1; i < len(counts); i++ {
		offsets[i] = offsets[i-1] + counts[i-1]
	}

	selected := make([]string, len(plan))
	for i, ref := range plan {
		if ref.File < 0 || ref.File >= len(counts) || ref.Page < 1 || ref.Page > counts[ref.File] {
			return nil, fmt.Errorf("%w: page %d of file %d", domain.ErrPageCountMismatch, ref.Page, ref.File)
		}
		selected[i] = strconv.Itoa(offsets[ref.File] + ref.Page)
	}
	return selected, nil
}

// Split produces one document per range.
func (e *Engine) Split(ctx context.Context, content []byte, ranges []domain.PageRange) ([][]byte, error) {
	pages, err := e.PageCount(ctx, content)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(ranges))
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.Start < 1 || r.End < r.Start || r.End > pages {
			return nil, fmt.Errorf("%w: %s of %d pages", domain.ErrNoValidRanges, r, pages)
		}

		var buf bytes.Buffer
		if err := api.Collect(reader(content), &buf, []string{r.String()}, newConf()); err != nil {
			return nil, fmt.Errorf("extracting pages %s: %w", r, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}

// Compress rewrites content with pdfcpu's optimizer.
func (e *Engine) Compress(ctx context.Context, content []byte, level domain.CompressionLevel) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := newConf()
	switch level {
	case domain.CompressionLow:
		conf.WriteObjectStream = false
		conf.WriteXRefStream = false
	case domain.CompressionHigh:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = true
		conf.OptimizeDuplicateContentStreams = true
	default:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = true
	}

	var out bytes.Buffer
	if err := api.Optimize(reader(content), &out, conf); err != nil {
		return nil, fmt.Errorf("optimizing document: %w", err)
	}

	e.logger.Debug("Compressed document", "level", level, "before", len(content), "after", out.Len())
	return out.Bytes(), nil
}

func sum(counts []int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
