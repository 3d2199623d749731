package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"

	"pdf-toolkit/internal/domain"
)

// ToolService runs the single-document tools.
type ToolService struct {
	engine    domain.PDFEngine
	converter domain.Converter
	now       func() time.Time
	logger    domain.Logger
}

// NewToolService creates a ToolService.
func NewToolService(engine domain.PDFEngine, converter domain.Converter, logger domain.Logger) *ToolService {
	return &ToolService{
		engine:    engine,
		converter: converter,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *ToolService) open(ctx context.Context, u Upload) (*domain.SelectedFile, error) {
	return inspect(ctx, s.engine, u, s.now())
}

// Info reports page count, version and page sizes of a document.
func (s *ToolService) Info(ctx context.Context, u Upload) (*domain.DocumentInfo, error) {
	f, err := s.open(ctx, u)
	if err != nil {
		return nil, err
	}
	return s.engine.Info(ctx, f.Content)
}

// Split cuts the document into one PDF per range and zips them. In
// SplitAll mode every page becomes its own document and rangeSpec is
// ignored.
func (s *ToolService) Split(ctx context.Context, u Upload, mode domain.SplitMode, rangeSpec string) (*domain.Output, error) {
	f, err := s.open(ctx, u)
	if err != nil {
		return nil, err
	}

	var ranges []domain.PageRange
	switch mode {
	case domain.SplitRange:
		if ranges, err = domain.ParsePageRanges(rangeSpec, f.PageCount); err != nil {
			return nil, err
		}
	default:
		ranges = domain.SinglePageRanges(f.PageCount)
	}

	parts, err := s.engine.Split(ctx, f.Content, ranges)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	pages := 0
	for i, r := range ranges {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     SplitEntryName(r.Start, r.End),
			Method:   zip.Deflate,
			Modified: s.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s to archive: %w", r, err)
		}
		if _, err := w.Write(parts[i]); err != nil {
			return nil, fmt.Errorf("writing %s to archive: %w", r, err)
		}
		pages += r.Pages()
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	s.logger.Info("PDF split", "name", f.Name, "parts", len(ranges))
	return &domain.Output{
		Tool:        domain.ToolSplit,
		Filename:    SplitArchiveName,
		ContentType: domain.ContentTypeZIP,
		Data:        buf.Bytes(),
		PageCount:   pages,
	}, nil
}

// Compress optimizes the document at level.
func (s *ToolService) Compress(ctx context.Context, u Upload, level domain.CompressionLevel) (*domain.Output, error) {
	f, err := s.open(ctx, u)
	if err != nil {
		return nil, err
	}

	data, err := s.engine.Compress(ctx, f.Content, level)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PDF compressed", "name", f.Name, "level", level, "before", f.Size, "after", len(data))
	return &domain.Output{
		Tool:        domain.ToolCompress,
		Filename:    compressedFilename(f.Name),
		ContentType: domain.ContentTypePDF,
		Data:        data,
		PageCount:   f.PageCount,
	}, nil
}

// Watermark stamps spec on every page.
func (s *ToolService) Watermark(ctx context.Context, u Upload, spec domain.WatermarkSpec) (*domain.Output, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	f, err := s.open(ctx, u)
	if err != nil {
		return nil, err
	}

	data, err := s.engine.Watermark(ctx, f.Content, spec)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PDF watermarked", "name", f.Name, "type", spec.Type, "position", spec.Position)
	return &domain.Output{
		Tool:        domain.ToolWatermark,
		Filename:    watermarkedFilename(f.Name),
		ContentType: domain.ContentTypePDF,
		Data:        data,
		PageCount:   f.PageCount,
	}, nil
}

// Protect encrypts the document with opts.
func (s *ToolService) Protect(ctx context.Context, u Upload, opts domain.ProtectOptions) (*domain.Output, error) {
	if opts.OpenPassword == "" {
		return nil, domain.ErrPasswordRequired
	}
	f, err := s.open(ctx, u)
	if err != nil {
		return nil, err
	}

	data, err := s.engine.Protect(ctx, f.Content, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PDF protected", "name", f.Name, "permissions", opts.Permissions)
	return &domain.Output{
		Tool:        domain.ToolProtect,
		Filename:    protectedFilename(f.Name),
		ContentType: domain.ContentTypePDF,
		Data:        data,
		PageCount:   f.PageCount,
	}, nil
}

// Convert turns the document into format. Only text is implemented; the
// office formats are listed in the catalog but not supported.
func (s *ToolService) Convert(ctx context.Context, u Upload, format domain.ConvertFormat) (*domain.Output, error) {
	if format != domain.FormatText {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	f, err := s.open(ctx, u)
	if err != nil {
		return nil, err
	}

	text, err := s.converter.ToText(ctx, f.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PDF converted", "name", f.Name, "format", format, "chars", len(text))
	return &domain.Output{
		Tool:        domain.ToolConvert,
		Filename:    textFilename(f.Name),
		ContentType: domain.ContentTypeText,
		Data:        []byte(text),
		PageCount:   f.PageCount,
	}, nil
}

// ConvertHTML prints html, or the page at rawURL when html is empty, to
// PDF.
func (s *ToolService) ConvertHTML(ctx context.Context, html, rawURL string) (*domain.Output, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case html != "":
		data, err = s.converter.HTMLToPDF(ctx, html)
	case rawURL != "":
		data, err = s.converter.URLToPDF(ctx, rawURL)
	default:
		return nil, &domain.ValidationError{Field: "html", Message: "html or url is required"}
	}
	if err != nil {
		return nil, err
	}

	pages, err := s.engine.PageCount(ctx, data)
	if err != nil {
		s.logger.Warn("Could not count pages of converted document", "error", err)
	}

	s.logger.Info("HTML converted to PDF", "size", len(data), "pages", pages)
	return &domain.Output{
		Tool:        domain.ToolConvert,
		Filename:    ConvertedPDFName,
		ContentType: domain.ContentTypePDF,
		Data:        data,
		PageCount:   pages,
	}, nil
}
