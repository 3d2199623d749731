package service

import (
	"context"
	"fmt"
	"time"

	"pdf-toolkit/internal/domain"

	"github.com/google/uuid"
)

// Upload is one file as received from a client.
type Upload struct {
	Name     string
	MIMEType string
	Content  []byte
	InsertAt *int
}

// inspect turns an upload into a SelectedFile, resolving its MIME type and
// reading its page count. Anything that is not a readable PDF is rejected.
func inspect(ctx context.Context, engine domain.PDFEngine, u Upload, now time.Time) (*domain.SelectedFile, error) {
	if len(u.Content) == 0 {
		return nil, domain.ErrEmptyFile
	}

	head := u.Content
	if len(head) > 512 {
		head = head[:512]
	}
	file := &domain.SelectedFile{
		ID:       uuid.NewString(),
		Name:     baseName(u.Name),
		MIMEType: domain.ResolveMIMEType(u.MIMEType, head),
		Size:     int64(len(u.Content)),
		AddedAt:  now,
		Content:  u.Content,
	}
	if u.InsertAt != nil {
		if *u.InsertAt < 0 {
			return nil, domain.ErrInvalidInsertIndex
		}
		v := *u.InsertAt
		file.InsertAt = &v
	}
	if !file.IsPDF() {
		return nil, domain.ErrNotPDF
	}

	pages, err := engine.PageCount(ctx, u.Content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: unreadable document: %v", domain.ErrNotPDF, err)
	}
	file.PageCount = pages
	return file, nil
}
