package service

import (
	"context"
	"strings"
	"time"

	"pdf-toolkit/internal/domain"

	"github.com/google/uuid"
)

// ResultService stores transform outputs and describes how to fetch them.
type ResultService struct {
	store   domain.ResultStore
	ttl     time.Duration
	baseURL string
	now     func() time.Time
	logger  domain.Logger
}

// NewResultService creates a ResultService. baseURL prefixes download
// links; empty yields relative links.
func NewResultService(store domain.ResultStore, ttl time.Duration, baseURL string, logger domain.Logger) *ResultService {
	return &ResultService{
		store:   store,
		ttl:     ttl,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		logger:  logger,
	}
}

// Save stores out under a new ID.
func (s *ResultService) Save(ctx context.Context, out *domain.Output) (*domain.DownloadInfo, error) {
	now := s.now()
	result := &domain.Result{
		ID:          uuid.NewString(),
		Tool:        out.Tool,
		Filename:    out.Filename,
		ContentType: out.ContentType,
		Size:        int64(len(out.Data)),
		PageCount:   out.PageCount,
		CreatedAt:   now,
		Data:        out.Data,
	}
	if s.ttl > 0 {
		result.ExpiresAt = now.Add(s.ttl)
	}

	if err := s.store.Put(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("Result stored", "result_id", result.ID, "tool", result.Tool, "size", result.Size)
	return s.describe(result), nil
}

// Open returns a stored result with its payload.
func (s *ResultService) Open(ctx context.Context, id string) (*domain.Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrResultNotFound
	}
	return s.store.Get(ctx, id)
}

// DownloadURL is where a result can be fetched.
func (s *ResultService) DownloadURL(id string) string {
	return s.baseURL + "/api/v1/downloads/" + id
}

func (s *ResultService) describe(r *domain.Result) *domain.DownloadInfo {
	return &domain.DownloadInfo{
		ID:          r.ID,
		Tool:        r.Tool,
		Filename:    r.Filename,
		ContentType: r.ContentType,
		Size:        r.Size,
		PageCount:   r.PageCount,
		URL:         s.DownloadURL(r.ID),
		ExpiresAt:   r.ExpiresAt,
	}
}
