package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdf-toolkit/internal/domain"
)

// MergeService manages merge sessions and runs merges.
type MergeService struct {
	engine   domain.PDFEngine
	sessions domain.SessionStore
	maxFiles int
	now      func() time.Time
	logger   domain.Logger
}

// NewMergeService creates a MergeService. maxFiles bounds the files of one
// merge; zero means unbounded.
func NewMergeService(engine domain.PDFEngine, sessions domain.SessionStore, maxFiles int, logger domain.Logger) *MergeService {
	return &MergeService{
		engine:   engine,
		sessions: sessions,
		maxFiles: maxFiles,
		now:      time.Now,
		logger:   logger,
	}
}

// CreateSession starts an empty ordering list for owner.
func (s *MergeService) CreateSession(ctx context.Context, owner string) (*domain.SessionView, error) {
	session, err := s.sessions.Create(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Merge session started", "session_id", session.ID, "owner", owner)
	return session.View(), nil
}

// GetSession returns the current state of a session.
func (s *MergeService) GetSession(ctx context.Context, id string) (*domain.SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.View(), nil
}

// DeleteSession discards a session and its files.
func (s *MergeService) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// AddFiles appends every readable PDF among uploads, in order, and reports
// the rest. When nothing is accepted the session is unchanged and an error
// is returned.
func (s *MergeService) AddFiles(ctx context.Context, id string, uploads []Upload) (*domain.SessionView, []domain.Rejection, error) {
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return nil, nil, err
	}

	accepted, rejected, err := s.inspectAll(ctx, uploads)
	if err != nil {
		return nil, nil, err
	}
	if len(accepted) == 0 {
		return nil, rejected, fmt.Errorf("%w: no PDF files in upload", domain.ErrNotPDF)
	}

	session, err := s.sessions.Update(ctx, id, func(m *domain.MergeSession) error {
		if s.maxFiles > 0 && m.Files.Len()+len(accepted) > s.maxFiles {
			return fmt.Errorf("%w: a merge takes at most %d files", domain.ErrTooManyFiles, s.maxFiles)
		}
		for _, f := range accepted {
			if err := m.Files.Add(f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, rejected, err
	}

	s.logger.Info("Files added to merge session", "session_id", id, "accepted", len(accepted), "rejected", len(rejected))
	return session.View(), rejected, nil
}

// RemoveFile drops the entry at index.
func (s *MergeService) RemoveFile(ctx context.Context, id string, index int) (*domain.SessionView, error) {
	return s.edit(ctx, id, func(l *domain.OrderingList) error {
		return l.Remove(index)
	})
}

// MoveFile swaps the entry at index with its neighbour in direction.
func (s *MergeService) MoveFile(ctx context.Context, id string, index int, direction domain.Direction) (*domain.SessionView, error) {
	return s.edit(ctx, id, func(l *domain.OrderingList) error {
		return l.Move(index, direction)
	})
}

// SetInsertAt sets or clears (nil) the insertion index of an entry.
func (s *MergeService) SetInsertAt(ctx context.Context, id string, index int, insertAt *int) (*domain.SessionView, error) {
	return s.edit(ctx, id, func(l *domain.OrderingList) error {
		return l.SetInsertAt(index, insertAt)
	})
}

func (s *MergeService) edit(ctx context.Context, id string, fn func(*domain.OrderingList) error) (*domain.SessionView, error) {
	session, err := s.sessions.Update(ctx, id, func(m *domain.MergeSession) error {
		return fn(m.Files)
	})
	if err != nil {
		return nil, err
	}
	return session.View(), nil
}

// MergeSession merges the session's files. The session is kept so the
// user can adjust the order and merge again.
func (s *MergeService) MergeSession(ctx context.Context, id string) (*domain.Output, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.merge(ctx, session.Files)
}

// Merge merges uploads in the order given. Unlike AddFiles, a single
// non-PDF fails the whole request.
func (s *MergeService) Merge(ctx context.Context, uploads []Upload) (*domain.Output, error) {
	if s.maxFiles > 0 && len(uploads) > s.maxFiles {
		return nil, fmt.Errorf("%w: a merge takes at most %d files", domain.ErrTooManyFiles, s.maxFiles)
	}

	accepted, rejected, err := s.inspectAll(ctx, uploads)
	if err != nil {
		return nil, err
	}
	if len(rejected) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotPDF, rejected[0].Name)
	}
	return s.merge(ctx, domain.NewOrderingList(accepted...))
}

func (s *MergeService) merge(ctx context.Context, list *domain.OrderingList) (*domain.Output, error) {
	files := list.Files()
	if len(files) < 2 {
		return nil, domain.ErrNotEnoughFiles
	}

	counts := make([]int, len(files))
	docs := make([][]byte, len(files))
	for i, f := range files {
		counts[i] = f.PageCount
		docs[i] = f.Content
	}

	plan, err := list.Plan(counts)
	if err != nil {
		return nil, err
	}

	start := s.now()
	data, err := s.engine.Merge(ctx, docs, plan)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PDFs merged", "files", len(files), "pages", len(plan), "duration_ms", time.Since(start).Milliseconds())
	return &domain.Output{
		Tool:        domain.ToolMerge,
		Filename:    MergedFilename(s.now()),
		ContentType: domain.ContentTypePDF,
		Data:        data,
		PageCount:   len(plan),
	}, nil
}

// inspectAll splits uploads into accepted files and rejections. Only
// context cancellation aborts the whole batch.
func (s *MergeService) inspectAll(ctx context.Context, uploads []Upload) ([]*domain.SelectedFile, []domain.Rejection, error) {
	var (
		accepted []*domain.SelectedFile
		rejected []domain.Rejection
	)
	now := s.now()
	for _, u := range uploads {
		f, err := inspect(ctx, s.engine, u, now)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			s.logger.Warn("Upload rejected", "name", u.Name, "error", err)
			rejected = append(rejected, domain.Rejection{Name: baseName(u.Name), Reason: rejectionReason(err)})
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyFile):
		return domain.ErrEmptyFile.Error()
	case errors.Is(err, domain.ErrInvalidInsertIndex):
		return domain.ErrInvalidInsertIndex.Error()
	default:
		return "Please upload PDF files only"
	}
}
