package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultService_SaveAndOpen(t *testing.T) {
	store := repository.NewMemoryResultStore(time.Minute, testLogger())
	defer store.Close()

	svc := NewResultService(store, time.Hour, "https://pdf.example.com/", testLogger())
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	info, err := svc.Save(context.Background(), &domain.Output{
		Tool:        domain.ToolMerge,
		Filename:    "merged_2026-10-18.pdf",
		ContentType: domain.ContentTypePDF,
		Data:        []byte("%PDF-1.4"),
		PageCount:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pdf.example.com/api/v1/downloads/"+info.ID, info.URL)
	assert.Equal(t, int64(8), info.Size)
	assert.Equal(t, fixed.Add(time.Hour), info.ExpiresAt)

	result, err := svc.Open(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, "merged_2026-10-18.pdf", result.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), result.Data)
}

func TestResultService_OpenUnknown(t *testing.T) {
	store := repository.NewMemoryResultStore(time.Minute, testLogger())
	defer store.Close()
	svc := NewResultService(store, time.Hour, "", testLogger())

	_, err := svc.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)

	_, err = svc.Open(context.Background(), "0b6c1f8e-4a51-4c8e-9d5e-2f1a3b4c5d6e")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)

	assert.Equal(t, "/api/v1/downloads/x", svc.DownloadURL("x"))
}

type memorySuggestions struct {
	items []*domain.FeatureSuggestion
	err   error
}

func (m *memorySuggestions) Create(ctx context.Context, s *domain.FeatureSuggestion) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, s)
	return nil
}

func (m *memorySuggestions) List(ctx context.Context, limit int) ([]*domain.FeatureSuggestion, error) {
	return m.items, m.err
}

func TestSuggestionService_Submit(t *testing.T) {
	repo := &memorySuggestions{}
	svc := NewSuggestionService(repo, testLogger())

	s, err := svc.Submit(context.Background(), " user@example.com ", "  Rotate pages ", "QuietLynx3")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", s.Email)
	assert.Equal(t, "Rotate pages", s.Feature)
	assert.Equal(t, "QuietLynx3", s.Owner)
	assert.NotEmpty(t, s.ID)
	require.Len(t, repo.items, 1)
}

func TestSuggestionService_Validation(t *testing.T) {
	svc := NewSuggestionService(&memorySuggestions{}, testLogger())

	tests := []struct {
		name    string
		email   string
		feature string
	}{
		{"missing email", "", "OCR"},
		{"not an address", "not-an-email", "OCR"},
		{"display name form", "Jo <jo@example.com>", "OCR"},
		{"empty feature", "jo@example.com", "   "},
		{"feature too long", "jo@example.com", strings.Repeat("x", maxFeatureLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.email, tt.feature, "")
			assert.ErrorIs(t, err, domain.ErrInvalidSuggestion)
		})
	}
}

func TestSuggestionService_RepositoryError(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewSuggestionService(&memorySuggestions{err: boom}, testLogger())

	_, err := svc.Submit(context.Background(), "jo@example.com", "OCR", "")
	assert.ErrorIs(t, err, boom)
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{baseName("../../etc/passwd"), "passwd"},
		{baseName(`C:\Users\jo\report.pdf`), "report.pdf"},
		{baseName(""), "document.pdf"},
		{baseName("bad\"name\n.pdf"), "badname.pdf"},
		{compressedFilename("a.pdf"), "compressed_a.pdf"},
		{watermarkedFilename("a.pdf"), "watermarked-a.pdf"},
		{protectedFilename("a.pdf"), "protected_a.pdf"},
		{textFilename("scan.2024.pdf"), "scan.2024.txt"},
		{textFilename(".pdf"), ".pdf.txt"},
		{SplitEntryName(4, 8), "split_4_8.pdf"},
		{MergedFilename(time.Date(2026, 2, 3, 23, 0, 0, 0, time.UTC)), "merged_2026-02-03.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}
