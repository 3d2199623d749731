package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"pdf-toolkit/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
)

// ObjectStorage is the part of the Supabase storage client the result
// store needs.
type ObjectStorage interface {
	UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	DownloadFile(bucketID string, filePath string, urlOptions ...storage_go.UrlOptions) ([]byte, error)
	RemoveFile(bucketID string, paths []string) ([]storage_go.FileUploadResponse, error)
}

const resultPrefix = "results"

// SupabaseResultStore keeps results in a Supabase storage bucket. Each
// result is two objects: the payload and a JSON metadata sidecar.
type SupabaseResultStore struct {
	storage ObjectStorage
	bucket  string
	now     func() time.Time
	logger  domain.Logger
}

// NewSupabaseResultStore creates a store on bucket.
func NewSupabaseResultStore(storage ObjectStorage, bucket string, logger domain.Logger) *SupabaseResultStore {
	return &SupabaseResultStore{
		storage: storage,
		bucket:  bucket,
		now:     time.Now,
		logger:  logger,
	}
}

func dataPath(id string) string { return path.Join(resultPrefix, id, "data") }
func metaPath(id string) string { return path.Join(resultPrefix, id, "meta.json") }

// Put uploads the payload, then the metadata.
func (s *SupabaseResultStore) Put(ctx context.Context, result *domain.Result) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("result must have an id")
	}

	meta, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result metadata: %w", err)
	}

	upsert := true
	contentType := result.ContentType
	if _, err := s.storage.UploadFile(s.bucket, dataPath(result.ID), bytes.NewReader(result.Data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}); err != nil {
		return fmt.Errorf("uploading result %s: %w", result.ID, err)
	}

	jsonType := "application/json"
	if _, err := s.storage.UploadFile(s.bucket, metaPath(result.ID), bytes.NewReader(meta), storage_go.FileOptions{
		ContentType: &jsonType,
		Upsert:      &upsert,
	}); err != nil {
		return fmt.Errorf("uploading result metadata %s: %w", result.ID, err)
	}

	s.logger.Debug("Result uploaded", "result_id", result.ID, "bucket", s.bucket, "size", len(result.Data))
	return nil
}

// Get downloads metadata and payload. An expired result is removed and
// reported as not found.
func (s *SupabaseResultStore) Get(ctx context.Context, id string) (*domain.Result, error) {
	raw, err := s.storage.DownloadFile(s.bucket, metaPath(id))
	if err != nil {
		s.logger.Debug("Result metadata not downloadable", "result_id", id, "error", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrResultNotFound, id)
	}

	var result domain.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding result metadata %s: %w", id, err)
	}
	if result.Expired(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warn("Failed to remove expired result", "result_id", id, "error", err)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrResultNotFound, id)
	}

	data, err := s.storage.DownloadFile(s.bucket, dataPath(id))
	if err != nil {
		return nil, fmt.Errorf("downloading result %s: %w", id, err)
	}
	result.Data = data
	return &result, nil
}

// Delete removes both objects.
func (s *SupabaseResultStore) Delete(ctx context.Context, id string) error {
	if _, err := s.storage.RemoveFile(s.bucket, []string{dataPath(id), metaPath(id)}); err != nil {
		return fmt.Errorf("removing result %s: %w", id, err)
	}
	return nil
}
