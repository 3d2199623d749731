package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pdf-toolkit/internal/domain"
)

// MemoryResultStore keeps transform outputs in process memory until they
// expire.
type MemoryResultStore struct {
	mu      sync.RWMutex
	results map[string]*domain.Result
	now     func() time.Time
	logger  domain.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryResultStore creates the store and starts its expiry janitor.
// Results carry their own ExpiresAt; sweepEvery sets how often expired
// ones are dropped.
func NewMemoryResultStore(sweepEvery time.Duration, logger domain.Logger) *MemoryResultStore {
	s := &MemoryResultStore{
		results: make(map[string]*domain.Result),
		now:     time.Now,
		logger:  logger,
		stop:    make(chan struct{}),
	}
	go runJanitor(janitorInterval(sweepEvery), s.stop, s.evictExpired)
	return s
}

// Put stores result under its ID.
func (s *MemoryResultStore) Put(ctx context.Context, result *domain.Result) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("result must have an id")
	}
	s.mu.Lock()
	s.results[result.ID] = result
	s.mu.Unlock()
	return nil
}

// Get returns the stored result. Expired results are not found.
func (s *MemoryResultStore) Get(ctx context.Context, id string) (*domain.Result, error) {
	s.mu.RLock()
	result, ok := s.results[id]
	s.mu.RUnlock()

	if !ok || result.Expired(s.now()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrResultNotFound, id)
	}
	cp := *result
	return &cp, nil
}

// Delete removes the result. Deleting a missing result is not an error.
func (s *MemoryResultStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.results, id)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor.
func (s *MemoryResultStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryResultStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, result := range s.results {
		if result.Expired(now) {
			delete(s.results, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Debug("Evicted expired results", "count", evicted)
	}
}
