package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pdf-toolkit/internal/domain"

	"github.com/google/uuid"
)

// MemorySessionStore keeps merge sessions in process memory. A session
// expires once it has not been touched for the configured TTL.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.MergeSession
	ttl      time.Duration
	now      func() time.Time
	logger   domain.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemorySessionStore creates the store and starts its expiry janitor.
// Call Close to stop the janitor.
func NewMemorySessionStore(ttl time.Duration, logger domain.Logger) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]*domain.MergeSession),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	go runJanitor(janitorInterval(ttl), s.stop, s.evictExpired)
	return s
}

// Create starts an empty session for owner.
func (s *MemorySessionStore) Create(ctx context.Context, owner string) (*domain.MergeSession, error) {
	now := s.now()
	session := &domain.MergeSession{
		ID:        uuid.NewString(),
		Owner:     owner,
		Files:     domain.NewOrderingList(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Debug("Merge session created", "session_id", session.ID, "owner", owner)
	return session.Clone(), nil
}

// Get returns a copy of the session.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*domain.MergeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// Update applies fn to a copy of the session and stores the copy only if
// fn succeeds, so a failed edit leaves the session untouched.
func (s *MemorySessionStore) Update(ctx context.Context, id string, fn func(*domain.MergeSession) error) (*domain.MergeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	next := session.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()
	s.sessions[id] = next
	return next.Clone(), nil
}

// Delete removes the session.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(id); err != nil {
		return err
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor. Sessions stay readable.
func (s *MemorySessionStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// lookup must be called with mu held.
func (s *MemorySessionStore) lookup(id string) (*domain.MergeSession, error) {
	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return session, nil
}

func (s *MemorySessionStore) expired(session *domain.MergeSession) bool {
	return s.ttl > 0 && s.now().Sub(session.UpdatedAt) > s.ttl
}

func (s *MemorySessionStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Debug("Evicted expired merge sessions", "count", evicted)
	}
}

// janitorInterval sweeps twice per TTL, between once a second and once a
// minute.
func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	return interval
}

func runJanitor(interval time.Duration, stop <-chan struct{}, sweep func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-stop:
			return
		}
	}
}
