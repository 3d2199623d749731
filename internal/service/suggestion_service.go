package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"pdf-toolkit/internal/domain"

	"github.com/google/uuid"
)

const maxFeatureLength = 500

// SuggestionService collects feature suggestions.
type SuggestionService struct {
	repo   domain.SuggestionRepository
	now    func() time.Time
	logger domain.Logger
}

// NewSuggestionService creates a SuggestionService.
func NewSuggestionService(repo domain.SuggestionRepository, logger domain.Logger) *SuggestionService {
	return &SuggestionService{repo: repo, now: time.Now, logger: logger}
}

// Submit validates and stores a suggestion.
func (s *SuggestionService) Submit(ctx context.Context, email, feature, owner string) (*domain.FeatureSuggestion, error) {
	email = strings.TrimSpace(email)
	feature = strings.TrimSpace(feature)

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email address is not valid", domain.ErrInvalidSuggestion)
	}
	if feature == "" {
		return nil, fmt.Errorf("%w: feature is required", domain.ErrInvalidSuggestion)
	}
	if utf8.RuneCountInString(feature) > maxFeatureLength {
		return nil, fmt.Errorf("%w: feature must be at most %d characters", domain.ErrInvalidSuggestion, maxFeatureLength)
	}

	suggestion := &domain.FeatureSuggestion{
		ID:        uuid.NewString(),
		Email:     email,
		Feature:   feature,
		Owner:     owner,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, suggestion); err != nil {
		return nil, err
	}

	s.logger.Info("Feature suggestion received", "id", suggestion.ID, "owner", owner)
	return suggestion, nil
}

// List returns the newest suggestions.
func (s *SuggestionService) List(ctx context.Context, limit int) ([]*domain.FeatureSuggestion, error) {
	return s.repo.List(ctx, limit)
}
