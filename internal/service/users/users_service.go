package users

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// Repository defines the persistence operations the profile service needs.
type Repository interface {
	UpsertUser(ctx context.Context, id string, in models.UpsertUserInput, now time.Time) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// ProfileService maintains identity-provider profiles.
type ProfileService interface {
	UpsertUser(ctx context.Context, id string, in models.UpsertUserInput) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Service implements ProfileService.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a profile service.
func NewService(repository Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repository,
		logger: logger,
		now:    time.Now,
	}
}

// UpsertUser merges the profile under its identity-provider subject; repeated
// logins update the mutable fields and keep created_at.
func (s *Service) UpsertUser(ctx context.Context, id string, in models.UpsertUserInput) error {
	if err := s.repo.UpsertUser(ctx, id, in, s.now().UTC()); err != nil {
		return err
	}
	s.logger.Debug("user profile upserted", zap.String("user_id", id))
	return nil
}

// GetUser fetches one profile by subject.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}
