package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// Seeded defaults created for a fresh user. The presentation layer refuses to
// delete entities carrying these names.
const (
	DefaultProductName     = "Apple"
	DefaultProductCategory = "Fruits"
	DefaultProductUnit     = "per lb"
	DefaultStoreName       = "SuperMart"
	DefaultStoreLocation   = "123 Main St, Anytown, USA"
)

// Repository defines the persistence operations the catalog manager needs.
type Repository interface {
	UpsertProduct(ctx context.Context, p models.Product) error
	ListProducts(ctx context.Context, userID, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id, userID string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id, userID string, in models.UpdateProductInput) error
	DeleteProduct(ctx context.Context, id, userID string) error
	CountProducts(ctx context.Context, userID string) (int64, error)

	UpsertStore(ctx context.Context, s models.Store) error
	ListStores(ctx context.Context, userID, location string) ([]models.Store, error)
	GetStore(ctx context.Context, id, userID string) (*models.Store, error)
	UpdateStore(ctx context.Context, id, userID string, in models.UpdateStoreInput) error
	DeleteStore(ctx context.Context, id, userID string) error
	CountStores(ctx context.Context, userID string) (int64, error)

	DeleteEntriesByProduct(ctx context.Context, userID, productID string) (int64, error)
	DeleteEntriesByStore(ctx context.Context, userID, storeID string) (int64, error)
}

// Manager owns product and store entities: name-keyed upserts, listing,
// removal with observation cascade and first-login bootstrap.
type Manager interface {
	AddProduct(ctx context.Context, userID string, in models.CreateProductInput) (string, error)
	ListProducts(ctx context.Context, userID, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id, userID string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id, userID string, in models.UpdateProductInput) error
	RemoveProduct(ctx context.Context, id, userID string) error

	AddStore(ctx context.Context, userID string, in models.CreateStoreInput) (string, error)
	ListStores(ctx context.Context, userID, location string) ([]models.Store, error)
	GetStore(ctx context.Context, id, userID string) (*models.Store, error)
	UpdateStore(ctx context.Context, id, userID string, in models.UpdateStoreInput) error
	RemoveStore(ctx context.Context, id, userID string) error

	BootstrapIfEmpty(ctx context.Context, userID string) error
}

// Service implements the Manager interface.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a catalog manager.
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

// EntityKey derives the deterministic document id that stands in for a unique
// (user, normalized name) constraint: one id per user and case-insensitive,
// trimmed name.
func EntityKey(userID, name string) string {
	return userID + "_" + strings.ToLower(strings.TrimSpace(name))
}

// AddProduct validates the input and writes-or-merges the product under its
// derived id. Calling twice with the same name yields one document with the
// second call's category and unit.
func (s *Service) AddProduct(ctx context.Context, userID string, in models.CreateProductInput) (string, error) {
	if err := requireFields(map[string]string{
		"name":         in.Name,
		"category":     in.Category,
		"default_unit": in.DefaultUnit,
	}); err != nil {
		return "", err
	}

	id := EntityKey(userID, in.Name)
	product := models.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		DefaultUnit: in.DefaultUnit,
		UserID:      userID,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.UpsertProduct(ctx, product); err != nil {
		return "", err
	}

	s.logger.Debug("product upserted", zap.String("id", id), zap.String("user_id", userID))
	return id, nil
}

// ListProducts returns the user's products, name ascending, optionally
// filtered by category.
func (s *Service) ListProducts(ctx context.Context, userID, category string) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, userID, category)
}

// GetProduct fetches one product scoped to its owner.
func (s *Service) GetProduct(ctx context.Context, id, userID string) (*models.Product, error) {
	return s.repo.GetProduct(ctx, id, userID)
}

// UpdateProduct applies a partial update to an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id, userID string, in models.UpdateProductInput) error {
	return s.repo.UpdateProduct(ctx, id, userID, in)
}

// RemoveProduct deletes the product and then cascades over its observations.
// A cascade failure is surfaced to the caller; the product itself is already
// gone at that point, so retrying the delete converges.
func (s *Service) RemoveProduct(ctx context.Context, id, userID string) error {
	if err := s.repo.DeleteProduct(ctx, id, userID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteEntriesByProduct(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("product removed but cascade failed: %w", err)
	}

	s.logger.Info("product removed",
		zap.String("id", id),
		zap.String("user_id", userID),
		zap.Int64("cascaded_entries", deleted))
	return nil
}

// AddStore validates the input and writes-or-merges the store under its
// derived id.
func (s *Service) AddStore(ctx context.Context, userID string, in models.CreateStoreInput) (string, error) {
	if err := requireFields(map[string]string{
		"name":     in.Name,
		"location": in.Location,
	}); err != nil {
		return "", err
	}

	id := EntityKey(userID, in.Name)
	store := models.Store{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Location:  in.Location,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.UpsertStore(ctx, store); err != nil {
		return "", err
	}

	s.logger.Debug("store upserted", zap.String("id", id), zap.String("user_id", userID))
	return id, nil
}

// ListStores returns the user's stores, name ascending, optionally filtered
// by location.
func (s *Service) ListStores(ctx context.Context, userID, location string) ([]models.Store, error) {
	return s.repo.ListStores(ctx, userID, location)
}

// GetStore fetches one store scoped to its owner.
func (s *Service) GetStore(ctx context.Context, id, userID string) (*models.Store, error) {
	return s.repo.GetStore(ctx, id, userID)
}

// UpdateStore applies a partial update to an existing store.
func (s *Service) UpdateStore(ctx context.Context, id, userID string, in models.UpdateStoreInput) error {
	return s.repo.UpdateStore(ctx, id, userID, in)
}

// RemoveStore deletes the store and then cascades over its observations.
func (s *Service) RemoveStore(ctx context.Context, id, userID string) error {
	if err := s.repo.DeleteStore(ctx, id, userID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteEntriesByStore(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("store removed but cascade failed: %w", err)
	}

	s.logger.Info("store removed",
		zap.String("id", id),
		zap.String("user_id", userID),
		zap.Int64("cascaded_entries", deleted))
	return nil
}

// BootstrapIfEmpty seeds a starter product and store for a user with an empty
// catalog. The check is read-then-write, but the derived ids make concurrent
// first logins converge on the same seed documents instead of duplicating.
func (s *Service) BootstrapIfEmpty(ctx context.Context, userID string) error {
	products, err := s.repo.CountProducts(ctx, userID)
	if err != nil {
		return err
	}
	if products == 0 {
		if _, err := s.AddProduct(ctx, userID, models.CreateProductInput{
			Name:        DefaultProductName,
			Category:    DefaultProductCategory,
			DefaultUnit: DefaultProductUnit,
		}); err != nil {
			return fmt.Errorf("failed to seed default product: %w", err)
		}
		s.logger.Info("seeded default product", zap.String("user_id", userID))
	}

	stores, err := s.repo.CountStores(ctx, userID)
	if err != nil {
		return err
	}
	if stores == 0 {
		if _, err := s.AddStore(ctx, userID, models.CreateStoreInput{
			Name:     DefaultStoreName,
			Location: DefaultStoreLocation,
		}); err != nil {
			return fmt.Errorf("failed to seed default store: %w", err)
		}
		s.logger.Info("seeded default store", zap.String("user_id", userID))
	}

	return nil
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", models.ErrValidation, name)
		}
	}
	return nil
}
