package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// DefaultRecentDays bounds the "recent entries" window when the caller does
// not provide one.
const DefaultRecentDays = 30

// Repository defines the persistence operations the observation engine needs.
type Repository interface {
	UpsertObservation(ctx context.Context, userID string, in models.CreatePriceEntryInput, now time.Time) (*models.PriceEntry, error)
	ListEntries(ctx context.Context, userID string, since time.Time) ([]models.PriceEntry, error)
	EntriesByProduct(ctx context.Context, userID, productID string) ([]models.PriceEntry, error)
	Comparison(ctx context.Context, userID, productID string) ([]models.PriceEntry, error)
	BestPrice(ctx context.Context, userID, productID string) (*models.PriceEntry, error)
	DeleteEntry(ctx context.Context, id primitive.ObjectID, userID string) error
	DeleteEntriesByProduct(ctx context.Context, userID, productID string) (int64, error)
	DeleteEntriesByStore(ctx context.Context, userID, storeID string) (int64, error)
}

// Engine reconciles price reports into current observations and derives the
// best-price, comparison and trend views over them.
type Engine interface {
	RecordObservation(ctx context.Context, userID string, in models.CreatePriceEntryInput) (*models.PriceEntry, error)
	RemoveObservation(ctx context.Context, id, userID string) error
	ListEntries(ctx context.Context, userID string) ([]models.PriceEntry, error)
	RecentEntries(ctx context.Context, userID string, days int) ([]models.PriceEntry, error)
	EntriesByProduct(ctx context.Context, userID, productID string) ([]models.PriceEntry, error)
	BestPrice(ctx context.Context, userID, productID string) (*models.PriceEntry, error)
	Comparison(ctx context.Context, userID, productID string) ([]models.PriceEntry, error)
	AveragePrice(ctx context.Context, userID, productID string) (float64, error)
	BestPricesByProduct(ctx context.Context, userID string) (map[string]models.PriceEntry, error)
	ProductTrend(ctx context.Context, userID, productID string) (models.TrendDirection, bool, error)
	Statistics(ctx context.Context, userID string) (models.Stats, error)
	DeleteByProduct(ctx context.Context, userID, productID string) (int64, error)
	DeleteByStore(ctx context.Context, userID, storeID string) (int64, error)
}

// Service implements the Engine interface.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs an observation engine.
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

// RecordObservation validates the report and reconciles it into the single
// current observation for its (user, product, store) tuple. The write is one
// atomic conditional upsert, so two tabs reporting the same tuple at once
// converge on one entry with the later price.
func (s *Service) RecordObservation(ctx context.Context, userID string, in models.CreatePriceEntryInput) (*models.PriceEntry, error) {
	if err := validateObservation(in); err != nil {
		return nil, err
	}

	entry, err := s.repo.UpsertObservation(ctx, userID, in, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Debug("observation recorded",
		zap.String("user_id", userID),
		zap.String("product_id", in.ProductID),
		zap.String("store_id", in.StoreID),
		zap.Float64("price", in.Price))
	return entry, nil
}

// RemoveObservation deletes one observation by id, scoped to its owner.
func (s *Service) RemoveObservation(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid entry id", models.ErrValidation)
	}
	return s.repo.DeleteEntry(ctx, oid, userID)
}

// ListEntries returns every observation of the user, newest first.
func (s *Service) ListEntries(ctx context.Context, userID string) ([]models.PriceEntry, error) {
	return s.repo.ListEntries(ctx, userID, time.Time{})
}

// RecentEntries returns observations dated within the last given days,
// newest first.
func (s *Service) RecentEntries(ctx context.Context, userID string, days int) ([]models.PriceEntry, error) {
	if days <= 0 {
		days = DefaultRecentDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	return s.repo.ListEntries(ctx, userID, since)
}

// EntriesByProduct returns a product's observations, newest first.
func (s *Service) EntriesByProduct(ctx context.Context, userID, productID string) ([]models.PriceEntry, error) {
	return s.repo.EntriesByProduct(ctx, userID, productID)
}

// BestPrice returns the cheapest current observation for a product, or nil
// when none exists. Ties keep whichever entry the store returned first; price
// is the only ordering key.
func (s *Service) BestPrice(ctx context.Context, userID, productID string) (*models.PriceEntry, error) {
	return s.repo.BestPrice(ctx, userID, productID)
}

// Comparison returns a product's current observations across all stores,
// cheapest first. One entry per store by the reconciliation rule, so this is
// a cross-store comparison table, not a history.
func (s *Service) Comparison(ctx context.Context, userID, productID string) ([]models.PriceEntry, error) {
	return s.repo.Comparison(ctx, userID, productID)
}

// AveragePrice returns the arithmetic mean over a product's current
// observations, 0 when it has none.
func (s *Service) AveragePrice(ctx context.Context, userID, productID string) (float64, error) {
	entries, err := s.repo.EntriesByProduct(ctx, userID, productID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	var sum float64
	for _, entry := range entries {
		sum += entry.Price
	}
	return sum / float64(len(entries)), nil
}

// BestPricesByProduct folds the user's whole collection into a map of product
// id to its cheapest observation.
func (s *Service) BestPricesByProduct(ctx context.Context, userID string) (map[string]models.PriceEntry, error) {
	entries, err := s.repo.ListEntries(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}

	best := make(map[string]models.PriceEntry, len(entries))
	for _, entry := range entries {
		current, ok := best[entry.ProductID]
		if !ok || entry.Price < current.Price {
			best[entry.ProductID] = entry
		}
	}
	return best, nil
}

// ProductTrend derives the trend over one product's observations. The boolean
// is false when the product has fewer than two observations.
func (s *Service) ProductTrend(ctx context.Context, userID, productID string) (models.TrendDirection, bool, error) {
	entries, err := s.repo.EntriesByProduct(ctx, userID, productID)
	if err != nil {
		return models.TrendStable, false, err
	}
	direction, ok := Trend(entries)
	return direction, ok, nil
}

// Statistics summarizes the user's whole collection.
func (s *Service) Statistics(ctx context.Context, userID string) (models.Stats, error) {
	entries, err := s.repo.ListEntries(ctx, userID, time.Time{})
	if err != nil {
		return models.Stats{}, err
	}
	return ComputeStatistics(entries), nil
}

// DeleteByProduct bulk-deletes every observation referencing a product.
func (s *Service) DeleteByProduct(ctx context.Context, userID, productID string) (int64, error) {
	return s.repo.DeleteEntriesByProduct(ctx, userID, productID)
}

// DeleteByStore bulk-deletes every observation referencing a store.
func (s *Service) DeleteByStore(ctx context.Context, userID, storeID string) (int64, error) {
	return s.repo.DeleteEntriesByStore(ctx, userID, storeID)
}

func validateObservation(in models.CreatePriceEntryInput) error {
	for name, value := range map[string]string{
		"product_id":   in.ProductID,
		"product_name": in.ProductName,
		"store_id":     in.StoreID,
		"store_name":   in.StoreName,
		"unit":         in.Unit,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", models.ErrValidation, name)
		}
	}

	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price <= 0 {
		return fmt.Errorf("%w: price must be a finite positive number", models.ErrValidation)
	}

	return nil
}
