package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// UpsertStore writes-or-merges a store under its deterministic id.
func (r *Repository) UpsertStore(ctx context.Context, s models.Store) error {
	filter := bson.M{"_id": s.ID, "user_id": s.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":     s.Name,
			"location": s.Location,
			"user_id":  s.UserID,
		},
		"$setOnInsert": bson.M{"created_at": s.CreatedAt},
	}

	_, err := r.db.Collection(storesCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert store: %w", err)
	}
	return nil
}

// ListStores returns the user's stores ordered by name ascending. A non-empty
// location narrows the result to that location.
func (r *Repository) ListStores(ctx context.Context, userID, location string) ([]models.Store, error) {
	filter := bson.M{"user_id": userID}
	if location != "" {
		filter["location"] = location
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.db.Collection(storesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}

	var stores []models.Store
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, fmt.Errorf("failed to decode stores: %w", err)
	}
	return stores, nil
}

// GetStore looks up a store by id, scoped to its owner.
func (r *Repository) GetStore(ctx context.Context, id, userID string) (*models.Store, error) {
	var store models.Store
	err := r.db.Collection(storesCollection).
		FindOne(ctx, bson.M{"_id": id, "user_id": userID}).
		Decode(&store)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return &store, nil
}

// UpdateStore applies the non-empty fields of the input to an existing store.
func (r *Repository) UpdateStore(ctx context.Context, id, userID string, in models.UpdateStoreInput) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Location != "" {
		set["location"] = in.Location
	}

	res, err := r.db.Collection(storesCollection).
		UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteStore removes a store by id, scoped to its owner.
func (r *Repository) DeleteStore(ctx context.Context, id, userID string) error {
	res, err := r.db.Collection(storesCollection).
		DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountStores reports how many stores a user owns.
func (r *Repository) CountStores(ctx context.Context, userID string) (int64, error) {
	n, err := r.db.Collection(storesCollection).CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return n, nil
}
