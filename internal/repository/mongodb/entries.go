package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// UpsertObservation reconciles a price report into the single current
// observation for its (user, product, store) tuple. This is one conditional
// write: an existing entry gets its price, unit, snapshots and date replaced
// while keeping its id and created_at; a missing tuple is inserted. Concurrent
// reports for the same tuple therefore cannot produce duplicates or lost
// inserts, the last writer simply wins on the mutable fields.
func (r *Repository) UpsertObservation(ctx context.Context, userID string, in models.CreatePriceEntryInput, now time.Time) (*models.PriceEntry, error) {
	filter := bson.M{
		"user_id":    userID,
		"product_id": in.ProductID,
		"store_id":   in.StoreID,
	}
	update := bson.M{
		"$set": bson.M{
			"product_name": in.ProductName,
			"store_name":   in.StoreName,
			"price":        in.Price,
			"unit":         in.Unit,
			"date":         now,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var entry models.PriceEntry
	err := r.db.Collection(entriesCollection).
		FindOneAndUpdate(ctx, filter, update, opts).
		Decode(&entry)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert price entry: %w", err)
	}
	return &entry, nil
}

// ListEntries returns the user's observations ordered by date descending.
// A non-zero since bound restricts the result to observations on or after it.
func (r *Repository) ListEntries(ctx context.Context, userID string, since time.Time) ([]models.PriceEntry, error) {
	filter := bson.M{"user_id": userID}
	if !since.IsZero() {
		filter["date"] = bson.M{"$gte": since}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.db.Collection(entriesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query price entries: %w", err)
	}

	var entries []models.PriceEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode price entries: %w", err)
	}
	return entries, nil
}

// EntriesByProduct returns a product's observations ordered by date descending.
func (r *Repository) EntriesByProduct(ctx context.Context, userID, productID string) ([]models.PriceEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.db.Collection(entriesCollection).
		Find(ctx, bson.M{"user_id": userID, "product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query price entries: %w", err)
	}

	var entries []models.PriceEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode price entries: %w", err)
	}
	return entries, nil
}

// Comparison returns a product's observations ordered by price ascending, one
// per store thanks to the reconciliation rule.
func (r *Repository) Comparison(ctx context.Context, userID, productID string) ([]models.PriceEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := r.db.Collection(entriesCollection).
		Find(ctx, bson.M{"user_id": userID, "product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query price comparison: %w", err)
	}

	var entries []models.PriceEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode price comparison: %w", err)
	}
	return entries, nil
}

// BestPrice returns the cheapest observation for a product, or nil when the
// product has none.
func (r *Repository) BestPrice(ctx context.Context, userID, productID string) (*models.PriceEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "price", Value: 1}}).
		SetLimit(1)
	cursor, err := r.db.Collection(entriesCollection).
		Find(ctx, bson.M{"user_id": userID, "product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query best price: %w", err)
	}

	var entries []models.PriceEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode best price: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// DeleteEntry removes one observation by id, scoped to its owner.
func (r *Repository) DeleteEntry(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := r.db.Collection(entriesCollection).
		DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete price entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteEntriesByProduct removes every observation referencing a product, as
// one bulk operation so a cascade cannot leave a partially deleted set behind.
func (r *Repository) DeleteEntriesByProduct(ctx context.Context, userID, productID string) (int64, error) {
	res, err := r.db.Collection(entriesCollection).
		DeleteMany(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries by product: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteEntriesByStore removes every observation referencing a store.
func (r *Repository) DeleteEntriesByStore(ctx context.Context, userID, storeID string) (int64, error) {
	res, err := r.db.Collection(entriesCollection).
		DeleteMany(ctx, bson.M{"user_id": userID, "store_id": storeID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries by store: %w", err)
	}
	return res.DeletedCount, nil
}
