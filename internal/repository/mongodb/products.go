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

// UpsertProduct writes-or-merges a product under its deterministic id. The
// second write for the same id overwrites name, category and unit while
// created_at keeps its original value.
func (r *Repository) UpsertProduct(ctx context.Context, p models.Product) error {
	filter := bson.M{"_id": p.ID, "user_id": p.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":         p.Name,
			"category":     p.Category,
			"default_unit": p.DefaultUnit,
			"user_id":      p.UserID,
		},
		"$setOnInsert": bson.M{"created_at": p.CreatedAt},
	}

	_, err := r.db.Collection(productsCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

// ListProducts returns the user's products ordered by name ascending. A
// non-empty category narrows the result to that category.
func (r *Repository) ListProducts(ctx context.Context, userID, category string) ([]models.Product, error) {
	filter := bson.M{"user_id": userID}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.db.Collection(productsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetProduct looks up a product by id, scoped to its owner.
func (r *Repository) GetProduct(ctx context.Context, id, userID string) (*models.Product, error) {
	var product models.Product
	err := r.db.Collection(productsCollection).
		FindOne(ctx, bson.M{"_id": id, "user_id": userID}).
		Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// UpdateProduct applies the non-empty fields of the input to an existing
// product.
func (r *Repository) UpdateProduct(ctx context.Context, id, userID string, in models.UpdateProductInput) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Category != "" {
		set["category"] = in.Category
	}
	if in.DefaultUnit != "" {
		set["default_unit"] = in.DefaultUnit
	}

	res, err := r.db.Collection(productsCollection).
		UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product by id, scoped to its owner.
func (r *Repository) DeleteProduct(ctx context.Context, id, userID string) error {
	res, err := r.db.Collection(productsCollection).
		DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountProducts reports how many products a user owns. A zero count triggers
// the first-login bootstrap.
func (r *Repository) CountProducts(ctx context.Context, userID string) (int64, error) {
	n, err := r.db.Collection(productsCollection).CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
