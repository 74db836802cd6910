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

// UpsertUser merges the identity-provider profile under its subject id on
// every login; created_at is only written on first contact.
func (r *Repository) UpsertUser(ctx context.Context, id string, in models.UpsertUserInput, now time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"email":        in.Email,
			"display_name": in.DisplayName,
			"photo_url":    in.PhotoURL,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := r.db.Collection(usersCollection).
		UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser looks up a user profile by its identity-provider subject.
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// DigestCounts is a collection-level snapshot used by the scheduled digest.
type DigestCounts struct {
	Products int64
	Stores   int64
	Entries  int64
	Users    int64
}

// Counts gathers document counts across all collections.
func (r *Repository) Counts(ctx context.Context) (DigestCounts, error) {
	var counts DigestCounts
	var err error

	if counts.Products, err = r.db.Collection(productsCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return counts, fmt.Errorf("failed to count products: %w", err)
	}
	if counts.Stores, err = r.db.Collection(storesCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return counts, fmt.Errorf("failed to count stores: %w", err)
	}
	if counts.Entries, err = r.db.Collection(entriesCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return counts, fmt.Errorf("failed to count entries: %w", err)
	}
	if counts.Users, err = r.db.Collection(usersCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return counts, fmt.Errorf("failed to count users: %w", err)
	}

	return counts, nil
}
