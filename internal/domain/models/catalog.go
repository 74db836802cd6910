package models

import "time"

// Product is a grocery product tracked by a single user. Its document id is
// derived from the owning user and the normalized name, so one (user, name)
// pair maps to exactly one document.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category" bson:"category"`
	DefaultUnit string    `json:"default_unit" bson:"default_unit"`
	UserID      string    `json:"user_id" bson:"user_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Store is a shop a user records prices at. Same name-derived identity scheme
// as Product.
type Store struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Location  string    `json:"location" bson:"location"`
	UserID    string    `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CreateProductInput is the request body for adding or merging a product.
type CreateProductInput struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	DefaultUnit string `json:"default_unit" binding:"required"`
}

// UpdateProductInput carries optional field updates; empty fields are left
// untouched.
type UpdateProductInput struct {
	Category    string `json:"category"`
	DefaultUnit string `json:"default_unit"`
}

// CreateStoreInput is the request body for adding or merging a store.
type CreateStoreInput struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// UpdateStoreInput carries optional field updates.
type UpdateStoreInput struct {
	Location string `json:"location"`
}
