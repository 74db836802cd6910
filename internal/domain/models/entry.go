package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PriceEntry is the latest observed price of a product at a store. The
// collection holds at most one entry per (user, product, store) tuple; a new
// report for an existing tuple overwrites the mutable fields in place.
// ProductName and StoreName are snapshots taken at write time and are not
// refreshed if the catalog entity is later renamed.
type PriceEntry struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID   string             `json:"product_id" bson:"product_id"`
	ProductName string             `json:"product_name" bson:"product_name"`
	StoreID     string             `json:"store_id" bson:"store_id"`
	StoreName   string             `json:"store_name" bson:"store_name"`
	Price       float64            `json:"price" bson:"price"`
	Unit        string             `json:"unit" bson:"unit"`
	Date        time.Time          `json:"date" bson:"date"`
	UserID      string             `json:"user_id" bson:"user_id"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePriceEntryInput is the request body for recording an observation.
type CreatePriceEntryInput struct {
	ProductID   string  `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	StoreID     string  `json:"store_id" binding:"required"`
	StoreName   string  `json:"store_name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Unit        string  `json:"unit" binding:"required"`
}

// TrendDirection describes how the price of a product moved between its two
// most recently updated observations.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// Stats summarizes a user's whole price-entry collection.
type Stats struct {
	AveragePrice       float64        `json:"average_price"`
	MostTrackedProduct string         `json:"most_tracked_product"`
	Trend              TrendDirection `json:"trend"`
	TotalEntries       int            `json:"total_entries"`
}
