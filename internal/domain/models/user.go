package models

import "time"

// User mirrors the identity-provider profile. The document id is the
// provider-issued subject, so repeated logins merge into one document.
type User struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	PhotoURL    string    `json:"photo_url" bson:"photo_url"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// UpsertUserInput is the request body for the login-time profile merge.
type UpsertUserInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}
