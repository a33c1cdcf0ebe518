package models

import (
	"time"

	"github.com/google/uuid"
)

// Annonce is a tracked listing, created either from a URL (after metadata
// extraction) or by hand. Nullable columns mirror ListingCandidate.
type Annonce struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Source       Source    `json:"source" db:"source"`
	ExternalURL  string    `json:"external_url" db:"external_url"`
	Title        *string   `json:"title" db:"title"`
	Price        *int      `json:"price" db:"price"`
	Surface      *string   `json:"surface" db:"surface"`
	Location     *string   `json:"location" db:"location"`
	Rooms        *string   `json:"rooms" db:"rooms"`
	Bedrooms     *string   `json:"bedrooms" db:"bedrooms"`
	ImageURL     *string   `json:"image_url" db:"image_url"`
	ImageS3Key   *string   `json:"image_s3_key" db:"image_s3_key"`
	Description  *string   `json:"description" db:"description"`
	PropertyType *string   `json:"property_type" db:"property_type"`
	EnergyRating *string   `json:"energy_rating" db:"energy_rating"`
	Floor        *string   `json:"floor" db:"floor"`
	Charges      *string   `json:"charges" db:"charges"`
	Blocked      bool      `json:"blocked" db:"blocked"`
	Dismissed    bool      `json:"dismissed" db:"dismissed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AnnonceUpdate is a partial edit; nil fields are left untouched.
type AnnonceUpdate struct {
	Title        *string `json:"title"`
	Price        *int    `json:"price"`
	Surface      *string `json:"surface"`
	Location     *string `json:"location"`
	Rooms        *string `json:"rooms"`
	Bedrooms     *string `json:"bedrooms"`
	Description  *string `json:"description"`
	PropertyType *string `json:"property_type"`
	EnergyRating *string `json:"energy_rating"`
	Floor        *string `json:"floor"`
	Charges      *string `json:"charges"`
}

// Comment is a user note attached to an annonce.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	AnnonceID uuid.UUID `json:"annonce_id" db:"annonce_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// User is an account that can log in and comment.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SearchPrompt is a saved free-text search re-run by the scheduler against
// the configured portals.
type SearchPrompt struct {
	ID        int64      `json:"id" db:"id"`
	Prompt    string     `json:"prompt" db:"prompt"`
	Active    bool       `json:"active" db:"active"`
	LastRunAt *time.Time `json:"last_run_at" db:"last_run_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
