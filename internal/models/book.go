package models

import "time"

// BookDB represents a catalog entry in the database
type BookDB struct {
	ID            int64     `json:"id" db:"id"`                           // Primary key
	Title         string    `json:"title" db:"title"`                     // Book title
	Author        string    `json:"author" db:"author"`                   // Book author
	Description   string    `json:"description" db:"description"`         // Free-text description
	Stock         int       `json:"stock" db:"stock"`                     // Copies available, never negative
	CoverImageURL *string   `json:"cover_image_url" db:"cover_image_url"` // Optional cover reference
	Price         float64   `json:"price" db:"price"`                     // Non-negative price
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
