package models

import (
	"time"
)

// ItemTag is a spatial annotation on an outfit photo: a label pinned at a
// pixel offset in image-space, optionally linking to a store page.
type ItemTag struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
	Link  string  `json:"link,omitempty"`
}

// Post is an outfit photo with its annotations. Tags keep their insertion
// order; Aesthetics are lowercase keywords derived from free-text input.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ImageURL   string    `gorm:"not null" json:"image_url"`
	Caption    string    `json:"caption,omitempty"`
	Tags       []ItemTag `gorm:"serializer:json" json:"tags"`
	Aesthetics []string  `gorm:"serializer:json" json:"aesthetics"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Owner User `gorm:"foreignKey:UserID" json:"owner,omitempty"`

	// Saved indicates whether the requesting user has this post in their inspo (computed)
	Saved bool `gorm:"-" json:"saved"`
}
