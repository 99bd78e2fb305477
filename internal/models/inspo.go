package models

import (
	"time"
)

// InspoItem marks a post as saved into a user's inspo collection.
// The (UserID, PostID) pair is unique: re-saving overwrites the row instead
// of duplicating it. ImageURL is a denormalized snapshot so the saved image
// keeps rendering even after the original post is deleted.
type InspoItem struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_post_save" json:"user_id"`
	PostID   uint      `gorm:"not null;uniqueIndex:idx_user_post_save" json:"post_id"`
	ImageURL string    `gorm:"not null" json:"image_url"`
	SavedAt  time.Time `json:"saved_at"`
}

// TableName specifies the table name for GORM
func (InspoItem) TableName() string {
	return "inspo_items"
}
