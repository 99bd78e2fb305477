// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a fitCheck account. The username is stored
// lowercase-normalized; lookups go through the normalized form.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	PhotoURL  string    `json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`

	// FollowersCount and FollowingCount are not persisted; recomputed
	// from the follows table on every read so they cannot drift.
	FollowersCount int64 `gorm:"-" json:"followers_count"`
	FollowingCount int64 `gorm:"-" json:"following_count"`
	// IsFollowing reports whether the requesting user follows this user (computed).
	IsFollowing bool `gorm:"-" json:"is_following"`
}

// Follow is a directed follow edge: Follower follows Followee.
// A single row backs both the follower's "following" membership and the
// followee's "followers" membership, so the two views can never disagree.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
