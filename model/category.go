package model

import "time"

// Category is a top-level bucket for plans ("Algorithms", "System Design",
// ...). Its ID is the first segment of every task key derived under it.
type Category struct {
	CategoryID string    `bson:"category_id" json:"id"`
	UserID     string    `bson:"user_id" json:"-"`
	Name       string    `bson:"name" json:"name" binding:"required"`
	Color      string    `bson:"color,omitempty" json:"color,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
