package models

import (
	"slices"
	"time"
)

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Likes     []string  `json:"likes"`    // user ids, no duplicates
	Comments  []Comment `json:"comments"` // append-only, creation order
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// LikedBy reports whether userID currently likes the post.
func (p Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}
