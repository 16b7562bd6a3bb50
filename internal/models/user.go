package models

import (
	"strings"
	"time"
)

// User is a gardener. Users are shared by id across habits, posts and friendships.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"` // immutable once set
	DisplayName     string    `json:"display_name"`
	Avatar          string    `json:"avatar"` // short glyph, usually an emoji
	Bio             string    `json:"bio"`
	BackgroundColor string    `json:"background_color"`
	CreatedAt       time.Time `json:"created_at"`
}

// Friendship is a directed edge from UserID to FriendID. Reads project it symmetrically.
type Friendship struct {
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Involves reports whether the edge touches userID on either end.
func (f Friendship) Involves(userID string) bool {
	return f.UserID == userID || f.FriendID == userID
}

// Other returns the end of the edge that is not userID.
func (f Friendship) Other(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// NormalizeUsername returns the lookup key for a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
