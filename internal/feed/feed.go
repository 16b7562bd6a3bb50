// Package feed stores posts with their likes and comments.
package feed

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

// Store reads and mutates the posts of a State.
type Store struct {
	state *models.State
	now   func() time.Time
}

func New(state *models.State, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{state: state, now: now}
}

// CreatePost publishes trimmed content for userID.
func (s *Store) CreatePost(userID, content string) (models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Post{}, errors.Validation("content", "post must not be blank")
	}
	if s.state.UserIndex(userID) < 0 {
		return models.Post{}, errors.NotFound("user", userID)
	}

	post := models.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Timestamp: s.now().UTC(),
		Likes:     []string{},
		Comments:  []models.Comment{},
	}
	s.state.Posts = append(s.state.Posts, post)
	return post, nil
}

// LikePost toggles userID's like on the post and reports whether it is now liked.
func (s *Store) LikePost(postID, userID string) (bool, error) {
	idx := s.state.PostIndex(postID)
	if idx < 0 {
		return false, errors.NotFound("post", postID)
	}
	if s.state.UserIndex(userID) < 0 {
		return false, errors.NotFound("user", userID)
	}

	post := &s.state.Posts[idx]
	if i := slices.Index(post.Likes, userID); i >= 0 {
		post.Likes = slices.Delete(post.Likes, i, i+1)
		return false, nil
	}
	post.Likes = append(post.Likes, userID)
	return true, nil
}

// AddComment appends a trimmed comment to the post.
func (s *Store) AddComment(postID, userID, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, errors.Validation("content", "comment must not be blank")
	}
	idx := s.state.PostIndex(postID)
	if idx < 0 {
		return models.Comment{}, errors.NotFound("post", postID)
	}
	if s.state.UserIndex(userID) < 0 {
		return models.Comment{}, errors.NotFound("user", userID)
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Timestamp: s.now().UTC(),
	}
	post := &s.state.Posts[idx]
	post.Comments = append(post.Comments, comment)
	return comment, nil
}

// Post returns the post with id.
func (s *Store) Post(id string) (models.Post, error) {
	idx := s.state.PostIndex(id)
	if idx < 0 {
		return models.Post{}, errors.NotFound("post", id)
	}
	return s.state.Posts[idx], nil
}

// ListPosts returns posts newest first.
func (s *Store) ListPosts() []models.Post {
	posts := slices.Clone(s.state.Posts)
	slices.Reverse(posts)
	return posts
}

// Author resolves a post or comment author, falling back to a placeholder for
// ids that no longer resolve.
func Author(state *models.State, userID string) models.User {
	if idx := state.UserIndex(userID); idx >= 0 {
		return state.Users[idx]
	}
	return models.User{ID: userID, Username: "unknown", DisplayName: constants.UnknownUserDisplayName, Avatar: constants.UnknownUserAvatar}
}

// RelativeTime renders how long ago t was: minutes under an hour, hours under a
// day, days otherwise.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
