package feed

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func setupFeed(t *testing.T) (*Store, *models.State, *clock) {
	t.Helper()
	state := models.NewState()
	for _, id := range []string{"alice", "bob"} {
		state.Users = append(state.Users, models.User{ID: id, Username: id, DisplayName: id})
	}
	c := &clock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	return New(state, c.now), state, c
}

func TestCreatePost(t *testing.T) {
	s, state, _ := setupFeed(t)

	post, err := s.CreatePost("alice", "  Hello  ")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Content != "Hello" {
		t.Errorf("expected trimmed content, got %q", post.Content)
	}
	if len(post.Likes) != 0 || len(post.Comments) != 0 {
		t.Errorf("expected empty likes and comments, got %v %v", post.Likes, post.Comments)
	}
	if len(state.Posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(state.Posts))
	}
}

func TestCreatePost_Errors(t *testing.T) {
	s, state, _ := setupFeed(t)

	if _, err := s.CreatePost("alice", "   "); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error for blank post, got %v", err)
	}
	if _, err := s.CreatePost("nobody", "hi"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found for unknown author, got %v", err)
	}
	if len(state.Posts) != 0 {
		t.Errorf("expected no posts, got %d", len(state.Posts))
	}
}

func TestLikePost_Toggles(t *testing.T) {
	s, state, _ := setupFeed(t)
	post, _ := s.CreatePost("alice", "Hello")

	steps := []struct {
		user  string
		liked bool
		likes []string
	}{
		{"alice", true, []string{"alice"}},
		{"bob", true, []string{"alice", "bob"}},
		{"alice", false, []string{"bob"}},
	}
	for i, step := range steps {
		liked, err := s.LikePost(post.ID, step.user)
		if err != nil {
			t.Fatalf("step %d: LikePost failed: %v", i, err)
		}
		if liked != step.liked {
			t.Errorf("step %d: expected liked=%v, got %v", i, step.liked, liked)
		}
		if diff := cmp.Diff(step.likes, state.Posts[0].Likes); diff != "" {
			t.Errorf("step %d: likes mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestLikePost_NotFound(t *testing.T) {
	s, _, _ := setupFeed(t)
	if _, err := s.LikePost("missing", "alice"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	s, state, c := setupFeed(t)
	post, _ := s.CreatePost("alice", "Hello")

	c.t = c.t.Add(time.Minute)
	if _, err := s.AddComment(post.ID, "bob", "Nice!"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	c.t = c.t.Add(time.Minute)
	if _, err := s.AddComment(post.ID, "alice", " Thanks "); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	var got []string
	for _, cm := range state.Posts[0].Comments {
		got = append(got, cm.UserID+":"+cm.Content)
	}
	if diff := cmp.Diff([]string{"bob:Nice!", "alice:Thanks"}, got); diff != "" {
		t.Errorf("comments mismatch (-want +got):\n%s", diff)
	}
}

func TestAddComment_Errors(t *testing.T) {
	s, state, _ := setupFeed(t)
	post, _ := s.CreatePost("alice", "Hello")

	if _, err := s.AddComment(post.ID, "bob", ""); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := s.AddComment("missing", "bob", "hi"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if len(state.Posts[0].Comments) != 0 {
		t.Errorf("expected no comments, got %d", len(state.Posts[0].Comments))
	}
}

func TestListPosts_NewestFirst(t *testing.T) {
	s, _, c := setupFeed(t)
	for _, content := range []string{"one", "two", "three"} {
		if _, err := s.CreatePost("alice", content); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
		c.t = c.t.Add(time.Hour)
	}

	var got []string
	for _, p := range s.ListPosts() {
		got = append(got, p.Content)
	}
	if diff := cmp.Diff([]string{"three", "two", "one"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAuthor_Fallback(t *testing.T) {
	_, state, _ := setupFeed(t)

	if got := Author(state, "bob"); got.DisplayName != "bob" {
		t.Errorf("expected bob, got %q", got.DisplayName)
	}
	got := Author(state, "ghost")
	if got.DisplayName != constants.UnknownUserDisplayName || got.Avatar != constants.UnknownUserAvatar {
		t.Errorf("expected unknown placeholder, got %+v", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "0m ago"},
		{59 * time.Minute, "59m ago"},
		{time.Hour, "1h ago"},
		{23*time.Hour + 59*time.Minute, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{72*time.Hour + 5*time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		if got := RelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("RelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
