// Package social holds users and the friendship graph.
//
// Friendships are stored as directed edges (caller -> friend), the way a user adds
// someone from their own profile, but every read projects them symmetrically: if
// either user added the other, both see each other as friends.
package social

import (
	"iter"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	colorPattern    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Graph reads and mutates the users and friendships of a State.
type Graph struct {
	state *models.State
	now   func() time.Time
}

func New(state *models.State, now func() time.Time) *Graph {
	if now == nil {
		now = time.Now
	}
	return &Graph{state: state, now: now}
}

// Profile carries the fields of a new user.
type Profile struct {
	Username        string
	DisplayName     string
	Avatar          string
	Bio             string
	BackgroundColor string
}

// ProfileUpdate names the profile fields to change; nil fields are kept.
// Username may only be set to the current value.
type ProfileUpdate struct {
	Username        *string
	DisplayName     *string
	Avatar          *string
	Bio             *string
	BackgroundColor *string
}

// RegisterUser creates a user. Usernames are unique under lowercase comparison.
func (g *Graph) RegisterUser(p Profile) (models.User, error) {
	username := strings.TrimSpace(p.Username)
	if err := validateUsername(username); err != nil {
		return models.User{}, err
	}
	if _, ok := g.byUsername(username); ok {
		return models.User{}, errors.Validation("username", "%q is already taken", username)
	}

	user := models.User{
		ID:              uuid.NewString(),
		Username:        username,
		DisplayName:     strings.TrimSpace(p.DisplayName),
		Avatar:          strings.TrimSpace(p.Avatar),
		Bio:             strings.TrimSpace(p.Bio),
		BackgroundColor: strings.TrimSpace(p.BackgroundColor),
		CreatedAt:       g.now().UTC(),
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}
	if user.Avatar == "" {
		user.Avatar = constants.DefaultAvatar
	}
	if user.BackgroundColor == "" {
		user.BackgroundColor = constants.DefaultBackgroundColor
	}
	if err := validateProfile(user); err != nil {
		return models.User{}, err
	}

	g.state.Users = append(g.state.Users, user)
	return user, nil
}

// UpdateProfile applies the non-nil fields of upd to the user.
func (g *Graph) UpdateProfile(userID string, upd ProfileUpdate) (models.User, error) {
	idx := g.state.UserIndex(userID)
	if idx < 0 {
		return models.User{}, errors.NotFound("user", userID)
	}
	user := g.state.Users[idx]

	if upd.Username != nil && strings.TrimSpace(*upd.Username) != user.Username {
		return models.User{}, errors.Validation("username", "username cannot be changed")
	}
	if upd.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*upd.DisplayName)
	}
	if upd.Avatar != nil {
		user.Avatar = strings.TrimSpace(*upd.Avatar)
	}
	if upd.Bio != nil {
		user.Bio = strings.TrimSpace(*upd.Bio)
	}
	if upd.BackgroundColor != nil {
		user.BackgroundColor = strings.TrimSpace(*upd.BackgroundColor)
	}
	if err := validateProfile(user); err != nil {
		return models.User{}, err
	}

	g.state.Users[idx] = user
	return user, nil
}

// ResolveUser looks a user up by id, then by normalized username.
func (g *Graph) ResolveUser(identifier string) (models.User, error) {
	if idx := g.state.UserIndex(identifier); idx >= 0 {
		return g.state.Users[idx], nil
	}
	if user, ok := g.byUsername(identifier); ok {
		return user, nil
	}
	return models.User{}, errors.NotFound("user", identifier)
}

// AddFriend creates an edge from callerID to the user named username.
func (g *Graph) AddFriend(callerID, username string) (models.User, error) {
	if g.state.UserIndex(callerID) < 0 {
		return models.User{}, errors.NotFound("user", callerID)
	}
	friend, ok := g.byUsername(username)
	if !ok || friend.ID == callerID {
		return models.User{}, errors.NotFound("user", strings.TrimSpace(username))
	}
	if g.AreFriends(callerID, friend.ID) {
		return models.User{}, &errors.AlreadyFriendError{Username: friend.Username}
	}

	g.state.Friendships = append(g.state.Friendships, models.Friendship{
		UserID:    callerID,
		FriendID:  friend.ID,
		CreatedAt: g.now().UTC(),
	})
	return friend, nil
}

// AreFriends reports whether an edge exists between a and b in either direction.
func (g *Graph) AreFriends(a, b string) bool {
	for _, f := range g.state.Friendships {
		if f.Involves(a) && f.Other(a) == b {
			return true
		}
	}
	return false
}

// ListFriends returns the friends of userID in edge insertion order.
func (g *Graph) ListFriends(userID string) []models.User {
	var friends []models.User
	seen := make(map[string]bool)
	for _, f := range g.state.Friendships {
		if !f.Involves(userID) {
			continue
		}
		other := f.Other(userID)
		if seen[other] {
			continue
		}
		seen[other] = true
		if idx := g.state.UserIndex(other); idx >= 0 {
			friends = append(friends, g.state.Users[idx])
		}
	}
	return friends
}

// SuggestUsers yields up to limit users whose username or display name contains
// query, case-insensitively, skipping ids in exclude. A blank query yields nothing.
func (g *Graph) SuggestUsers(query string, exclude map[string]bool, limit int) iter.Seq[models.User] {
	needle := strings.ToLower(strings.TrimSpace(query))
	users := g.state.Users
	return func(yield func(models.User) bool) {
		if needle == "" || limit <= 0 {
			return
		}
		n := 0
		for _, u := range users {
			if exclude[u.ID] {
				continue
			}
			if !strings.Contains(strings.ToLower(u.Username), needle) &&
				!strings.Contains(strings.ToLower(u.DisplayName), needle) {
				continue
			}
			if !yield(u) {
				return
			}
			n++
			if n >= limit {
				return
			}
		}
	}
}

// SuggestFriends is SuggestUsers excluding userID and the users already friends with it.
func (g *Graph) SuggestFriends(userID, query string, limit int) iter.Seq[models.User] {
	exclude := map[string]bool{userID: true}
	for _, f := range g.ListFriends(userID) {
		exclude[f.ID] = true
	}
	return g.SuggestUsers(query, exclude, limit)
}

func (g *Graph) byUsername(username string) (models.User, bool) {
	key := models.NormalizeUsername(username)
	if key == "" {
		return models.User{}, false
	}
	for _, u := range g.state.Users {
		if models.NormalizeUsername(u.Username) == key {
			return u, true
		}
	}
	return models.User{}, false
}

func validateUsername(username string) error {
	if username == "" {
		return errors.Validation("username", "must not be blank")
	}
	if !usernamePattern.MatchString(username) {
		return errors.Validation("username", "%q may only contain letters, digits, '.', '_' and '-'", username)
	}
	return nil
}

func validateProfile(u models.User) error {
	if u.DisplayName == "" {
		return errors.Validation("display name", "must not be blank")
	}
	if u.Avatar == "" {
		return errors.Validation("avatar", "must not be blank")
	}
	if utf8.RuneCountInString(u.Avatar) > constants.MaxAvatarRunes {
		return errors.Validation("avatar", "must be a short glyph (at most %d characters)", constants.MaxAvatarRunes)
	}
	if !colorPattern.MatchString(u.BackgroundColor) {
		return errors.Validation("background color", "%q is not a #rrggbb color", u.BackgroundColor)
	}
	return nil
}
