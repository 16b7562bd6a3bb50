// Package engine owns the garden State. Every mutation runs against a deep clone:
// the component store applies it, achievements are re-evaluated for the users
// it touched, the clone is saved through the storage Provider, and only then
// does it replace the live State. A failed step leaves the live State as it was.
package engine

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/habitgarden/internal/achievements"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/feed"
	"github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/social"
	"github.com/julianstephens/habitgarden/internal/stats"
	"github.com/julianstephens/habitgarden/internal/storage"
)

// ErrNotLoaded is returned by operations called before Load.
var ErrNotLoaded = errors.New("engine: state not loaded")

// Options tune an Engine. Zero values pick production defaults.
type Options struct {
	Now             func() time.Time
	Rand            *rand.Rand
	Catalog         *achievements.Catalog
	SuggestionLimit int
	// Location decides the calendar day of an undated check-in.
	Location *time.Location
	// OnUnlock is called after a mutation that unlocked achievements is saved.
	OnUnlock func(user models.User, achievement models.Achievement)
}

type Engine struct {
	mu       sync.Mutex
	provider storage.Provider
	state    *models.State

	now             func() time.Time
	rnd             *rand.Rand
	catalog         *achievements.Catalog
	rules           *achievements.Engine
	suggestionLimit int
	loc             *time.Location
	onUnlock        func(models.User, models.Achievement)
}

func New(provider storage.Provider, opts Options) *Engine {
	e := &Engine{
		provider:        provider,
		now:             opts.Now,
		rnd:             opts.Rand,
		catalog:         opts.Catalog,
		suggestionLimit: opts.SuggestionLimit,
		loc:             opts.Location,
		onUnlock:        opts.OnUnlock,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.catalog == nil {
		e.catalog = achievements.DefaultCatalog()
	}
	if e.suggestionLimit <= 0 {
		e.suggestionLimit = constants.DefaultSuggestionLimit
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	e.rules = achievements.NewEngine(e.catalog.Rules())
	return e
}

// Load reads the snapshot from the provider and makes it the live State.
func (e *Engine) Load() error {
	state, err := e.provider.Load()
	if err != nil {
		return err
	}
	state.Normalize()

	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
	logger.Debug("State loaded", "users", len(state.Users), "habits", len(state.Habits), "posts", len(state.Posts))
	return nil
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Today returns the current calendar day in the engine's location.
func (e *Engine) Today() string {
	return e.now().In(e.loc).Format(constants.DateFormat)
}

// Catalog returns the achievement catalog in use.
func (e *Engine) Catalog() *achievements.Catalog {
	return e.catalog
}

// Snapshot returns a deep copy of the live State.
func (e *Engine) Snapshot() (*models.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, ErrNotLoaded
	}
	return e.state.Clone(), nil
}

// tx is the staging area handed to a mutation.
type tx struct {
	state    *models.State
	affected []string
}

// touch marks users whose achievements must be re-evaluated.
func (t *tx) touch(userIDs ...string) {
	for _, id := range userIDs {
		if id != "" && !slices.Contains(t.affected, id) {
			t.affected = append(t.affected, id)
		}
	}
}

type pendingUnlock struct {
	user        models.User
	achievement models.Achievement
}

// mutate stages fn on a clone and commits it. fn reports whether it changed
// anything; an unchanged State with no new unlocks is not saved. OnUnlock runs
// after the lock is released, so it may call back into the Engine.
func (e *Engine) mutate(op string, fn func(t *tx) (bool, error)) error {
	unlocked, err := e.commit(op, fn)
	if err != nil || len(unlocked) == 0 {
		return err
	}
	e.mu.Lock()
	onUnlock := e.onUnlock
	e.mu.Unlock()
	for _, u := range unlocked {
		logger.Info("Achievement unlocked", "user", u.user.Username, "achievement", u.achievement.ID)
		if onUnlock != nil {
			onUnlock(u.user, u.achievement)
		}
	}
	return nil
}

func (e *Engine) commit(op string, fn func(t *tx) (bool, error)) ([]pendingUnlock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, ErrNotLoaded
	}

	t := &tx{state: e.state.Clone()}
	changed, err := fn(t)
	if err != nil {
		logger.Debug("Mutation rejected", "op", op, "error", err)
		return nil, err
	}

	now := e.now()
	var unlocked []pendingUnlock
	for _, userID := range t.affected {
		idx := t.state.UserIndex(userID)
		if idx < 0 {
			continue
		}
		ids := e.rules.EvaluateUser(t.state, userID, now)
		for _, u := range achievements.Unlock(t.state, userID, ids, now) {
			a, _ := e.catalog.Lookup(u.AchievementID)
			unlocked = append(unlocked, pendingUnlock{user: t.state.Users[idx], achievement: a})
		}
	}
	if !changed && len(unlocked) == 0 {
		return nil, nil
	}

	if err := e.provider.Save(t.state); err != nil {
		return nil, err
	}
	e.state = t.state
	logger.Debug("Mutation committed", "op", op, "affected", t.affected)
	return unlocked, nil
}

// SetOnUnlock replaces the unlock callback.
func (e *Engine) SetOnUnlock(fn func(user models.User, achievement models.Achievement)) {
	e.mu.Lock()
	e.onUnlock = fn
	e.mu.Unlock()
}

// read runs fn against the live State under the lock.
func (e *Engine) read(fn func(state *models.State) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return ErrNotLoaded
	}
	return fn(e.state)
}

// RegisterUser creates a user. The first registered user becomes the current user.
func (e *Engine) RegisterUser(p social.Profile) (models.User, error) {
	var user models.User
	err := e.mutate("register_user", func(t *tx) (bool, error) {
		var err error
		user, err = social.New(t.state, e.now).RegisterUser(p)
		if err != nil {
			return false, err
		}
		if t.state.CurrentUserID == "" {
			t.state.CurrentUserID = user.ID
		}
		return true, nil
	})
	return user, err
}

// SwitchUser makes the user named by identifier (id or username) current.
func (e *Engine) SwitchUser(identifier string) (models.User, error) {
	var user models.User
	err := e.mutate("switch_user", func(t *tx) (bool, error) {
		var err error
		user, err = social.New(t.state, e.now).ResolveUser(identifier)
		if err != nil {
			return false, err
		}
		changed := t.state.CurrentUserID != user.ID
		t.state.CurrentUserID = user.ID
		return changed, nil
	})
	return user, err
}

// CurrentUser returns the user the session acts as.
func (e *Engine) CurrentUser() (models.User, error) {
	var user models.User
	err := e.read(func(state *models.State) error {
		idx := state.UserIndex(state.CurrentUserID)
		if idx < 0 {
			return errors.NotFound("current user", "none selected")
		}
		user = state.Users[idx]
		return nil
	})
	return user, err
}

// ResolveUser looks a user up by id or username.
func (e *Engine) ResolveUser(identifier string) (models.User, error) {
	var user models.User
	err := e.read(func(state *models.State) error {
		var err error
		user, err = social.New(state, e.now).ResolveUser(identifier)
		return err
	})
	return user, err
}

// Users returns every user in registration order.
func (e *Engine) Users() ([]models.User, error) {
	var users []models.User
	err := e.read(func(state *models.State) error {
		users = slices.Clone(state.Users)
		return nil
	})
	return users, err
}

func (e *Engine) UpdateProfile(userID string, upd social.ProfileUpdate) (models.User, error) {
	var user models.User
	err := e.mutate("update_profile", func(t *tx) (bool, error) {
		var err error
		user, err = social.New(t.state, e.now).UpdateProfile(userID, upd)
		return err == nil, err
	})
	return user, err
}

// AddFriend connects callerID with the user named username.
func (e *Engine) AddFriend(callerID, username string) (models.User, error) {
	var friend models.User
	err := e.mutate("add_friend", func(t *tx) (bool, error) {
		var err error
		friend, err = social.New(t.state, e.now).AddFriend(callerID, username)
		if err != nil {
			return false, err
		}
		t.touch(callerID, friend.ID)
		return true, nil
	})
	return friend, err
}

func (e *Engine) ListFriends(userID string) ([]models.User, error) {
	var friends []models.User
	err := e.read(func(state *models.State) error {
		if state.UserIndex(userID) < 0 {
			return errors.NotFound("user", userID)
		}
		friends = social.New(state, e.now).ListFriends(userID)
		return nil
	})
	return friends, err
}

// SuggestFriends lists up to the configured limit of users matching query who
// are neither userID nor already its friends.
func (e *Engine) SuggestFriends(userID, query string) ([]models.User, error) {
	var users []models.User
	err := e.read(func(state *models.State) error {
		users = slices.Collect(social.New(state, e.now).SuggestFriends(userID, query, e.suggestionLimit))
		return nil
	})
	return users, err
}

func (e *Engine) CreateHabit(ownerID, name, description string, duration int, plant models.PlantType) (models.Habit, error) {
	var habit models.Habit
	err := e.mutate("create_habit", func(t *tx) (bool, error) {
		var err error
		habit, err = garden.New(t.state, e.now, e.rnd).CreateHabit(ownerID, name, description, duration, plant)
		if err != nil {
			return false, err
		}
		t.touch(ownerID)
		return true, nil
	})
	return habit, err
}

func (e *Engine) UpdateHabit(habitID, ownerID string, upd garden.HabitUpdate) (models.Habit, error) {
	var habit models.Habit
	err := e.mutate("update_habit", func(t *tx) (bool, error) {
		var err error
		habit, err = garden.New(t.state, e.now, e.rnd).UpdateHabit(habitID, ownerID, upd)
		if err != nil {
			return false, err
		}
		t.touch(ownerID)
		return true, nil
	})
	return habit, err
}

// CheckIn records a check-in by the habit's owner. An empty date means today.
// recorded is false when the day was already checked in.
func (e *Engine) CheckIn(habitID, callerID, date string) (checkIn models.CheckIn, recorded bool, err error) {
	if date == "" {
		date = e.Today()
	}
	err = e.mutate("check_in", func(t *tx) (bool, error) {
		store := garden.New(t.state, e.now, e.rnd)
		h, err := store.Habit(habitID)
		if err != nil {
			return false, err
		}
		if h.OwnerID != callerID {
			return false, errors.NotFound("habit", habitID)
		}
		checkIn, recorded, err = store.RecordCheckIn(habitID, date)
		if err != nil {
			return false, err
		}
		t.touch(callerID)
		return recorded, nil
	})
	return checkIn, recorded, err
}

// Habit returns the habit with id.
func (e *Engine) Habit(id string) (models.Habit, error) {
	var habit models.Habit
	err := e.read(func(state *models.State) error {
		var err error
		habit, err = garden.New(state, e.now, e.rnd).Habit(id)
		return err
	})
	return habit, err
}

// Habits returns the habits owned by userID in creation order.
func (e *Engine) Habits(userID string) ([]models.Habit, error) {
	var habits []models.Habit
	err := e.read(func(state *models.State) error {
		if state.UserIndex(userID) < 0 {
			return errors.NotFound("user", userID)
		}
		habits = state.HabitsOf(userID)
		return nil
	})
	return habits, err
}

func (e *Engine) CreatePost(userID, content string) (models.Post, error) {
	var post models.Post
	err := e.mutate("create_post", func(t *tx) (bool, error) {
		var err error
		post, err = feed.New(t.state, e.now).CreatePost(userID, content)
		if err != nil {
			return false, err
		}
		t.touch(userID)
		return true, nil
	})
	return post, err
}

// LikePost toggles userID's like and reports whether the post is now liked.
func (e *Engine) LikePost(postID, userID string) (bool, error) {
	var liked bool
	err := e.mutate("like_post", func(t *tx) (bool, error) {
		store := feed.New(t.state, e.now)
		var err error
		liked, err = store.LikePost(postID, userID)
		if err != nil {
			return false, err
		}
		post, _ := store.Post(postID)
		t.touch(userID, post.UserID)
		return true, nil
	})
	return liked, err
}

func (e *Engine) AddComment(postID, userID, content string) (models.Comment, error) {
	var comment models.Comment
	err := e.mutate("add_comment", func(t *tx) (bool, error) {
		store := feed.New(t.state, e.now)
		var err error
		comment, err = store.AddComment(postID, userID, content)
		if err != nil {
			return false, err
		}
		post, _ := store.Post(postID)
		t.touch(userID, post.UserID)
		return true, nil
	})
	return comment, err
}

// Post returns the post with id.
func (e *Engine) Post(id string) (models.Post, error) {
	var post models.Post
	err := e.read(func(state *models.State) error {
		var err error
		post, err = feed.New(state, e.now).Post(id)
		return err
	})
	return post, err
}

// ListPosts returns every post, newest first.
func (e *Engine) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	err := e.read(func(state *models.State) error {
		posts = feed.New(state, e.now).ListPosts()
		return nil
	})
	return posts, err
}

// UserStats returns the leaderboard figures of userID.
func (e *Engine) UserStats(userID string) (stats.UserStats, error) {
	var s stats.UserStats
	err := e.read(func(state *models.State) error {
		if state.UserIndex(userID) < 0 {
			return errors.NotFound("user", userID)
		}
		s = stats.ForUser(state, userID, e.now())
		return nil
	})
	return s, err
}

// ProfileStats returns the profile figures of userID.
func (e *Engine) ProfileStats(userID string) (stats.ProfileStats, error) {
	var p stats.ProfileStats
	err := e.read(func(state *models.State) error {
		if state.UserIndex(userID) < 0 {
			return errors.NotFound("user", userID)
		}
		p = stats.Profile(state, userID, e.now())
		return nil
	})
	return p, err
}

// Leaderboard ranks every user by points.
func (e *Engine) Leaderboard() ([]stats.LeaderboardEntry, error) {
	var entries []stats.LeaderboardEntry
	err := e.read(func(state *models.State) error {
		entries = stats.Leaderboard(state, state.Users, e.now())
		return nil
	})
	return entries, err
}

// Achievements lists every catalog entry with userID's unlock status.
func (e *Engine) Achievements(userID string) ([]models.AchievementStatus, error) {
	var statuses []models.AchievementStatus
	err := e.read(func(state *models.State) error {
		if state.UserIndex(userID) < 0 {
			return errors.NotFound("user", userID)
		}
		statuses = e.catalog.Statuses(state, userID)
		return nil
	})
	return statuses, err
}

// Evaluate returns the achievements userID would newly unlock against the live
// State without recording them.
func (e *Engine) Evaluate(userID string) ([]string, error) {
	var ids []string
	err := e.read(func(state *models.State) error {
		ids = e.rules.EvaluateUser(state, userID, e.now())
		return nil
	})
	return ids, err
}

// Refresh unlocks anything userID earned through time alone, such as a habit
// completing by elapsed days.
func (e *Engine) Refresh(userID string) error {
	return e.mutate("refresh", func(t *tx) (bool, error) {
		if t.state.UserIndex(userID) < 0 {
			return false, errors.NotFound("user", userID)
		}
		t.touch(userID)
		return false, nil
	})
}
