package models

import "slices"

// StateVersion is the snapshot format version written by storage backends.
const StateVersion = 1

// State is the whole engine snapshot handed to and from the storage collaborator.
// Slices keep enumeration order: users by registration, habits and posts by creation,
// friendships and unlocks by insertion.
type State struct {
	Version       int          `json:"version"`
	CurrentUserID string       `json:"current_user_id"`
	Users         []User       `json:"users"`
	Friendships   []Friendship `json:"friendships"`
	Habits        []Habit      `json:"habits"`
	Posts         []Post       `json:"posts"`
	Unlocks       []Unlock     `json:"unlocks"`
}

func NewState() *State {
	return &State{
		Version:     StateVersion,
		Users:       []User{},
		Friendships: []Friendship{},
		Habits:      []Habit{},
		Posts:       []Post{},
		Unlocks:     []Unlock{},
	}
}

// Clone returns a deep copy so a mutation can be staged without touching s.
func (s *State) Clone() *State {
	c := &State{
		Version:       s.Version,
		CurrentUserID: s.CurrentUserID,
		Users:         slices.Clone(s.Users),
		Friendships:   slices.Clone(s.Friendships),
		Habits:        make([]Habit, len(s.Habits)),
		Posts:         make([]Post, len(s.Posts)),
		Unlocks:       slices.Clone(s.Unlocks),
	}
	for i, h := range s.Habits {
		h.CheckIns = slices.Clone(h.CheckIns)
		c.Habits[i] = h
	}
	for i, p := range s.Posts {
		p.Likes = slices.Clone(p.Likes)
		p.Comments = slices.Clone(p.Comments)
		c.Posts[i] = p
	}
	c.normalize()
	return c
}

// Normalize replaces nil collections with empty ones after decoding.
func (s *State) Normalize() {
	if s.Version == 0 {
		s.Version = StateVersion
	}
	s.normalize()
}

func (s *State) normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Friendships == nil {
		s.Friendships = []Friendship{}
	}
	if s.Habits == nil {
		s.Habits = []Habit{}
	}
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	if s.Unlocks == nil {
		s.Unlocks = []Unlock{}
	}
	for i := range s.Habits {
		if s.Habits[i].CheckIns == nil {
			s.Habits[i].CheckIns = []CheckIn{}
		}
	}
	for i := range s.Posts {
		if s.Posts[i].Likes == nil {
			s.Posts[i].Likes = []string{}
		}
		if s.Posts[i].Comments == nil {
			s.Posts[i].Comments = []Comment{}
		}
	}
}

// UserIndex returns the position of the user with id, or -1.
func (s *State) UserIndex(id string) int {
	return slices.IndexFunc(s.Users, func(u User) bool { return u.ID == id })
}

// HabitIndex returns the position of the habit with id, or -1.
func (s *State) HabitIndex(id string) int {
	return slices.IndexFunc(s.Habits, func(h Habit) bool { return h.ID == id })
}

// PostIndex returns the position of the post with id, or -1.
func (s *State) PostIndex(id string) int {
	return slices.IndexFunc(s.Posts, func(p Post) bool { return p.ID == id })
}

// HabitsOf returns the habits owned by userID in creation order.
func (s *State) HabitsOf(userID string) []Habit {
	var habits []Habit
	for _, h := range s.Habits {
		if h.OwnerID == userID {
			habits = append(habits, h)
		}
	}
	return habits
}

// IsUnlocked reports whether userID has earned achievementID.
func (s *State) IsUnlocked(userID, achievementID string) bool {
	return slices.ContainsFunc(s.Unlocks, func(u Unlock) bool {
		return u.UserID == userID && u.AchievementID == achievementID
	})
}
