// Package tui is the interactive garden: the current user's habits, the shared
// feed, the leaderboard and a profile page, with huh forms for new entries.
package tui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgarden/internal/engine"
	feedpkg "github.com/julianstephens/habitgarden/internal/feed"
	gardenpkg "github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/tui/components/feed"
	"github.com/julianstephens/habitgarden/internal/tui/components/garden"
	"github.com/julianstephens/habitgarden/internal/tui/components/leaderboard"
	"github.com/julianstephens/habitgarden/internal/tui/components/profile"
)

type SessionState int

const (
	StateGarden SessionState = iota
	StateFeed
	StateLeaderboard
	StateProfile
	StateForm
)

// tabCount is the number of tab states; StateForm is modal.
const tabCount = 4

var tabTitles = []string{"Garden", "Feed", "Leaderboard", "Profile"}

type formKind int

const (
	formHabit formKind = iota
	formPost
	formComment
	formFriend
)

type HabitFormModel struct {
	Name        string
	Description string
	Duration    string
	Plant       models.PlantType
}

type TextFormModel struct {
	Text string
}

// toastQueue collects unlock notices from the engine callback.
type toastQueue struct {
	mu    sync.Mutex
	items []string
}

func (q *toastQueue) push(s string) {
	q.mu.Lock()
	q.items = append(q.items, s)
	q.mu.Unlock()
}

func (q *toastQueue) drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

type Model struct {
	engine        *engine.Engine
	user          models.User
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	gardenModel      garden.Model
	feedModel        feed.Model
	leaderboardModel leaderboard.Model
	profileModel     profile.Model

	form        *huh.Form
	formKind    formKind
	habitForm   *HabitFormModel
	textForm    *TextFormModel
	targetPost  string
	toasts      *toastQueue
	status      string
	statusError bool

	quitting bool
	width    int
	height   int
}

// NewModel builds the TUI for the current user. Achievement unlocks raised by
// the engine are shown as a status line.
func NewModel(eng *engine.Engine, user models.User) Model {
	toasts := &toastQueue{}
	eng.SetOnUnlock(func(u models.User, a models.Achievement) {
		toasts.push(fmt.Sprintf("%s %s unlocked %s!", a.Icon, u.DisplayName, a.Name))
	})

	m := Model{
		engine:           eng,
		user:             user,
		state:            StateGarden,
		keys:             DefaultKeyMap(),
		help:             help.New(),
		gardenModel:      garden.New(0, 0),
		feedModel:        feed.New(0, 0),
		leaderboardModel: leaderboard.New(0, 0),
		profileModel:     profile.New(0, 0),
		toasts:           toasts,
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateGarden:
		keys = append(keys, m.gardenModel.Keys()...)
	case StateFeed:
		keys = append(keys, m.feedModel.Keys()...)
	case StateProfile:
		keys = append(keys, m.keys.AddFriend)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	full := m.keys.FullHelp()
	switch m.state {
	case StateGarden:
		full = append(full, m.gardenModel.Keys())
	case StateFeed:
		full = append(full, m.feedModel.Keys())
	}
	return full
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads every tab from the engine.
func (m *Model) refresh() {
	now := m.engine.Now()
	today := m.engine.Today()

	if u, err := m.engine.ResolveUser(m.user.ID); err == nil {
		m.user = u
	}

	if habits, err := m.engine.Habits(m.user.ID); err == nil {
		items := make([]garden.Item, len(habits))
		for i, h := range habits {
			items[i] = garden.Item{
				Habit:        h,
				CheckedToday: h.HasCheckIn(today),
				Completed:    gardenpkg.IsCompleted(h, now),
			}
		}
		m.gardenModel.SetItems(items)
	}

	if posts, err := m.engine.ListPosts(); err == nil {
		if state, err := m.engine.Snapshot(); err == nil {
			items := make([]feed.Item, len(posts))
			for i, p := range posts {
				items[i] = feed.Item{
					Post:   p,
					Author: feedpkg.Author(state, p.UserID),
					Liked:  p.LikedBy(m.user.ID),
					Now:    now,
				}
			}
			m.feedModel.SetItems(items)
		}
	}

	if entries, err := m.engine.Leaderboard(); err == nil {
		m.leaderboardModel.SetEntries(entries, m.user.ID)
	}

	data := &profile.Data{User: m.user}
	if p, err := m.engine.ProfileStats(m.user.ID); err == nil {
		data.Stats = p
	}
	if friends, err := m.engine.ListFriends(m.user.ID); err == nil {
		data.Friends = friends
	}
	if statuses, err := m.engine.Achievements(m.user.ID); err == nil {
		data.Achievements = statuses
	}
	m.profileModel.SetData(data)
}

// report records the outcome of an action in the status line. Pending unlock
// notices take precedence over a plain success message.
func (m *Model) report(success string, err error) {
	if err != nil {
		m.status = err.Error()
		m.statusError = true
		return
	}
	m.statusError = false
	m.status = success
	if toasts := m.toasts.drain(); len(toasts) > 0 {
		m.status = toasts[len(toasts)-1]
		if len(toasts) > 1 {
			m.status += fmt.Sprintf(" (+%d more)", len(toasts)-1)
		}
	}
	m.refresh()
}

func (m *Model) resize() {
	// tabs, status line and help
	h := m.height - 6
	if h < 0 {
		h = 0
	}
	w := m.width - 4
	if w < 0 {
		w = 0
	}
	m.gardenModel.SetSize(w, h)
	m.feedModel.SetSize(w, h)
	m.leaderboardModel.SetSize(w, h)
	m.profileModel.SetSize(w, h)
}
