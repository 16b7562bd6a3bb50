package feed

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	feedpkg "github.com/julianstephens/habitgarden/internal/feed"
	"github.com/julianstephens/habitgarden/internal/models"
)

type NewPostMsg struct{}

type LikeMsg struct {
	ID string
}

type CommentMsg struct {
	ID string
}

type Item struct {
	Post   models.Post
	Author models.User
	Liked  bool
	Now    time.Time
}

func (i Item) Title() string {
	return fmt.Sprintf("%s %s: %s", i.Author.Avatar, i.Author.DisplayName, i.Post.Content)
}

func (i Item) Description() string {
	heart := "♡"
	if i.Liked {
		heart = "♥"
	}
	return fmt.Sprintf("%s %d | 💬 %d | %s", heart, len(i.Post.Likes), len(i.Post.Comments),
		feedpkg.RelativeTime(i.Post.Timestamp, i.Now))
}

func (i Item) FilterValue() string { return i.Post.Content }

type KeyMap struct {
	New     key.Binding
	Like    key.Binding
	Comment key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new post"),
		),
		Like: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "like/unlike"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Feed"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	return Model{list: l, keys: DefaultKeyMap()}
}

// Keys returns the bindings shown in the global help.
func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.New, m.keys.Like, m.keys.Comment}
}

func (m *Model) SetItems(items []Item) {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewPostMsg{} }
		case key.Matches(msg, m.keys.Like):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return LikeMsg{ID: i.Post.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Comment):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CommentMsg{ID: i.Post.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Nothing in the feed yet.\n  Press 'n' to share something."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
