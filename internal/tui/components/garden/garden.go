package garden

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	gardenpkg "github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/models"
)

type AddHabitMsg struct{}

type CheckInMsg struct {
	ID string
}

type Item struct {
	Habit        models.Habit
	CheckedToday bool
	Completed    bool
}

func (i Item) Title() string {
	mark := "○"
	if i.CheckedToday {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s %s", mark, i.Habit.PlantType.Glyph(), i.Habit.Name)
}

func (i Item) Description() string {
	p := gardenpkg.ProgressOf(i.Habit)
	desc := fmt.Sprintf("%s | %d%% | %s %s", gardenpkg.ProgressLine(i.Habit), p.Percent(), p.GrowthStage.Glyph(), p.GrowthStage)
	if i.Completed {
		desc += " | completed"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	CheckIn key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "plant habit"),
		),
		CheckIn: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c/space", "check in today"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Garden"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered globally by the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn}
	}

	return Model{list: l, keys: keys}
}

// Keys returns the bindings shown in the global help.
func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Add, m.keys.CheckIn}
}

// SetItems replaces the listed habits, keeping the cursor where possible.
func (m *Model) SetItems(items []Item) {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
}

// Selected returns the highlighted habit.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.CheckIn):
			if i, ok := m.Selected(); ok && !i.CheckedToday {
				return m, func() tea.Msg { return CheckInMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Your garden is empty.\n  Press 'a' to plant a habit."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
