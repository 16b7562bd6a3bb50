package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/tui/components/feed"
	"github.com/julianstephens/habitgarden/internal/tui/components/garden"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	}

	if m.state == StateForm {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case garden.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Duration: strconv.Itoa(constants.DefaultHabitDuration),
			Plant:    models.PlantSunflower,
		}
		return m.openForm(formHabit, NewHabitForm(m.habitForm))

	case garden.CheckInMsg:
		ci, _, err := m.engine.CheckIn(msg.ID, m.user.ID, "")
		m.report("✓ Checked in for "+ci.Date, err)
		return m, nil

	case feed.NewPostMsg:
		m.textForm = &TextFormModel{}
		return m.openForm(formPost, NewTextForm("What's growing?", "post", m.textForm))

	case feed.CommentMsg:
		m.targetPost = msg.ID
		m.textForm = &TextFormModel{}
		return m.openForm(formComment, NewTextForm("Comment", "comment", m.textForm))

	case feed.LikeMsg:
		liked, err := m.engine.LikePost(msg.ID, m.user.ID)
		text := "♡ Unliked"
		if liked {
			text = "♥ Liked"
		}
		m.report(text, err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh) && m.state != StateFeed:
			err := m.engine.Refresh(m.user.ID)
			m.report("Refreshed", err)
			return m, nil
		case key.Matches(msg, m.keys.AddFriend) && m.state != StateGarden && m.state != StateFeed:
			m.textForm = &TextFormModel{}
			return m.openForm(formFriend, NewTextForm("Friend's username", "username", m.textForm))
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateGarden:
		m.gardenModel, cmd = m.gardenModel.Update(msg)
	case StateFeed:
		m.feedModel, cmd = m.feedModel.Update(msg)
	case StateLeaderboard:
		m.leaderboardModel, cmd = m.leaderboardModel.Update(msg)
	case StateProfile:
		m.profileModel, cmd = m.profileModel.Update(msg)
	}
	return m, cmd
}

func (m Model) openForm(kind formKind, form *huh.Form) (tea.Model, tea.Cmd) {
	m.previousState = m.state
	m.state = StateForm
	m.formKind = kind
	m.form = form
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			// stay in the form so the entry can be corrected or cancelled
			m.report("", err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) submitForm() error {
	switch m.formKind {
	case formHabit:
		duration, err := strconv.Atoi(strings.TrimSpace(m.habitForm.Duration))
		if err != nil {
			return err
		}
		h, err := m.engine.CreateHabit(m.user.ID, m.habitForm.Name, m.habitForm.Description, duration, m.habitForm.Plant)
		if err != nil {
			return err
		}
		m.report("Planted "+h.PlantType.Glyph()+" "+h.Name, nil)
	case formPost:
		if _, err := m.engine.CreatePost(m.user.ID, m.textForm.Text); err != nil {
			return err
		}
		m.report("Posted", nil)
	case formComment:
		if _, err := m.engine.AddComment(m.targetPost, m.user.ID, m.textForm.Text); err != nil {
			return err
		}
		m.report("Commented", nil)
	case formFriend:
		friend, err := m.engine.AddFriend(m.user.ID, m.textForm.Text)
		if err != nil {
			return err
		}
		m.report("You and "+friend.DisplayName+" are now friends", nil)
	}
	return nil
}
