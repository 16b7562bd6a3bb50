package profile

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Data is everything the profile tab shows.
type Data struct {
	User         models.User
	Stats        stats.ProfileStats
	Friends      []models.User
	Achievements []models.AchievementStatus
}

type Model struct {
	viewport viewport.Model
	data     *Data
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.data == nil {
		return "\n  No user selected."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetData(d *Data) {
	m.data = d
	m.render()
}

func (m *Model) render() {
	if m.data == nil {
		m.viewport.SetContent("")
		return
	}
	d := m.data
	// the profile color only tints the header
	banner := headerStyle.Foreground(lipgloss.Color(d.User.BackgroundColor))

	var b strings.Builder
	b.WriteString(banner.Render(fmt.Sprintf("%s %s (@%s)", d.User.Avatar, d.User.DisplayName, d.User.Username)))
	b.WriteString("\n")
	if d.User.Bio != "" {
		b.WriteString(mutedStyle.Render(d.User.Bio) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Points %d · Active habits %d · Completed %d\n", d.Stats.Points, d.Stats.ActiveHabits, d.Stats.CompletedHabitCount)
	fmt.Fprintf(&b, "Check-ins %d · Best habit %d · Achievements %d\n", d.Stats.TotalCheckIns, d.Stats.MaxStreak, d.Stats.UnlockedAchievements)

	b.WriteString("\n" + headerStyle.Render("Friends") + "\n")
	if len(d.Friends) == 0 {
		b.WriteString(mutedStyle.Render("  none yet, press 'f' to add one") + "\n")
	}
	for _, f := range d.Friends {
		fmt.Fprintf(&b, "  %s %s (@%s)\n", f.Avatar, f.DisplayName, f.Username)
	}

	b.WriteString("\n" + headerStyle.Render("Achievements") + "\n")
	for _, a := range d.Achievements {
		if a.Unlocked {
			fmt.Fprintf(&b, "  %s %s - %s\n", a.Icon, a.Name, a.Description)
		} else {
			b.WriteString(lockedStyle.Render(fmt.Sprintf("  🔒 %s - %s", a.Name, a.Description)) + "\n")
		}
	}
	m.viewport.SetContent(b.String())
}
