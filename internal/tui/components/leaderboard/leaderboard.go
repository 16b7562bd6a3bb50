package leaderboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgarden/internal/stats"
)

var (
	rankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(6)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(26)

	youStyle = nameStyle.
			Foreground(lipgloss.Color("205"))

	figureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport  viewport.Model
	entries   []stats.LeaderboardEntry
	currentID string
	width     int
	height    int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return "\n  No gardeners yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetEntries replaces the ranking; currentID is highlighted.
func (m *Model) SetEntries(entries []stats.LeaderboardEntry, currentID string) {
	m.entries = entries
	m.currentID = currentID
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	for _, e := range m.entries {
		style := nameStyle
		if e.User.ID == m.currentID {
			style = youStyle
		}
		line := fmt.Sprintf("%s %s %s\n",
			rankStyle.Render(fmt.Sprintf("#%d", e.Rank)),
			style.Render(e.User.Avatar+" "+e.User.DisplayName),
			figureStyle.Render(fmt.Sprintf("%d pts · %d check-ins · %d completed",
				e.Points, e.TotalCheckIns, e.CompletedHabitCount)),
		)
		b.WriteString(line)
	}
	m.viewport.SetContent(b.String())
}
