package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateGarden:
		content = docStyle.Render(m.gardenModel.View())
	case StateFeed:
		content = docStyle.Render(m.feedModel.View())
	case StateLeaderboard:
		content = docStyle.Render(m.leaderboardModel.View())
	case StateProfile:
		content = docStyle.Render(m.profileModel.View())
	case StateForm:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateForm {
		active = m.previousState
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, userStyle.Render(m.user.Avatar+" @"+m.user.Username))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusError {
		return dangerStyle.Render(m.status)
	}
	return toastStyle.Render(m.status)
}
