package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pomolit/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateTimer:
		content = m.timerModel.View()
	case constants.StateStats:
		content = docStyle.Render(m.statsModel.View())
	case constants.StateSettings:
		content = docStyle.Render(m.settingsModel.View())
	case constants.StateEditSettings:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmEndCycle:
		content = m.viewConfirmEndCycle()
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
	var tabs []string
	for i, title := range []string{"Timer", "Stats", "Settings"} {
		tabs = append(tabs, tabStyle(m.activeTab() == constants.SessionState(i)).Render(title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// activeTab maps form states back to the tab that opened them
func (m Model) activeTab() constants.SessionState {
	switch m.state {
	case constants.StateEditSettings, constants.StateConfirmEndCycle:
		return m.previousState
	}
	return m.state
}

func (m Model) viewStatus() string {
	if m.errMsg != "" {
		return warningStyle.Render("⚠ " + m.errMsg)
	}
	if m.statusMsg != "" {
		return statusStyle.Render(m.statusMsg)
	}
	return ""
}

func (m Model) viewConfirmEndCycle() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		dangerStyle.Render("End cycle"),
		"",
		m.form.View(),
	)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}
