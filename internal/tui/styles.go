package tui

import "github.com/charmbracelet/lipgloss"

const (
	accent = lipgloss.Color("205")
	muted  = lipgloss.Color("240")
)

var (
	tabBase = lipgloss.NewStyle().Padding(0, 1)

	docStyle     = lipgloss.NewStyle().Padding(1, 2)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// tabStyle highlights the selected tab and dims the rest
func tabStyle(selected bool) lipgloss.Style {
	if selected {
		return tabBase.Foreground(accent).Background(lipgloss.Color("236")).Bold(true)
	}
	return tabBase.Foreground(muted)
}
