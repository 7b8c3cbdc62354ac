package stats

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/constants"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(20)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	metStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

type Model struct {
	summary aggregator.Summary
	loaded  bool
	width   int
	height  int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetSummary(s aggregator.Summary) {
	m.summary = s
	m.loaded = true
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) View() string {
	if !m.loaded {
		return "Loading stats..."
	}
	s := m.summary

	todayValue := fmt.Sprintf("%d / %d", s.Today.SessionsCompleted, s.Today.DailyTarget)
	if s.Today.IsDailyTargetMet() {
		todayValue = metStyle.Render(todayValue + " ✓")
	}

	today := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Today ("+s.Date.Format(constants.DateFormat)+")"),
		lipgloss.JoinHorizontal(lipgloss.Left, labelStyle.Render("Sessions"), valueStyle.Render(todayValue)),
	)

	totals := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Totals"),
		row("This week", fmt.Sprintf("%d", s.WeekSessions)),
		row("This month", fmt.Sprintf("%d", s.MonthSessions)),
		row("All time", fmt.Sprintf("%d", s.TotalSessions)),
	)

	streaks := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Streaks"),
		row("Current", fmt.Sprintf("%d days", s.CurrentStreak)),
		row("Longest", fmt.Sprintf("%d days", s.LongestStreak)),
		row("Targets met", fmt.Sprintf("%d of %d days", s.DaysTargetMet, s.DaysTracked)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(today),
		sectionStyle.Render(totals),
		sectionStyle.Render(streaks),
	)
}
