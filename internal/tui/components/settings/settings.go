package settings

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	settings models.Settings
	width    int
	height   int
}

func New(s models.Settings) Model {
	return Model{settings: s}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetSettings(s models.Settings) {
	m.settings = s
}

func minutes(seconds int) string {
	if seconds%60 == 0 {
		return strconv.Itoa(seconds/60) + " min"
	}
	return strconv.Itoa(seconds) + " s"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) View() string {
	s := m.settings

	timer := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Timer"),
		row("Focus", minutes(s.WorkDuration)),
		row("Short break", minutes(s.ShortBreakDuration)),
		row("Long break", minutes(s.LongBreakDuration)),
		row("Sessions per cycle", strconv.Itoa(s.MaxSessions)),
	)

	tracking := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Tracking"),
		row("Daily target", strconv.Itoa(s.DailyTarget)),
	)

	behaviour := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Behaviour"),
		row("Auto continue", onOff(s.AutoContinue)),
		row("Notifications", onOff(s.NotificationsEnabled)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(timer),
		sectionStyle.Render(tracking),
		sectionStyle.Render(behaviour),
		hintStyle.Render("Press enter to edit. Defaults: "+
			strconv.Itoa(constants.DefaultWorkDuration/60)+"/"+
			strconv.Itoa(constants.DefaultShortBreakDuration/60)+"/"+
			strconv.Itoa(constants.DefaultLongBreakDuration/60)+" min"),
	)
}
