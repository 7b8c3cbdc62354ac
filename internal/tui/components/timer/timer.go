package timer

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pomolit/internal/models"
	sessiontimer "github.com/julianstephens/pomolit/internal/timer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Align(lipgloss.Center)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 0)

	dotDone = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("●")
	dotTodo = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("○")
)

var sessionColors = map[models.SessionType]lipgloss.Color{
	models.Work:       lipgloss.Color("205"),
	models.ShortBreak: lipgloss.Color("42"),
	models.LongBreak:  lipgloss.Color("39"),
}

type Model struct {
	state    sessiontimer.State
	progress progress.Model
	width    int
	height   int
}

func New() Model {
	return Model{
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	w := width - 8
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	m.progress.Width = w
}

func (m *Model) SetState(s sessiontimer.State) {
	m.state = s
}

// Dots renders one marker per work session of the cycle
func Dots(done, total int) string {
	if total < 1 {
		return ""
	}
	if done > total {
		done = total
	}
	parts := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if i < done {
			parts = append(parts, dotDone)
		} else {
			parts = append(parts, dotTodo)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) View() string {
	s := m.state

	title := titleStyle.
		Foreground(sessionColors[s.CurrentSession]).
		Render(s.CurrentSession.Label())

	status := "Paused"
	if s.IsActive {
		status = "Running"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		clockStyle.Render(s.FormatRemaining()),
		"",
		m.progress.ViewAs(s.Progress()),
		"",
		Dots(s.CurrentSessionNumber, s.MaxSessions),
		statusStyle.Render(status),
	)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
