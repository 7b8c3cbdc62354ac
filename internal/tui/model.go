package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/clock"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/coordinator"
	"github.com/julianstephens/pomolit/internal/settings"
	settingsview "github.com/julianstephens/pomolit/internal/tui/components/settings"
	"github.com/julianstephens/pomolit/internal/tui/components/stats"
	timerview "github.com/julianstephens/pomolit/internal/tui/components/timer"
)

// tabCount is the number of top-level tabs: timer, stats and settings
const tabCount = 3

type Options struct {
	Coordinator *coordinator.Coordinator
	Aggregator  *aggregator.Aggregator
	Settings    *settings.Service
	Clock       clock.Clock
}

type Model struct {
	ctx           context.Context
	coord         *coordinator.Coordinator
	agg           *aggregator.Aggregator
	settings      *settings.Service
	clock         clock.Clock
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	timerModel    timerview.Model
	statsModel    stats.Model
	settingsModel settingsview.Model
	form          *huh.Form
	settingsForm  *SettingsFormModel
	confirmForm   *ConfirmationFormModel
	statusMsg     string
	errMsg        string
	quitting      bool
	width         int
	height        int
}

func NewModel(ctx context.Context, opts Options) Model {
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}

	tm := timerview.New()
	tm.SetState(opts.Coordinator.Snapshot())

	m := Model{
		ctx:           ctx,
		coord:         opts.Coordinator,
		agg:           opts.Aggregator,
		settings:      opts.Settings,
		clock:         clk,
		state:         constants.StateTimer,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		timerModel:    tm,
		statsModel:    stats.New(),
		settingsModel: settingsview.New(opts.Coordinator.Settings()),
	}
	m.refreshStats()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateTimer:
		keys = append(keys, m.keys.Toggle, m.keys.Skip, m.keys.Reset, m.keys.EndCycle)
	case constants.StateStats:
		keys = append(keys, m.keys.Refresh)
	case constants.StateSettings:
		keys = append(keys, m.keys.Edit, m.keys.AutoContinue)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case constants.StateTimer:
		actions = []key.Binding{m.keys.Toggle, m.keys.Skip, m.keys.Reset, m.keys.EndCycle, m.keys.AutoContinue}
	case constants.StateStats:
		actions = []key.Binding{m.keys.Refresh}
	case constants.StateSettings:
		actions = []key.Binding{m.keys.Edit, m.keys.AutoContinue}
	}

	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// refreshStats reloads records and recomputes the stats tab
func (m *Model) refreshStats() {
	if m.agg == nil {
		return
	}
	if err := m.agg.Refresh(); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.statsModel.SetSummary(m.agg.Summary(m.clock.Now()))
}

// syncTimer copies the coordinator state into the timer view
func (m *Model) syncTimer() {
	m.timerModel.SetState(m.coord.Snapshot())
}
