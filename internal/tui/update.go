package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/logger"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// ticks keep flowing while a form is open
		m.handleTick(time.Time(msg))
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.timerModel.SetSize(msg.Width, msg.Height-4)
		m.statsModel.SetSize(msg.Width, msg.Height-4)
		m.settingsModel.SetSize(msg.Width, msg.Height-4)
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateEditSettings:
		cmd = m.handleEditSettings(msg)
		return m, cmd
	case constants.StateConfirmEndCycle:
		cmd = m.handleConfirmEndCycle(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleTick(now time.Time) {
	if !m.coord.Snapshot().IsActive {
		return
	}
	tr, finished, err := m.coord.Tick(m.ctx)
	if err != nil {
		m.errMsg = err.Error()
	}
	if finished {
		m.statusMsg = fmt.Sprintf("%s finished at %s. Next up: %s",
			tr.From.Label(), now.Format(constants.TimeFormat), tr.To.Label())
		m.refreshStats()
	}
	m.syncTimer()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		m.onTabChange()
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		m.onTabChange()
		return m, nil
	case key.Matches(msg, m.keys.AutoContinue):
		m.toggleAutoContinue()
		return m, nil
	}

	switch m.state {
	case constants.StateTimer:
		return m.handleTimerKey(msg)
	case constants.StateStats:
		if key.Matches(msg, m.keys.Refresh) {
			m.errMsg = ""
			m.refreshStats()
		}
	case constants.StateSettings:
		if key.Matches(msg, m.keys.Edit) {
			cmd := m.openSettingsForm()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleTimerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.coord.Toggle(m.ctx)
	case key.Matches(msg, m.keys.Skip):
		tr := m.coord.Skip(m.ctx)
		m.statusMsg = fmt.Sprintf("Skipped %s. Next up: %s", tr.From.Label(), tr.To.Label())
	case key.Matches(msg, m.keys.Reset):
		m.coord.ResetSession(m.ctx)
	case key.Matches(msg, m.keys.EndCycle):
		m.confirmForm = &ConfirmationFormModel{}
		m.form = NewEndCycleForm(m.confirmForm)
		m.previousState = m.state
		m.state = constants.StateConfirmEndCycle
		return m, m.form.Init()
	}
	m.syncTimer()
	return m, nil
}

func (m *Model) onTabChange() {
	switch m.state {
	case constants.StateStats:
		m.refreshStats()
	case constants.StateSettings:
		m.settingsModel.SetSettings(m.coord.Settings())
	}
}

func (m *Model) toggleAutoContinue() {
	on, err := m.settings.ToggleAutoContinue()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.coord.ReloadSettings(m.ctx); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.settingsModel.SetSettings(m.coord.Settings())
	m.statusMsg = "Auto continue " + map[bool]string{true: "on", false: "off"}[on]
}

func (m *Model) openSettingsForm() tea.Cmd {
	m.errMsg = ""
	m.settingsForm = newSettingsFormModel(m.coord.Settings())
	m.form = NewSettingsForm(m.settingsForm)
	m.previousState = m.state
	m.state = constants.StateEditSettings
	return m.form.Init()
}

// updateForm forwards msg to the open form
func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if m.form == nil {
		return nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.state = m.previousState
}

// handleEditSettings handles the edit settings state
func (m *Model) handleEditSettings(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveSettingsForm(); err != nil {
			m.errMsg = "Failed to update settings: " + err.Error()
			m.form.State = huh.StateNormal
			return cmd
		}
		m.settingsModel.SetSettings(m.coord.Settings())
		m.syncTimer()
		m.refreshStats()
		m.statusMsg = "Settings saved"
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

func (m *Model) saveSettingsForm() error {
	for k, v := range m.settingsForm.values() {
		if err := m.settings.SetRaw(k, v); err != nil {
			return err
		}
	}
	target, err := strconv.Atoi(m.settingsForm.DailyTarget)
	if err != nil {
		return err
	}
	if err := m.coord.UpdateDailyTargetSetting(m.ctx, target); err != nil {
		return err
	}
	if err := m.coord.ReloadSettings(m.ctx); err != nil {
		return err
	}
	logger.Info("Settings updated from TUI")
	return nil
}

// handleConfirmEndCycle handles the end cycle confirmation state
func (m *Model) handleConfirmEndCycle(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmForm.Confirmed {
			m.coord.EndCycle(m.ctx)
			m.statusMsg = "Cycle ended"
			m.syncTimer()
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}
