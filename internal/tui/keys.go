package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab          key.Binding
	ShiftTab     key.Binding
	Quit         key.Binding
	Help         key.Binding
	Toggle       key.Binding
	Skip         key.Binding
	Reset        key.Binding
	EndCycle     key.Binding
	AutoContinue key.Binding
	Edit         key.Binding
	Refresh      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Toggle, k.Skip, k.Reset, k.EndCycle, k.AutoContinue, k.Edit, k.Refresh},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset session"),
		),
		EndCycle: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end cycle"),
		),
		AutoContinue: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto continue"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit settings"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
	}
}
