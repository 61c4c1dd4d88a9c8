// ABOUTME: Key bindings for the care4u terminal UI.
// ABOUTME: KeyMap also satisfies help.KeyMap for the footer.
package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding
	Enter key.Binding
	Back  key.Binding
	Nav   key.Binding

	// Header shortcuts
	Companions key.Binding
	Settings   key.Binding
	Theme      key.Binding

	// Actions
	Toggle   key.Binding
	Add      key.Binding
	Taken    key.Binding
	Chat     key.Binding
	Register key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Nav: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "views"),
	),
	Companions: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "companions"),
	),
	Settings: key.NewBinding(
		key.WithKeys(","),
		key.WithHelp(",", "settings"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Taken: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "mark next taken"),
	),
	Chat: key.NewBinding(
		key.WithKeys("i", "enter"),
		key.WithHelp("i", "type"),
	),
	Register: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "create account"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings shown in the collapsed footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Nav, k.Companions, k.Settings, k.Theme, k.Help, k.Quit}
}

// FullHelp returns the bindings shown when help is expanded.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Back},
		{k.Nav, k.Companions, k.Settings, k.Theme},
		{k.Toggle, k.Add, k.Taken, k.Chat},
		{k.Help, k.Quit},
	}
}
