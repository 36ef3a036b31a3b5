package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the chat screen.
type KeyMap struct {
	// Navigation (context-sensitive: thread message cursor or roster
	// cursor depending on focus).
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Focus cycling between compose, thread, and roster.
	FocusNext key.Binding

	// Compose.
	Send key.Binding

	// Thread.
	React key.Binding

	// Own presence.
	CycleStatus key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set. Vim-style j/k alongside the
// arrow keys; single-letter actions only apply outside the compose input.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("C-d", "page down"),
	),
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	React: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "react"),
	),
	CycleStatus: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "status"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
