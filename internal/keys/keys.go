package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Prompt buttons
	Next key.Binding
	Prev key.Binding

	// Activation
	Select key.Binding

	// Back / Quit
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	// Help toggle
	Help key.Binding

	// Session
	Logout key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next button"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab/←", "previous button"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
	}
}

// ShortHelp returns the bindings shown in the notice list status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Down, k.Up, k.Logout, k.Help, k.Quit,
	}
}

// PromptHelp returns the bindings active while a notice awaits
// acknowledgment.
func (k *KeyMap) PromptHelp() []key.Binding {
	return []key.Binding{
		k.Next, k.Prev, k.Select, k.Back,
	}
}

// FullHelp returns all keybindings grouped by screen for the help overlay:
// notice list, acknowledgment prompt, session.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up},
		k.PromptHelp(),
		{k.Logout, k.Help, k.Quit, k.ForceQuit},
	}
}
