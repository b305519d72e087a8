// Package button renders pressable buttons for prompts and forms.
package button

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noticeboard/internal/theme"
)

// Variant selects one of the fixed button looks.
type Variant int

const (
	// Primary is a filled dark button. It is the zero value.
	Primary Variant = iota
	// Secondary is a light, bordered button.
	Secondary
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Secondary:
		return "secondary"
	default:
		return "primary"
	}
}

func (v Variant) style() lipgloss.Style {
	switch v {
	case Secondary:
		return theme.SecondaryButtonStyle
	default:
		return theme.PrimaryButtonStyle
	}
}

// Button is a stateless pressable element.
type Button struct {
	Title   string
	Variant Variant

	// Style, when set, adjusts the variant style before rendering.
	Style func(lipgloss.Style) lipgloss.Style

	// OnPress returns the command to run when the button is activated.
	OnPress func() tea.Cmd
}

// New creates a button.
func New(title string, variant Variant, onPress func() tea.Cmd) Button {
	return Button{Title: title, Variant: variant, OnPress: onPress}
}

// Render draws the button, highlighted when focused.
func (b Button) Render(focused bool) string {
	s := b.Variant.style()
	if b.Style != nil {
		s = b.Style(s)
	}
	if focused {
		s = s.Inherit(theme.FocusedButtonStyle)
	}
	return s.Render(b.Title)
}

// Press runs OnPress and returns its command.
func (b Button) Press() tea.Cmd {
	if b.OnPress == nil {
		return nil
	}
	return b.OnPress()
}

// Row lays buttons out horizontally with the focused index highlighted.
func Row(buttons []Button, focused int) string {
	cells := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			cells = append(cells, "  ")
		}
		cells = append(cells, b.Render(i == focused))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cells...)
}
