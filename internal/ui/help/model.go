package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noticeboard/internal/keys"
	"github.com/nhle/noticeboard/internal/theme"
)

// sectionTitles label the groups returned by KeyMap.FullHelp, in order.
var sectionTitles = []string{"Notice list", "Acknowledgment prompt", "Session"}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders one titled row of bindings per screen.
func (m Model) View() string {
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorSteel)

	rows := []string{
		lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite).
			MarginBottom(1).
			Render("Keyboard Shortcuts"),
	}
	for i, group := range m.keys.FullHelp() {
		title := "Other"
		if i < len(sectionTitles) {
			title = sectionTitles[i]
		}
		rows = append(rows, sectionStyle.Render(title), m.help.ShortHelpView(group), "")
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
}
