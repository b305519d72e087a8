package notices

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noticeboard/internal/theme"
	"github.com/nhle/noticeboard/internal/ui/button"
)

// promptButtons builds the acknowledgment buttons for the head of the
// prompt queue. The last button always dismisses.
func (m Model) promptButtons() []button.Button {
	n := m.prompts[0]
	gen := m.gen
	answer := func(accepted bool) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				return promptAnsweredMsg{gen: gen, notice: n, accepted: accepted}
			}
		}
	}

	return []button.Button{
		button.New("OK", button.Primary, answer(true)),
		button.New("Dismiss", button.Secondary, answer(false)),
	}
}

func (m Model) viewPrompt() string {
	n := m.prompts[0]

	width := m.width - 8
	if width < 30 {
		width = 30
	}
	if width > 60 {
		width = 60
	}

	title := theme.NoticeTitleStyle.Render(n.Title)
	body := lipgloss.NewStyle().Width(width).Render(n.Body)
	buttons := button.Row(m.promptButtons(), m.focus)

	parts := []string{title, "", body, "", buttons}
	if len(m.prompts) > 1 {
		parts = append(parts, "", theme.HelpStyle.Render(pendingLabel(len(m.prompts)-1)))
	}

	panel := theme.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, panel)
}

func pendingLabel(more int) string {
	if more == 1 {
		return "1 more notice waiting"
	}
	return fmt.Sprintf("%d more notices waiting", more)
}
