package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noticeboard/internal/theme"
)

// Layout splits the terminal into a header row, content and a status row.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentHeight returns the rows left between header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - 2
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title on the left and a summary on the right,
// filling the row with the header background.
func (l Layout) RenderHeader(title, summary string) string {
	return fillRow(theme.HeaderStyle, l.Width, title, summary)
}

// RenderStatusBar renders keyboard hints across the bottom row.
func (l Layout) RenderStatusBar(hints string) string {
	return fillRow(theme.StatusBarStyle, l.Width, hints, "")
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().Height(l.ContentHeight()).MaxHeight(l.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func fillRow(style lipgloss.Style, width int, left, right string) string {
	l := style.Render(left)
	r := ""
	if right != "" {
		r = style.Render(right)
	}

	gap := width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, l, filler, r)
}
