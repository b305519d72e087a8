package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestHeaderFillsWidth(t *testing.T) {
	l := NewLayout(60, 20)

	header := l.RenderHeader("Notices", "3 notices")

	assert.Equal(t, 60, lipgloss.Width(header))
	assert.Contains(t, header, "Notices")
	assert.Contains(t, header, "3 notices")
}

func TestFrameKeepsContentHeight(t *testing.T) {
	l := NewLayout(40, 10)
	assert.Equal(t, 8, l.ContentHeight())

	out := l.RenderWithFrame(
		l.RenderHeader("t", ""),
		strings.Repeat("line\n", 30),
		l.RenderStatusBar("q quit"),
	)

	assert.Equal(t, 10, lipgloss.Height(out))
	assert.Contains(t, out, "q quit")
}
