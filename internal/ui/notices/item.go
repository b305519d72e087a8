package notices

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noticeboard/internal/model"
	"github.com/nhle/noticeboard/internal/theme"
)

// noticeItem wraps a model.Notice so it can be used in a bubbles/list.
type noticeItem struct {
	notice model.Notice
}

// FilterValue returns the string used for fuzzy filtering.
func (i noticeItem) FilterValue() string { return i.notice.Title }

// noticeDelegate renders each notice as a three line card: title, body and
// send time.
type noticeDelegate struct {
	timeFormat string
}

// Height returns the number of lines each item takes.
func (d noticeDelegate) Height() int { return 3 }

// Spacing returns the number of blank lines between items.
func (d noticeDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d noticeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notice card.
func (d noticeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(noticeItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderCard(ni.notice, m.Width(), d.timeFormat, index == m.Index()))
}

func renderCard(n model.Notice, width int, timeFormat string, selected bool) string {
	style := theme.NoticeCardStyle
	if selected {
		style = theme.SelectedCardStyle
	}

	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	line := lipgloss.NewStyle().MaxWidth(inner)

	title := line.Render(theme.NoticeTitleStyle.Render(oneLine(n.Title)))
	body := line.Render(theme.NoticeBodyStyle.Render(oneLine(n.Body)))
	sent := lipgloss.PlaceHorizontal(inner, lipgloss.Right,
		theme.NoticeTimeStyle.Render(n.FormatTime(timeFormat)),
	)

	return style.Width(inner + style.GetHorizontalPadding()).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, body, sent),
	)
}

// oneLine folds newlines so each field occupies exactly one row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
