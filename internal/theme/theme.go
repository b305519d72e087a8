package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorCard   = lipgloss.AdaptiveColor{Dark: "#343A40", Light: "#D1D5DB"}
	ColorInk    = lipgloss.Color("#000000")
	ColorPaper  = lipgloss.Color("#FFFFFF")
	ColorMist   = lipgloss.Color("#F3F4F6")
	ColorSteel  = lipgloss.Color("#9CA3AF")
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlays such as help and the login form.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// Notice card styles.
var (
	NoticeTitleStyle = lipgloss.NewStyle().Bold(true)
	NoticeBodyStyle  = lipgloss.NewStyle()
	NoticeTimeStyle  = lipgloss.NewStyle().Foreground(ColorGray)

	// NoticeCardStyle frames each notice; the selected one gets an accent edge.
	NoticeCardStyle = lipgloss.NewStyle().
			Background(ColorCard).
			Padding(0, 2)

	SelectedCardStyle = NoticeCardStyle.
				Border(lipgloss.ThickBorder(), false, false, false, true).
				BorderForeground(ColorBlue).
				PaddingLeft(1)
)

// EmptyStyle renders placeholder messages.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Bold(true).
	Align(lipgloss.Center)

// ErrorStyle renders status line errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Italic(true)

// ButtonBaseStyle is shared by every button variant.
var ButtonBaseStyle = lipgloss.NewStyle().
	Width(16).
	Align(lipgloss.Center).
	Padding(0, 1).
	Border(lipgloss.RoundedBorder())

// PrimaryButtonStyle is a filled dark button with light text.
var PrimaryButtonStyle = ButtonBaseStyle.
	Background(ColorInk).
	Foreground(ColorPaper).
	BorderForeground(ColorInk)

// SecondaryButtonStyle is a light button with a gray border and dark text.
var SecondaryButtonStyle = ButtonBaseStyle.
	Background(ColorMist).
	Foreground(ColorInk).
	BorderForeground(ColorSteel)

// FocusedButtonStyle is layered on top of a variant when it has focus.
var FocusedButtonStyle = lipgloss.NewStyle().
	Bold(true).
	Underline(true)
