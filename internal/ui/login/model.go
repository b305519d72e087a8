// Package login is the sign-in screen shown to unauthenticated viewers.
package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noticeboard/internal/auth"
	"github.com/nhle/noticeboard/internal/theme"
)

// Authenticator stores a session token.
type Authenticator interface {
	Login(token string) error
}

// loginFailedMsg reports a rejected token.
type loginFailedMsg struct{ err error }

type formBindings struct {
	token string
}

// Model is the Bubble Tea model for the login screen.
type Model struct {
	auth      Authenticator
	form      *huh.Form
	fb        *formBindings
	submitted bool
	statusMsg string
	width     int
	height    int
}

// New creates a login screen.
func New(a Authenticator, width, height int) Model {
	return Model{
		auth:   a,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init builds a fresh form.
func (m *Model) Init() tea.Cmd {
	m.fb.token = ""
	m.statusMsg = ""
	m.submitted = false
	m.form = m.buildForm()
	return m.form.Init()
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Access token").
				Description("Paste the token issued for this device.").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

// Update handles messages for the login screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		m.statusMsg = fmt.Sprintf("Login failed: %v", msg.err)
		m.fb.token = ""
		m.submitted = false
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		// A completed form stays completed; submit it once.
		if m.submitted {
			return m, nil
		}
		m.submitted = true
		return m, m.submit()
	case huh.StateAborted:
		m.fb.token = ""
		m.form = m.buildForm()
		return m, m.form.Init()
	}
	return m, cmd
}

// submit stores the token and reports the new auth state.
func (m Model) submit() tea.Cmd {
	a := m.auth
	token := m.fb.token
	return func() tea.Msg {
		if err := a.Login(token); err != nil {
			return loginFailedMsg{err: err}
		}
		return auth.StateMsg{State: auth.State{LoggedIn: true}}
	}
}

// View renders the login screen.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1).Render("Sign in")

	parts := []string{title}
	if m.form != nil {
		parts = append(parts, m.form.View())
	}
	if m.statusMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.statusMsg))
	}

	panel := theme.PanelStyle.Width(m.formWidth() + 4).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 30 {
		w = 30
	}
	if w > 60 {
		w = 60
	}
	return w
}
