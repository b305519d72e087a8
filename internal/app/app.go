package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/noticeboard/internal/auth"
	"github.com/nhle/noticeboard/internal/keys"
	"github.com/nhle/noticeboard/internal/push"
	"github.com/nhle/noticeboard/internal/store"
	"github.com/nhle/noticeboard/internal/ui"
	helpview "github.com/nhle/noticeboard/internal/ui/help"
	"github.com/nhle/noticeboard/internal/ui/login"
	"github.com/nhle/noticeboard/internal/ui/notices"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewNotices ViewState = iota
	ViewLogin
	ViewHelp
)

// NavigateMsg asks the root model to switch to the named screen.
type NavigateMsg struct {
	Screen string
}

// mountNoticesMsg starts the notice screen's first lifetime.
type mountNoticesMsg struct{}

// Deps are the long-lived services the application is built from.
type Deps struct {
	Store      store.NoticeStore
	Provider   push.Provider
	Gate       *auth.Gate
	Logger     *zap.Logger
	TimeFormat string
}

// Model is the root Bubble Tea model that routes between screens.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	gate         *auth.Gate
	logger       *zap.Logger
	notices      notices.Model
	login        login.Model
	helpView     helpview.Model
	ready        bool
}

// New creates the root model.
func New(d Deps) Model {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewNotices,
		keys:        k,
		gate:        d.Gate,
		logger:      d.Logger,
		notices: notices.New(notices.Deps{
			Store:      d.Store,
			Bridge:     push.NewBridge(d.Provider, d.Logger.With(zap.String("module", "push"))),
			Permission: d.Provider,
			Navigate:   navigate,
			Keys:       k,
			Logger:     d.Logger.With(zap.String("module", "notices")),
			TimeFormat: d.TimeFormat,
		}, 80, 24),
		login:    login.New(d.Gate, 80, 24),
		helpView: helpview.New(k, 80, 24),
	}
}

func navigate(screen string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen}
	}
}

// Init mounts the notice screen and resolves the login state.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return mountNoticesMsg{} },
		m.gate.CheckCmd(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		h := m.layout.ContentHeight()
		m.notices.SetSize(msg.Width, h)
		m.login.SetSize(msg.Width, h)
		m.helpView.SetSize(msg.Width, h)
		return m, nil

	case mountNoticesMsg:
		if m.currentView == ViewLogin {
			return m, nil
		}
		return m, m.notices.Mount()

	case NavigateMsg:
		if msg.Screen == notices.LoginScreen {
			m.notices.Unmount()
			m.currentView = ViewLogin
			return m, m.login.Init()
		}
		return m, nil

	case auth.StateMsg:
		var mountCmd tea.Cmd
		if msg.State.LoggedIn && m.currentView == ViewLogin {
			m.currentView = ViewNotices
			mountCmd = m.notices.Mount()
		}
		var cmd tea.Cmd
		m.notices, cmd = m.notices.Update(msg)
		return m, tea.Batch(mountCmd, cmd)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		if m.currentView == ViewLogin {
			return m.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil
		case m.currentView == ViewHelp && key.Matches(msg, m.keys.Back):
			m.currentView = m.previousView
			return m, nil
		case m.currentView == ViewNotices && !m.notices.Prompting() && key.Matches(msg, m.keys.Quit):
			return m.quit()
		case m.currentView == ViewNotices && !m.notices.Prompting() && key.Matches(msg, m.keys.Logout):
			return m, m.logout()
		}
		return m.updateActiveView(msg)
	}

	// Everything else may belong to the notice screen even while another
	// view is showing; it drops what it no longer owns.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.notices, cmd = m.notices.Update(msg)
	cmds = append(cmds, cmd)
	if m.currentView == ViewLogin {
		m.login, cmd = m.login.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// updateActiveView dispatches a key to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewNotices:
		m.notices, cmd = m.notices.Update(msg)
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.notices.Unmount()
	return m, tea.Quit
}

func (m Model) logout() tea.Cmd {
	g := m.gate
	logger := m.logger
	return func() tea.Msg {
		if err := g.Logout(); err != nil {
			logger.Warn("logging out", zap.Error(err))
		}
		return auth.StateMsg{State: auth.State{}}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Notices", m.summary())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.login.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return m.notices.View()
	}
}

func (m Model) summary() string {
	if m.currentView == ViewLogin {
		return "signed out"
	}
	return m.notices.Summary()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter submit | " + hints(m.keys.ForceQuit)
	case ViewHelp:
		return hints(m.keys.Help, m.keys.Back)
	default:
		if m.notices.Prompting() {
			return hints(m.keys.PromptHelp()...)
		}
		return hints(m.keys.ShortHelp()...)
	}
}

func hints(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " | ")
}
