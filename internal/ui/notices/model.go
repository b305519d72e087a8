// Package notices is the notice history screen: it loads stored notices,
// listens for push arrivals while visible and persists the ones the user
// accepts.
package notices

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhle/noticeboard/internal/auth"
	"github.com/nhle/noticeboard/internal/keys"
	"github.com/nhle/noticeboard/internal/model"
	"github.com/nhle/noticeboard/internal/push"
	"github.com/nhle/noticeboard/internal/store"
	"github.com/nhle/noticeboard/internal/theme"
)

// LoginScreen is the navigation target for unauthenticated viewers.
const LoginScreen = "Login"

// emptyText is shown when there is nothing to list.
const emptyText = "No Notices found"

// DataState tracks whether the initial load has been applied.
type DataState int

const (
	DataUninitialized DataState = iota
	DataLoaded
)

type authPhase int

const (
	authLoading authPhase = iota
	authIn
	authOut
)

func phaseOf(st auth.State) authPhase {
	switch {
	case st.Loading:
		return authLoading
	case st.LoggedIn:
		return authIn
	default:
		return authOut
	}
}

// Deps are the collaborators the screen is built from.
type Deps struct {
	Store      store.NoticeStore
	Bridge     *push.Bridge
	Permission push.PermissionRequester

	// Navigate returns the command that moves the app to the named screen.
	Navigate func(screen string) tea.Cmd

	Keys       *keys.KeyMap
	Logger     *zap.Logger
	TimeFormat string
}

// Messages are tagged with the lifetime generation that issued them so
// completions arriving after Unmount are ignored.
type (
	noticesLoadedMsg struct {
		gen     int
		notices []model.Notice
		err     error
	}

	arrivalMsg struct {
		gen     int
		arrival push.Arrival
	}

	promptAnsweredMsg struct {
		gen      int
		notice   model.Notice
		accepted bool
	}

	noticeSavedMsg struct {
		gen    int
		notice model.Notice
		err    error
		resume bool
	}

	permissionResultMsg struct {
		err error
	}
)

// Model is the Bubble Tea model for the notice screen.
type Model struct {
	deps Deps
	list list.Model

	notices []model.Notice
	ids     map[string]struct{} // shown or being saved

	auth    authPhase
	data    DataState
	gen     int
	mounted bool

	arrivals <-chan push.Arrival
	prompts  []model.Notice
	focus    int

	status string
	width  int
	height int
}

// New creates an unmounted notice screen.
func New(deps Deps, width, height int) Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Keys == nil {
		deps.Keys = keys.DefaultKeyMap()
	}

	l := list.New([]list.Item{}, noticeDelegate{timeFormat: deps.TimeFormat}, width, height-1)
	l.Title = "Notices"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		deps:   deps,
		list:   l,
		ids:    make(map[string]struct{}),
		width:  width,
		height: height,
	}
}

// Init satisfies tea.Model; the screen starts work on Mount.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mount starts a new visible lifetime: the schema is ensured and stored
// notices are loaded. Push listeners are registered only once that load
// has been applied.
func (m *Model) Mount() tea.Cmd {
	m.deps.Bridge.Unregister()
	m.gen++
	m.mounted = true
	m.data = DataUninitialized
	m.arrivals = nil
	m.prompts = nil
	m.focus = 0
	m.status = ""
	return m.loadNotices()
}

// Unmount ends the visible lifetime and unregisters push listeners.
// Work still in flight completes but is no longer applied.
func (m *Model) Unmount() {
	m.gen++
	m.mounted = false
	m.arrivals = nil
	m.prompts = nil
	m.deps.Bridge.Unregister()
}

// Mounted reports whether the screen is visible.
func (m Model) Mounted() bool {
	return m.mounted
}

// Notices returns the visible notices, most recent arrivals first.
func (m Model) Notices() []model.Notice {
	return m.notices
}

// Data returns the data-axis state.
func (m Model) Data() DataState {
	return m.data
}

// Prompting reports whether a foreground notice awaits acknowledgment.
func (m Model) Prompting() bool {
	return len(m.prompts) > 0
}

// Update handles messages for the notice screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case auth.StateMsg:
		return m.setAuth(msg.State)

	case permissionResultMsg:
		if msg.err != nil {
			m.deps.Logger.Warn("push permission request failed", zap.Error(msg.err))
		}
		return m, nil

	case noticesLoadedMsg:
		if !m.current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.status = "Could not load notices"
		}
		m.replace(msg.notices)
		m.data = DataLoaded
		m.arrivals = m.deps.Bridge.Register()
		return m, m.waitForArrival()

	case arrivalMsg:
		if !m.current(msg.gen) {
			return m, nil
		}
		return m.handleArrival(msg.arrival)

	case promptAnsweredMsg:
		if !m.current(msg.gen) || len(m.prompts) == 0 || m.prompts[0] != msg.notice {
			return m, nil
		}
		m.prompts = m.prompts[1:]
		m.focus = 0
		if !msg.accepted || m.known(msg.notice.ID) {
			return m, nil
		}
		m.ids[msg.notice.ID] = struct{}{}
		return m, m.saveNotice(msg.notice, false)

	case noticeSavedMsg:
		if !m.current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			delete(m.ids, msg.notice.ID)
			m.status = "Could not save notice"
			m.deps.Logger.Error("saving notice",
				zap.String("id", msg.notice.ID),
				zap.Error(msg.err),
			)
		} else {
			m.status = ""
			m.prepend(msg.notice)
		}
		if msg.resume {
			return m, m.waitForArrival()
		}
		return m, nil

	case tea.KeyMsg:
		if len(m.prompts) > 0 {
			return m.handlePromptKey(msg)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// setAuth reacts to auth transitions: entering logged-out navigates to
// login, entering logged-in requests push permission once.
func (m Model) setAuth(st auth.State) (Model, tea.Cmd) {
	next := phaseOf(st)
	if next == m.auth {
		return m, nil
	}
	m.auth = next

	switch next {
	case authOut:
		if m.deps.Navigate == nil {
			return m, nil
		}
		return m, m.deps.Navigate(LoginScreen)
	case authIn:
		return m, m.requestPermission()
	}
	return m, nil
}

func (m Model) handleArrival(a push.Arrival) (Model, tea.Cmd) {
	n := a.Notice
	if m.known(n.ID) || (a.Kind == push.KindForeground && m.queued(n.ID)) {
		m.deps.Logger.Debug("ignoring duplicate notice",
			zap.String("id", n.ID),
			zap.String("kind", string(a.Kind)),
		)
		return m, m.waitForArrival()
	}

	switch a.Kind {
	case push.KindForeground:
		m.prompts = append(m.prompts, n)
		return m, m.waitForArrival()
	default:
		// A click answers any pending prompt for the same notice.
		m.dropPrompt(n.ID)
		m.ids[n.ID] = struct{}{}
		return m, m.saveNotice(n, true)
	}
}

func (m *Model) dropPrompt(id string) {
	kept := m.prompts[:0:0]
	for i, p := range m.prompts {
		if p.ID != id {
			kept = append(kept, p)
			continue
		}
		if i == 0 {
			m.focus = 0
		}
	}
	m.prompts = kept
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	buttons := m.promptButtons()

	switch {
	case key.Matches(msg, m.deps.Keys.Next):
		m.focus = (m.focus + 1) % len(buttons)
	case key.Matches(msg, m.deps.Keys.Prev):
		m.focus = (m.focus + len(buttons) - 1) % len(buttons)
	case key.Matches(msg, m.deps.Keys.Select):
		return m, buttons[m.focus].Press()
	case key.Matches(msg, m.deps.Keys.Back):
		return m, buttons[len(buttons)-1].Press()
	}
	return m, nil
}

func (m Model) current(gen int) bool {
	return m.mounted && gen == m.gen
}

func (m Model) known(id string) bool {
	_, ok := m.ids[id]
	return ok
}

func (m Model) queued(id string) bool {
	for _, p := range m.prompts {
		if p.ID == id {
			return true
		}
	}
	return false
}

// replace swaps in a freshly loaded list, keeping the first of any
// duplicate IDs.
func (m *Model) replace(notices []model.Notice) {
	m.ids = make(map[string]struct{}, len(notices))
	m.notices = make([]model.Notice, 0, len(notices))
	for _, n := range notices {
		if m.known(n.ID) {
			continue
		}
		m.ids[n.ID] = struct{}{}
		m.notices = append(m.notices, n)
	}
	m.syncList()
}

func (m *Model) prepend(n model.Notice) {
	for _, existing := range m.notices {
		if existing.ID == n.ID {
			return
		}
	}
	m.ids[n.ID] = struct{}{}
	m.notices = append([]model.Notice{n}, m.notices...)
	m.syncList()
}

func (m *Model) syncList() {
	items := make([]list.Item, len(m.notices))
	for i, n := range m.notices {
		items[i] = noticeItem{notice: n}
	}
	m.list.SetItems(items)
}

// loadNotices ensures the schema and reads every stored notice. A failed
// read yields an empty list.
func (m Model) loadNotices() tea.Cmd {
	s := m.deps.Store
	logger := m.deps.Logger
	gen := m.gen
	return func() tea.Msg {
		ctx := context.Background()

		if err := s.EnsureSchema(ctx); err != nil {
			logger.Error("ensuring notice schema", zap.Error(err))
			return noticesLoadedMsg{gen: gen, err: err}
		}

		notices, err := s.ListNotices(ctx)
		if err != nil {
			logger.Error("loading notices", zap.Error(err))
			return noticesLoadedMsg{gen: gen, err: err}
		}
		return noticesLoadedMsg{gen: gen, notices: notices}
	}
}

// waitForArrival reads the next push arrival. It yields nothing once the
// bridge closes the channel.
func (m Model) waitForArrival() tea.Cmd {
	ch := m.arrivals
	gen := m.gen
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return arrivalMsg{gen: gen, arrival: a}
	}
}

// saveNotice appends n to the store. resume asks the saved handler to go
// back to reading arrivals.
func (m Model) saveNotice(n model.Notice, resume bool) tea.Cmd {
	s := m.deps.Store
	gen := m.gen
	return func() tea.Msg {
		err := s.AppendNotice(context.Background(), n)
		return noticeSavedMsg{gen: gen, notice: n, err: err, resume: resume}
	}
}

func (m Model) requestPermission() tea.Cmd {
	p := m.deps.Permission
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return permissionResultMsg{err: p.RequestPermission(context.Background())}
	}
}

// View renders the notice screen.
func (m Model) View() string {
	var body string
	switch {
	case len(m.prompts) > 0:
		body = m.viewPrompt()
	case m.data == DataUninitialized:
		body = m.centered("Loading notices...")
	case len(m.notices) == 0:
		body = m.centered(emptyText)
	default:
		body = m.list.View()
	}

	if m.status == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, theme.ErrorStyle.Render(m.status))
}

func (m Model) centered(text string) string {
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center,
		theme.EmptyStyle.Render(text),
	)
}

// Summary is a short description for the header bar.
func (m Model) Summary() string {
	if m.data == DataUninitialized {
		return "loading"
	}
	if n := len(m.prompts); n > 0 {
		return fmt.Sprintf("%d notices | %d pending", len(m.notices), n)
	}
	return fmt.Sprintf("%d notices", len(m.notices))
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-1)
}
