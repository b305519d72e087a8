package notices

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/noticeboard/internal/auth"
	"github.com/nhle/noticeboard/internal/model"
	"github.com/nhle/noticeboard/internal/push"
	"github.com/nhle/noticeboard/internal/store"
	"github.com/nhle/noticeboard/internal/testutil"
)

type navigatedMsg struct{ screen string }

type countingPermission struct {
	calls int
}

func (p *countingPermission) RequestPermission(context.Context) error {
	p.calls++
	return nil
}

// failingStore wraps a working store and fails the selected operations.
type failingStore struct {
	store.NoticeStore
	appendErr error
	listErr   error
}

func (s failingStore) AppendNotice(ctx context.Context, n model.Notice) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	return s.NoticeStore.AppendNotice(ctx, n)
}

func (s failingStore) ListNotices(ctx context.Context) ([]model.Notice, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.NoticeStore.ListNotices(ctx)
}

type harness struct {
	emitter    *push.Emitter
	store      store.NoticeStore
	permission *countingPermission
	screens    []string
}

func newHarness(t *testing.T, s store.NoticeStore) (*harness, Model) {
	t.Helper()
	if s == nil {
		s = testutil.NewTestStore(t)
	}

	h := &harness{
		emitter:    push.NewEmitter(),
		store:      s,
		permission: &countingPermission{},
	}
	m := New(Deps{
		Store:      s,
		Bridge:     push.NewBridge(h.emitter, nil),
		Permission: h.permission,
		Navigate: func(screen string) tea.Cmd {
			h.screens = append(h.screens, screen)
			return func() tea.Msg { return navigatedMsg{screen: screen} }
		},
	}, 80, 24)
	return h, m
}

// mount runs the load and returns the command waiting for arrivals.
func mount(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	load := m.Mount()
	require.NotNil(t, load)
	m, wait := m.Update(load())
	require.Equal(t, DataLoaded, m.Data())
	return m, wait
}

func event(kind push.EventKind, id, title, body, raw string) push.Event {
	return push.Event{
		Kind: kind,
		Notification: &push.Notification{
			Title:          title,
			Body:           body,
			NotificationID: id,
			RawPayload:     raw,
		},
	}
}

func stored(t *testing.T, s store.NoticeStore) []model.Notice {
	t.Helper()
	out, err := s.ListNotices(context.Background())
	require.NoError(t, err)
	return out
}

func TestMountEmptyStoreShowsPlaceholder(t *testing.T) {
	_, m := newHarness(t, nil)

	m, _ = mount(t, m)

	assert.Empty(t, m.Notices())
	assert.Contains(t, m.View(), "No Notices found")
	assert.Equal(t, "0 notices", m.Summary())
}

func TestMountShowsStoredNotices(t *testing.T) {
	s := testutil.NewTestStore(t)
	require.NoError(t, s.AppendNotice(context.Background(), model.Notice{ID: "1", Title: "A", Body: "b", Date: 1000}))
	_, m := newHarness(t, s)

	m, _ = mount(t, m)

	require.Len(t, m.Notices(), 1)
	assert.Equal(t, "A", m.Notices()[0].Title)
	assert.Contains(t, m.View(), "A")
	assert.NotContains(t, m.View(), "No Notices found")
}

func TestMountCollapsesStoredDuplicates(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	require.NoError(t, s.AppendNotice(ctx, model.Notice{ID: "1", Title: "first"}))
	require.NoError(t, s.AppendNotice(ctx, model.Notice{ID: "1", Title: "second"}))
	_, m := newHarness(t, s)

	m, _ = mount(t, m)

	require.Len(t, m.Notices(), 1)
	assert.Equal(t, "first", m.Notices()[0].Title)
}

func TestListenersRegisteredOnlyAfterLoad(t *testing.T) {
	h, m := newHarness(t, nil)

	load := m.Mount()
	assert.Equal(t, 0, h.emitter.ListenerCount(push.KindClick))
	assert.Equal(t, 0, h.emitter.Emit(event(push.KindClick, "1", "t", "b", `{}`)))
	assert.Contains(t, m.View(), "Loading")

	m, _ = m.Update(load())
	assert.Equal(t, 1, h.emitter.ListenerCount(push.KindClick))
	assert.Equal(t, 1, h.emitter.ListenerCount(push.KindForeground))
}

func TestClickPersistsAndPrependsWithoutPrompt(t *testing.T) {
	s := testutil.NewTestStore(t)
	require.NoError(t, s.AppendNotice(context.Background(), model.Notice{ID: "1", Title: "A", Body: "b", Date: 1000}))
	h, m := newHarness(t, s)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindClick, "42", "X", "Y", `{"google.sent_time":2000}`))

	m, save := m.Update(wait())
	assert.False(t, m.Prompting())
	require.NotNil(t, save)

	m, next := m.Update(save())
	assert.NotNil(t, next, "should resume reading arrivals")

	want := model.Notice{ID: "42", Title: "X", Body: "Y", Date: 2000}
	require.Len(t, m.Notices(), 2)
	assert.Equal(t, want, m.Notices()[0])
	assert.Equal(t, []model.Notice{{ID: "1", Title: "A", Body: "b", Date: 1000}, want}, stored(t, s))
}

func TestForegroundWaitsForAcknowledgment(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindForeground, "7", "Hello", "World", `{"google.sent_time":5000}`))

	m, next := m.Update(wait())
	assert.NotNil(t, next)
	assert.True(t, m.Prompting())
	assert.Empty(t, m.Notices())
	assert.Empty(t, stored(t, h.store))

	view := m.View()
	assert.Contains(t, view, "Hello")
	assert.Contains(t, view, "OK")
	assert.Contains(t, view, "Dismiss")

	m, press := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, press)
	m, save := m.Update(press())
	require.NotNil(t, save)
	assert.False(t, m.Prompting())

	m, after := m.Update(save())
	assert.Nil(t, after, "acknowledged saves do not start another read")

	want := model.Notice{ID: "7", Title: "Hello", Body: "World", Date: 5000}
	assert.Equal(t, []model.Notice{want}, m.Notices())
	assert.Equal(t, []model.Notice{want}, stored(t, h.store))
}

func TestForegroundDismissedWithEscape(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindForeground, "7", "Hello", "World", `{}`))
	m, _ = m.Update(wait())

	m, press := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, press)
	m, cmd := m.Update(press())

	assert.Nil(t, cmd)
	assert.False(t, m.Prompting())
	assert.Empty(t, m.Notices())
	assert.Empty(t, stored(t, h.store))
}

func TestForegroundDismissButtonViaFocus(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindForeground, "7", "Hello", "World", `{}`))
	m, _ = m.Update(wait())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focus)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, m.focus)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, m.focus)

	m, press := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, press)
	m, cmd := m.Update(press())

	assert.Nil(t, cmd)
	assert.False(t, m.Prompting())
	assert.Empty(t, stored(t, h.store))
}

func TestPromptsQueueInArrivalOrder(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindForeground, "1", "one", "", `{}`))
	h.emitter.Emit(event(push.KindForeground, "2", "two", "", `{}`))

	m, wait = m.Update(wait())
	m, _ = m.Update(wait())
	require.Len(t, m.prompts, 2)
	assert.Contains(t, m.View(), "1 more notice waiting")
	assert.Equal(t, "0 notices | 2 pending", m.Summary())

	m, press := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, save := m.Update(press())
	m, _ = m.Update(save())

	require.Len(t, m.prompts, 1)
	assert.Equal(t, "2", m.prompts[0].ID)
	assert.Equal(t, "1", m.Notices()[0].ID)
}

func TestDuplicateArrivalIsIgnored(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindClick, "42", "X", "Y", `{}`))
	m, save := m.Update(wait())
	m, wait = m.Update(save())

	h.emitter.Emit(event(push.KindForeground, "42", "X", "Y", `{}`))
	m, next := m.Update(wait())

	assert.NotNil(t, next)
	assert.False(t, m.Prompting())
	assert.Len(t, m.Notices(), 1)
	assert.Len(t, stored(t, h.store), 1)
}

func TestClickSettlesPendingPrompt(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindForeground, "42", "X", "Y", `{"google.sent_time":2000}`))
	m, wait = m.Update(wait())
	require.True(t, m.Prompting())

	h.emitter.Emit(event(push.KindClick, "42", "X", "Y", `{"google.sent_time":2000}`))
	m, save := m.Update(wait())
	require.NotNil(t, save)
	assert.False(t, m.Prompting())

	m, next := m.Update(save())
	assert.NotNil(t, next, "click saves resume reading arrivals")

	want := model.Notice{ID: "42", Title: "X", Body: "Y", Date: 2000}
	assert.Equal(t, []model.Notice{want}, m.Notices())
	assert.Equal(t, []model.Notice{want}, stored(t, h.store))
}

func TestClickKeepsOtherPromptsQueued(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindForeground, "1", "A", "a", `{}`))
	m, wait = m.Update(wait())
	h.emitter.Emit(event(push.KindForeground, "2", "B", "b", `{}`))
	m, wait = m.Update(wait())

	h.emitter.Emit(event(push.KindClick, "2", "B", "b", `{}`))
	m, save := m.Update(wait())
	m, _ = m.Update(save())

	require.True(t, m.Prompting())
	assert.Contains(t, m.View(), "A")
	assert.Equal(t, "1 notices | 1 pending", m.Summary())
	assert.Len(t, stored(t, h.store), 1)
}

func TestUnregisteredBeforeEmitHasNoEffect(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	m.Unmount()
	assert.False(t, m.Mounted())

	assert.Equal(t, 0, h.emitter.Emit(event(push.KindClick, "42", "X", "Y", `{}`)))
	assert.Nil(t, wait(), "closed arrival channel yields no message")
	assert.Empty(t, m.Notices())
	assert.Empty(t, stored(t, h.store))
}

func TestSaveCompletingAfterUnmountIsNotApplied(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindClick, "42", "X", "Y", `{}`))
	m, save := m.Update(wait())

	m.Unmount()
	m, cmd := m.Update(save())

	assert.Nil(t, cmd)
	assert.Empty(t, m.Notices())
	assert.Len(t, stored(t, h.store), 1, "in-flight write still lands")
}

func TestStaleLoadIsIgnored(t *testing.T) {
	h, m := newHarness(t, nil)

	stale := m.Mount()
	m.Unmount()
	fresh := m.Mount()

	m, cmd := m.Update(stale())
	assert.Nil(t, cmd)
	assert.Equal(t, DataUninitialized, m.Data())
	assert.Equal(t, 0, h.emitter.ListenerCount(push.KindClick))

	m, _ = m.Update(fresh())
	assert.Equal(t, DataLoaded, m.Data())
}

func TestRemountReplacesListWholesale(t *testing.T) {
	h, m := newHarness(t, nil)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindClick, "42", "X", "Y", `{}`))
	m, save := m.Update(wait())
	m, _ = m.Update(save())
	require.NoError(t, h.store.AppendNotice(context.Background(), model.Notice{ID: "99", Title: "later"}))

	m.Unmount()
	m, _ = mount(t, m)

	ids := []string{}
	for _, n := range m.Notices() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"42", "99"}, ids)
	assert.Equal(t, 1, h.emitter.ListenerCount(push.KindClick))
}

func TestAppendFailureLeavesListUntouched(t *testing.T) {
	s := failingStore{NoticeStore: testutil.NewTestStore(t), appendErr: errors.New("disk gone")}
	h, m := newHarness(t, s)
	m, wait := mount(t, m)

	h.emitter.Emit(event(push.KindClick, "42", "X", "Y", `{}`))
	m, save := m.Update(wait())
	m, next := m.Update(save())

	assert.NotNil(t, next)
	assert.Empty(t, m.Notices())
	assert.Contains(t, m.View(), "Could not save notice")
	assert.False(t, m.known("42"), "failed id can arrive again")
}

func TestListFailureFallsBackToEmpty(t *testing.T) {
	s := failingStore{NoticeStore: testutil.NewTestStore(t), listErr: errors.New("unreadable")}
	h, m := newHarness(t, s)

	m, _ = mount(t, m)

	assert.Empty(t, m.Notices())
	view := m.View()
	assert.Contains(t, view, "No Notices found")
	assert.Contains(t, view, "Could not load notices")
	assert.Equal(t, 1, h.emitter.ListenerCount(push.KindClick))
}

func TestAuthTransitions(t *testing.T) {
	h, m := newHarness(t, nil)

	m, cmd := m.Update(auth.StateMsg{State: auth.Loading})
	assert.Nil(t, cmd)
	assert.Empty(t, h.screens)

	m, cmd = m.Update(auth.StateMsg{State: auth.State{}})
	require.NotNil(t, cmd)
	assert.Equal(t, navigatedMsg{screen: LoginScreen}, cmd())
	assert.Equal(t, []string{LoginScreen}, h.screens)

	m, cmd = m.Update(auth.StateMsg{State: auth.State{}})
	assert.Nil(t, cmd, "no repeat without a transition")

	m, cmd = m.Update(auth.StateMsg{State: auth.State{LoggedIn: true}})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Equal(t, 1, h.permission.calls)

	m, cmd = m.Update(auth.StateMsg{State: auth.State{LoggedIn: true}})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, h.permission.calls)

	m, _ = m.Update(auth.StateMsg{State: auth.State{}})
	m, cmd = m.Update(auth.StateMsg{State: auth.State{LoggedIn: true}})
	require.NotNil(t, cmd)
	_, _ = m.Update(cmd())
	assert.Equal(t, 2, h.permission.calls)
	assert.Equal(t, []string{LoginScreen, LoginScreen}, h.screens)
}
