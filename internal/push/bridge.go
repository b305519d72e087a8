package push

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/noticeboard/internal/model"
)

// arrivalBuffer bounds how many normalized notices may wait for the UI.
const arrivalBuffer = 16

// Arrival is a normalized notice together with the event kind it came from.
type Arrival struct {
	Kind   EventKind
	Notice model.Notice
}

// Bridge subscribes to a Provider's foreground and click events, turns each
// into a Notice and hands it to a single consumer over a channel.
type Bridge struct {
	provider Provider
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	ch      chan Arrival
	removes []func()
}

// NewBridge creates an unregistered Bridge over p.
func NewBridge(p Provider, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		provider: p,
		logger:   logger,
		now:      time.Now,
	}
}

// Register subscribes both listeners and returns the channel arrivals are
// delivered on. Any previous registration is dropped first.
func (b *Bridge) Register() <-chan Arrival {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unregisterLocked()

	ch := make(chan Arrival, arrivalBuffer)
	b.ch = ch
	for _, kind := range []EventKind{KindForeground, KindClick} {
		kind := kind
		remove := b.provider.AddEventListener(kind, func(ev Event) {
			b.handle(ch, kind, ev)
		})
		b.removes = append(b.removes, remove)
	}

	b.logger.Debug("push listeners registered")
	return ch
}

// Unregister removes both listeners and closes the arrival channel.
// Events emitted afterwards have no effect.
func (b *Bridge) Unregister() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch != nil {
		b.logger.Debug("push listeners unregistered")
	}
	b.unregisterLocked()
}

// Registered reports whether listeners are currently subscribed.
func (b *Bridge) Registered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch != nil
}

func (b *Bridge) unregisterLocked() {
	for _, remove := range b.removes {
		remove()
	}
	b.removes = nil

	if b.ch != nil {
		close(b.ch)
		b.ch = nil
	}
}

// handle normalizes one event. Bad payloads are logged and skipped.
func (b *Bridge) handle(ch chan Arrival, kind EventKind, ev Event) {
	notice, err := ParseNotice(ev, b.now())
	if err != nil {
		b.logger.Warn("dropping push event",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// A listener may still be running after its registration was replaced.
	if b.ch != ch {
		return
	}

	select {
	case ch <- Arrival{Kind: kind, Notice: notice}:
	default:
		b.logger.Warn("arrival buffer full, dropping notice",
			zap.String("kind", string(kind)),
			zap.String("id", notice.ID),
		)
	}
}
