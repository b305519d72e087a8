package push

import (
	"context"
	"sync"
)

// Listener receives provider events.
type Listener func(Event)

// PermissionRequester registers this device for push delivery.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) error
}

// Provider is a push-notification source with per-kind subscriptions.
type Provider interface {
	PermissionRequester

	// AddEventListener subscribes l to events of the given kind and returns
	// a function that removes the subscription.
	AddEventListener(kind EventKind, l Listener) (remove func())
}

// Service is a Provider with a connection lifetime.
type Service interface {
	Provider
	Start(ctx context.Context) error
	Close() error
}

// Emitter is an in-process Provider. Network providers embed it and call
// Emit for every decoded frame.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[EventKind]map[uint64]Listener
	nextID    uint64
}

var _ Provider = (*Emitter)(nil)

// NewEmitter creates an Emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make(map[EventKind]map[uint64]Listener),
	}
}

// AddEventListener registers l for kind.
func (e *Emitter) AddEventListener(kind EventKind, l Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	if e.listeners[kind] == nil {
		e.listeners[kind] = make(map[uint64]Listener)
	}
	e.listeners[kind][id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.listeners[kind], id)
		})
	}
}

// ListenerCount returns the number of listeners subscribed to kind.
func (e *Emitter) ListenerCount(kind EventKind) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[kind])
}

// Emit delivers ev synchronously to every listener of ev.Kind and returns
// how many were called. Listeners run without the emitter lock held.
func (e *Emitter) Emit(ev Event) int {
	e.mu.RLock()
	ls := make([]Listener, 0, len(e.listeners[ev.Kind]))
	for _, l := range e.listeners[ev.Kind] {
		ls = append(ls, l)
	}
	e.mu.RUnlock()

	for _, l := range ls {
		l(ev)
	}
	return len(ls)
}

// RequestPermission is a no-op for the in-process emitter.
func (e *Emitter) RequestPermission(ctx context.Context) error {
	return ctx.Err()
}
