// Package auth reports whether a viewer is logged in, backed by a session
// token kept in the credential store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/noticeboard/internal/credential"
)

// sessionKey is the credential key holding the session token.
const sessionKey = "session-token"

// State is the login state observed by screens.
type State struct {
	LoggedIn bool
	Loading  bool
}

// Loading is the state before the first check completes.
var Loading = State{Loading: true}

// StateMsg carries a new login state into the Bubble Tea runtime.
type StateMsg struct {
	State State
}

// Gate answers login questions from a credential store.
type Gate struct {
	creds credential.Store
}

// NewGate creates a Gate over creds.
func NewGate(creds credential.Store) *Gate {
	return &Gate{creds: creds}
}

// Check reports whether a session token is present.
func (g *Gate) Check(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	token, err := g.creds.Get(sessionKey)
	if errors.Is(err, credential.ErrNotFound) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("checking session: %w", err)
	}
	return State{LoggedIn: token != ""}, nil
}

// Token returns the stored session token.
func (g *Gate) Token() (string, error) {
	return g.creds.Get(sessionKey)
}

// Login stores token as the session.
func (g *Gate) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	return g.creds.Set(sessionKey, token)
}

// Logout removes the session.
func (g *Gate) Logout() error {
	return g.creds.Delete(sessionKey)
}

// CheckCmd returns a command that resolves the current state. Credential
// errors are reported as logged out.
func (g *Gate) CheckCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := g.Check(context.Background())
		if err != nil {
			return StateMsg{State: State{}}
		}
		return StateMsg{State: st}
	}
}
