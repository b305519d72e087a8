package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
	maxFrameSize     = 512 * 1024
)

// TokenSource returns the current session token sent with registration.
type TokenSource func() (string, error)

// registerFrame asks the relay to deliver notifications to this device.
type registerFrame struct {
	Type     string `json:"type"`
	DeviceID string `json:"device_id"`
	Token    string `json:"token"`
}

// WSProvider receives event frames from a push relay over a WebSocket.
type WSProvider struct {
	*Emitter

	url      string
	deviceID string
	token    TokenSource
	dialer   websocket.Dialer
	logger   *zap.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	closing bool
	done    chan struct{}
}

var _ Service = (*WSProvider)(nil)

// NewWSProvider creates a provider for the relay at url.
func NewWSProvider(url, deviceID string, token TokenSource, logger *zap.Logger) *WSProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSProvider{
		Emitter:  NewEmitter(),
		url:      url,
		deviceID: deviceID,
		token:    token,
		dialer:   websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		logger:   logger,
	}
}

// Start dials the relay and begins reading event frames.
func (p *WSProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.conn != nil {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	conn, _, err := p.dialer.DialContext(ctx, p.url, nil)
	if err != nil {
		return fmt.Errorf("connecting to push relay %s: %w", p.url, err)
	}
	conn.SetReadLimit(maxFrameSize)

	done := make(chan struct{})

	p.mu.Lock()
	p.conn = conn
	p.closing = false
	p.done = done
	p.mu.Unlock()

	p.logger.Info("connected to push relay", zap.String("url", p.url))

	go p.readLoop(conn, done)
	return nil
}

// RequestPermission registers this device with the relay.
func (p *WSProvider) RequestPermission(ctx context.Context) error {
	token := ""
	if p.token != nil {
		t, err := p.token()
		if err != nil {
			return fmt.Errorf("loading session token: %w", err)
		}
		token = t
	}

	data, err := json.Marshal(registerFrame{
		Type:     "register",
		DeviceID: p.deviceID,
		Token:    token,
	})
	if err != nil {
		return fmt.Errorf("encoding register frame: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return errors.New("push relay not connected")
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = p.conn.SetWriteDeadline(deadline)
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("sending register frame: %w", err)
	}

	p.logger.Info("registered for push delivery", zap.String("device_id", p.deviceID))
	return nil
}

// Close sends a close frame and shuts down the read loop.
func (p *WSProvider) Close() error {
	p.mu.Lock()
	conn := p.conn
	done := p.done
	p.conn = nil
	p.closing = true
	p.mu.Unlock()

	if conn == nil {
		return nil
	}

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := conn.Close()
	<-done
	return err
}

func (p *WSProvider) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			p.mu.Lock()
			closing := p.closing
			if p.conn == conn {
				p.conn = nil
			}
			p.mu.Unlock()

			if !closing {
				p.logger.Warn("push relay connection lost", zap.Error(err))
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			p.logger.Warn("dropping undecodable frame", zap.Error(err))
			continue
		}
		if !ev.Kind.Valid() {
			p.logger.Debug("ignoring frame", zap.String("event", string(ev.Kind)))
			continue
		}

		p.Emit(ev)
	}
}
