package push

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nhle/noticeboard/internal/model"
)

// EventKind names a subscribable provider event.
type EventKind string

const (
	// KindForeground fires when a notification arrives while the app is visible.
	KindForeground EventKind = "foregroundWillDisplay"

	// KindClick fires when the user taps a delivered notification.
	KindClick EventKind = "click"
)

// Valid reports whether k is one of the known event kinds.
func (k EventKind) Valid() bool {
	return k == KindForeground || k == KindClick
}

// sentTimeKey is the provider payload field holding the send time in ms.
const sentTimeKey = "google.sent_time"

// ErrMalformedPayload is returned when an event cannot be turned into a Notice.
var ErrMalformedPayload = errors.New("malformed notification payload")

// Notification is the provider's notification object as delivered with
// every event.
type Notification struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	NotificationID string `json:"notificationId"`

	// RawPayload is the provider payload encoded as a JSON string.
	RawPayload string `json:"rawPayload"`
}

// Event is a single provider event frame.
type Event struct {
	Kind         EventKind     `json:"event"`
	Notification *Notification `json:"notification"`
}

// ParseNotice normalizes an event into a Notice. When the raw payload has
// no send time, receivedAt is used instead.
func ParseNotice(ev Event, receivedAt time.Time) (model.Notice, error) {
	n := ev.Notification
	if n == nil {
		return model.Notice{}, fmt.Errorf("%w: missing notification", ErrMalformedPayload)
	}
	if n.NotificationID == "" {
		return model.Notice{}, fmt.Errorf("%w: missing notificationId", ErrMalformedPayload)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(n.RawPayload), &payload); err != nil {
		return model.Notice{}, fmt.Errorf("%w: decoding rawPayload of %s: %v", ErrMalformedPayload, n.NotificationID, err)
	}

	date := receivedAt.UnixMilli()
	if raw, ok := payload[sentTimeKey]; ok {
		ms, err := parseSentTime(raw)
		if err != nil {
			return model.Notice{}, fmt.Errorf("%w: %s of %s: %v", ErrMalformedPayload, sentTimeKey, n.NotificationID, err)
		}
		date = ms
	}

	return model.Notice{
		ID:    n.NotificationID,
		Title: n.Title,
		Body:  n.Body,
		Date:  date,
	}, nil
}

// parseSentTime accepts the send time as a JSON number or a numeric string.
func parseSentTime(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = t
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a timestamp: %q", s)
	}
	return int64(f), nil
}
