package model

import "time"

// DefaultTimeFormat renders a notice time as a local wall-clock time.
const DefaultTimeFormat = "3:04:05 PM"

// Notice is a persisted record of one push notification shown to or
// tapped by the user.
type Notice struct {
	// ID is the provider's notification identifier. Not unique in storage.
	ID string `db:"id" json:"id"`

	// Title is the notification headline.
	Title string `db:"title" json:"title"`

	// Body is the notification text.
	Body string `db:"body" json:"body"`

	// Date is the provider send time in milliseconds since the Unix epoch.
	Date int64 `db:"date" json:"date"`
}

// SentAt returns Date as a time.Time in the local zone.
func (n Notice) SentAt() time.Time {
	return time.UnixMilli(n.Date).Local()
}

// FormatTime renders the send time with the given layout, falling back to
// DefaultTimeFormat when layout is empty.
func (n Notice) FormatTime(layout string) string {
	if layout == "" {
		layout = DefaultTimeFormat
	}
	return n.SentAt().Format(layout)
}
