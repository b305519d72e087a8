package push

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/noticeboard/internal/model"
)

func clickEvent(id, raw string) Event {
	return Event{
		Kind: KindClick,
		Notification: &Notification{
			Title:          "X",
			Body:           "Y",
			NotificationID: id,
			RawPayload:     raw,
		},
	}
}

func TestParseNotice(t *testing.T) {
	received := time.UnixMilli(9_000)

	tests := []struct {
		name    string
		event   Event
		want    model.Notice
		wantErr bool
	}{
		{
			name:  "numeric sent time",
			event: clickEvent("42", `{"google.sent_time":2000}`),
			want:  model.Notice{ID: "42", Title: "X", Body: "Y", Date: 2000},
		},
		{
			name:  "string sent time",
			event: clickEvent("42", `{"google.sent_time":"1700000000123"}`),
			want:  model.Notice{ID: "42", Title: "X", Body: "Y", Date: 1700000000123},
		},
		{
			name:  "exponent sent time",
			event: clickEvent("42", `{"google.sent_time":1.7e12}`),
			want:  model.Notice{ID: "42", Title: "X", Body: "Y", Date: 1700000000000},
		},
		{
			name:  "missing sent time uses receive time",
			event: clickEvent("42", `{"other":true}`),
			want:  model.Notice{ID: "42", Title: "X", Body: "Y", Date: 9000},
		},
		{
			name:    "malformed raw payload",
			event:   clickEvent("42", `{not json`),
			wantErr: true,
		},
		{
			name:    "empty raw payload",
			event:   clickEvent("42", ""),
			wantErr: true,
		},
		{
			name:    "non numeric sent time",
			event:   clickEvent("42", `{"google.sent_time":"soon"}`),
			wantErr: true,
		},
		{
			name:    "missing id",
			event:   clickEvent("", `{"google.sent_time":2000}`),
			wantErr: true,
		},
		{
			name:    "missing notification",
			event:   Event{Kind: KindClick},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNotice(tt.event, received)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedPayload))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventKindValid(t *testing.T) {
	assert.True(t, KindForeground.Valid())
	assert.True(t, KindClick.Valid())
	assert.False(t, EventKind("dismiss").Valid())
}
