package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderSpool, cfg.Push.Provider)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultTimeFormat, cfg.Display.TimeFormat)
	assert.Equal(t, "notices.db", filepath.Base(cfg.Store.Path))
	assert.NotEmpty(t, cfg.Push.SpoolDir)
	assert.Empty(t, cfg.Push.DeviceID)
}

func TestLoadConfigReadsValues(t *testing.T) {
	path := writeConfig(t, `
store:
  path: /tmp/nb/notices.db
push:
  provider: websocket
  url: ws://relay.local/ws
  device_id: dev-1
log:
  level: debug
display:
  time_format: "15:04"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/nb/notices.db", cfg.Store.Path)
	assert.Equal(t, ProviderWebSocket, cfg.Push.Provider)
	assert.Equal(t, "ws://relay.local/ws", cfg.Push.URL)
	assert.Equal(t, "dev-1", cfg.Push.DeviceID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "15:04", cfg.Display.TimeFormat)
	assert.NotEmpty(t, cfg.Log.File, "unset keys keep their defaults")
}

func TestLoadConfigRejectsBadProvider(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown provider", body: "push:\n  provider: carrier-pigeon\n"},
		{name: "websocket without url", body: "push:\n  provider: websocket\n"},
		{name: "invalid yaml", body: "push: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Push.DeviceID = "3f1c2d"
	cfg.Display.TimeFormat = "15:04:05"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNoticeFormatTime(t *testing.T) {
	sent := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	n := Notice{ID: "a", Date: sent.UnixMilli()}

	assert.True(t, sent.Equal(n.SentAt()))
	assert.Equal(t, "2:05:07 PM", n.FormatTime(""))
	assert.Equal(t, "14:05", n.FormatTime("15:04"))
}
