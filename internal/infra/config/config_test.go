package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 10000, cfg.Server.TimeoutMs)
	assert.Equal(t, 15000, cfg.Playback.LoadTimeoutMs)
	assert.Equal(t, 1.0, cfg.Playback.InitialVolume)
	assert.Equal(t, "mpv", cfg.Engine.Type)
	assert.Equal(t, "wavedial.db", cfg.Store.Path)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: http://radio.example.com
  timeout_ms: 5000
playback:
  load_timeout_ms: 20000
  initial_volume: 0.5
engine:
  type: "null"
  settings:
    binary: /usr/bin/mpv
store:
  path: /tmp/radio.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://radio.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 5000, cfg.Server.TimeoutMs)
	assert.Equal(t, 20000, cfg.Playback.LoadTimeoutMs)
	assert.Equal(t, 0.5, cfg.Playback.InitialVolume)
	assert.Equal(t, "null", cfg.Engine.Type)
	assert.Equal(t, "/usr/bin/mpv", cfg.Engine.Settings["binary"])
	assert.Equal(t, "/tmp/radio.db", cfg.Store.Path)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: http://radio.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://radio.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 15000, cfg.Playback.LoadTimeoutMs)
	assert.Equal(t, "mpv", cfg.Engine.Type)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad engine type",
			content: `
engine:
  type: gstreamer
`,
		},
		{
			name: "timeout out of range",
			content: `
server:
  timeout_ms: 500
`,
		},
		{
			name: "volume above one",
			content: `
playback:
  initial_volume: 1.5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WAVEDIAL_SERVER_URL", "http://env.example.com")
	t.Setenv("WAVEDIAL_ENGINE", "null")
	t.Setenv("WAVEDIAL_STORE_PATH", "/tmp/env.db")

	path := writeConfig(t, `
server:
  base_url: http://file.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "null", cfg.Engine.Type)
	assert.Equal(t, "/tmp/env.db", cfg.Store.Path)
}
