package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 0.2, resolved.Options.Deviation)
	assert.True(t, resolved.Options.ShowFirstRapid)
	assert.False(t, resolved.Options.ShowNodes)
	assert.Equal(t, slog.LevelInfo, resolved.LogLevel)
	assert.Equal(t, "text", resolved.LogFormat)
	assert.Equal(t, 500*time.Millisecond, resolved.Debounce)
	assert.Empty(t, resolved.Listen)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOptionalFullFile(t *testing.T) {
	path := writeConfig(t, `
render:
  deviation: 0.05
  show_first_rapid: false
  show_nodes: true
log:
  level: debug
  format: JSON
watch:
  debounce: 2s
  listen: ":9000"
`)

	cfg, err := LoadOptional(path)
	require.NoError(t, err)

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 0.05, resolved.Options.Deviation)
	assert.False(t, resolved.Options.ShowFirstRapid)
	assert.True(t, resolved.Options.ShowNodes)
	assert.Equal(t, slog.LevelDebug, resolved.LogLevel)
	assert.Equal(t, "json", resolved.LogFormat)
	assert.Equal(t, 2*time.Second, resolved.Debounce)
	assert.Equal(t, ":9000", resolved.Listen)
}

func TestLoadOptionalInvalidYAML(t *testing.T) {
	_, err := LoadOptional(writeConfig(t, "render: [1, 2"))
	assert.Error(t, err)
}

func TestResolveRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"negative deviation": "render:\n  deviation: -1\n",
		"zero deviation":     "render:\n  deviation: 0\n",
		"unknown level":      "log:\n  level: loud\n",
		"unknown format":     "log:\n  format: xml\n",
		"negative debounce":  "watch:\n  debounce: -1s\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadOptional(writeConfig(t, content))
			require.NoError(t, err)

			_, err = cfg.Resolve()
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for input, expected := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		level, err := ParseLevel(input)
		require.NoError(t, err)
		assert.Equal(t, expected, level, input)
	}
}
