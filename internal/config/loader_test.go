package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamStudy/scrollwin/internal/components/performance"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(t.TempDir())
	require.NoError(t, err)
	return l
}

func TestDefaults(t *testing.T) {
	l := newTestLoader(t)
	require.NoError(t, l.Load())

	cfg := l.Get()
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "default", cfg.Theme)
	assert.Equal(t, 2, cfg.List.RowHeight)
	assert.Equal(t, 3, cfg.List.Overscan)
	assert.Equal(t, 0, cfg.List.ViewportHeight)
	assert.True(t, cfg.List.Scrollbar)
	assert.Equal(t, 150*time.Millisecond, cfg.ScrollEndDelay())
	assert.Equal(t, 100000, cfg.Source.Generate)
	assert.True(t, cfg.Settings.Mouse)
	assert.True(t, cfg.Settings.AltScreen)
}

func TestLoadStringOverridesDefaults(t *testing.T) {
	l := newTestLoader(t)

	cfg, err := l.LoadString(`
theme: light
list:
  rowHeight: 1
  overscan: 0
`)
	require.NoError(t, err)

	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 1, cfg.List.RowHeight)
	assert.Equal(t, 0, cfg.List.Overscan)
	assert.True(t, cfg.List.Scrollbar, "unset keys keep their defaults")
	assert.Equal(t, 100000, cfg.Source.Generate)

	assert.Equal(t, 2, l.Get().List.RowHeight, "LoadString must not change the current config")
}

func TestLoadStringEmpty(t *testing.T) {
	l := newTestLoader(t)

	cfg, err := l.LoadString("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.List.RowHeight)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
		errText string
	}{
		{"zero row height", "list:\n  rowHeight: 0\n", true, "rowHeight"},
		{"negative overscan", "list:\n  overscan: -1\n", true, "overscan"},
		{"negative viewport", "list:\n  viewportHeight: -2\n", true, "viewportHeight"},
		{"bad delay", "list:\n  scrollEndDelay: soon\n", false, "scrollEndDelay"},
		{"negative generate", "source:\n  generate: -5\n", false, "generate"},
		{"unknown theme", "theme: neon\n", false, "unknown theme"},
		{"unknown field", "list:\n  rowHieght: 3\n", false, "rowHieght"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoader(t)
			_, err := l.LoadString(tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
			assert.Equal(t, tt.invalid, errors.Is(err, performance.ErrInvalidConfiguration))
		})
	}
}

func TestLoadUserFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("list:\n  rowHeight: 4\n"), 0644))

	l, err := NewLoader(dir)
	require.NoError(t, err)
	require.NoError(t, l.Load())

	assert.Equal(t, 4, l.Get().List.RowHeight)
	assert.Equal(t, 3, l.Get().List.Overscan)
}

func TestLoadUserFileInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("list:\n  rowHeight: -1\n"), 0644))

	l, err := NewLoader(dir)
	require.NoError(t, err)

	err = l.Load()
	assert.ErrorIs(t, err, performance.ErrInvalidConfiguration)
	assert.Equal(t, 2, l.Get().List.RowHeight, "defaults stay in effect after a failed load")
}

func TestLoadFile(t *testing.T) {
	l := newTestLoader(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  generate: 10\n"), 0644))

	cfg, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Source.Generate)
	assert.Same(t, cfg, l.Get())

	_, err = l.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLoader(dir)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: high-contrast\n"), 0644))
	_, err = l.LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, l.Save())

	reloaded, err := NewLoader(dir)
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "high-contrast", reloaded.Get().Theme)
	assert.Equal(t, l.Get(), reloaded.Get())
}

func TestWindowConfig(t *testing.T) {
	cfg := &Config{List: ListConfig{RowHeight: 2, Overscan: 1}}

	assert.Equal(t, performance.Config{RowHeight: 2, ViewportHeight: 30, Overscan: 1}, cfg.WindowConfig(30))

	cfg.List.ViewportHeight = 10
	assert.Equal(t, 10, cfg.WindowConfig(30).ViewportHeight)
	assert.Equal(t, 5, cfg.WindowConfig(5).ViewportHeight)
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "scrollwin"), DefaultConfigDir())
}
