package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: false\nlogLevel: DEBUG\ntransport: sse\nlistenAddr: \":9090\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, TransportSSE, cfg.TransportKind)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: true\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()
	assert.True(t, w.Get().Strict)

	changed := make(chan Configuration, 1)
	w.OnChange(func(cfg Configuration) { changed <- cfg })

	require.NoError(t, os.WriteFile(path, []byte("strict: false\n"), 0o644))

	select {
	case cfg := <-changed:
		assert.False(t, cfg.Strict)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
	assert.False(t, w.Get().Strict)
}

func TestWatcher_NoPathIsInert(t *testing.T) {
	w, err := NewWatcher("")
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, Default(), w.Get())
}
