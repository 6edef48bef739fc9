package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "demogine", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Renderer.VSync)
	assert.Equal(t, 4, cfg.Renderer.MSAASamples)
	assert.False(t, cfg.Renderer.UseMultiDrawIndirectCount)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
window:
  width: 1920
renderer:
  vsync: false
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden fields take the file's values.
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Omitted fields keep the defaults.
	assert.Equal(t, "demogine", cfg.Window.Title)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, 4, cfg.Renderer.MSAASamples)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 800
	cfg.Renderer.MSAASamples = 1
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, loaded.Window.Width)
	assert.Equal(t, 1, loaded.Renderer.MSAASamples)
	assert.Equal(t, cfg.Window.Title, loaded.Window.Title)
}
