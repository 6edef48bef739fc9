package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")

	require.NoError(t, InitWithFileConfig("debug", DefaultFileConfig(path), false))
	Info("file sink check")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "file sink check"))
}

func TestLevelFiltersFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")

	require.NoError(t, InitWithFileConfig("error", DefaultFileConfig(path), false))
	Debug("dropped")
	Info("also dropped")
	Error("kept")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "dropped"))
	assert.True(t, strings.Contains(string(data), "kept"))
}

func TestLoggerUsableBeforeInit(t *testing.T) {
	// The package-level no-op logger must accept calls without panicking.
	assert.NotPanics(t, func() {
		Debug("noop")
		Info("noop")
		Warn("noop")
		Error("noop")
		Sync()
	})
}
