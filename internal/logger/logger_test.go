package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.log")

	log, err := New(LoggingConfig{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info("phase completed")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "phase completed")
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.log")

	log, err := New(LoggingConfig{Level: "loud", Format: "console", OutputPath: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Warn("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
