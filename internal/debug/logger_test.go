package debug_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmprompt/internal/debug"
)

func TestLoggerWritesToFileWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := debug.NewLogger(true, path)
	require.NoError(t, err)
	require.True(t, logger.IsEnabled())

	logger.Printf("catalog loaded: %d systems", 3)
	logger.Debugw("prompt generated", "system", "Dungeons & Dragons")
	logger.Warnw("unresolved selection", "title", "Fantasy")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "DEBUG MODE ENABLED")
	assert.Contains(t, out, "catalog loaded: 3 systems")
	assert.Contains(t, out, "Dungeons & Dragons")
	assert.Contains(t, out, "Fantasy")
}

func TestDisabledLoggerIsSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := debug.NewLogger(false, path)
	require.NoError(t, err)

	logger.Printf("should not appear")
	logger.Sync()

	assert.False(t, logger.IsEnabled())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *debug.Logger

	assert.NotPanics(t, func() {
		logger.Printf("nothing %d", 1)
		logger.Println("nothing")
		logger.Debugw("nothing")
		logger.Sync()
	})
}
