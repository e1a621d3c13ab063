package logging

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points the package at a temporary log directory and
// returns a cleanup function that restores the original state.
func setupTestDir(t *testing.T) func() {
	t.Helper()

	tempDir := t.TempDir()

	origLogDir := logDir
	origInitErr := initErr

	// Consume the init Once so initLogDirectory does not override the
	// temp directory on first use.
	initOnce.Do(func() {})
	logDir = tempDir
	initErr = nil

	return func() {
		logDir = origLogDir
		initErr = origInitErr
	}
}

func TestNewLogger(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test-component")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "test-component", logger.component)
	assert.NotEmpty(t, logger.runID)
	assert.NotEmpty(t, logger.logPath)
}

func TestLoggerWritesLevels(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("runner")
	require.NoError(t, err)

	logger.Debugf("probing candidate %d", 3)
	logger.Infof("instruction %q succeeded", "click search")
	logger.Warnf("found but not visible: %s", "#search")
	logger.Errorf("navigation failed: %v", os.ErrDeadlineExceeded)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[runner] [DEBUG] probing candidate 3")
	assert.Contains(t, content, "[INFO]")
	assert.Contains(t, content, "found but not visible: #search")
	assert.Contains(t, content, "[ERROR]")
}

func TestRunIDIsStableAcrossComponents(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	a, err := NewLogger("parser")
	require.NoError(t, err)
	defer a.Close()

	b, err := NewLogger("resolver")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.RunID(), b.RunID())
	assert.Equal(t, a.LogPath(), b.LogPath())
	assert.Equal(t, GetRunID(), a.RunID())
}

func TestCloseIsIdempotent(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("driver")
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
}

func TestFallbackLoggerOnBadDirectory(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	initErr = os.ErrPermission

	logger, err := NewLogger("auth")
	require.Error(t, err)
	require.NotNil(t, logger)
	assert.Empty(t, logger.LogPath())

	// Fallback logger must still accept writes without panicking.
	logger.Infof("still %s", strings.ToLower("Alive"))
}
