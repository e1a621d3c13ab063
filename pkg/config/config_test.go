package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagepilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, 720, cfg.Browser.ViewportHeight)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
browser:
  headless: false
  viewport_width: 1920
  viewport_height: 1080
timing:
  operation_timeout: 10s
  settle_interval: 250ms
credentials:
  username: user@example.com
  password: hunter2
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 10*time.Second, cfg.Timing.OperationTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Timing.SettleInterval)
	assert.Equal(t, "user@example.com", cfg.Credentials.Username)

	// Untouched sections keep defaults.
	assert.Equal(t, DefaultConfig().Timing.ProbeTimeout, cfg.Timing.ProbeTimeout)
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
browser:
  viewport_width: -5
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewport")
}

func TestLoadFileMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadFileMalformedYAML(t *testing.T) {
	path := writeConfig(t, "browser: [not a map")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestOptionMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Browser.SlowMoMs = 50
	cfg.Timing.SettleInterval = time.Second

	driverOpts := cfg.DriverOptions()
	assert.Equal(t, 50*time.Millisecond, driverOpts.SlowMo)
	assert.True(t, driverOpts.Headless)

	runnerOpts := cfg.RunnerOptions()
	assert.Equal(t, time.Second, runnerOpts.SettleInterval)
}
