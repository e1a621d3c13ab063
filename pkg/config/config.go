// Package config holds run configuration for pagepilot sessions,
// loadable from a YAML file and overridable from the command line.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagepilot/pkg/driver"
	"github.com/entrhq/pagepilot/pkg/runner"
)

// Config represents the configuration for a pagepilot run
type Config struct {
	// Browser session options
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Timing controls
	Timing TimingConfig `yaml:"timing" json:"timing"`

	// Credentials used by login/signup/authenticate instructions when
	// the script omits them
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
}

// ArtifactConfig controls where script-named output files may go
type ArtifactConfig struct {
	// Dir is the directory screenshots and cookie files are confined to
	Dir string `yaml:"dir" json:"dir"`
}

// BrowserConfig defines how the browser session is launched
type BrowserConfig struct {
	Headless       bool `yaml:"headless" json:"headless"`
	ViewportWidth  int  `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height" json:"viewport_height"`

	// SlowMoMs inserts a delay between driver operations, for watching
	// a headful run
	SlowMoMs int `yaml:"slow_mo_ms" json:"slow_mo_ms"`
}

// TimingConfig bounds instruction execution
type TimingConfig struct {
	// OperationTimeout bounds each page operation
	OperationTimeout time.Duration `yaml:"operation_timeout" json:"operation_timeout"`

	// ProbeTimeout bounds each candidate selector probe
	ProbeTimeout time.Duration `yaml:"probe_timeout" json:"probe_timeout"`

	// SettleInterval is the pause after actions that may open a page
	SettleInterval time.Duration `yaml:"settle_interval" json:"settle_interval"`
}

// CredentialsConfig provides default credentials for auth instructions
type CredentialsConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	FullName string `yaml:"full_name" json:"full_name"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			ViewportWidth:  driver.DefaultViewportWidth,
			ViewportHeight: driver.DefaultViewportHeight,
		},
		Timing: TimingConfig{
			OperationTimeout: driver.DefaultTimeout,
			ProbeTimeout:     driver.DefaultProbeTimeout,
			SettleInterval:   runner.DefaultSettleInterval,
		},
		Artifacts: ArtifactConfig{Dir: "."},
	}
}

// LoadFile reads a YAML config file over the defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("viewport dimensions must be positive")
	}

	if c.Browser.SlowMoMs < 0 {
		return fmt.Errorf("slow_mo_ms cannot be negative")
	}

	if c.Timing.OperationTimeout < 0 {
		return fmt.Errorf("operation_timeout cannot be negative")
	}

	if c.Timing.ProbeTimeout < 0 {
		return fmt.Errorf("probe_timeout cannot be negative")
	}

	if c.Timing.SettleInterval < 0 {
		return fmt.Errorf("settle_interval cannot be negative")
	}

	if c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts dir cannot be empty")
	}

	return nil
}

// DriverOptions maps the browser section onto driver launch options
func (c *Config) DriverOptions() driver.Options {
	return driver.Options{
		Headless:       c.Browser.Headless,
		ViewportWidth:  c.Browser.ViewportWidth,
		ViewportHeight: c.Browser.ViewportHeight,
		DefaultTimeout: c.Timing.OperationTimeout,
		SlowMo:         time.Duration(c.Browser.SlowMoMs) * time.Millisecond,
	}
}

// RunnerOptions maps the timing section onto runner options
func (c *Config) RunnerOptions() runner.Options {
	return runner.Options{
		SettleInterval: c.Timing.SettleInterval,
		Timeout:        c.Timing.OperationTimeout,
	}
}
