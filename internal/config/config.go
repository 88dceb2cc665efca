// Package config provides configuration resolution for powertrim.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"powertrim/internal/engine"
)

// Config holds the resolved runtime settings. Values come from viper, which
// layers defaults, the optional config file, environment variables, and
// flags bound by the command layer.
type Config struct {
	StateDir          string
	LockTimeout       time.Duration
	DefaultBrightness int
	TrackedServices   []string
	BluetoothServices []string
}

// SetDefaults registers every known setting with viper. Called before the
// config file is read so unset keys resolve to these values.
func SetDefaults() {
	viper.SetDefault("state.dir", "")
	viper.SetDefault("lock.timeout_seconds", 3)
	viper.SetDefault("backup.default_brightness", engine.DefaultBrightness)
	viper.SetDefault("services.tracked", engine.DefaultTrackedServices)
	viper.SetDefault("services.bluetooth", engine.DefaultBluetoothServices)
}

// Load resolves the current configuration from viper.
func Load() (*Config, error) {
	cfg := &Config{
		StateDir:          viper.GetString("state.dir"),
		LockTimeout:       time.Duration(viper.GetInt("lock.timeout_seconds")) * time.Second,
		DefaultBrightness: viper.GetInt("backup.default_brightness"),
		TrackedServices:   viper.GetStringSlice("services.tracked"),
		BluetoothServices: viper.GetStringSlice("services.bluetooth"),
	}

	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}
	if cfg.DefaultBrightness < 0 || cfg.DefaultBrightness > 100 {
		return nil, fmt.Errorf("backup.default_brightness must be 0-100, got %d", cfg.DefaultBrightness)
	}

	return cfg, nil
}

// defaultStateDir returns $HOME/.powertrim, falling back to a relative
// directory when the home directory cannot be determined.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".powertrim"
	}
	return filepath.Join(home, ".powertrim")
}

// Dir returns the powertrim config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/powertrim if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "powertrim"), nil
}

// SnapshotPath is the settings backup file.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.StateDir, "backup.json")
}

// ModePath is the current-mode state file.
func (c *Config) ModePath() string {
	return filepath.Join(c.StateDir, "mode")
}

// LockPath is the exclusive operation lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.StateDir, "powertrim.lock")
}

// JournalPath is the operation journal database.
func (c *Config) JournalPath() string {
	return filepath.Join(c.StateDir, "journal.db")
}

// MarkerPath is the scheduled-revert marker file.
func (c *Config) MarkerPath() string {
	return filepath.Join(c.StateDir, "revert.json")
}

// WaiterLogPath is where the detached revert waiter writes its output.
func (c *Config) WaiterLogPath() string {
	return filepath.Join(c.StateDir, "revert.log")
}
