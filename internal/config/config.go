// Package config loads the YAML client configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level client configuration. The professional's
// timezone is NOT configured here: it comes from the backend, because the
// calendar must look the same from any terminal.
type Config struct {
	// APIURL is the booking backend base URL.
	APIURL string `yaml:"api_url"`

	// APIToken is the bearer token for the backend; empty for the demo
	// server.
	APIToken string `yaml:"api_token"`

	// WeekStart controls the first day of week in all views:
	// "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start"`

	// TimeIncrement is the minutes represented by one grid row: 15, 30
	// or 60.
	TimeIncrement int `yaml:"time_increment"`

	// AutoRefresh reloads the calendar periodically.
	AutoRefresh bool `yaml:"auto_refresh"`

	// RefreshRate is the auto-refresh interval.
	RefreshRate time.Duration `yaml:"refresh_rate"`

	// DefaultBlockNote pre-fills the note field of the block editor.
	DefaultBlockNote string `yaml:"default_block_note"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIURL:           "http://127.0.0.1:8590",
		WeekStart:        "monday",
		TimeIncrement:    30,
		AutoRefresh:      true,
		RefreshRate:      60 * time.Second,
		DefaultBlockNote: "Blocked",
	}
}

// Normalize fills in missing/zero values with defaults so partially filled
// configs still behave.
func (c *Config) Normalize() {
	if c.APIURL == "" {
		c.APIURL = "http://127.0.0.1:8590"
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "monday"
	}
	switch c.TimeIncrement {
	case 15, 30, 60:
	default:
		c.TimeIncrement = 30
	}
	if c.RefreshRate <= 0 {
		c.RefreshRate = 60 * time.Second
	}
	if c.DefaultBlockNote == "" {
		c.DefaultBlockNote = "Blocked"
	}
}

// WeekStartDay maps the config value onto time.Weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// DefaultPath returns the standard config location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "verdandi", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "verdandi", "config.yaml")
}

// Load reads configuration from path. A missing file is first-run: a
// default config is written (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically: temp file in the same
// directory, fsync, chmod 0600, rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".verdandi-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
