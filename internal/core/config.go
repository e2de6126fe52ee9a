package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	// ItemHeight is the number of terminal rows each log entry occupies.
	ItemHeight int `toml:"item_height"`
	// Buffer is the count of extra entries rendered beyond each edge of the
	// visible range.
	Buffer int `toml:"buffer"`
	// DebounceMS is the scroll debounce interval in milliseconds.
	DebounceMS int `toml:"debounce_ms"`
	// ColorScheme selects a theme (default, light).
	ColorScheme string `toml:"color_scheme"`
	// LogPath is the conversation store location.
	LogPath string `toml:"log_path"`
	// SyncURL is the optional best-effort sync target.
	SyncURL string `toml:"sync_url"`
	// Scenario is the conversation scenario shown at startup.
	Scenario string `toml:"scenario"`
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".windowlist", "config.toml")
}

// LoadConfig loads the application configuration: built-in defaults, then the
// TOML file at path (or the default location when path is empty; a missing
// file is fine), then WINDOWLIST_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		ItemHeight:  2,
		Buffer:      5,
		DebounceMS:  16,
		ColorScheme: "default",
	}

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(config)

	if config.LogPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		config.LogPath = filepath.Join(home, ".windowlist", "conversations.json")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *Config) {
	if v := os.Getenv("WINDOWLIST_LOG_PATH"); v != "" {
		config.LogPath = v
	}
	if v := os.Getenv("WINDOWLIST_SYNC_URL"); v != "" {
		config.SyncURL = v
	}
	if v := os.Getenv("WINDOWLIST_SCENARIO"); v != "" {
		config.Scenario = v
	}
	if v := os.Getenv("WINDOWLIST_COLOR_SCHEME"); v != "" {
		config.ColorScheme = v
	}
	if v := os.Getenv("WINDOWLIST_ITEM_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.ItemHeight = n
		}
	}
	if v := os.Getenv("WINDOWLIST_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Buffer = n
		}
	}
}

// Validate rejects geometry the range math cannot work with.
func (c *Config) Validate() error {
	if c.ItemHeight <= 0 {
		return fmt.Errorf("item height must be positive, got %d", c.ItemHeight)
	}
	if c.Buffer < 0 {
		return fmt.Errorf("buffer must be non-negative, got %d", c.Buffer)
	}
	if c.DebounceMS <= 0 {
		return fmt.Errorf("debounce interval must be positive, got %dms", c.DebounceMS)
	}
	return nil
}
