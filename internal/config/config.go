package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the tool configuration: struct defaults, optionally overridden
// by ~/.config/chatstat/config.toml, then by flags.
type Config struct {
	SessionGapMinutes    int    `toml:"session_gap_minutes"`
	EngagementGapSeconds int    `toml:"engagement_gap_seconds"`
	CountFullGap         bool   `toml:"count_full_gap"`
	DeviceOwner          string `toml:"device_owner"`
	OutputDir            string `toml:"output_dir"`
}

func defaults() *Config {
	return &Config{
		SessionGapMinutes:    45,
		EngagementGapSeconds: 120,
		CountFullGap:         true,
		OutputDir:            ".",
	}
}

// Load builds the effective configuration.
func Load() (*Config, error) {
	cfg := defaults()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // no home, defaults stand
	}

	cfgPath := filepath.Join(home, ".config", "chatstat", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	return cfg, nil
}

// LoadFile reads one specific config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) SessionGap() time.Duration {
	return time.Duration(c.SessionGapMinutes) * time.Minute
}

func (c *Config) EngagementGap() time.Duration {
	return time.Duration(c.EngagementGapSeconds) * time.Second
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
