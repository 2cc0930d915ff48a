// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Every setting applies to
// the simulator only; the device itself has no configuration.
type FileConfig struct {
	Panel   PanelConfig   `toml:"panel"`
	Journal JournalConfig `toml:"journal"`
}

// PanelConfig maps front panel settings.
type PanelConfig struct {
	Speed  *float64 `toml:"speed"`
	HoldMs *int     `toml:"hold-ms"`
}

// JournalConfig maps event journal settings.
type JournalConfig struct {
	Enabled *bool   `toml:"enabled"`
	Path    *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
