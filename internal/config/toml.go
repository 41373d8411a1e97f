// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game   GameConfig   `toml:"game"`
	Server ServerConfig `toml:"server"`
}

// GameConfig maps play-related settings.
type GameConfig struct {
	Slot           *string  `toml:"slot"`
	TickRate       *int     `toml:"tick-rate"`
	SaveInterval   *int     `toml:"save-interval"`
	Catalog        *string  `toml:"catalog"`
	ChallengesFile *string  `toml:"challenges-file"`
	Seed           *int64   `toml:"seed"`
	FocusHard      *bool    `toml:"focus-hard"`
	FocusFactor    *float64 `toml:"focus-factor"`
	FocusWindow    *int     `toml:"focus-window"`
}

// ServerConfig maps websocket driver settings.
type ServerConfig struct {
	Addr             *string  `toml:"addr"`
	ActionsPerSecond *float64 `toml:"actions-per-second"`
	Burst            *int     `toml:"burst"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
