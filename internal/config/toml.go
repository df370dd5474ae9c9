// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Display  DisplayConfig  `toml:"display"`
	Log      LogConfig      `toml:"log"`
}

// DefaultsConfig maps the values a calculator session starts from.
type DefaultsConfig struct {
	Age           *int     `toml:"age"`
	Gender        *string  `toml:"gender"`
	Activity      *string  `toml:"activity"`
	Height        *float64 `toml:"height"`
	CurrentWeight *float64 `toml:"current-weight"`
	TargetWeight  *float64 `toml:"target-weight"`
	Deficit       *float64 `toml:"deficit"`
	Steps         *float64 `toml:"steps"`
}

// DisplayConfig maps rendering settings.
type DisplayConfig struct {
	DateFormat *string `toml:"date-format"`
}

// LogConfig maps diagnostic log settings.
type LogConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
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
