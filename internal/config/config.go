package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the optional treecopy configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults" yaml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"    yaml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. Nil means unset.
type DefaultsConfig struct {
	Overwrite   *bool    `toml:"overwrite"   yaml:"overwrite"`
	Expand      *bool    `toml:"expand"      yaml:"expand"`
	Dot         *bool    `toml:"dot"         yaml:"dot"`
	Junk        *bool    `toml:"junk"        yaml:"junk"`
	Verify      *bool    `toml:"verify"      yaml:"verify"`
	Concurrency *int     `toml:"concurrency" yaml:"concurrency"`
	BWLimit     *string  `toml:"bwlimit"     yaml:"bwlimit"`
	FilterFile  *string  `toml:"filter_file" yaml:"filter_file"`
	Exclude     []string `toml:"exclude"     yaml:"exclude"`
	Include     []string `toml:"include"     yaml:"include"`
}

// ThemeConfig holds optional colour names for per-entry output lines.
type ThemeConfig struct {
	File      *string `toml:"file"      yaml:"file"`
	Directory *string `toml:"directory" yaml:"directory"`
	Symlink   *string `toml:"symlink"   yaml:"symlink"`
	Error     *string `toml:"error"     yaml:"error"`
}

// Path returns the resolved path to the default config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "treecopy", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads an explicitly named config file. Files ending in .yaml or
// .yml are decoded as YAML, anything else as TOML.
func LoadFile(path string) (Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if c := cfg.Defaults.Concurrency; c != nil && *c < 0 {
		return Config{}, fmt.Errorf("%s: concurrency must not be negative", path)
	}
	return cfg, nil
}
