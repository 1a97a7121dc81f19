// Package config holds the settings shared by the yaz0rom commands. Settings
// come from an optional YAML file and are then overridden by flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/repack"
	"github.com/dargueta/yaz0rom/utilities/logging"
	"gopkg.in/yaml.v3"
)

// DefaultSizeMiB is the size of a packed ROM when none is given.
const DefaultSizeMiB = 32

// DefaultExtension is the file extension batch mode looks for.
const DefaultExtension = ".z64"

type Config struct {
	// SizeMiB is the fixed size of packed ROMs. 0 sizes them automatically.
	SizeMiB *int `yaml:"size_mib"`
	// Jobs is the number of files compressed at once.
	Jobs int `yaml:"jobs"`
	// Profiles is the path to a CSV file replacing the built-in release
	// database.
	Profiles  string        `yaml:"profiles"`
	LogLevel  logging.Level `yaml:"log_level"`
	Extension string        `yaml:"extension"`
}

// Default returns the configuration used when there's no file.
func Default() *Config {
	cfg := &Config{LogLevel: logging.LevelInfo}
	cfg.Normalize()
	return cfg
}

// Load reads the configuration from a YAML file. An empty path gives the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, yaz0rom.ErrIOFailed.Wrap(
			fmt.Errorf("failed to read config file %s: %w", path, err))
	}
	return Parse(data)
}

// Parse reads the configuration from YAML text.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{LogLevel: logging.LevelInfo}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, yaz0rom.ErrInvalidArgument.Wrap(err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills in defaults and rejects impossible values.
func (c *Config) Normalize() error {
	if c.SizeMiB == nil {
		size := DefaultSizeMiB
		c.SizeMiB = &size
	} else if *c.SizeMiB < 0 {
		return yaz0rom.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("size_mib can't be negative, got %d", *c.SizeMiB))
	}

	if c.Jobs < 1 {
		c.Jobs = 1
	}

	c.Extension = strings.TrimSpace(c.Extension)
	if c.Extension == "" {
		c.Extension = DefaultExtension
	} else if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	return nil
}

// SizePolicy converts SizeMiB into the policy used for packing.
func (c *Config) SizePolicy() repack.SizePolicy {
	if c.SizeMiB == nil {
		return repack.FixedSize(DefaultSizeMiB)
	}
	if *c.SizeMiB == 0 {
		return repack.AutoSize()
	}
	return repack.FixedSize(*c.SizeMiB)
}

// SetSizeMiB overrides the configured size.
func (c *Config) SetSizeMiB(mib int) {
	c.SizeMiB = &mib
}
