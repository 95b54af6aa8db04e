// Package config loads imgblend command-line defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in defaults, used for missing files and zero values.
const (
	DefaultFormat   = "jpeg"
	DefaultQuality  = 80
	DefaultAlpha    = 0.5
	DefaultLogLevel = "info"
)

// Config is the imgblend configuration file.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Blend    BlendConfig    `yaml:"blend"`
	Log      LogConfig      `yaml:"log"`
}

// DefaultsConfig holds encoding defaults.
type DefaultsConfig struct {
	Format  string  `yaml:"format"`
	Quality int     `yaml:"quality"`
	Alpha   float64 `yaml:"alpha"`
}

// BlendConfig holds compositing defaults applied when a flag is not given.
type BlendConfig struct {
	Mask        string `yaml:"mask"`
	Roi         string `yaml:"roi"`
	Fit         bool   `yaml:"fit"`
	LenientMask bool   `yaml:"lenient_mask"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the configuration at path. A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration data and fills unset values with
// defaults.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Defaults.Format == "" {
		c.Defaults.Format = DefaultFormat
	}
	if c.Defaults.Quality == 0 {
		c.Defaults.Quality = DefaultQuality
	}
	if c.Defaults.Alpha == 0 {
		c.Defaults.Alpha = DefaultAlpha
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Defaults.Quality < 1 || c.Defaults.Quality > 100 {
		return fmt.Errorf("config: defaults.quality %d out of range [1, 100]", c.Defaults.Quality)
	}
	if c.Defaults.Alpha < 0 {
		return fmt.Errorf("config: defaults.alpha %v is negative", c.Defaults.Alpha)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps Log.Level to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("config: log.level %q: %w", c.Log.Level, err)
	}
	return l, nil
}

// Dump writes c as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: dump: %w", err)
	}
	return enc.Close()
}
