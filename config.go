package moon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/gogpu/moon/text"
)

// Config holds engine settings that can be loaded from YAML.
type Config struct {
	// Rounding snaps layout to whole physical pixels.
	Rounding bool `yaml:"rounding"`
	// MaxTextScale caps the scale text is shaped at when zoomed in.
	MaxTextScale float64 `yaml:"max_text_scale"`
	// DefaultFontSize applies to text whose style leaves the size unset.
	DefaultFontSize float64 `yaml:"default_font_size"`
	// TextCacheSize is the number of shaped runs kept in the LRU.
	TextCacheSize int `yaml:"text_cache_size"`
	// LogLevel is a slog level name used by the command line tool.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Rounding:        true,
		MaxTextScale:    8,
		DefaultFontSize: text.DefaultSize,
		TextCacheSize:   4096,
		LogLevel:        "warn",
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.unmarshal(data); err != nil {
		return Config{}, fmt.Errorf("failed to process configuration file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) unmarshal(data []byte) error {
	// Unknown keys are rejected.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return c.Validate()
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	switch {
	case c.MaxTextScale < 1:
		return fmt.Errorf("max_text_scale must be at least 1, got %g", c.MaxTextScale)
	case c.DefaultFontSize <= 0:
		return fmt.Errorf("default_font_size must be positive, got %g", c.DefaultFontSize)
	case c.TextCacheSize < 0:
		return fmt.Errorf("text_cache_size must not be negative, got %d", c.TextCacheSize)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel. An empty level is warn.
func (c *Config) SlogLevel() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Dump returns the configuration as YAML.
func (c Config) Dump() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
