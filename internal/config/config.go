package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/philipparndt/gopath/pkg/pathgeom"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "gopath.yaml"

// Config represents the optional gopath.yaml configuration.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
	Watch  WatchConfig  `yaml:"watch"`
}

// RenderConfig mirrors the geometry build options.
type RenderConfig struct {
	Deviation      *float64 `yaml:"deviation,omitempty"`
	ShowFirstRapid *bool    `yaml:"show_first_rapid,omitempty"`
	ShowNodes      bool     `yaml:"show_nodes,omitempty"`
}

// LogConfig selects the diagnostic log output.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// WatchConfig contains settings for the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Listen   string        `yaml:"listen,omitempty"`
}

// Resolved contains validated configuration with defaults applied.
type Resolved struct {
	Options   pathgeom.Options
	LogLevel  slog.Level
	LogFormat string
	Debounce  time.Duration
	Listen    string
}

// LoadOptional reads the config file if present. A missing file yields an
// empty config.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Resolve applies defaults and validates the values.
func (c *Config) Resolve() (*Resolved, error) {
	opts := pathgeom.DefaultOptions()
	if c.Render.Deviation != nil {
		opts.Deviation = *c.Render.Deviation
	}
	if c.Render.ShowFirstRapid != nil {
		opts.ShowFirstRapid = *c.Render.ShowFirstRapid
	}
	opts.ShowNodes = c.Render.ShowNodes

	if !(opts.Deviation > 0) {
		return nil, fmt.Errorf("render.deviation must be positive, got %g", opts.Deviation)
	}

	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "":
		format = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q (expected text or json)", c.Log.Format)
	}

	debounce := c.Watch.Debounce
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	if debounce < 0 {
		return nil, fmt.Errorf("watch.debounce must not be negative, got %s", debounce)
	}

	return &Resolved{
		Options:   opts,
		LogLevel:  level,
		LogFormat: format,
		Debounce:  debounce,
		Listen:    strings.TrimSpace(c.Watch.Listen),
	}, nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
