package gfx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kjkrol/gokview/internal/platform"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("gfx: invalid config")

// FallbackPolicy decides what NewViewer does when the GL surface cannot be built.
type FallbackPolicy string

const (
	// FallbackPlaceholder keeps the viewer alive on a surface that draws nothing.
	FallbackPlaceholder FallbackPolicy = "placeholder"
	// FallbackFail makes NewViewer return the error.
	FallbackFail FallbackPolicy = "fail"
)

type WindowConfig struct {
	Title     string `yaml:"title" toml:"title"`
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	PositionX int    `yaml:"x" toml:"x"`
	PositionY int    `yaml:"y" toml:"y"`
	MinWidth  int    `yaml:"min_width" toml:"min_width"`
	MinHeight int    `yaml:"min_height" toml:"min_height"`
	Centered  bool   `yaml:"centered" toml:"centered"`
}

type ContextConfig struct {
	Major             int              `yaml:"major" toml:"major"`
	Minor             int              `yaml:"minor" toml:"minor"`
	Profile           platform.Profile `yaml:"profile" toml:"profile"`
	Samples           int              `yaml:"samples" toml:"samples"`
	ForwardCompatible bool             `yaml:"forward_compatible" toml:"forward_compatible"`
}

type Config struct {
	Window     WindowConfig   `yaml:"window" toml:"window"`
	Context    ContextConfig  `yaml:"context" toml:"context"`
	ClearColor [4]float32     `yaml:"clear_color" toml:"clear_color"`
	LogLevel   string         `yaml:"log_level" toml:"log_level"`
	Fallback   FallbackPolicy `yaml:"fallback" toml:"fallback"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:     "gokview",
			Width:     1000,
			Height:    1000,
			MinWidth:  10,
			MinHeight: 10,
			Centered:  true,
		},
		Context: ContextConfig{
			Major:   3,
			Minor:   3,
			Profile: platform.ProfileCore,
			Samples: 4,
		},
		ClearColor: [4]float32{0.3, 0.4, 0.5, 1},
		LogLevel:   "info",
		Fallback:   FallbackPlaceholder,
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &conf)
	case ".toml":
		err = toml.Unmarshal(data, &conf)
	default:
		return conf, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return conf, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.MinWidth < 0 || c.Window.MinHeight < 0 {
		errs = append(errs, fmt.Errorf("minimum window size %dx%d must not be negative", c.Window.MinWidth, c.Window.MinHeight))
	}
	if c.Context.Major < 1 || c.Context.Minor < 0 {
		errs = append(errs, fmt.Errorf("context version %d.%d is not valid", c.Context.Major, c.Context.Minor))
	}
	if c.Context.Samples < 0 {
		errs = append(errs, fmt.Errorf("sample count %d must not be negative", c.Context.Samples))
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear color component %d = %v is outside [0, 1]", i, v))
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Fallback {
	case FallbackPlaceholder, FallbackFail:
	default:
		errs = append(errs, fmt.Errorf("unknown fallback policy %q", c.Fallback))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

func (c Config) contextRequest() platform.ContextRequest {
	return platform.ContextRequest{
		Major:             c.Context.Major,
		Minor:             c.Context.Minor,
		Profile:           c.Context.Profile,
		Samples:           c.Context.Samples,
		ForwardCompatible: c.Context.ForwardCompatible,
	}
}

func (c Config) windowConfig() platform.WindowConfig {
	w := c.Window
	return platform.WindowConfig{
		PositionX: w.PositionX,
		PositionY: w.PositionY,
		Width:     w.Width,
		Height:    w.Height,
		MinWidth:  w.MinWidth,
		MinHeight: w.MinHeight,
		Centered:  w.Centered,
		Title:     w.Title,
	}
}
