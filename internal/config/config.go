// Package config loads the settings shared by the MCP server and the HTTP
// review API.
//
// Settings come from three layers, later ones winning: built-in defaults, an
// optional YAML file, and environment variables.
//
// # Environment Variables
//
//   - ACCENT_MAP_CONFIG: path of the YAML file
//   - ACCENT_MAP_ADDR: HTTP listen address
//   - ACCENT_MAP_VIEW_WIDTH: default review viewport width
//   - ACCENT_MAP_RECORDS: records file loaded at startup
//   - ACCENT_MAP_BACKGROUND: reference map drawn beneath renders
//   - ACCENT_MAP_LOG_LEVEL: "debug" enables verbose logging
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/accent-map-mcp/internal/capture"
	"github.com/ironsheep/accent-map-mcp/internal/grid"
	"github.com/ironsheep/accent-map-mcp/internal/normalize"
	"github.com/ironsheep/accent-map-mcp/internal/render"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// Environment variable names.
const (
	EnvConfig     = "ACCENT_MAP_CONFIG"
	EnvAddr       = "ACCENT_MAP_ADDR"
	EnvViewWidth  = "ACCENT_MAP_VIEW_WIDTH"
	EnvRecords    = "ACCENT_MAP_RECORDS"
	EnvBackground = "ACCENT_MAP_BACKGROUND"
	EnvLogLevel   = "ACCENT_MAP_LOG_LEVEL"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Capture configures respondent sessions.
type Capture struct {
	Capacity  int      `yaml:"capacity"`
	Tolerance float64  `yaml:"tolerance"`
	Palette   []string `yaml:"palette,omitempty"`
}

// Options converts the settings into session options.
func (c Capture) Options() capture.Options {
	return capture.Options{
		Capacity:  c.Capacity,
		Tolerance: c.Tolerance,
		Palette:   append([]string(nil), c.Palette...),
	}
}

// Render configures image output.
type Render struct {
	Width      int     `yaml:"width"`
	Opacity    float64 `yaml:"opacity"`
	Blur       float64 `yaml:"blur"`
	GridColor  string  `yaml:"grid_color"`
	Background string  `yaml:"background"`
}

// Config is the complete configuration.
type Config struct {
	Addr      string      `yaml:"addr"`
	ViewWidth float64     `yaml:"view_width"`
	Records   string      `yaml:"records"`
	LogLevel  string      `yaml:"log_level"`
	Grid      grid.Config `yaml:"grid"`
	Capture   Capture     `yaml:"capture"`
	Render    Render      `yaml:"render"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:      ":8080",
		ViewWidth: 400,
		LogLevel:  "info",
		Grid:      grid.DefaultConfig(),
		Capture: Capture{
			Capacity:  shape.MaxShapes,
			Tolerance: capture.DefaultTolerance,
		},
		Render: Render{
			Width: render.DefaultWidth,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// non-empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv is Load with the file path taken from ACCENT_MAP_CONFIG.
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvConfig))
}

// decode overlays YAML onto cfg. Unknown keys are rejected.
func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup(EnvViewWidth); ok && v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvViewWidth, v, err)
		}
		c.ViewWidth = w
	}
	if v, ok := lookup(EnvRecords); ok && v != "" {
		c.Records = v
	}
	if v, ok := lookup(EnvBackground); ok && v != "" {
		c.Render.Background = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	var problems []string
	if !normalize.ValidWidth(c.ViewWidth) {
		problems = append(problems, fmt.Sprintf("view_width must be a finite positive number, got %g", c.ViewWidth))
	}
	if err := c.Grid.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Capture.Capacity < 0 {
		problems = append(problems, fmt.Sprintf("capture.capacity must not be negative, got %d", c.Capture.Capacity))
	}
	for _, p := range c.Capture.Palette {
		if _, err := render.ParseHexColor(p); err != nil {
			problems = append(problems, fmt.Sprintf("capture.palette: %q: %v", p, err))
		}
	}
	if c.Render.Width < 0 {
		problems = append(problems, fmt.Sprintf("render.width must not be negative, got %d", c.Render.Width))
	}
	if c.Render.Opacity < 0 || c.Render.Opacity > 1 {
		problems = append(problems, fmt.Sprintf("render.opacity must be within 0-1, got %g", c.Render.Opacity))
	}
	if c.Render.Blur < 0 {
		problems = append(problems, fmt.Sprintf("render.blur must not be negative, got %g", c.Render.Blur))
	}
	if c.Render.GridColor != "" {
		if _, err := render.ParseHexColor(c.Render.GridColor); err != nil {
			problems = append(problems, fmt.Sprintf("render.grid_color: %v", err))
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info":
	default:
		problems = append(problems, fmt.Sprintf("log_level must be debug or info, got %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Debug reports whether verbose logging is enabled.
func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
