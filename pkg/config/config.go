// Package config holds the settings of the tabula-gfx tools: the window and
// OpenGL context to create, how to log, and whether to collect metrics.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"gopkg.in/yaml.v3"
)

// Window describes the window hosting the graphics context.
type Window struct {
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
	Title  string `yaml:"title"`
	// Hidden creates the window without showing it.
	Hidden bool `yaml:"hidden"`
}

// GL describes the requested OpenGL context.
type GL struct {
	Major int  `yaml:"major"`
	Minor int  `yaml:"minor"`
	Debug bool `yaml:"debug"`
}

// Log describes the logging output.
type Log struct {
	// Level is a level name understood by log.ParseLevel.
	Level string `yaml:"level"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
}

// Config represents the configuration of the application
type Config struct {
	Window  Window `yaml:"window"`
	GL      GL     `yaml:"gl"`
	Log     Log    `yaml:"log"`
	Metrics bool   `yaml:"metrics"`
}

// Color settings.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrInvalid indicates a configuration value out of range.
const ErrInvalid log.ConstErr = "invalid configuration"

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: Window{
			Width:  640,
			Height: 480,
			Title:  "tabula-gfx",
			Hidden: true,
		},
		GL: GL{
			Major: 4,
			Minor: 6,
		},
		Log: Log{
			Level: "info",
			Color: ColorAuto,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Fields missing from the file keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// an empty document leaves the defaults untouched
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.GL.Major < 3 || (c.GL.Major == 3 && c.GL.Minor < 3) || c.GL.Major > 4 || c.GL.Minor < 0 {
		return fmt.Errorf("%w: OpenGL %d.%d, need a core profile from 3.3 to 4.6", ErrInvalid, c.GL.Major, c.GL.Minor)
	}
	if c.GL.Major == 4 && c.GL.Minor > 6 {
		return fmt.Errorf("%w: OpenGL %d.%d does not exist", ErrInvalid, c.GL.Major, c.GL.Minor)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.Log.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: log color %q", ErrInvalid, c.Log.Color)
	}
	return nil
}

// LogLevel returns the parsed log level. Call it on a validated Config.
func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return l
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
