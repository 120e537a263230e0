package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

var (
	// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
	ErrUnknownFormat = errors.New("unknown config format")
	// ErrInvalid is returned when a decoded config fails validation.
	ErrInvalid = errors.New("invalid config")
)

// Format is a config file encoding.
type Format int

const (
	// FormatTOML decodes with go-toml.
	FormatTOML Format = iota
	// FormatYAML decodes with yaml.v3.
	FormatYAML
)

// FormatOf picks the format from a file extension.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Format: the file format
//   - error: ErrUnknownFormat for any other extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Window is the window section.
type Window struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
	// VSync caps presentation to the display refresh rate.
	VSync bool `toml:"vsync" yaml:"vsync"`
	// MSAA is the sample count, 1 or 4.
	MSAA int `toml:"msaa" yaml:"msaa"`
}

// Color is an RGB clear colour with components in [0, 1].
type Color struct {
	R float64 `toml:"r" yaml:"r"`
	G float64 `toml:"g" yaml:"g"`
	B float64 `toml:"b" yaml:"b"`
}

// Camera is the free camera section.
type Camera struct {
	// Speed is the movement speed in units per millisecond.
	Speed float32 `toml:"speed" yaml:"speed"`
}

// Config is the viewer configuration.
type Config struct {
	Window     Window            `toml:"window" yaml:"window"`
	LogLevel   string            `toml:"log_level" yaml:"log_level"`
	Background Color             `toml:"background" yaml:"background"`
	Light      light.GlobalParam `toml:"light" yaml:"light"`
	Camera     Camera            `toml:"camera" yaml:"camera"`
	// Profile logs frame statistics once per second.
	Profile bool `toml:"profile" yaml:"profile"`
	// Workers is the number of goroutines converting texture pixels.
	Workers int `toml:"workers" yaml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "oxy viewer",
			VSync:  true,
			MSAA:   4,
		},
		LogLevel:   "info",
		Background: Color{R: 0.8, G: 0.8, B: 1.0},
		Light:      light.DefaultGlobalParam(),
		Camera:     Camera{Speed: 0.01},
		Workers:    4,
	}
}

// Parse decodes data over the defaults, so a file only has to name the
// values it changes.
//
// Parameters:
//   - data: the encoded config
//   - format: the encoding
//
// Returns:
//   - Config: the decoded and validated config
//   - error: a decode error or ErrInvalid
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case FormatYAML:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		return Config{}, ErrUnknownFormat
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a TOML or YAML file chosen by extension.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the config
//   - error: ErrUnknownFormat, a read or decode error, or ErrInvalid
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save encodes the config in the format chosen by the path extension.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: ErrUnknownFormat or a write error
func (c Config) Save(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case FormatTOML:
		data, err = toml.Marshal(c)
	case FormatYAML:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalid)
	case c.Window.MSAA != int(gpu.MSAAOff) && c.Window.MSAA != int(gpu.MSAA4x):
		return fmt.Errorf("msaa %d, want 1 or 4: %w", c.Window.MSAA, ErrInvalid)
	case c.Camera.Speed < 0:
		return fmt.Errorf("camera speed %v: %w", c.Camera.Speed, ErrInvalid)
	case c.Workers < 1:
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalid)
	}
	for _, v := range []float64{c.Background.R, c.Background.G, c.Background.B} {
		if v < 0 || v > 1 {
			return fmt.Errorf("background component %v outside [0, 1]: %w", v, ErrInvalid)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses the log level.
//
// Returns:
//   - slog.Level: the level
//   - error: ErrInvalid for unknown names
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, ErrInvalid)
	}
	return level, nil
}

// PresentMode maps the vsync flag onto the device present mode.
func (c Config) PresentMode() gpu.PresentMode {
	if c.Window.VSync {
		return gpu.PresentModeVSync
	}
	return gpu.PresentModeUncapped
}

// SampleCount returns the MSAA sample count.
func (c Config) SampleCount() gpu.MSAASampleCount {
	return gpu.MSAASampleCount(c.Window.MSAA)
}

// ClearColor returns the background as an opaque wgpu colour.
func (c Config) ClearColor() wgpu.Color {
	return wgpu.Color{R: c.Background.R, G: c.Background.G, B: c.Background.B, A: 1}
}
