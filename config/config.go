// Package config loads and validates the morph viewer configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-morph/engine/curve"
	"github.com/Carmen-Shannon/oxy-morph/engine/morph"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointcloud"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointsfx"
)

var (
	// ErrNoModels is returned when the configuration lists no models.
	ErrNoModels = errors.New("config: at least one model is required")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config is the full viewer configuration.
type Config struct {
	// Duration is the transition duration in seconds.
	Duration float64 `yaml:"duration"`

	// Curve selects the easing curve.
	Curve CurveConfig `yaml:"curve"`

	Points  PointsConfig  `yaml:"points"`
	Colors  []string      `yaml:"colors"`
	Models  []ModelConfig `yaml:"models"`
	Window  WindowConfig  `yaml:"window"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CurveConfig names a preset or gives explicit cubic bezier control points.
// Points win when both are set.
type CurveConfig struct {
	Preset string    `yaml:"preset"`
	Points []float32 `yaml:"points"`
}

// PointsConfig controls point set generation.
type PointsConfig struct {
	// Size is the point texture side; every model gets Size*Size points.
	Size   int     `yaml:"size"`
	Seed   uint64  `yaml:"seed"`
	Spread float32 `yaml:"spread"`

	// PointSize is forwarded to the shader's view uniform.
	PointSize float32 `yaml:"point_size"`
}

// ModelConfig locates one mesh.
type ModelConfig struct {
	// Name is the label shown for the model. Defaults to the node name, then the file name.
	Name string `yaml:"name"`

	// Path is the .glb or .gltf file, relative paths resolve against the config file.
	Path string `yaml:"path"`

	// Node selects a named node; empty takes the first mesh.
	Node string `yaml:"node"`

	// Scale multiplies the sampled positions. Zero means 1.
	Scale float32 `yaml:"scale"`
}

// WindowConfig sizes the viewer window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  *bool  `yaml:"vsync"`

	// MinWidth, MinHeight, MaxWidth and MaxHeight bound interactive resizing. Zero keeps the
	// window's built-in limit.
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used for any field a file leaves unset.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Duration: morph.DefaultDuration,
		Curve:    CurveConfig{Preset: curve.PresetExpoOut},
		Points: PointsConfig{
			Size:      256,
			Spread:    pointcloud.DefaultSpread,
			PointSize: 1,
		},
		Colors: append([]string(nil), pointsfx.DefaultColorHex[:]...),
		Window: WindowConfig{Title: "oxy-morph", Width: 1280, Height: 720},
	}
}

// Load reads, defaults and validates a YAML configuration file. Relative model paths are
// resolved against the directory of path.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the validated configuration
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range cfg.Models {
		if !filepath.IsAbs(cfg.Models[i].Path) {
			cfg.Models[i].Path = filepath.Join(dir, cfg.Models[i].Path)
		}
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the validated configuration
//   - error: a parse or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	for i := range cfg.Models {
		cfg.Models[i].Name = cfg.Models[i].DisplayName()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that would make the viewer fail later.
//
// Returns:
//   - error: the first problem found, wrapping ErrInvalid or ErrNoModels
func (c Config) Validate() error {
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive and finite, got %v", ErrInvalid, c.Duration)
	}
	if _, err := c.BuildCurve(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Points.Size <= 0 {
		return fmt.Errorf("%w: points.size must be positive, got %d", ErrInvalid, c.Points.Size)
	}
	if !(c.Points.Spread > 0) {
		return fmt.Errorf("%w: points.spread must be positive, got %v", ErrInvalid, c.Points.Spread)
	}
	if _, err := c.ParseColors(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(c.Models) == 0 {
		return ErrNoModels
	}
	for i, m := range c.Models {
		if m.Path == "" {
			return fmt.Errorf("%w: models[%d] has no path", ErrInvalid, i)
		}
		if m.Scale < 0 {
			return fmt.Errorf("%w: models[%d] scale must not be negative", ErrInvalid, i)
		}
	}
	w := c.Window
	if w.Width < 0 || w.Height < 0 || w.MinWidth < 0 || w.MinHeight < 0 || w.MaxWidth < 0 || w.MaxHeight < 0 {
		return fmt.Errorf("%w: window sizes must not be negative", ErrInvalid)
	}
	if w.MaxWidth > 0 && w.MinWidth > w.MaxWidth {
		return fmt.Errorf("%w: window.min_width %d exceeds max_width %d", ErrInvalid, w.MinWidth, w.MaxWidth)
	}
	if w.MaxHeight > 0 && w.MinHeight > w.MaxHeight {
		return fmt.Errorf("%w: window.min_height %d exceeds max_height %d", ErrInvalid, w.MinHeight, w.MaxHeight)
	}
	return nil
}

// BuildCurve returns the configured easing curve.
//
// Returns:
//   - curve.Curve: the curve
//   - error: an unknown preset, a wrong point count or an out-of-range control point
func (c Config) BuildCurve() (curve.Curve, error) {
	if len(c.Curve.Points) > 0 {
		if len(c.Curve.Points) != 4 {
			return nil, fmt.Errorf("curve.points needs 4 values, got %d", len(c.Curve.Points))
		}
		p := c.Curve.Points
		bez, err := curve.NewCubicBezier(p[0], p[1], p[2], p[3])
		if err != nil {
			return nil, err
		}
		return bez, nil
	}
	if c.Curve.Preset == "" {
		return curve.Default(), nil
	}
	return curve.Preset(c.Curve.Preset)
}

// ParseColors converts the three hex colors.
//
// Returns:
//   - [3][4]float32: RGBA colors
//   - error: a wrong color count or malformed hex value
func (c Config) ParseColors() ([3][4]float32, error) {
	var out [3][4]float32
	if len(c.Colors) != len(out) {
		return out, fmt.Errorf("colors needs %d entries, got %d", len(out), len(c.Colors))
	}
	for i, s := range c.Colors {
		col, err := pointsfx.ParseHexColor(s)
		if err != nil {
			return out, fmt.Errorf("colors[%d]: %w", i, err)
		}
		out[i] = col
	}
	return out, nil
}

// VSyncEnabled reports whether presentation waits for vertical blank. Defaults to true.
//
// Returns:
//   - bool: the vsync setting
func (w WindowConfig) VSyncEnabled() bool {
	return w.VSync == nil || *w.VSync
}

// DisplayName returns Name, falling back to the node name and then the file name.
//
// Returns:
//   - string: the label
func (m ModelConfig) DisplayName() string {
	switch {
	case m.Name != "":
		return m.Name
	case m.Node != "":
		return m.Node
	}
	base := filepath.Base(m.Path)
	return base[:len(base)-len(filepath.Ext(base))]
}
