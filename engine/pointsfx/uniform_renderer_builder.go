package pointsfx

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-morph/engine/pointcloud"
)

// UniformRendererBuilderOption is a functional option for configuring a UniformRenderer during construction.
type UniformRendererBuilderOption func(*uniformRenderer)

// WithPointSets sets the point sets morphed between, one per model, in model index order.
//
// Parameters:
//   - sets: equally sized point sets of size*size points
//
// Returns:
//   - UniformRendererBuilderOption: option function to apply
func WithPointSets(sets []pointcloud.PointSet) UniformRendererBuilderOption {
	return func(r *uniformRenderer) {
		r.pointSets = sets
	}
}

// WithRandomAttribute sets the per-point random vec3 data instead of generating it.
//
// Parameters:
//   - data: size*size*3 floats
//
// Returns:
//   - UniformRendererBuilderOption: option function to apply
func WithRandomAttribute(data []float32) UniformRendererBuilderOption {
	return func(r *uniformRenderer) {
		r.random = data
	}
}

// WithColors sets the three initial point colors.
//
// Parameters:
//   - colors: RGBA colors with channels in [0, 1]
//
// Returns:
//   - UniformRendererBuilderOption: option function to apply
func WithColors(colors [3][4]float32) UniformRendererBuilderOption {
	return func(r *uniformRenderer) {
		r.colors.Colors = colors
	}
}

// WithPointSize sets the point size passed to the shader.
//
// Parameters:
//   - size: the point size in pixels
//
// Returns:
//   - UniformRendererBuilderOption: option function to apply
func WithPointSize(size float32) UniformRendererBuilderOption {
	return func(r *uniformRenderer) {
		r.view.PointSize = size
	}
}

// WithLabel sets the label used for the bind group layout and log records.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - UniformRendererBuilderOption: option function to apply
func WithLabel(label string) UniformRendererBuilderOption {
	return func(r *uniformRenderer) {
		if label != "" {
			r.label = label
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - UniformRendererBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) UniformRendererBuilderOption {
	return func(r *uniformRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
