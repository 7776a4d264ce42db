// Package pointsfx is the boundary between the morph controller and the point-cloud renderer.
// The controller only ever sees Renderer; UniformRenderer is the engine's implementation that
// turns those calls into staged GPU buffer writes for the point morph shader.
package pointsfx

import "errors"

var (
	// ErrNoPointSets is returned when a UniformRenderer is built without any point sets.
	ErrNoPointSets = errors.New("pointsfx: at least one point set is required")

	// ErrPointCountMismatch is returned when point sets differ in size or are not size*size points.
	ErrPointCountMismatch = errors.New("pointsfx: point sets must all hold size*size points")

	// ErrInvalidColor is returned for a malformed hex color.
	ErrInvalidColor = errors.New("pointsfx: invalid hex color")
)

// Bindings of the point morph shader, all in bind group 0.
const (
	BindingMorphUniforms = 0
	BindingPointColors   = 1
	BindingPositionsA    = 2
	BindingPositionsB    = 3
	BindingViewData      = 4
)

// Renderer receives the per-frame morph state.
type Renderer interface {
	// UpdateProgress sets the eased transition progress, nominally in [0, 1].
	UpdateProgress(progress float32)

	// UpdateTime sets the clock's elapsed seconds, used for time-based point animation.
	UpdateTime(seconds float32)

	// SetModels sets the pair of models being morphed from (a) and to (b).
	// A negative index means no model.
	SetModels(a, b int)
}

// BufferWrite describes a single GPU buffer write targeting a binding of the point shader.
type BufferWrite struct {
	Binding int
	Offset  uint64
	Data    []byte
}
