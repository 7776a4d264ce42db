// Package curve provides the easing curves that map normalized time to normalized morph progress.
package curve

import "errors"

var (
	// ErrInvalidControlPoint is returned when a cubic bezier x control point lies outside [0, 1]
	// or a y control point is not finite.
	ErrInvalidControlPoint = errors.New("curve: invalid control point")

	// ErrUnknownPreset is returned when a preset name is not registered.
	ErrUnknownPreset = errors.New("curve: unknown preset")
)

// Curve evaluates an easing function.
//
// Evaluate is only ever called with t in [0, 1]. The output is not required to stay within
// [0, 1]: overshooting or bouncing curves are legal.
type Curve interface {
	// Evaluate returns the eased progress for normalized time t.
	//
	// Parameters:
	//   - t: normalized time in [0, 1]
	//
	// Returns:
	//   - float32: the eased progress
	Evaluate(t float32) float32
}

// Func adapts an ordinary function to the Curve interface.
type Func func(t float32) float32

// Evaluate calls f(t).
func (f Func) Evaluate(t float32) float32 {
	return f(t)
}

// linear is the identity curve.
type linear struct{}

func (linear) Evaluate(t float32) float32 {
	return t
}

// Linear returns the identity curve, evaluate(t) = t.
//
// Returns:
//   - Curve: the linear curve
func Linear() Curve {
	return linear{}
}
