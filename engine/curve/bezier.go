package curve

import (
	"fmt"

	"github.com/chewxy/math32"
)

const (
	newtonIterations  = 8
	newtonMinSlope    = 1e-3
	solveEpsilon      = 1e-6
	bisectionMaxSteps = 32
)

// CubicBezier is an easing curve defined by the two inner control points of a cubic bezier
// whose end points are fixed at (0, 0) and (1, 1), the same form used by CSS timing functions.
// The x coordinates are restricted to [0, 1] so the curve is a function of time; the y
// coordinates are free, which allows overshoot.
type CubicBezier struct {
	x1, y1, x2, y2 float32
}

var _ Curve = &CubicBezier{}

// NewCubicBezier creates a cubic bezier easing curve from its inner control points.
//
// Parameters:
//   - x1, y1: the first control point
//   - x2, y2: the second control point
//
// Returns:
//   - *CubicBezier: the curve
//   - error: ErrInvalidControlPoint if x1 or x2 is outside [0, 1] or not a number, or y1 or y2 is not finite
func NewCubicBezier(x1, y1, x2, y2 float32) (*CubicBezier, error) {
	for _, x := range [2]float32{x1, x2} {
		if math32.IsNaN(x) || x < 0 || x > 1 {
			return nil, fmt.Errorf("%w: x must lie within [0, 1], got %v", ErrInvalidControlPoint, x)
		}
	}
	if math32.IsNaN(y1) || math32.IsNaN(y2) || math32.IsInf(y1, 0) || math32.IsInf(y2, 0) {
		return nil, fmt.Errorf("%w: y must be finite, got %v, %v", ErrInvalidControlPoint, y1, y2)
	}
	return &CubicBezier{x1: x1, y1: y1, x2: x2, y2: y2}, nil
}

// Points returns the control points as [x1, y1, x2, y2].
//
// Returns:
//   - [4]float32: the control points
func (b *CubicBezier) Points() [4]float32 {
	return [4]float32{b.x1, b.y1, b.x2, b.y2}
}

// Evaluate solves the curve's x polynomial for t and returns the matching y.
// The end points are returned exactly so a completed transition reports progress 1.
func (b *CubicBezier) Evaluate(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if b.x1 == b.y1 && b.x2 == b.y2 {
		return t
	}
	return bezierComponent(b.solve(t), b.y1, b.y2)
}

// solve finds the curve parameter s whose x coordinate equals x.
// Newton-Raphson converges in a few steps for well behaved curves; bisection covers flat slopes.
func (b *CubicBezier) solve(x float32) float32 {
	s := x
	for range newtonIterations {
		slope := bezierSlope(s, b.x1, b.x2)
		if math32.Abs(slope) < newtonMinSlope {
			break
		}
		diff := bezierComponent(s, b.x1, b.x2) - x
		if math32.Abs(diff) < solveEpsilon {
			return s
		}
		s -= diff / slope
	}

	lo, hi := float32(0), float32(1)
	s = x
	for range bisectionMaxSteps {
		cx := bezierComponent(s, b.x1, b.x2)
		if math32.Abs(cx-x) < solveEpsilon {
			break
		}
		if cx < x {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}

// bezierComponent evaluates one coordinate of a cubic bezier with end points 0 and 1.
func bezierComponent(s, p1, p2 float32) float32 {
	inv := 1 - s
	return 3*inv*inv*s*p1 + 3*inv*s*s*p2 + s*s*s
}

// bezierSlope is the derivative of bezierComponent with respect to s.
func bezierSlope(s, p1, p2 float32) float32 {
	inv := 1 - s
	return 3*inv*inv*p1 + 6*inv*s*(p2-p1) + 3*s*s*(1-p2)
}
