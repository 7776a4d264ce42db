package morph

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-morph/engine/curve"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointsfx"
)

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithDuration sets the transition length in seconds. Invalid values fail construction.
//
// Parameters:
//   - seconds: the duration
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithDuration(seconds float64) ControllerBuilderOption {
	return func(c *controller) {
		c.state.Duration = seconds
	}
}

// WithCurve sets the easing curve. A nil curve keeps the default expo-out bezier.
//
// Parameters:
//   - cv: the curve
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithCurve(cv curve.Curve) ControllerBuilderOption {
	return func(c *controller) {
		if cv != nil {
			c.curve = cv
		}
	}
}

// WithRenderer attaches the renderer progress is published to.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithRenderer(r pointsfx.Renderer) ControllerBuilderOption {
	return func(c *controller) {
		c.renderer = r
		c.pairDirty = true
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks adds lifecycle callbacks. Repeated use chains the hooks in option order.
//
// Parameters:
//   - hooks: the callbacks
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithHooks(hooks Hooks) ControllerBuilderOption {
	return func(c *controller) {
		c.hooks = c.hooks.merge(hooks)
	}
}

// WithRestartOnSameTarget sets whether selecting the model that is already pending (or already
// settled while idle) restarts the transition. The default is true: every selection re-arms.
//
// Parameters:
//   - restart: false to ignore repeated selections
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithRestartOnSameTarget(restart bool) ControllerBuilderOption {
	return func(c *controller) {
		c.restartOnSameTarget = restart
	}
}
