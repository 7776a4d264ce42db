// Package morph implements the transition controller that schedules morphs between point-cloud models.
//
// A Controller turns a stream of model selections and per-frame clock readings into an eased progress
// value and exactly one commit per transition. Every tick it publishes progress and the raw clock time
// to a pointsfx.Renderer, together with the settled/target model pair whenever that pair changes.
package morph

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-morph/common"
	"github.com/Carmen-Shannon/oxy-morph/engine/curve"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointsfx"
)

// DefaultDuration is the transition length in seconds used when none is configured.
const DefaultDuration = 2.0

var (
	// ErrInvalidDuration is returned for a duration that is not a positive finite number of seconds.
	ErrInvalidDuration = errors.New("morph: duration must be positive and finite")

	// ErrInvalidModelCount is returned when a controller is created without any models.
	ErrInvalidModelCount = errors.New("morph: model count must be positive")

	// ErrSelectionOutOfRange is returned for a selection outside the known model set.
	ErrSelectionOutOfRange = errors.New("morph: selection out of range")
)

// Controller is the morph transition scheduler. All methods are safe for concurrent use;
// selection changes and frame ticks may arrive from different goroutines.
type Controller interface {
	// OnSelectionChanged requests a transition to the model at index.
	// The target is set immediately; the transition is anchored to the next frame tick.
	// Any open transition is abandoned.
	//
	// Parameters:
	//   - index: the requested model, in [0, ModelCount)
	//
	// Returns:
	//   - error: ErrSelectionOutOfRange if index is not a known model
	OnSelectionChanged(index int) error

	// OnFrameTick advances the transition to the given clock reading and publishes the result.
	//
	// Parameters:
	//   - clockElapsed: the frame clock's elapsed seconds
	OnFrameTick(clockElapsed float64)

	// SetDuration changes the transition length. An open transition uses it from the next tick.
	//
	// Parameters:
	//   - seconds: the new duration
	//
	// Returns:
	//   - error: ErrInvalidDuration if seconds is not positive and finite
	SetDuration(seconds float64) error

	// SetCurve replaces the easing curve. A nil curve restores the default.
	//
	// Parameters:
	//   - c: the curve
	SetCurve(c curve.Curve)

	// SetRenderer attaches or, with nil, detaches the renderer.
	// The current model pair is pushed to a newly attached renderer on the next tick.
	//
	// Parameters:
	//   - r: the renderer
	SetRenderer(r pointsfx.Renderer)

	// State returns a snapshot of the transition record.
	//
	// Returns:
	//   - TransitionState: the snapshot
	State() TransitionState

	// Phase returns whether a transition is open.
	//
	// Returns:
	//   - Phase: the current phase
	Phase() Phase

	// ModelCount returns the number of selectable models.
	//
	// Returns:
	//   - int: the model count
	ModelCount() int
}

type controller struct {
	mu         *sync.Mutex
	logger     *slog.Logger
	modelCount int
	curve      curve.Curve
	renderer   pointsfx.Renderer
	hooks      Hooks

	restartOnSameTarget bool

	state     TransitionState
	pairDirty bool
}

var _ Controller = &controller{}

// NewController creates a Controller over modelCount selectable models. It starts idle with no
// settled or target model.
//
// Parameters:
//   - modelCount: the number of models that can be selected
//   - options: functional options
//
// Returns:
//   - Controller: the controller
//   - error: ErrInvalidModelCount or ErrInvalidDuration for unusable configuration
func NewController(modelCount int, options ...ControllerBuilderOption) (Controller, error) {
	c := &controller{
		mu:                  &sync.Mutex{},
		logger:              slog.New(slog.DiscardHandler),
		modelCount:          modelCount,
		curve:               curve.Default(),
		restartOnSameTarget: true,
		state:               idleState(DefaultDuration),
	}
	for _, opt := range options {
		opt(c)
	}

	if modelCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidModelCount, modelCount)
	}
	if err := validateDuration(c.state.Duration); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *controller) OnSelectionChanged(index int) error {
	if index < 0 || index >= c.modelCount {
		c.logger.Warn("selection ignored", "index", index, "models", c.modelCount)
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSelectionOutOfRange, index, c.modelCount)
	}

	c.mu.Lock()
	prev := c.state
	if !c.restartOnSameTarget && isRepeat(prev, index) {
		c.mu.Unlock()
		c.logger.Debug("repeated selection ignored", "index", index)
		return nil
	}

	// Target, start anchor and committed flag change together so a concurrent tick never
	// sees a new target with the old anchor.
	c.state.TargetModel = index
	c.state.Started = false
	c.state.StartTime = 0
	c.state.Committed = false
	c.pairDirty = true
	settled := c.state.SettledModel
	hooks := c.hooks
	c.mu.Unlock()

	if !prev.Committed {
		c.logger.Debug("transition abandoned", "target", prev.TargetModel, "progress", prev.Progress)
		if hooks.OnTransitionAbandoned != nil {
			hooks.OnTransitionAbandoned(prev.TargetModel)
		}
	}
	c.logger.Debug("transition requested", "settled", settled, "target", index)
	if hooks.OnTransitionStart != nil {
		hooks.OnTransitionStart(settled, index)
	}
	return nil
}

func (c *controller) OnFrameTick(clockElapsed float64) {
	c.mu.Lock()
	s := &c.state
	if !s.Started {
		s.StartTime = clockElapsed
		s.Started = true
	}

	elapsed := clockElapsed - s.StartTime
	// Commit is decided on the float64 ratio; narrowing first rounds ratios near 1 up to 1.
	ratio := common.Clamp(elapsed/s.Duration, 0, 1)
	s.Progress = c.curve.Evaluate(float32(ratio))

	committed := false
	if ratio >= 1 && !s.Committed {
		s.SettledModel = s.TargetModel
		s.Committed = true
		c.pairDirty = true
		committed = true
	}

	progress, settled, target := s.Progress, s.SettledModel, s.TargetModel
	renderer, hooks := c.renderer, c.hooks
	pushPair := c.pairDirty && renderer != nil
	if pushPair {
		c.pairDirty = false
	}
	c.mu.Unlock()

	if committed {
		c.logger.Info("transition committed", "model", settled, "took", elapsed)
		if hooks.OnCommit != nil {
			hooks.OnCommit(settled, elapsed)
		}
	}

	if renderer != nil {
		if pushPair {
			renderer.SetModels(settled, target)
		}
		renderer.UpdateProgress(progress)
		renderer.UpdateTime(float32(clockElapsed))
	}
	if hooks.OnPublish != nil {
		hooks.OnPublish(progress, clockElapsed, renderer != nil)
	}
}

func (c *controller) SetDuration(seconds float64) error {
	if err := validateDuration(seconds); err != nil {
		c.logger.Warn("duration rejected", "seconds", seconds)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Duration = seconds
	return nil
}

func (c *controller) SetCurve(cv curve.Curve) {
	if cv == nil {
		cv = curve.Default()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.curve = cv
}

func (c *controller) SetRenderer(r pointsfx.Renderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderer = r
	c.pairDirty = true
}

func (c *controller) State() TransitionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *controller) Phase() Phase {
	return c.State().Phase()
}

func (c *controller) ModelCount() int {
	return c.modelCount
}

// isRepeat reports whether index repeats what the record already points at:
// the pending target of an open transition, or the settled model while idle.
func isRepeat(s TransitionState, index int) bool {
	if s.Committed {
		return s.SettledModel == index
	}
	return s.TargetModel == index
}

func validateDuration(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDuration, seconds)
	}
	return nil
}
