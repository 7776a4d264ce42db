package morph

import "fmt"

// NoModel marks an unset model index.
const NoModel = -1

// Phase is the externally visible state of the controller.
type Phase int

const (
	// PhaseIdle means the last transition has committed and nothing is pending.
	PhaseIdle Phase = iota

	// PhaseTransitioning means a transition is open and has not committed yet.
	PhaseTransitioning
)

// String returns a readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTransitioning:
		return "transitioning"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// TransitionState is a snapshot of the controller's transition record.
type TransitionState struct {
	// StartTime is the clock reading the current transition is anchored to. Only meaningful when Started.
	StartTime float64

	// Started is false between a selection change and the first frame tick that follows it.
	Started bool

	// Progress is the last curve output, not clamped.
	Progress float32

	// SettledModel is the committed model (A), or NoModel before the first commit.
	SettledModel int

	// TargetModel is the model being transitioned to (B), or NoModel before the first selection.
	TargetModel int

	// Committed is true once the current transition's completion has been acted on.
	Committed bool

	// Duration is the transition length in seconds shared by all transitions.
	Duration float64
}

// Phase derives the controller phase from the snapshot.
//
// Returns:
//   - Phase: PhaseTransitioning while uncommitted, PhaseIdle otherwise
func (s TransitionState) Phase() Phase {
	if s.Committed {
		return PhaseIdle
	}
	return PhaseTransitioning
}

// idleState is the record a controller starts with: nothing selected, nothing pending.
func idleState(duration float64) TransitionState {
	return TransitionState{
		SettledModel: NoModel,
		TargetModel:  NoModel,
		Committed:    true,
		Duration:     duration,
	}
}
