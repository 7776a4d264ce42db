package morph

// Hooks are optional callbacks for transition lifecycle events.
// They are invoked on the calling goroutine after the controller has released its lock,
// so a hook may call back into the controller.
type Hooks struct {
	// OnTransitionStart is called when a selection opens a transition from the settled model to target.
	OnTransitionStart func(settled, target int)

	// OnTransitionAbandoned is called when a selection arrives before the open transition toward target committed.
	OnTransitionAbandoned func(target int)

	// OnCommit is called exactly once per transition, when model becomes the settled model.
	// took is the rendered time in seconds between the transition's first tick and the commit tick.
	OnCommit func(model int, took float64)

	// OnPublish is called every tick after progress and time have been handed to the renderer.
	// published is false when no renderer was attached.
	OnPublish func(progress float32, elapsed float64, published bool)
}

// merge returns hooks that call h's callbacks followed by other's.
func (h Hooks) merge(other Hooks) Hooks {
	return Hooks{
		OnTransitionStart:     chain2(h.OnTransitionStart, other.OnTransitionStart),
		OnTransitionAbandoned: chain1(h.OnTransitionAbandoned, other.OnTransitionAbandoned),
		OnCommit:              chain2(h.OnCommit, other.OnCommit),
		OnPublish:             chain3(h.OnPublish, other.OnPublish),
	}
}

func chain1[A any](a, b func(A)) func(A) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A) { a(x); b(x) }
}

func chain2[A, B any](a, b func(A, B)) func(A, B) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A, y B) { a(x, y); b(x, y) }
}

func chain3[A, B, C any](a, b func(A, B, C)) func(A, B, C) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A, y B, z C) { a(x, y, z); b(x, y, z) }
}
