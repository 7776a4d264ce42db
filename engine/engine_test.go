package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-morph/engine/clock"
	"github.com/Carmen-Shannon/oxy-morph/engine/profiler"
)

func TestHeadlessRunTicksUntilQuit(t *testing.T) {
	clk := clock.NewManualClock(2.5)
	e := NewEngine(WithClock(clk), WithTickRate(500))
	assert.Nil(t, e.Window())
	assert.Same(t, clk, e.Clock())

	var ticks atomic.Int32
	var lastElapsed atomic.Value
	e.SetTickCallback(func(elapsed float64, dt float32) {
		lastElapsed.Store(elapsed)
		if ticks.Add(1) == 5 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after Quit")
	}
	assert.GreaterOrEqual(t, ticks.Load(), int32(5))
	assert.Equal(t, 2.5, lastElapsed.Load())
}

func TestRenderCallbackAndProfiler(t *testing.T) {
	var reports atomic.Int32
	p := profiler.NewProfiler(
		profiler.WithInterval(time.Millisecond),
		profiler.WithReporter(func(profiler.Report) { reports.Add(1) }),
	)
	e := NewEngine(WithProfiler(p), WithRenderFrameLimit(1000))

	var frames atomic.Int32
	e.SetRenderCallback(func(dt float32) {
		assert.GreaterOrEqual(t, dt, float32(0))
		if frames.Add(1) == 20 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after Quit")
	}
	require.GreaterOrEqual(t, frames.Load(), int32(20))
	assert.Positive(t, reports.Load())
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	var stopped atomic.Int32
	e.SetStopCallback(func() { stopped.Add(1) })
	e.Quit()
	e.Quit()

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run after Quit must return")
	}
	assert.Equal(t, int32(1), stopped.Load())
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := NewEngine().(*engine)
	e.SetRenderFrameLimit(100)
	assert.Equal(t, 10*time.Millisecond, e.renderFrameLimit)
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)

	e.SetTickRate(0)
	assert.Equal(t, time.Duration(float64(time.Second)/60), e.engineTickRate)
}
