// Package clock provides the frame clock sampled once per rendered frame.
// Elapsed time is reported in fractional seconds from an arbitrary but stable origin.
package clock

import (
	"sync"
	"time"
)

// Clock is a monotonically non-decreasing source of elapsed time.
type Clock interface {
	// ElapsedTime returns the seconds elapsed since the clock's origin.
	//
	// Returns:
	//   - float64: elapsed seconds, never smaller than a previously returned value
	ElapsedTime() float64
}

// systemClock measures elapsed wall time using the monotonic reading of time.Time.
type systemClock struct {
	start time.Time
	now   func() time.Time
}

var _ Clock = &systemClock{}

// NewClock creates a Clock whose origin is the moment of construction.
//
// Returns:
//   - Clock: the wall clock
func NewClock() Clock {
	return &systemClock{
		start: time.Now(),
		now:   time.Now,
	}
}

func (c *systemClock) ElapsedTime() float64 {
	return c.now().Sub(c.start).Seconds()
}

// ManualClock is a Clock advanced explicitly by the caller.
// It is used by headless simulation and tests where frame timing must be deterministic.
type ManualClock struct {
	mu      sync.Mutex
	elapsed float64
}

var _ Clock = &ManualClock{}

// NewManualClock creates a ManualClock starting at the given elapsed time.
//
// Parameters:
//   - start: the initial elapsed time in seconds
//
// Returns:
//   - *ManualClock: the manual clock
func NewManualClock(start float64) *ManualClock {
	return &ManualClock{elapsed: max(start, 0)}
}

func (c *ManualClock) ElapsedTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Advance moves the clock forward by d seconds. Negative values are ignored to keep the clock monotonic.
//
// Parameters:
//   - d: seconds to advance
//
// Returns:
//   - float64: the new elapsed time
func (c *ManualClock) Advance(d float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.elapsed += d
	}
	return c.elapsed
}

// Set jumps the clock to t seconds. Values earlier than the current reading are ignored.
//
// Parameters:
//   - t: the target elapsed time in seconds
//
// Returns:
//   - float64: the new elapsed time
func (c *ManualClock) Set(t float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.elapsed {
		c.elapsed = t
	}
	return c.elapsed
}
