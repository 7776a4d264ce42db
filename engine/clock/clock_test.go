package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockMeasuresFromOrigin(t *testing.T) {
	origin := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := origin
	c := &systemClock{start: origin, now: func() time.Time { return current }}

	assert.Equal(t, 0.0, c.ElapsedTime())

	current = origin.Add(1500 * time.Millisecond)
	assert.InDelta(t, 1.5, c.ElapsedTime(), 1e-9)
}

func TestNewClockIsMonotonic(t *testing.T) {
	c := NewClock()
	first := c.ElapsedTime()
	second := c.ElapsedTime()
	assert.GreaterOrEqual(t, second, first)
	assert.GreaterOrEqual(t, first, 0.0)
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(-3)
	assert.Equal(t, 0.0, c.ElapsedTime())

	assert.Equal(t, 0.5, c.Advance(0.5))
	assert.Equal(t, 0.5, c.Advance(-1), "negative advance must be ignored")
	assert.Equal(t, 2.0, c.Set(2))
	assert.Equal(t, 2.0, c.Set(1), "setting backwards must be ignored")
	assert.Equal(t, 2.0, c.ElapsedTime())
}
