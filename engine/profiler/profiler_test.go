package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	var reports []Report
	p := NewProfiler(
		WithNow(ft.now),
		WithInterval(500*time.Millisecond),
		WithReporter(func(r Report) { reports = append(reports, r) }),
	)

	for range 9 {
		ft.t = ft.t.Add(50 * time.Millisecond)
		_, ok := p.Tick()
		assert.False(t, ok)
	}
	ft.t = ft.t.Add(50 * time.Millisecond)
	r, ok := p.Tick()
	require.True(t, ok)

	assert.Equal(t, 10, r.Frames)
	assert.InDelta(t, 20.0, r.FPS, 1e-9)
	assert.Equal(t, 500*time.Millisecond, r.Interval)
	assert.NotZero(t, r.HeapAlloc)
	require.Len(t, reports, 1)
	assert.Equal(t, r, reports[0])

	ft.t = ft.t.Add(10 * time.Millisecond)
	_, ok = p.Tick()
	assert.False(t, ok, "frame count and interval restart after a report")
}

func TestDefaultInterval(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	p := NewProfiler(WithNow(ft.now), WithInterval(-1))

	ft.t = ft.t.Add(999 * time.Millisecond)
	_, ok := p.Tick()
	assert.False(t, ok)

	ft.t = ft.t.Add(time.Millisecond)
	_, ok = p.Tick()
	assert.True(t, ok)
}
