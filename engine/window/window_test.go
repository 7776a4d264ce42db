package window

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDragTracker(t *testing.T) {
	var d dragTracker

	_, _, ok := d.move(10, 10)
	assert.False(t, ok, "no button held")

	d.press(10, 10)
	dx, dy, ok := d.move(15, 7)
	assert.True(t, ok)
	assert.Equal(t, float32(5), dx)
	assert.Equal(t, float32(-3), dy)

	dx, dy, ok = d.move(15, 7)
	assert.True(t, ok)
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	// A second button keeps the drag alive until both are released.
	d.press(15, 7)
	d.release()
	_, _, ok = d.move(20, 7)
	assert.True(t, ok)

	d.release()
	_, _, ok = d.move(25, 7)
	assert.False(t, ok)

	d.release()
	assert.Zero(t, d.held)
}

func TestSetTitleIsTakenOnce(t *testing.T) {
	w := &engineWindow{mu: &sync.Mutex{}, title: "start"}

	_, ok := w.takeTitle()
	assert.False(t, ok)

	w.SetTitle("first")
	w.SetTitle("second")
	title, ok := w.takeTitle()
	assert.True(t, ok)
	assert.Equal(t, "second", title)
	assert.Equal(t, "second", w.title)

	_, ok = w.takeTitle()
	assert.False(t, ok)
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{mu: &sync.Mutex{}}
	for _, opt := range []WindowBuilderOption{
		WithTitle("morph"),
		WithSize(800, 600),
		WithMinSize(100, 50),
		WithMaxSize(1000, 900),
	} {
		opt(w)
	}
	assert.Equal(t, "morph", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, []int{100, 50, 1000, 900}, []int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
}

func TestBuilderZeroKeepsDefaults(t *testing.T) {
	w := &engineWindow{
		mu: &sync.Mutex{}, title: "oxy-morph",
		width: 1280, height: 720,
		minWidth: 320, minHeight: 240,
		maxWidth: 3840, maxHeight: 2160,
	}
	for _, opt := range []WindowBuilderOption{
		WithTitle(""),
		WithSize(0, 900),
		WithMinSize(640, 0),
		WithMaxSize(0, 0),
	} {
		opt(w)
	}
	assert.Equal(t, "oxy-morph", w.title)
	assert.Equal(t, []int{1280, 900}, []int{w.Width(), w.Height()})
	assert.Equal(t, []int{640, 240, 3840, 2160}, []int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
}

func TestPlatformCallsWithoutGLFWWindow(t *testing.T) {
	for _, internal := range []any{nil, (*glfwWindow)(nil), &glfwWindow{}, "not a window"} {
		w := &engineWindow{mu: &sync.Mutex{}, internalWindow: internal}
		assert.NotPanics(t, func() {
			platformSetTitle(w, "title")
			platformRequestClose(w)
		})
		assert.Nil(t, platformGetSurfaceDescriptor(w))
		assert.False(t, platformIsRunningCheck(w))
		assert.ErrorIs(t, platformCloseWindow(w), ErrNotInitialized)
	}
}
