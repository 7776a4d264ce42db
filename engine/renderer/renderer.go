// Package renderer presents the point morph on a window surface through WebGPU.
//
// The Renderer owns every GPU object the morph needs: the point pipeline, one uniform buffer per
// uniform binding, one position texture per model, the random vertex attribute buffer and a
// bind group per model pair. Each Render call drains the staged writes of a
// pointsfx.UniformRenderer, binds the textures of the pair currently being morphed and draws
// every point once.
package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrFrameInFlight is returned by Render when the previous surface texture was never presented.
var ErrFrameInFlight = errors.New("renderer: previous frame surface not yet presented")

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// Surface is the window side of the renderer.
type Surface interface {
	// SurfaceDescriptor returns the platform descriptor used to create the WebGPU surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// Renderer draws the point morph to a window surface.
type Renderer interface {
	// Render uploads pending uniform writes and draws one frame.
	//
	// Returns:
	//   - error: ErrFrameInFlight, or an error acquiring the surface texture or encoding the frame
	Render() error

	// Resize reconfigures the surface for a new framebuffer size.
	// Zero sizes (minimized windows) are remembered and skip rendering until restored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetClearColor sets the background color of the render pass.
	//
	// Parameters:
	//   - c: RGBA color with channels in [0, 1]
	SetClearColor(c [4]float32)

	// Release frees every GPU resource owned by the renderer.
	Release()
}
