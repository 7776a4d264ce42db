// Package camera provides the orbit camera the point cloud is viewed through.
package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-morph/common"
)

// Camera orbits a target point on a sphere and produces view-projection matrices for the point shader.
type Camera interface {
	// Orbit rotates the camera around the target. Elevation is clamped to the configured bounds.
	//
	// Parameters:
	//   - dAzimuth: change of the horizontal angle in radians
	//   - dElevation: change of the vertical angle in radians
	Orbit(dAzimuth, dElevation float32)

	// Zoom moves the camera toward (positive) or away from (negative) the target.
	// The radius is clamped to the configured bounds.
	//
	// Parameters:
	//   - delta: zoom steps, scaled by the zoom speed
	Zoom(delta float32)

	// Update advances automatic rotation.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last update
	Update(dt float32)

	// Position returns the eye position.
	//
	// Returns:
	//   - [3]float32: the eye position in world space
	Position() [3]float32

	// Radius returns the distance to the target.
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// ViewProjection returns projection * view for the given viewport aspect ratio.
	//
	// Parameters:
	//   - aspect: width / height
	//
	// Returns:
	//   - [16]float32: the column-major matrix
	ViewProjection(aspect float32) [16]float32
}

type orbitCamera struct {
	mu *sync.Mutex

	target    [3]float32
	radius    float32
	azimuth   float32
	elevation float32

	minRadius, maxRadius       float32
	minElevation, maxElevation float32
	zoomSpeed                  float32
	autoRotate                 float32

	fov, near, far float32
}

var _ Camera = &orbitCamera{}

// NewCamera creates an orbit camera five units from the origin, slightly above the horizon.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Camera: the camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &orbitCamera{
		mu:           &sync.Mutex{},
		radius:       5,
		elevation:    math32.Pi / 12,
		minRadius:    0.5,
		maxRadius:    50,
		minElevation: -math32.Pi/2 + 0.01,
		maxElevation: math32.Pi/2 - 0.01,
		zoomSpeed:    0.25,
		fov:          math32.Pi / 4,
		near:         0.1,
		far:          200,
	}
	for _, opt := range options {
		opt(c)
	}
	c.radius = common.Clamp(c.radius, c.minRadius, c.maxRadius)
	c.elevation = common.Clamp(c.elevation, c.minElevation, c.maxElevation)
	return c
}

func (c *orbitCamera) Orbit(dAzimuth, dElevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth = math32.Mod(c.azimuth+dAzimuth, 2*math32.Pi)
	c.elevation = common.Clamp(c.elevation+dElevation, c.minElevation, c.maxElevation)
}

func (c *orbitCamera) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(c.radius-delta*c.zoomSpeed, c.minRadius, c.maxRadius)
}

func (c *orbitCamera) Update(dt float32) {
	if c.autoRotate == 0 || dt <= 0 {
		return
	}
	c.Orbit(c.autoRotate*dt, 0)
}

func (c *orbitCamera) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *orbitCamera) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *orbitCamera) ViewProjection(aspect float32) [16]float32 {
	if aspect <= 0 {
		aspect = 1
	}
	c.mu.Lock()
	eye := c.position()
	target := c.target
	fov, near, far := c.fov, c.near, c.far
	c.mu.Unlock()

	var view, proj, out [16]float32
	common.LookAt(view[:], eye, target, [3]float32{0, 1, 0})
	common.Perspective(proj[:], fov, aspect, near, far)
	common.Mul4(out[:], proj[:], view[:])
	return out
}

// position converts the spherical coordinates to a world-space eye position. Callers hold mu.
func (c *orbitCamera) position() [3]float32 {
	cosEl := math32.Cos(c.elevation)
	return [3]float32{
		c.target[0] + c.radius*cosEl*math32.Sin(c.azimuth),
		c.target[1] + c.radius*math32.Sin(c.elevation),
		c.target[2] + c.radius*cosEl*math32.Cos(c.azimuth),
	}
}
