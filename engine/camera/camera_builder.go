package camera

// CameraBuilderOption is a functional option for configuring a Camera during construction.
type CameraBuilderOption func(*orbitCamera)

// WithTarget sets the point the camera orbits around.
//
// Parameters:
//   - x, y, z: the target in world space
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithTarget(x, y, z float32) CameraBuilderOption {
	return func(c *orbitCamera) {
		c.target = [3]float32{x, y, z}
	}
}

// WithRadius sets the initial distance to the target.
//
// Parameters:
//   - radius: the distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithRadius(radius float32) CameraBuilderOption {
	return func(c *orbitCamera) {
		c.radius = radius
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - min: the closest distance
//   - max: the farthest distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithRadiusBounds(min, max float32) CameraBuilderOption {
	return func(c *orbitCamera) {
		c.minRadius, c.maxRadius = min, max
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
//
// Parameters:
//   - azimuth: the horizontal angle around +Y, 0 looks down -Z
//   - elevation: the angle above the horizontal plane
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAngles(azimuth, elevation float32) CameraBuilderOption {
	return func(c *orbitCamera) {
		c.azimuth, c.elevation = azimuth, elevation
	}
}

// WithFov sets the vertical field of view in radians.
//
// Parameters:
//   - fov: the field of view
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *orbitCamera) {
		if fov > 0 {
			c.fov = fov
		}
	}
}

// WithZoomSpeed sets the distance moved per zoom step.
//
// Parameters:
//   - speed: the zoom speed
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithZoomSpeed(speed float32) CameraBuilderOption {
	return func(c *orbitCamera) {
		c.zoomSpeed = speed
	}
}

// WithAutoRotate makes Update spin the camera around the target.
//
// Parameters:
//   - radiansPerSecond: the azimuth speed, 0 to disable
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAutoRotate(radiansPerSecond float32) CameraBuilderOption {
	return func(c *orbitCamera) {
		c.autoRotate = radiansPerSecond
	}
}
