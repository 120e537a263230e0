package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithEye sets the camera's eye position.
//
// Parameters:
//   - x, y, z: world-space eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets the eye position
func WithEye(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.data.View.Eye = mgl32.Vec3{x, y, z}
	}
}

// WithYawPitch sets the camera's look direction in degrees.
//
// Parameters:
//   - yaw: horizontal angle in degrees
//   - pitch: vertical angle in degrees, clamped to +/-89
//
// Returns:
//   - CameraBuilderOption: a function that sets the look direction
func WithYawPitch(yaw, pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.data.View.Yaw = yaw
		c.data.View.Pitch = mgl32.Clamp(pitch, -maxPitch, maxPitch)
	}
}

// WithProjection replaces the default projection.
//
// Parameters:
//   - projection: the projection to use
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjection(projection Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.data.Projection = projection
	}
}

// WithAspect sets the surface aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}
