package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// maxPitch keeps the free camera from flipping over the vertical.
const maxPitch float32 = 89.0

type cameraImpl struct {
	mu *sync.Mutex

	data   Data
	aspect float32
}

// Camera is the free camera used when no scene camera is enabled.
// It is safe for concurrent use by an input goroutine and the render loop.
type Camera interface {
	// Data returns a snapshot of the camera view and projection.
	//
	// Returns:
	//   - Data: the current camera data
	Data() Data

	// SetData replaces the camera view and projection.
	//
	// Parameters:
	//   - data: the new camera data
	SetData(data Data)

	// View returns the current view.
	//
	// Returns:
	//   - View: eye position, yaw and pitch
	View() View

	// Projection returns the current projection.
	//
	// Returns:
	//   - Projection: the projection parameters
	Projection() Projection

	// Aspect returns the surface aspect ratio used when the projection has none.
	//
	// Returns:
	//   - float32: width / height
	Aspect() float32

	// SetAspect sets the surface aspect ratio.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// MoveEye translates the eye by offset.
	//
	// Parameters:
	//   - offset: world-space movement
	MoveEye(offset mgl32.Vec3)

	// Rotate turns the camera. Pitch is clamped to +/-89 degrees.
	//
	// Parameters:
	//   - yaw: degrees added to the yaw
	//   - pitch: degrees added to the pitch
	Rotate(yaw, pitch float32)

	// Matrix returns the combined view-projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: projection * view
	Matrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a free camera starting from DefaultData.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		data:   DefaultData(),
		aspect: 1.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Data() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

func (c *cameraImpl) SetData(data Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
}

func (c *cameraImpl) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.View
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Projection
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) MoveEye(offset mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.View.Eye = c.data.View.Eye.Add(offset)
}

func (c *cameraImpl) Rotate(yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.View.Yaw += yaw
	c.data.View.Pitch = mgl32.Clamp(c.data.View.Pitch+pitch, -maxPitch, maxPitch)
}

func (c *cameraImpl) Matrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Matrix(c.aspect)
}
