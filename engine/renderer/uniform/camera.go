package uniform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// CameraUniform holds the view, projection and eye position of the active camera.
type CameraUniform struct {
	value  GPUCameraUniform
	buffer gpu.Buffer
}

// NewCameraUniform creates the uniform with identity matrices and its device buffer.
//
// Parameters:
//   - device: the device to allocate on
//
// Returns:
//   - *CameraUniform: the uniform
//   - error: an error if the buffer could not be created
func NewCameraUniform(device gpu.Device) (*CameraUniform, error) {
	u := &CameraUniform{}
	u.value.View = mgl32.Ident4()
	u.value.Proj = mgl32.Ident4()
	u.value.Position = [4]float32{0, 0, 0, 1}
	buf, err := device.CreateBuffer("Camera Uniform Buffer", gpu.BufferUniform, u.value.Marshal())
	if err != nil {
		return nil, err
	}
	u.buffer = buf
	return u, nil
}

// Set replaces the host value from camera data.
//
// Parameters:
//   - data: the camera view and projection
//   - defaultAspect: the surface aspect used when the projection has none
func (u *CameraUniform) Set(data camera.Data, defaultAspect float32) {
	u.value.View = data.View.Matrix()
	u.value.Proj = data.Projection.Matrix(defaultAspect)
	eye := data.View.Eye
	u.value.Position = [4]float32{eye[0], eye[1], eye[2], 1}
}

// Value returns the host value.
func (u *CameraUniform) Value() GPUCameraUniform {
	return u.value
}

// Update writes the host value to the device buffer.
func (u *CameraUniform) Update(device gpu.Device) {
	device.WriteBuffer(u.buffer, 0, u.value.Marshal())
}

// Buffer returns the device buffer.
func (u *CameraUniform) Buffer() gpu.Buffer {
	return u.buffer
}
