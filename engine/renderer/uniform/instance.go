package uniform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// InstanceUniform holds the world transform of one node subtree.
type InstanceUniform struct {
	value  GPUTransform
	buffer gpu.Buffer
}

// NewInstanceUniform creates the uniform for a world transform and its device buffer.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label of the buffer
//   - transform: the initial world transform
//
// Returns:
//   - *InstanceUniform: the uniform
//   - error: an error if the buffer could not be created
func NewInstanceUniform(device gpu.Device, label string, transform mgl32.Mat4) (*InstanceUniform, error) {
	u := &InstanceUniform{value: NewGPUTransform(transform)}
	buf, err := device.CreateBuffer(label, gpu.BufferUniform, u.value.Marshal())
	if err != nil {
		return nil, err
	}
	u.buffer = buf
	return u, nil
}

// Set replaces the host transform.
func (u *InstanceUniform) Set(transform mgl32.Mat4) {
	u.value = NewGPUTransform(transform)
}

// Transform returns the host transform.
func (u *InstanceUniform) Transform() mgl32.Mat4 {
	return u.value.Transform
}

// Update writes the host value to the device buffer.
func (u *InstanceUniform) Update(device gpu.Device) {
	device.WriteBuffer(u.buffer, 0, u.value.Marshal())
}

// Buffer returns the device buffer.
func (u *InstanceUniform) Buffer() gpu.Buffer {
	return u.buffer
}
