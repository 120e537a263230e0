package uniform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// JointUniform holds the skinning matrices of one skin in a storage buffer.
type JointUniform struct {
	items  []GPUTransform
	buffer gpu.Buffer
}

func checkJointCount(n int) {
	if n > MaxJoints {
		panic(fmt.Sprintf("joint count %d exceeds the maximum of %d", n, MaxJoints))
	}
}

// NewJointUniform creates the joint buffer. It panics when more than
// MaxJoints matrices are given.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label of the buffer
//   - items: the skinning matrices, one per joint
//
// Returns:
//   - *JointUniform: the uniform
//   - error: an error if the buffer could not be created
func NewJointUniform(device gpu.Device, label string, items []mgl32.Mat4) (*JointUniform, error) {
	checkJointCount(len(items))
	u := &JointUniform{}
	u.Set(items)
	buf, err := device.CreateBuffer(label, gpu.BufferStorage, u.marshal())
	if err != nil {
		return nil, err
	}
	u.buffer = buf
	return u, nil
}

// Set replaces the skinning matrices. The count must not change after creation
// and must not exceed MaxJoints.
func (u *JointUniform) Set(items []mgl32.Mat4) {
	checkJointCount(len(items))
	if cap(u.items) < len(items) {
		u.items = make([]GPUTransform, len(items))
	}
	u.items = u.items[:len(items)]
	for i, m := range items {
		u.items[i] = NewGPUTransform(m)
	}
}

// Len returns the number of joints.
func (u *JointUniform) Len() int {
	return len(u.items)
}

// Item returns the skinning matrix of joint i.
func (u *JointUniform) Item(i int) mgl32.Mat4 {
	return u.items[i].Transform
}

func (u *JointUniform) marshal() []byte {
	var item GPUTransform
	size := item.Size()
	// Storage bindings may not be empty.
	buf := make([]byte, max(1, len(u.items))*size)
	for i := range u.items {
		u.items[i].MarshalTo(buf[i*size:])
	}
	return buf
}

// Update writes the host value to the device buffer.
func (u *JointUniform) Update(device gpu.Device) {
	device.WriteBuffer(u.buffer, 0, u.marshal())
}

// Buffer returns the device buffer.
func (u *JointUniform) Buffer() gpu.Buffer {
	return u.buffer
}
