package uniform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// TextureTransformUniform holds the UV transform applied before sampling.
type TextureTransformUniform struct {
	value  GPUTextureTransformUniform
	buffer gpu.Buffer
}

// TextureTransformMatrix builds translation * rotation * scale in UV space.
// A positive rotation turns the UVs counter-clockwise, as in the
// KHR_texture_transform glTF extension.
//
// Parameters:
//   - offset: UV translation
//   - rotation: rotation in radians
//   - scale: UV scale
//
// Returns:
//   - mgl32.Mat3: the column-major transform
func TextureTransformMatrix(offset mgl32.Vec2, rotation float32, scale mgl32.Vec2) mgl32.Mat3 {
	t := mgl32.Translate2D(offset.X(), offset.Y())
	r := mgl32.HomogRotate2D(-rotation)
	s := mgl32.Scale2D(scale.X(), scale.Y())
	return t.Mul3(r).Mul3(s)
}

// NewTextureTransformUniform creates the uniform and its device buffer.
//
// Parameters:
//   - device: the device to allocate on
//   - label: debug label of the buffer
//   - matrix: the UV transform
//
// Returns:
//   - *TextureTransformUniform: the uniform
//   - error: an error if the buffer could not be created
func NewTextureTransformUniform(device gpu.Device, label string, matrix mgl32.Mat3) (*TextureTransformUniform, error) {
	u := &TextureTransformUniform{}
	u.Set(matrix)
	buf, err := device.CreateBuffer(label, gpu.BufferUniform, u.value.Marshal())
	if err != nil {
		return nil, err
	}
	u.buffer = buf
	return u, nil
}

// Set replaces the host matrix.
func (u *TextureTransformUniform) Set(matrix mgl32.Mat3) {
	for col := range 3 {
		c := matrix.Col(col)
		u.value.Matrix[col*4+0] = c[0]
		u.value.Matrix[col*4+1] = c[1]
		u.value.Matrix[col*4+2] = c[2]
		u.value.Matrix[col*4+3] = 0
	}
}

// Update writes the host value to the device buffer.
func (u *TextureTransformUniform) Update(device gpu.Device) {
	device.WriteBuffer(u.buffer, 0, u.value.Marshal())
}

// Buffer returns the device buffer.
func (u *TextureTransformUniform) Buffer() gpu.Buffer {
	return u.buffer
}
