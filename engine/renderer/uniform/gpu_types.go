package uniform

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
)

const (
	// MaxPointLights is the number of point light slots in the light uniform.
	MaxPointLights = 128
	// MaxDirectionalLights is the number of directional light slots in the light uniform.
	MaxDirectionalLights = 64
	// MaxParallelLights is the number of parallel light slots in the light uniform.
	MaxParallelLights = 16
	// MaxJoints is the largest joint count one skin may upload.
	MaxJoints = 1024
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPULightUniformSource is the canonical WGSL definition of the LightUniform struct and its items.
//
//go:embed assets/light_uniform.wgsl
var GPULightUniformSource string

// GPUInstanceUniformSource is the canonical WGSL definition of the InstanceUniform struct.
//
//go:embed assets/instance_uniform.wgsl
var GPUInstanceUniformSource string

// GPUJointItemSource is the canonical WGSL definition of one joint matrix entry.
//
//go:embed assets/joint_uniform.wgsl
var GPUJointItemSource string

// GPUTextureTransformUniformSource is the canonical WGSL definition of the TextureTransformUniform struct.
//
//go:embed assets/texture_transform_uniform.wgsl
var GPUTextureTransformUniformSource string

// GPUCameraUniform is the GPU-aligned camera data.
// Size: 144 bytes.
type GPUCameraUniform struct {
	View     [16]float32 // offset   0: view matrix
	Proj     [16]float32 // offset  64: projection matrix
	Position [4]float32  // offset 128: eye position, w = 1
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, g.View[:]...)
	off += common.PutFloat32s(buf[off:], g.Proj[:]...)
	common.PutFloat32s(buf[off:], g.Position[:]...)
	return buf
}

// GPUTransform is a model matrix with its normal matrix, shared by the
// instance uniform and every joint entry.
// Size: 112 bytes.
type GPUTransform struct {
	Transform [16]float32 // offset  0: model matrix
	Normal    [12]float32 // offset 64: inverse-transpose 3x3, columns padded to vec4
}

// NewGPUTransform fills the transform and derives its normal matrix.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - GPUTransform: the GPU layout of m
func NewGPUTransform(m mgl32.Mat4) GPUTransform {
	return GPUTransform{Transform: m, Normal: common.NormalMatrix(m)}
}

// Size returns the size of the GPUTransform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUTransform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo writes the transform into buf, which must hold Size() bytes.
func (g *GPUTransform) MarshalTo(buf []byte) {
	off := common.PutFloat32s(buf, g.Transform[:]...)
	common.PutFloat32s(buf[off:], g.Normal[:]...)
}

// Marshal serializes the GPUTransform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUTransform) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// GPUPointLight is one point light slot.
// Size: 48 bytes.
type GPUPointLight struct {
	Position  [3]float32 // offset  0
	_pad0     float32    // offset 12
	Color     [3]float32 // offset 16
	Constant  float32    // offset 28
	Linear    float32    // offset 32
	Quadratic float32    // offset 36
	_pad1     [2]float32 // offset 40
}

// GPUDirectionalLight is one directional light slot.
// Size: 64 bytes.
type GPUDirectionalLight struct {
	Position   [3]float32 // offset  0
	Constant   float32    // offset 12
	Direction  [3]float32 // offset 16
	Linear     float32    // offset 28
	Color      [3]float32 // offset 32
	Quadratic  float32    // offset 44
	RangeInner float32    // offset 48
	RangeOuter float32    // offset 52
	_pad       [2]float32 // offset 56
}

// GPUParallelLight is one parallel light slot.
// Size: 32 bytes.
type GPUParallelLight struct {
	Direction [3]float32 // offset  0
	_pad      float32    // offset 12
	Color     [3]float32 // offset 16
	Strength  float32    // offset 28
}

// GPULightUniform is the GPU-aligned light block: a 48-byte header followed
// by fixed arrays of every light kind.
// Size: 10800 bytes.
type GPULightUniform struct {
	PointLength       uint32            // offset 0
	DirectionalLength uint32            // offset 4
	ParallelLength    uint32            // offset 8
	Param             light.GlobalParam // offset 12, 28 bytes
	_pad              [2]float32        // offset 40
	Point             [MaxPointLights]GPUPointLight
	Directional       [MaxDirectionalLights]GPUDirectionalLight
	Parallel          [MaxParallelLights]GPUParallelLight
}

// Size returns the size of the GPULightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (10800)
func (g *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], g.PointLength)
	binary.LittleEndian.PutUint32(buf[4:], g.DirectionalLength)
	binary.LittleEndian.PutUint32(buf[8:], g.ParallelLength)
	p := g.Param
	common.PutFloat32s(buf[12:],
		p.StartStrength, p.StopStrength, p.MaxStrength,
		p.BorderStartStrength, p.BorderStopStrength, p.BorderMaxStrength,
		p.AmbientStrength,
	)

	off := 48
	for i := range g.Point {
		l := &g.Point[i]
		common.PutFloat32s(buf[off:], l.Position[0], l.Position[1], l.Position[2], 0,
			l.Color[0], l.Color[1], l.Color[2], l.Constant, l.Linear, l.Quadratic)
		off += 48
	}
	for i := range g.Directional {
		l := &g.Directional[i]
		common.PutFloat32s(buf[off:], l.Position[0], l.Position[1], l.Position[2], l.Constant,
			l.Direction[0], l.Direction[1], l.Direction[2], l.Linear,
			l.Color[0], l.Color[1], l.Color[2], l.Quadratic,
			l.RangeInner, l.RangeOuter)
		off += 64
	}
	for i := range g.Parallel {
		l := &g.Parallel[i]
		common.PutFloat32s(buf[off:], l.Direction[0], l.Direction[1], l.Direction[2], 0,
			l.Color[0], l.Color[1], l.Color[2], l.Strength)
		off += 32
	}
	return buf
}

// GPUTextureTransformUniform is a 2D texture coordinate transform stored as mat3x3.
// Size: 48 bytes.
type GPUTextureTransformUniform struct {
	Matrix [12]float32 // three columns padded to vec4
}

// Size returns the size of the GPUTextureTransformUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUTextureTransformUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTextureTransformUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUTextureTransformUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, g.Matrix[:]...)
	return buf
}
