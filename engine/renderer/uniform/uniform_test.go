package uniform

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu/gputest"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUStructSizes(t *testing.T) {
	var cam GPUCameraUniform
	var tr GPUTransform
	var lights GPULightUniform
	var tex GPUTextureTransformUniform
	assert.Equal(t, 144, cam.Size())
	assert.Equal(t, 112, tr.Size())
	assert.Equal(t, 10800, lights.Size())
	assert.Equal(t, 48, tex.Size())
	assert.Len(t, lights.Marshal(), 10800)
}

func TestCameraUniform_SetWritesEye(t *testing.T) {
	device := gputest.NewDevice()
	u, err := NewCameraUniform(device)
	require.NoError(t, err)

	data := camera.DefaultData()
	data.View.Eye = mgl32.Vec3{1, 2, 3}
	u.Set(data, 1.5)
	u.Update(device)

	buf := device.BuffersNamed("Camera Uniform Buffer")[0]
	assert.Equal(t, gpu.BufferUniform, buf.Kind)
	assert.Equal(t, float32(1), floatAt(buf.Data, 128))
	assert.Equal(t, float32(2), floatAt(buf.Data, 132))
	assert.Equal(t, float32(3), floatAt(buf.Data, 136))
	assert.Equal(t, float32(1), floatAt(buf.Data, 140))
	assert.Equal(t, mgl32.Mat4(u.Value().View), data.View.Matrix())
}

func TestLightUniform_LayoutOffsets(t *testing.T) {
	device := gputest.NewDevice()
	u, err := NewLightUniform(device, light.DefaultGlobalParam())
	require.NoError(t, err)

	u.Set([]light.Data{
		{Type: light.LightTypePoint, Position: mgl32.Vec3{1, 2, 3}, Color: mgl32.Vec3{0.5, 0.5, 0.5}, Constant: 1, Linear: 0.1, Quadratic: 0.01},
		{Type: light.LightTypeDirectional, Direction: mgl32.Vec3{0, -1, 0}, RangeInner: 0.9, RangeOuter: 0.8},
		{Type: light.LightTypeParallel, Direction: mgl32.Vec3{0, 0, -1}, Strength: 0.7},
	})
	u.Update(device)

	p, d, l := u.Counts()
	assert.Equal(t, []int{1, 1, 1}, []int{p, d, l})

	data := device.BuffersNamed("Light Uniform Buffer")[0].Data
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[8:]))
	assert.Equal(t, float32(0.30), floatAt(data, 12))
	assert.Equal(t, float32(0.60), floatAt(data, 36))

	// first point light
	assert.Equal(t, float32(3), floatAt(data, 48+8))
	assert.Equal(t, float32(1), floatAt(data, 48+28))
	assert.Equal(t, float32(0.01), floatAt(data, 48+36))

	// first directional light
	dirBase := 48 + 48*MaxPointLights
	assert.Equal(t, float32(-1), floatAt(data, dirBase+20))
	assert.Equal(t, float32(0.9), floatAt(data, dirBase+48))
	assert.Equal(t, float32(0.8), floatAt(data, dirBase+52))

	// first parallel light
	parBase := dirBase + 64*MaxDirectionalLights
	assert.Equal(t, float32(-1), floatAt(data, parBase+8))
	assert.Equal(t, float32(0.7), floatAt(data, parBase+28))
}

func TestLightUniform_DropsOverflow(t *testing.T) {
	device := gputest.NewDevice()
	u, err := NewLightUniform(device, light.DefaultGlobalParam())
	require.NoError(t, err)

	lights := make([]light.Data, MaxParallelLights+3)
	for i := range lights {
		lights[i] = light.Data{Type: light.LightTypeParallel, Strength: float32(i)}
	}
	u.Set(lights)

	_, _, parallel := u.Counts()
	assert.Equal(t, MaxParallelLights, parallel)
	assert.Equal(t, float32(MaxParallelLights-1), u.value.Parallel[MaxParallelLights-1].Strength)
}

func TestLightUniform_Param(t *testing.T) {
	device := gputest.NewDevice()
	u, err := NewLightUniform(device, light.DefaultGlobalParam())
	require.NoError(t, err)

	param := light.DefaultGlobalParam()
	param.AmbientStrength = 0.1
	u.SetParam(param)
	assert.Equal(t, param, u.Param())
}

func TestInstanceUniform_NormalMatrix(t *testing.T) {
	device := gputest.NewDevice()
	m := mgl32.Scale3D(2, 4, 8)
	u, err := NewInstanceUniform(device, "Instance", m)
	require.NoError(t, err)
	assert.Equal(t, m, u.Transform())

	data := device.BuffersNamed("Instance")[0].Data
	require.Len(t, data, 112)
	assert.InDelta(t, 0.5, floatAt(data, 64), 1e-6)
	assert.InDelta(t, 0.25, floatAt(data, 64+20), 1e-6)
	assert.InDelta(t, 0.125, floatAt(data, 64+40), 1e-6)

	u.Set(mgl32.Translate3D(1, 0, 0))
	u.Update(device)
	assert.Equal(t, float32(1), floatAt(device.BuffersNamed("Instance")[0].Data, 48))
}

func TestJointUniform_StorageBuffer(t *testing.T) {
	device := gputest.NewDevice()
	items := []mgl32.Mat4{mgl32.Ident4(), mgl32.Translate3D(0, 1, 0)}
	u, err := NewJointUniform(device, "Joints", items)
	require.NoError(t, err)

	buf := device.BuffersNamed("Joints")[0]
	assert.Equal(t, gpu.BufferStorage, buf.Kind)
	assert.Len(t, buf.Data, 2*112)
	assert.Equal(t, float32(1), floatAt(buf.Data, 112+52))
	assert.Equal(t, 2, u.Len())
	assert.Equal(t, items[1], u.Item(1))
}

func TestJointUniform_PanicsOverMax(t *testing.T) {
	device := gputest.NewDevice()
	items := make([]mgl32.Mat4, MaxJoints+1)
	assert.Panics(t, func() {
		_, _ = NewJointUniform(device, "Joints", items)
	})
}

func TestTextureTransformMatrix(t *testing.T) {
	m := TextureTransformMatrix(mgl32.Vec2{0.5, 0.25}, 0, mgl32.Vec2{2, 3})
	uv := m.Mul3x1(mgl32.Vec3{1, 1, 1})
	assert.InDelta(t, 2.5, uv.X(), 1e-6)
	assert.InDelta(t, 3.25, uv.Y(), 1e-6)

	// A quarter turn maps +U onto -V.
	r := TextureTransformMatrix(mgl32.Vec2{}, math.Pi/2, mgl32.Vec2{1, 1})
	uv = r.Mul3x1(mgl32.Vec3{1, 0, 1})
	assert.InDelta(t, 0, uv.X(), 1e-6)
	assert.InDelta(t, -1, uv.Y(), 1e-6)

	device := gputest.NewDevice()
	u, err := NewTextureTransformUniform(device, "Texture Transform", m)
	require.NoError(t, err)
	data := device.BuffersNamed("Texture Transform")[0].Data
	require.Len(t, data, 48)
	assert.Equal(t, float32(2), floatAt(data, 0))
	assert.Equal(t, float32(3), floatAt(data, 20))
	assert.Equal(t, float32(0.5), floatAt(data, 32))
	assert.Equal(t, float32(0.25), floatAt(data, 36))
	assert.NotNil(t, u.Buffer())
}
