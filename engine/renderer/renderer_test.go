package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func cubeMesh(name string) model.Mesh {
	var vertices []model.ColorVertex
	for i := 0; i < 8; i++ {
		vertices = append(vertices, model.ColorVertex{Position: [3]float32{
			float32(i&1) - 0.5, float32(i>>1&1) - 0.5, float32(i>>2&1) - 0.5,
		}})
	}
	indices := []uint32{0, 1, 2, 1, 3, 2, 4, 6, 5, 5, 6, 7}
	return model.NewMesh(model.WithName(name), model.WithColorVertices(vertices), model.WithIndices(indices))
}

func colorPipeline(t *testing.T, r Renderer, device gpu.Device) pipeline.Pipeline {
	p, err := r.State().Pipelines().Get(device, pipeline.Key{Shader: pipeline.ShaderTypeColor, Topology: wgpu.PrimitiveTopologyTriangleList, Lit: true})
	require.NoError(t, err)
	return p
}

type cubeScene struct {
	r      Renderer
	device *gputest.Device
	cube   node.Transform
	group  node.ID
	q0, q1 mgl32.Quat
}

func newCubeScene(t *testing.T) *cubeScene {
	device := gputest.NewDevice()
	r := NewRenderer()
	p := colorPipeline(t, r, device)
	ids := r.IDs()

	r.AddNode(node.NewPrimitive(ids, cubeMesh("Static"), p))
	cube := node.NewTransform(ids, node.NewPrimitive(ids, cubeMesh("Cube"), p))
	r.AddNode(cube)

	q0 := mgl32.QuatIdent()
	q1 := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	sampler, err := animator.NewSampler(asset.AnimationSampler{
		Property:      asset.PropertyRotation,
		Interpolation: asset.InterpolationLinear,
		Times:         []float32{0, 2},
		Rotations:     []mgl32.Quat{q0, q1},
	})
	require.NoError(t, err)
	group := animator.NewAnimationGroupNode("spin", []*animator.AnimationNode{
		{TargetID: cube.ID(), Sampler: sampler, Length: 2},
	})
	id := r.AddAnimationGroup(group)
	r.Resize(device, 800, 600)
	return &cubeScene{r: r, device: device, cube: cube, group: id, q0: q0, q1: q1}
}

func lerpQuat(a, b mgl32.Quat, p float32) mgl32.Quat {
	return mgl32.Quat{W: a.W*(1-p) + b.W*p, V: a.V.Mul(1 - p).Add(b.V.Mul(p))}.Normalize()
}

func assertQuat(t *testing.T, want, got mgl32.Quat) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, 1e-5)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want.V[i], got.V[i], 1e-5)
	}
}

func TestRenderer_RotatingCubeRepeat(t *testing.T) {
	s := newCubeScene(t)
	require.True(t, s.r.SetAnimationState(s.group, animator.Repeat(t0)))

	require.NoError(t, s.r.Prepare(s.device, t0.Add(time.Second)))
	assertQuat(t, lerpQuat(s.q0, s.q1, 0.5), s.cube.Rotation())

	require.NoError(t, s.r.Prepare(s.device, t0.Add(2500*time.Millisecond)))
	atHalf := s.cube.Rotation()
	assertQuat(t, lerpQuat(s.q0, s.q1, 0.25), atHalf)

	require.NoError(t, s.r.Prepare(s.device, t0.Add(500*time.Millisecond)))
	assertQuat(t, atHalf, s.cube.Rotation())

	result, err := s.r.Render(s.device)
	require.NoError(t, err)
	assert.Equal(t, RenderOK, result)
	assert.Equal(t, 1, s.device.Frames)

	ops := s.device.Ops()
	require.GreaterOrEqual(t, len(ops), 2)
	assert.Equal(t, "SetBindGroup(0, Global Bind Group)", ops[0])
	assert.Equal(t, "SetBindGroup(1, Identity Instance Bind Group)", ops[1])
	assert.Contains(t, ops, fmt.Sprintf("SetBindGroup(1, Transform %d Bind Group)", s.cube.ID()))
	drawn := 0
	for _, op := range ops {
		if op == "DrawIndexed(12)" {
			drawn++
		}
	}
	assert.Equal(t, 2, drawn)
}

func TestRenderer_UnknownAnimationGroup(t *testing.T) {
	s := newCubeScene(t)
	require.True(t, s.r.SetAnimationState(s.group, animator.Loop(t0)))

	assert.False(t, s.r.SetAnimationState(node.ID(9999), animator.Once(t0)))

	groups := s.r.AnimationGroups()
	require.Len(t, groups, 1)
	assert.Equal(t, s.group, groups[0].ID)
	assert.Equal(t, "spin", groups[0].Name)
	assert.Equal(t, float32(2), groups[0].Length)
	assert.Equal(t, animator.PlayLoop, groups[0].State.Mode)
}

func TestRenderer_RequestsApplyOnPrepare(t *testing.T) {
	s := newCubeScene(t)
	param := light.DefaultGlobalParam()
	param.AmbientStrength = 0.5
	bg := wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}

	s.r.Enqueue(PlayAnimationRequest{ID: s.group, State: animator.Repeat(t0)})
	s.r.Enqueue(SetLightParamRequest{Param: param})
	s.r.Enqueue(SetBackgroundRequest{Color: bg})
	s.r.Enqueue(PlayAnimationRequest{ID: node.ID(9999), State: animator.Once(t0)})

	assert.Equal(t, animator.PlayStopped, s.r.AnimationGroups()[0].State.Mode)
	assert.Equal(t, DefaultBackground, s.r.State().Background())

	require.NoError(t, s.r.Prepare(s.device, t0.Add(time.Second)))
	assert.Equal(t, animator.PlayRepeat, s.r.AnimationGroups()[0].State.Mode)
	assert.Equal(t, param, s.r.State().LightParam())
	assertQuat(t, lerpQuat(s.q0, s.q1, 0.5), s.cube.Rotation())

	_, err := s.r.Render(s.device)
	require.NoError(t, err)
	assert.Equal(t, bg, s.device.ClearColor)
}

func TestRenderer_AddNodeRequest(t *testing.T) {
	s := newCubeScene(t)
	before := len(s.r.Root().Children())
	s.r.Enqueue(AddNodeRequest{Node: node.NewGroup(s.r.IDs())})
	assert.Len(t, s.r.Root().Children(), before)
	require.NoError(t, s.r.Prepare(s.device, t0))
	assert.Len(t, s.r.Root().Children(), before+1)
}

func TestRenderer_CameraSelection(t *testing.T) {
	s := newCubeScene(t)
	cam := node.NewCamera(s.r.IDs(), "Scene Camera", camera.Perspective(nil, 45, 0.1, nil))
	s.r.AddNode(node.NewTransform(s.r.IDs(), cam, node.WithTranslation(mgl32.Vec3{0, 2, 10})))

	require.NoError(t, s.r.Prepare(s.device, t0))
	assert.Equal(t, s.r.State().FreeCamera().Data(), s.r.State().CameraData())

	s.r.Enqueue(EnableCameraRequest{ID: cam.ID()})
	require.NoError(t, s.r.Prepare(s.device, t0.Add(time.Millisecond)))
	data, ok := s.r.State().EnabledCameraData()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 2, 10}, data.View.Eye)
	assert.Equal(t, float32(45), data.Projection.YFov)

	buf := s.device.BuffersNamed("Camera Uniform Buffer")[0]
	assert.Equal(t, float32(2), floatAt(buf.Data, 132))
	assert.Equal(t, float32(10), floatAt(buf.Data, 136))

	s.r.Enqueue(EnableCameraRequest{Clear: true})
	require.NoError(t, s.r.Prepare(s.device, t0.Add(2*time.Millisecond)))
	_, ok = s.r.State().EnabledCameraData()
	assert.False(t, ok)
	assert.Equal(t, float32(1), floatAt(buf.Data, 128))
}

func TestRenderer_CameraReenabled(t *testing.T) {
	s := newCubeScene(t)
	a := node.NewCamera(s.r.IDs(), "A", camera.Perspective(nil, 45, 0.1, nil))
	b := node.NewCamera(s.r.IDs(), "B", camera.Perspective(nil, 45, 0.1, nil))
	s.r.AddNode(node.NewTransform(s.r.IDs(), a, node.WithTranslation(mgl32.Vec3{1, 1, 1})))
	s.r.AddNode(node.NewTransform(s.r.IDs(), b, node.WithTranslation(mgl32.Vec3{5, 0, 0})))

	now := t0
	step := func() {
		t.Helper()
		now = now.Add(time.Millisecond)
		require.NoError(t, s.r.Prepare(s.device, now))
	}

	s.r.Enqueue(EnableCameraRequest{ID: a.ID()})
	step()
	data, ok := s.r.State().EnabledCameraData()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, data.View.Eye)

	// enabling the active camera again keeps its view
	s.r.Enqueue(EnableCameraRequest{ID: a.ID()})
	for range 3 {
		step()
		data, ok = s.r.State().EnabledCameraData()
		require.True(t, ok)
		assert.Equal(t, mgl32.Vec3{1, 1, 1}, data.View.Eye)
	}
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, s.r.State().CameraData().View.Eye)

	// switching away and back within one drain
	s.r.Enqueue(EnableCameraRequest{ID: b.ID()})
	s.r.Enqueue(EnableCameraRequest{ID: a.ID()})
	step()
	data, ok = s.r.State().EnabledCameraData()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, data.View.Eye)
}

func TestRenderer_FreeCameraMovesWithElapsedTime(t *testing.T) {
	s := newCubeScene(t)
	ctrl := s.r.State().PositionController()
	ctrl.SetInput(camera.DirectionForward, 1)

	require.NoError(t, s.r.Prepare(s.device, t0))
	start := s.r.State().FreeCamera().View().Eye
	require.NoError(t, s.r.Prepare(s.device, t0.Add(time.Second)))
	moved := s.r.State().FreeCamera().View().Eye
	assert.NotEqual(t, start, moved)
}

func TestRenderer_LightsReachUniform(t *testing.T) {
	s := newCubeScene(t)
	s.r.AddNode(node.NewTransform(s.r.IDs(), node.NewLight(s.r.IDs(), light.NewPoint()), node.WithTranslation(mgl32.Vec3{3, 0, 0})))
	require.NoError(t, s.r.Prepare(s.device, t0))

	data := s.device.BuffersNamed("Light Uniform Buffer")[0].Data
	assert.Equal(t, float32(3), floatAt(data, 48))
	assert.Equal(t, uint32(1), uint32(data[0]))
}

func TestRenderer_RenderResults(t *testing.T) {
	s := newCubeScene(t)

	result, err := s.r.Render(s.device)
	assert.Error(t, err)
	assert.Equal(t, RenderError, result)

	require.NoError(t, s.r.Prepare(s.device, t0))

	cases := []struct {
		err  error
		want RenderResult
	}{
		{gpu.ErrSurfaceLost, RenderSurfaceLost},
		{gpu.ErrSurfaceTimeout, RenderTimeout},
		{errors.New("device lost"), RenderError},
	}
	for _, c := range cases {
		s.device.FrameErr = c.err
		result, err := s.r.Render(s.device)
		assert.ErrorIs(t, err, c.err)
		assert.Equal(t, c.want, result, c.want.String())
	}
	assert.Equal(t, 0, s.device.Frames)

	result, err = s.r.Render(s.device)
	require.NoError(t, err)
	assert.Equal(t, RenderOK, result)
}

func TestRenderer_Resize(t *testing.T) {
	s := newCubeScene(t)
	s.r.Resize(s.device, 1024, 512)
	assert.Equal(t, 1024, s.device.Width)
	assert.Equal(t, float32(2), s.r.State().Aspect())

	s.r.Resize(s.device, 0, 100)
	w, h := s.r.State().Size()
	assert.Equal(t, []int{1024, 512}, []int{w, h})
}

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}
