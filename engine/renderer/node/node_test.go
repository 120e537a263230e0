package node

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
)

type testState struct {
	enabled *ID
	pushed  []camera.Data
	held    bool
}

func (s *testState) EnabledCamera() (ID, bool) {
	if s.enabled == nil {
		return 0, false
	}
	return *s.enabled, true
}

func (s *testState) SetEnabledCameraData(data camera.Data) {
	s.pushed = append(s.pushed, data)
	s.held = true
}

func (s *testState) EnabledCameraData() (camera.Data, bool) {
	if !s.held {
		return camera.Data{}, false
	}
	return s.pushed[len(s.pushed)-1], true
}

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	prev := common.Logger()
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(prev) })
	return &buf
}

func getPipeline(t *testing.T, device gpu.Device, key pipeline.Key) pipeline.Pipeline {
	p, err := pipeline.NewCache().Get(device, key)
	require.NoError(t, err)
	return p
}

func triangle() model.Mesh {
	return model.NewMesh(model.WithColorVertices([]model.ColorVertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}))
}

func skinnedTriangle() model.Mesh {
	v := model.ColorSkinVertex{JointWeight: [4]float32{1}}
	return model.NewMesh(model.WithColorSkinVertices([]model.ColorSkinVertex{v, v, v}), model.WithIndices([]uint32{0, 1, 2}))
}

func frame(root Node, device gpu.Device, state PrepareState) *rc.GlobalContext {
	global := rc.NewGlobalContext()
	root.Update(rc.NewLocalContext(), global, false)
	root.Prepare(device, state)
	return global
}

func TestIDFactory_Independent(t *testing.T) {
	a, b := NewIDFactory(), NewIDFactory()

	var wg sync.WaitGroup
	seen := make([]ID, 100)
	for i := range seen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen[i] = a.Next()
		}()
	}
	wg.Wait()

	unique := make(map[ID]bool)
	for _, id := range seen {
		unique[id] = true
	}
	assert.Len(t, unique, 100)
	assert.Equal(t, ID(1), b.Next())
}

func TestTransform_DirtyPropagation(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()
	state := &testState{}

	inner := NewTransform(ids, NewGroup(ids), WithTranslation(mgl32.Vec3{0, 1, 0}))
	outer := NewTransform(ids, NewGroup(ids, inner), WithTranslation(mgl32.Vec3{1, 0, 0}))
	root := NewGroup(ids, outer)

	frame(root, device, state)
	world, ok := inner.World()
	require.True(t, ok)
	assert.Equal(t, mgl32.Translate3D(1, 1, 0), world.Transform())

	innerBuf := device.BuffersNamed(fmt.Sprintf("Transform %d Instance", inner.ID()))
	require.Len(t, innerBuf, 1)
	writes := innerBuf[0].Write

	// nothing changed: no rewrite
	frame(root, device, state)
	assert.Equal(t, writes, innerBuf[0].Write)

	outer.SetTranslation(mgl32.Vec3{2, 0, 0})
	frame(root, device, state)
	world, _ = inner.World()
	assert.Equal(t, mgl32.Translate3D(2, 1, 0), world.Transform())
	assert.Equal(t, writes+1, innerBuf[0].Write)
	assert.Equal(t, float32(2), floatAt(innerBuf[0].Data, 48))
	assert.Equal(t, float32(1), floatAt(innerBuf[0].Data, 52))
}

func TestSkin_JointMatrixIsWorldTimesInverseBind(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	ibm := mgl32.Translate3D(0, -1, 0)
	data := &SkinData{ID: 7, InverseBindMatrices: []mgl32.Mat4{ibm, mgl32.Ident4()}}

	bone := NewTransform(ids, NewGroup(ids), WithTranslation(mgl32.Vec3{0, 1, 0}), WithRotation(mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1})))
	j := NewJoint(ids, []JointTarget{{Skin: 7, Index: 0}}, bone)
	s := NewSkin(ids, data, NewPrimitive(ids, skinnedTriangle(), getPipeline(t, device, pipeline.Key{Shader: pipeline.ShaderTypeColorSkin})))
	root := NewGroup(ids, NewTransform(ids, j, WithTranslation(mgl32.Vec3{3, 0, 0})), s)

	frame(root, device, &testState{})

	world, _ := bone.World()
	want := world.Transform().Mul4(ibm)
	assert.True(t, want.ApproxEqual(s.Items()[0]))
	assert.Equal(t, mgl32.Ident4(), s.Items()[1])

	buf := device.BuffersNamed(fmt.Sprintf("Skin %d Joints", s.ID()))
	require.Len(t, buf, 1)
	assert.Equal(t, gpu.BufferStorage, buf[0].Kind)
	assert.Equal(t, want[12], floatAt(buf[0].Data, 48))
}

func TestPrepare_BindGroupFailureKeepsBuffer(t *testing.T) {
	logs := captureLogs(t)
	ids := NewIDFactory()
	device := gputest.NewDevice()
	device.BindGroupErr = errors.New("out of memory")

	data := &SkinData{ID: 3, InverseBindMatrices: []mgl32.Mat4{mgl32.Ident4()}}
	s := NewSkin(ids, data, NewGroup(ids))
	tr := NewTransform(ids, s, WithTranslation(mgl32.Vec3{1, 0, 0}))

	for range 3 {
		frame(tr, device, &testState{})
	}
	assert.Len(t, device.BuffersNamed(fmt.Sprintf("Transform %d Instance", tr.ID())), 1)
	assert.Len(t, device.BuffersNamed(fmt.Sprintf("Skin %d Joints", s.ID())), 1)
	assert.Empty(t, device.BindGroups)
	assert.Contains(t, logs.String(), "failed to create instance bind group")
	assert.Contains(t, logs.String(), "failed to create joint bind group")

	device.BindGroupErr = nil
	frame(tr, device, &testState{})
	assert.Len(t, device.BuffersNamed(fmt.Sprintf("Transform %d Instance", tr.ID())), 1)
	assert.Len(t, device.BuffersNamed(fmt.Sprintf("Skin %d Joints", s.ID())), 1)
	require.Len(t, device.BindGroups, 2)
	for _, g := range device.BindGroups {
		require.Len(t, g.Entries, 1)
		assert.NotNil(t, g.Entries[0].Buffer)
	}
}

func TestSkin_OutOfRangeJointWarns(t *testing.T) {
	logs := captureLogs(t)
	ids := NewIDFactory()

	data := &SkinData{ID: 1, InverseBindMatrices: []mgl32.Mat4{mgl32.Ident4()}}
	s := NewSkin(ids, data, NewGroup(ids))
	global := rc.NewGlobalContext()
	global.SetJoint(1, 5, mgl32.Translate3D(1, 0, 0))
	s.Update(rc.NewLocalContext(), global, false)

	assert.Equal(t, mgl32.Ident4(), s.Items()[0])
	assert.Contains(t, logs.String(), "joint index out of range")
}

func TestJoint_PublishesOnlyWhenChanged(t *testing.T) {
	ids := NewIDFactory()
	j := NewJoint(ids, []JointTarget{{Skin: 1, Index: 0}, {Skin: 2, Index: 3}}, NewGroup(ids))
	parent := NewTransform(ids, j, WithTranslation(mgl32.Vec3{0, 0, 5}))

	global := rc.NewGlobalContext()
	parent.Update(rc.NewLocalContext(), global, false)
	assert.Equal(t, mgl32.Translate3D(0, 0, 5), global.Joints(1)[0])
	assert.Equal(t, mgl32.Translate3D(0, 0, 5), global.Joints(2)[3])

	global = rc.NewGlobalContext()
	parent.Update(rc.NewLocalContext(), global, false)
	assert.Nil(t, global.Joints(1))

	parent.SetTranslation(mgl32.Vec3{1, 0, 0})
	global = rc.NewGlobalContext()
	parent.Update(rc.NewLocalContext(), global, false)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), global.Joints(1)[0])
}

func TestPrimitive_DrawBindings(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	texKey := pipeline.Key{Shader: pipeline.ShaderTypeTexture, Topology: wgpu.PrimitiveTopologyTriangleList}
	texGroup, err := device.CreateBindGroup("Tex", gpu.LayoutTexture, nil)
	require.NoError(t, err)
	textured := model.NewMesh(model.WithTextureVertices(make([]model.TextureVertex, 3)))
	prim := NewPrimitive(ids, textured, getPipeline(t, device, texKey), WithTexture(texGroup))
	prim.Prepare(device, &testState{})

	device.Reset()
	prim.Draw(&DrawState{Pass: device.Pass()})
	assert.Equal(t, []string{
		"SetBindGroup(2, Tex)",
		"SetPipeline(Texture/TriangleList/Opaque)",
		"SetVertexBuffer(Mesh 1 Vertex Buffer)",
		"Draw(3)",
	}, device.Ops())
}

func TestPrimitive_ColorSkinBindsEmptyTextureAndJoint(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	key := pipeline.Key{Shader: pipeline.ShaderTypeColorSkin, Topology: wgpu.PrimitiveTopologyTriangleList, Lit: true}
	mainP := getPipeline(t, device, key)
	key.Outline = true
	outline := getPipeline(t, device, key)

	prim := NewPrimitive(ids, skinnedTriangle(), mainP, WithOutline(outline))
	prim.Prepare(device, &testState{})

	empty, _ := device.CreateBindGroup("Empty", gpu.LayoutTexture, nil)
	jointGroup, _ := device.CreateBindGroup("Joints", gpu.LayoutJoint, nil)

	device.Reset()
	state := &DrawState{Pass: device.Pass(), EmptyTexture: empty, Joint: jointGroup}
	prim.Draw(state)
	assert.Equal(t, []string{
		"SetBindGroup(2, Empty)",
		"SetBindGroup(3, Joints)",
		"SetPipeline(ColorSkin/TriangleList/Opaque/Lit)",
		"SetVertexBuffer(Mesh 1 Vertex Buffer)",
		"SetIndexBuffer(Mesh 1 Index Buffer)",
		"DrawIndexed(3)",
		"SetPipeline(ColorSkin/TriangleList/Opaque/Lit/Outline)",
		"SetVertexBuffer(Mesh 1 Vertex Buffer)",
		"SetIndexBuffer(Mesh 1 Index Buffer)",
		"DrawIndexed(3)",
	}, device.Ops())
	assert.Same(t, outline, state.Pipeline)
}

func TestPrimitive_SkinnedWithoutJointSkips(t *testing.T) {
	logs := captureLogs(t)
	ids := NewIDFactory()
	device := gputest.NewDevice()

	prim := NewPrimitive(ids, skinnedTriangle(), getPipeline(t, device, pipeline.Key{Shader: pipeline.ShaderTypeColorSkin}))
	prim.Prepare(device, &testState{})
	device.Reset()
	prim.Draw(&DrawState{Pass: device.Pass()})

	assert.Empty(t, device.Ops())
	assert.Contains(t, logs.String(), "skinned primitive drawn without joints")
}

func TestPrimitive_ShaderMismatchPanics(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	prim := NewPrimitive(ids, triangle(), getPipeline(t, device, pipeline.Key{Shader: pipeline.ShaderTypeTexture}))
	prim.Prepare(device, &testState{})
	assert.Panics(t, func() { prim.Draw(&DrawState{Pass: device.Pass()}) })

	unlit := NewPrimitive(ids, triangle(), getPipeline(t, device, pipeline.Key{Shader: pipeline.ShaderTypeLight}))
	unlit.Prepare(device, &testState{})
	assert.NotPanics(t, func() { unlit.Draw(&DrawState{Pass: device.Pass()}) })
}

func TestTransform_DrawBindsAndRestoresInstance(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	prim := NewPrimitive(ids, triangle(), getPipeline(t, device, pipeline.Key{Shader: pipeline.ShaderTypeColor}))
	tr := NewTransform(ids, prim)
	frame(tr, device, &testState{})

	identity, _ := device.CreateBindGroup("Identity", gpu.LayoutInstance, nil)
	device.Reset()
	state := &DrawState{Pass: device.Pass(), Instance: identity}
	tr.Draw(state)

	ops := device.Ops()
	assert.Equal(t, fmt.Sprintf("SetBindGroup(1, Transform %d Bind Group)", tr.ID()), ops[0])
	assert.Equal(t, "SetBindGroup(1, Identity)", ops[len(ops)-1])
	assert.Same(t, identity, state.Instance)
}

func TestTransform_DrawWithoutPrepareWarns(t *testing.T) {
	logs := captureLogs(t)
	ids := NewIDFactory()
	device := gputest.NewDevice()

	tr := NewTransform(ids, NewGroup(ids))
	tr.Prepare(device, &testState{})
	tr.Draw(&DrawState{Pass: device.Pass()})

	assert.Contains(t, logs.String(), "transform prepared before update")
	assert.Contains(t, logs.String(), "transform drawn without instance buffer")
	assert.Empty(t, device.Ops())
}

func TestCamera_PushesWhenEnabled(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	cam := NewCamera(ids, "Main", camera.Perspective(nil, 60, 0.1, nil))
	tr := NewTransform(ids, cam, WithTranslation(mgl32.Vec3{0, 0, 4}))

	state := &testState{}
	frame(tr, device, state)
	assert.Empty(t, state.pushed)

	id := cam.ID()
	state.enabled = &id
	frame(tr, device, state)
	require.Len(t, state.pushed, 1)
	data := state.pushed[0]
	assert.Equal(t, mgl32.Vec3{0, 0, 4}, data.View.Eye)
	assert.InDelta(t, -90, data.View.Yaw, 1e-4)
	assert.InDelta(t, 0, data.View.Pitch, 1e-4)
	assert.InDelta(t, 0, data.View.Front().X(), 1e-5)
	assert.InDelta(t, -1, data.View.Front().Z(), 1e-5)

	frame(tr, device, state)
	assert.Len(t, state.pushed, 1)

	tr.SetTranslation(mgl32.Vec3{0, 0, 8})
	frame(tr, device, state)
	require.Len(t, state.pushed, 2)
	assert.Equal(t, mgl32.Vec3{0, 0, 8}, state.pushed[1].View.Eye)

	// the state dropped its data (camera enabled again): push without a change
	state.held = false
	frame(tr, device, state)
	require.Len(t, state.pushed, 3)
	assert.Equal(t, mgl32.Vec3{0, 0, 8}, state.pushed[2].View.Eye)
}

func TestLight_PublishesEveryFrame(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	boxPipeline := getPipeline(t, device, pipeline.Key{Shader: pipeline.ShaderTypeLight, Topology: wgpu.PrimitiveTopologyTriangleList})
	l := NewLight(ids, light.NewPoint(light.WithColor(1, 0, 0)), WithShowBox(boxPipeline))
	tr := NewTransform(ids, l, WithTranslation(mgl32.Vec3{1, 2, 3}))

	for range 2 {
		global := frame(tr, device, &testState{})
		lights := global.Finish()
		require.Len(t, lights, 1)
		assert.Equal(t, mgl32.Vec3{1, 2, 3}, lights[0].Position)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, lights[0].Color)
	}

	require.NotNil(t, l.ShowBox())
	assert.Equal(t, 8, l.ShowBox().Mesh().VertexCount())
	assert.Equal(t, 36, l.ShowBox().Mesh().IndexCount())
	assert.Len(t, l.Children(), 1)
}

func TestCrosshair(t *testing.T) {
	ids := NewIDFactory()
	device := gputest.NewDevice()

	c := NewCrosshair(ids, getPipeline(t, device, pipeline.Key{Shader: pipeline.ShaderTypeLight, Topology: wgpu.PrimitiveTopologyLineList}))
	assert.Equal(t, KindCrosshair, c.Kind())
	assert.Equal(t, 6, c.Mesh().VertexCount())
	assert.False(t, c.Mesh().Indexed())

	c.Prepare(device, &testState{})
	device.Reset()
	c.Draw(&DrawState{Pass: device.Pass()})
	assert.Equal(t, "Draw(6)", device.Ops()[len(device.Ops())-1])
}

func TestFindTransformAndWalk(t *testing.T) {
	ids := NewIDFactory()
	leaf := NewTransform(ids, NewGroup(ids))
	root := NewGroup(ids, NewGroup(ids), NewTransform(ids, NewGroup(ids, leaf)))

	assert.Same(t, leaf, FindTransform(root, leaf.ID()))
	assert.Nil(t, FindTransform(root, root.ID()))
	assert.Nil(t, FindTransform(root, 999))
	assert.Same(t, root, Find(root, root.ID()))

	var kinds []Kind
	Walk(root, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{KindGroup, KindGroup, KindTransform, KindGroup, KindTransform, KindGroup}, kinds)
}
