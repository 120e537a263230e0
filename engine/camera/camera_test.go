package camera

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultData(t *testing.T) {
	d := DefaultData()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, d.View.Eye)
	assert.Equal(t, ProjectionPerspective, d.Projection.Type)
	assert.Equal(t, float32(75), d.Projection.YFov)
	assert.Equal(t, float32(0.01), d.Projection.ZNear)
	assert.Nil(t, d.Projection.ZFar)
	_, ok := d.Projection.Aspect()
	assert.False(t, ok)
}

func TestViewFront(t *testing.T) {
	v := View{}
	assert.True(t, v.Front().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6))

	v.Yaw = -90
	assert.True(t, v.Front().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6))

	v.Pitch = 90
	assert.True(t, v.Front().ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6))
	assert.True(t, v.FrontIgnorePitch(0).ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6))
}

func TestViewMatrixLooksDownFront(t *testing.T) {
	v := View{Eye: mgl32.Vec3{0, 0, 5}, Yaw: -90}
	// a point in front of the eye lands on the -Z axis in view space
	p := v.Matrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -5}, 1e-5), "got %v", p)
}

func TestProjectionAspect(t *testing.T) {
	ortho := Orthographic(4, 2, 0.1, 10)
	a, ok := ortho.Aspect()
	require.True(t, ok)
	assert.Equal(t, float32(2), a)

	ortho.SetAspect(5)
	a, _ = ortho.Aspect()
	assert.Equal(t, float32(2), a)

	persp := Perspective(nil, 60, 0.1, nil)
	persp.SetAspect(1.5)
	a, ok = persp.Aspect()
	require.True(t, ok)
	assert.Equal(t, float32(1.5), a)
}

func TestProjectionMatrixDepthRange(t *testing.T) {
	far := float32(100)
	p := Perspective(nil, 90, 1, &far)
	m := p.Matrix(1)

	near := m.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	farPt := m.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 1, farPt.Z()/farPt.W(), 1e-5)

	inf := Perspective(nil, 90, 1, nil).Matrix(1)
	nearInf := inf.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	assert.InDelta(t, 0, nearInf.Z()/nearInf.W(), 1e-5)

	ortho := Orthographic(2, 2, 0, 10).Matrix(1)
	o := ortho.Mul4x1(mgl32.Vec4{1, 1, -10, 1})
	assert.True(t, o.ApproxEqualThreshold(mgl32.Vec4{1, 1, 1, 1}, 1e-5), "got %v", o)
}

func TestCameraRotateClampsPitch(t *testing.T) {
	c := NewCamera(WithYawPitch(10, 0))
	c.Rotate(5, 200)
	v := c.View()
	assert.Equal(t, float32(15), v.Yaw)
	assert.Equal(t, float32(89), v.Pitch)
}

func TestPositionControllerMovement(t *testing.T) {
	pc := NewPositionController()
	assert.Equal(t, float32(0.01), pc.Speed())

	view := View{Yaw: 0}
	pc.SetInput(DirectionForward, 1)
	m := pc.Movement(view, 100*time.Millisecond)
	assert.True(t, m.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6), "got %v", m)

	pc.SetInput(DirectionForward, 0)
	pc.SetInput(DirectionLeft, 1)
	pc.SetInput(DirectionUp, 1)
	m = pc.Movement(view, 100*time.Millisecond)
	assert.True(t, m.ApproxEqualThreshold(mgl32.Vec3{0, 1, -1}, 1e-6), "got %v", m)
}

func TestPositionControllerUpdateMovesCamera(t *testing.T) {
	cam := NewCamera(WithEye(0, 0, 0))
	pc := NewPositionController(WithSpeed(1))
	pc.SetInput(DirectionBackward, 1)
	pc.Update(cam, 2*time.Millisecond)
	assert.True(t, cam.View().Eye.ApproxEqualThreshold(mgl32.Vec3{-2, 0, 0}, 1e-6))

	pc.SetInput(Direction(42), 1)
	assert.Equal(t, float32(0), pc.Input(Direction(42)))
}
