package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-4

func TestComposeDecomposeRoundTrip(t *testing.T) {
	translation := mgl32.Vec3{1, -2, 3}
	rotation := mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0})
	scale := mgl32.Vec3{2, 3, 4}

	m := ComposeTRS(translation, rotation, scale)
	gotT, gotR, gotS := DecomposeTRS(m)

	assert.True(t, gotT.ApproxEqualThreshold(translation, eps))
	assert.True(t, gotS.ApproxEqualThreshold(scale, eps))
	// q and -q encode the same rotation.
	assert.InDelta(t, 1, math32.Abs(gotR.Dot(rotation)), eps)
}

func TestEulerXYZ(t *testing.T) {
	q := mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})
	x, y, z := EulerXYZ(q)
	assert.InDelta(t, 0, x, eps)
	assert.InDelta(t, 0.5, y, eps)
	assert.InDelta(t, 0, z, eps)

	q = mgl32.QuatRotate(-0.25, mgl32.Vec3{0, 0, 1})
	x, y, z = EulerXYZ(q)
	assert.InDelta(t, 0, x, eps)
	assert.InDelta(t, 0, y, eps)
	assert.InDelta(t, -0.25, z, eps)
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := PerspectiveRH(mgl32.DegToRad(60), 1, 0.1, 100)
	near := p.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := p.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), eps)
	assert.InDelta(t, 1, far.Z()/far.W(), eps)

	inf := PerspectiveInfiniteRH(mgl32.DegToRad(60), 1, 0.1)
	n := inf.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	assert.InDelta(t, 0, n.Z()/n.W(), eps)
}

func TestNormalMatrixOfUniformScale(t *testing.T) {
	n := NormalMatrix(mgl32.Scale3D(2, 2, 2))
	assert.InDelta(t, 0.5, n[0], eps)
	assert.InDelta(t, 0.5, n[5], eps)
	assert.InDelta(t, 0.5, n[10], eps)
	assert.Equal(t, float32(0), n[3])
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}
