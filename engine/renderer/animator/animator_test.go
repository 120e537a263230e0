package animator

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
)

func linearVec3(t *testing.T, times []float32, values []mgl32.Vec3) Keyframes[mgl32.Vec3] {
	k, err := NewKeyframes(InterpolationLinear, times, values)
	require.NoError(t, err)
	return k
}

func TestFindKeyframe(t *testing.T) {
	frames := []Keyframe[float32]{{Time: 0}, {Time: 1}, {Time: 3}}

	cur, next, p, ok := FindKeyframe(2, frames)
	require.True(t, ok)
	assert.Equal(t, float32(1), cur.Time)
	assert.Equal(t, float32(3), next.Time)
	assert.Equal(t, float32(0.5), p)

	_, _, p, ok = FindKeyframe(-1, frames)
	require.True(t, ok)
	assert.Equal(t, float32(0), p)

	_, _, _, ok = FindKeyframe(3, frames)
	assert.False(t, ok)
	_, _, _, ok = FindKeyframe(10, frames)
	assert.False(t, ok)
	_, _, _, ok = FindKeyframe(0, frames[:1])
	assert.False(t, ok)
	_, _, _, ok = FindKeyframe[float32](0, nil)
	assert.False(t, ok)
}

func TestLinear_ExactEndpoints(t *testing.T) {
	v0, v1, v2 := mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-4, 0.3, 7}, mgl32.Vec3{0, 0, 0}
	k := linearVec3(t, []float32{0.5, 1.5, 2.5}, []mgl32.Vec3{v0, v1, v2})

	got, ok := SampleVec3(k, 0.5)
	require.True(t, ok)
	assert.Equal(t, v0, got)

	// the second keyframe starts the next pair with progress 0
	got, ok = SampleVec3(k, 1.5)
	require.True(t, ok)
	assert.Equal(t, v1, got)

	for _, at := range []float32{0.6, 0.75, 1.0, 1.25, 1.4} {
		p := (at - 0.5) / 1.0
		got, ok = SampleVec3(k, at)
		require.True(t, ok)
		assert.Equal(t, v0.Mul(1-p).Add(v1.Mul(p)), got, "time %v", at)
	}

	assert.Equal(t, v1, vec3Space.linear(v0, v1, 1))
	assert.Equal(t, v0, vec3Space.linear(v0, v1, 0))
}

func TestLinear_RotationNormalized(t *testing.T) {
	a := mgl32.QuatIdent()
	b := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	k, err := NewKeyframes(InterpolationLinear, []float32{0, 1}, []mgl32.Quat{a, b})
	require.NoError(t, err)

	q, ok := SampleQuat(k, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 1, q.Len(), 1e-6)
	want := a.Scale(0.5).Add(b.Scale(0.5)).Normalize()
	assert.True(t, want.ApproxEqual(q))

	q, ok = SampleQuat(k, 0)
	require.True(t, ok)
	assert.Equal(t, a, q)
}

func TestStep_Holds(t *testing.T) {
	v0, v1 := mgl32.Vec3{1, 1, 1}, mgl32.Vec3{9, 9, 9}
	k, err := NewKeyframes(InterpolationStep, []float32{0, 1}, []mgl32.Vec3{v0, v1})
	require.NoError(t, err)

	for _, at := range []float32{0, 0.25, 0.5, 0.999} {
		got, ok := SampleVec3(k, at)
		require.True(t, ok)
		assert.Equal(t, v0, got)
	}
}

func TestCubicSpline_StartIsValue(t *testing.T) {
	in0, v0, out0 := mgl32.Vec3{5, 5, 5}, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-7, 2, 0.5}
	in1, v1, out1 := mgl32.Vec3{3, 3, 3}, mgl32.Vec3{4, 5, 6}, mgl32.Vec3{1, 1, 1}
	k, err := NewKeyframes(InterpolationCubicSpline, []float32{0, 2}, []mgl32.Vec3{in0, v0, out0, in1, v1, out1})
	require.NoError(t, err)

	got, ok := SampleVec3(k, 0)
	require.True(t, ok)
	assert.Equal(t, v0, got)

	// zero tangents reduce to smoothstep between the values
	flat, err := NewKeyframes(InterpolationCubicSpline, []float32{0, 2}, []mgl32.Vec3{{}, v0, {}, {}, v1, {}})
	require.NoError(t, err)
	got, ok = SampleVec3(flat, 1)
	require.True(t, ok)
	assert.True(t, v0.Add(v1).Mul(0.5).ApproxEqual(got))
}

func TestCubicSpline_InteriorScalesTangentsByRemainingProgress(t *testing.T) {
	out := mgl32.Vec3{1, 0, 0}
	k, err := NewKeyframes(InterpolationCubicSpline, []float32{0, 2}, []mgl32.Vec3{{}, {}, out, {}, {}, {}})
	require.NoError(t, err)

	// p = 0.5, td = 0.5: td * (p^3 - 2p^2 + p) = 0.0625
	got, ok := SampleVec3(k, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.0625, got.X(), 1e-6)

	// p = 0.25, td = 0.75: 0.75 * (0.015625 - 0.125 + 0.25) = 0.10546875
	got, ok = SampleVec3(k, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.10546875, got.X(), 1e-6)

	in := mgl32.Vec3{0, 2, 0}
	k, err = NewKeyframes(InterpolationCubicSpline, []float32{1, 5}, []mgl32.Vec3{{}, {}, {}, in, {}, {}})
	require.NoError(t, err)
	// p = 0.5, td = 0.5: td * (p^3 - p^2) * 2 = -0.125, independent of the 4s span
	got, ok = SampleVec3(k, 3)
	require.True(t, ok)
	assert.InDelta(t, -0.125, got.Y(), 1e-6)
}

func TestCubicSpline_InvalidStream(t *testing.T) {
	_, err := NewKeyframes(InterpolationCubicSpline, []float32{0, 1}, make([]mgl32.Vec3, 5))
	assert.ErrorIs(t, err, ErrInvalidCubicSpline)

	_, err = NewSampler(asset.AnimationSampler{
		Property:      asset.PropertyRotation,
		Interpolation: asset.InterpolationCubicSpline,
		Times:         []float32{0},
		Rotations:     make([]mgl32.Quat, 2),
	})
	assert.ErrorIs(t, err, ErrInvalidCubicSpline)

	_, err = NewKeyframes(InterpolationLinear, []float32{0, 1}, make([]mgl32.Vec3, 3))
	assert.ErrorIs(t, err, ErrKeyframeCount)
}

func TestEffectiveTime_LoopSymmetry(t *testing.T) {
	start := time.Unix(1000, 0)
	g := NewAnimationGroupNode("loop", []*AnimationNode{{Length: 2}})
	g.SetState(Loop(start))

	d := 2 * time.Second
	for _, x := range []time.Duration{0, 300 * time.Millisecond, time.Second, 1700 * time.Millisecond, d} {
		a, ok := g.EffectiveTime(start.Add(x))
		require.True(t, ok)
		b, ok := g.EffectiveTime(start.Add(2*d - x))
		require.True(t, ok)
		assert.InDelta(t, a, b, 1e-5, "x=%v", x)
		assert.InDelta(t, x.Seconds(), a, 1e-5)
	}
}

func TestEffectiveTime_RepeatPeriodicity(t *testing.T) {
	start := time.Unix(1000, 0)
	g := NewAnimationGroupNode("repeat", []*AnimationNode{{Length: 1.5}, {Length: 2}})
	assert.Equal(t, float32(2), g.Length)
	g.SetState(Repeat(start))

	for _, x := range []time.Duration{0, 250 * time.Millisecond, 1900 * time.Millisecond} {
		a, _ := g.EffectiveTime(start.Add(x))
		for k := 1; k <= 3; k++ {
			b, ok := g.EffectiveTime(start.Add(x + time.Duration(k)*2*time.Second))
			require.True(t, ok)
			assert.InDelta(t, a, b, 1e-4)
		}
	}
}

func TestEffectiveTime_OnceStopsAndZeroLength(t *testing.T) {
	start := time.Unix(1000, 0)
	g := NewAnimationGroupNode("once", []*AnimationNode{{Length: 1}})

	_, ok := g.EffectiveTime(start)
	assert.False(t, ok)

	g.SetState(Once(start))
	got, ok := g.EffectiveTime(start.Add(500 * time.Millisecond))
	require.True(t, ok)
	assert.InDelta(t, 0.5, got, 1e-6)

	g.Update(node.NewGroup(node.NewIDFactory()), start.Add(2*time.Second))
	assert.Equal(t, PlayStopped, g.State.Mode)

	empty := NewAnimationGroupNode("empty", nil)
	empty.SetState(Repeat(start))
	got, ok = empty.EffectiveTime(start.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, float32(0), got)
	empty.SetState(Loop(start))
	got, ok = empty.EffectiveTime(start.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, float32(0), got)
}

func TestAnimationNode_UpdatesTarget(t *testing.T) {
	ids := node.NewIDFactory()
	target := node.NewTransform(ids, node.NewGroup(ids))
	root := node.NewGroup(ids, target)

	s, err := NewSampler(asset.AnimationSampler{
		Property: asset.PropertyTranslation,
		Times:    []float32{0, 1},
		Vectors:  []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}},
	})
	require.NoError(t, err)

	a := &AnimationNode{TargetID: target.ID(), Sampler: s, Length: 1}
	a.Update(root, 0.25)
	assert.Equal(t, mgl32.Vec3{0.5, 0, 0}, target.Translation())
}

func TestAnimationNode_MissingTargetWarns(t *testing.T) {
	var buf bytes.Buffer
	prev := common.Logger()
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer common.SetLogger(prev)

	a := &AnimationNode{TargetID: 42}
	a.Update(node.NewGroup(node.NewIDFactory()), 0)
	assert.Contains(t, buf.String(), "animation target not found")
}
