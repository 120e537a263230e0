package animator

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
)

// Sampler is the keyframe channel of one transform component. Rotation
// samplers use Rotations; translation and scale samplers use Vectors.
type Sampler struct {
	Property  asset.AnimationProperty
	Rotations Keyframes[mgl32.Quat]
	Vectors   Keyframes[mgl32.Vec3]
}

// NewSampler converts an asset sampler into keyframes.
//
// Parameters:
//   - s: the asset sampler
//
// Returns:
//   - Sampler: the sampler
//   - error: ErrInvalidCubicSpline or ErrKeyframeCount on malformed streams
func NewSampler(s asset.AnimationSampler) (Sampler, error) {
	interpolation := interpolationOf(s.Interpolation)
	out := Sampler{Property: s.Property}
	var err error
	if s.Property == asset.PropertyRotation {
		out.Rotations, err = NewKeyframes(interpolation, s.Times, s.Rotations)
	} else {
		out.Vectors, err = NewKeyframes(interpolation, s.Times, s.Vectors)
	}
	return out, err
}

func interpolationOf(i asset.Interpolation) Interpolation {
	switch i {
	case asset.InterpolationStep:
		return InterpolationStep
	case asset.InterpolationCubicSpline:
		return InterpolationCubicSpline
	}
	return InterpolationLinear
}

// Apply samples the channel at time and writes the component into t.
//
// Parameters:
//   - t: the animated transform
//   - time: the channel time in seconds
//
// Returns:
//   - bool: false when the channel had no value at time
func (s Sampler) Apply(t node.Transform, time float32) bool {
	switch s.Property {
	case asset.PropertyRotation:
		q, ok := SampleQuat(s.Rotations, time)
		if ok {
			t.SetRotation(q)
		}
		return ok
	case asset.PropertyScale:
		v, ok := SampleVec3(s.Vectors, time)
		if ok {
			t.SetScale(v)
		}
		return ok
	default:
		v, ok := SampleVec3(s.Vectors, time)
		if ok {
			t.SetTranslation(v)
		}
		return ok
	}
}

// AnimationNode drives one component of one transform node.
type AnimationNode struct {
	TargetID node.ID
	Sampler  Sampler
	// Length is the channel duration in seconds.
	Length float32
}

// Update samples the channel and writes the result into the target
// transform found under root. A missing target logs a warning and does nothing.
//
// Parameters:
//   - root: the render tree
//   - time: the channel time in seconds
func (a *AnimationNode) Update(root node.Node, time float32) {
	t := node.FindTransform(root, a.TargetID)
	if t == nil {
		common.Logger().Warn("animation target not found", "node", a.TargetID)
		return
	}
	a.Sampler.Apply(t, time)
}

// String describes the channel.
func (a *AnimationNode) String() string {
	return fmt.Sprintf("%v of node %d over %.3fs", propertyName(a.Sampler.Property), a.TargetID, a.Length)
}

func propertyName(p asset.AnimationProperty) string {
	switch p {
	case asset.PropertyRotation:
		return "rotation"
	case asset.PropertyScale:
		return "scale"
	}
	return "translation"
}
