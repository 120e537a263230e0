package asset

import "github.com/go-gl/mathgl/mgl32"

// AnimationProperty is the transform component an animation channel drives.
type AnimationProperty uint8

const (
	PropertyTranslation AnimationProperty = iota
	PropertyRotation
	PropertyScale
)

// Interpolation is the keyframe interpolation mode of a channel.
type Interpolation uint8

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// AnimationSampler holds keyframe times and values for one channel. Rotation
// channels use Rotations, translation and scale channels use Vectors. For
// cubic-spline channels every time has three consecutive values
// (in-tangent, value, out-tangent).
type AnimationSampler struct {
	Property      AnimationProperty
	Interpolation Interpolation
	Times         []float32
	Rotations     []mgl32.Quat
	Vectors       []mgl32.Vec3
}

// AnimationChannelAsset drives one property of one node.
type AnimationChannelAsset struct {
	TargetID Index
	Sampler  AnimationSampler
	// Length is the channel duration in seconds (the last keyframe time).
	Length float32
}

// AnimationAsset is a named set of channels played together.
type AnimationAsset struct {
	Name     string
	Channels []AnimationChannelAsset
}
