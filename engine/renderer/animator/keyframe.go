package animator

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidCubicSpline is returned when a cubic-spline value stream is not
	// made of (in-tangent, value, out-tangent) triples, one per keyframe time.
	ErrInvalidCubicSpline = errors.New("cubic spline values are not triples per keyframe")

	// ErrKeyframeCount is returned when times and values differ in length.
	ErrKeyframeCount = errors.New("keyframe times and values differ in length")
)

// Interpolation selects how values between two keyframes are computed.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// String returns the interpolation name.
func (i Interpolation) String() string {
	switch i {
	case InterpolationLinear:
		return "Linear"
	case InterpolationStep:
		return "Step"
	case InterpolationCubicSpline:
		return "CubicSpline"
	}
	return "Unknown"
}

// Keyframe is one sample of a channel. In and Out are the cubic-spline
// tangents and are zero for the other interpolations.
type Keyframe[T any] struct {
	Time  float32
	In    T
	Value T
	Out   T
}

// Keyframes is a time-ordered channel with one interpolation mode.
type Keyframes[T any] struct {
	Interpolation Interpolation
	Frames        []Keyframe[T]
}

// NewKeyframes pairs keyframe times with values. Cubic-spline values are a
// flat (in, value, out) stream regrouped into triples.
//
// Parameters:
//   - interpolation: the interpolation mode
//   - times: the keyframe times in seconds, ascending
//   - values: one value per time, or three per time for cubic splines
//
// Returns:
//   - Keyframes[T]: the channel
//   - error: ErrInvalidCubicSpline or ErrKeyframeCount when the lengths do not match
func NewKeyframes[T any](interpolation Interpolation, times []float32, values []T) (Keyframes[T], error) {
	k := Keyframes[T]{Interpolation: interpolation, Frames: make([]Keyframe[T], len(times))}
	if interpolation == InterpolationCubicSpline {
		if len(values)%3 != 0 || len(values)/3 != len(times) {
			return Keyframes[T]{}, fmt.Errorf("%d values for %d times: %w", len(values), len(times), ErrInvalidCubicSpline)
		}
		for i, t := range times {
			k.Frames[i] = Keyframe[T]{Time: t, In: values[i*3], Value: values[i*3+1], Out: values[i*3+2]}
		}
		return k, nil
	}

	if len(values) != len(times) {
		return Keyframes[T]{}, fmt.Errorf("%d values for %d times: %w", len(values), len(times), ErrKeyframeCount)
	}
	for i, t := range times {
		k.Frames[i] = Keyframe[T]{Time: t, Value: values[i]}
	}
	return k, nil
}

// FindKeyframe scans forward to the first pair whose next keyframe lies after
// time. It reports false once time reaches the last keyframe, where the
// channel stops contributing.
//
// Parameters:
//   - time: the query time in seconds
//   - frames: the keyframes, ascending by time
//
// Returns:
//   - current, next: the surrounding keyframes
//   - progress: (time - current) / (next - current) clamped to [0, 1]
//   - ok: false when there is no following keyframe
func FindKeyframe[T any](time float32, frames []Keyframe[T]) (current, next Keyframe[T], progress float32, ok bool) {
	index := 0
	for index+1 < len(frames) && frames[index+1].Time <= time {
		index++
	}
	if index >= len(frames)-1 {
		return current, next, 0, false
	}
	current, next = frames[index], frames[index+1]
	span := next.Time - current.Time
	if span > 0 {
		progress = mgl32.Clamp((time-current.Time)/span, 0, 1)
	}
	return current, next, progress, true
}

// space is the vector arithmetic interpolation needs.
type space[T any] struct {
	add   func(a, b T) T
	scale func(a T, s float32) T
}

var (
	vec3Space = space[mgl32.Vec3]{add: mgl32.Vec3.Add, scale: mgl32.Vec3.Mul}
	quatSpace = space[mgl32.Quat]{add: mgl32.Quat.Add, scale: mgl32.Quat.Scale}
)

func (s space[T]) linear(a, b T, p float32) T {
	return s.add(s.scale(a, 1-p), s.scale(b, p))
}

// hermite evaluates the cubic Hermite spline between vk and vk1 at progress t,
// with both tangents scaled by td, the remaining progress 1-t.
func (s space[T]) hermite(vk, outK, vk1, inK1 T, t, td float32) T {
	t2 := t * t
	t3 := t2 * t
	v := s.scale(vk, 2*t3-3*t2+1)
	v = s.add(v, s.scale(outK, td*(t3-2*t2+t)))
	v = s.add(v, s.scale(vk1, -2*t3+3*t2))
	return s.add(v, s.scale(inK1, td*(t3-t2)))
}

func sample[T any](s space[T], k Keyframes[T], time float32) (T, bool) {
	current, next, p, ok := FindKeyframe(time, k.Frames)
	if !ok {
		var zero T
		return zero, false
	}
	switch k.Interpolation {
	case InterpolationStep:
		return current.Value, true
	case InterpolationCubicSpline:
		return s.hermite(current.Value, current.Out, next.Value, next.In, p, 1-p), true
	default:
		return s.linear(current.Value, next.Value, p), true
	}
}

// SampleVec3 samples a translation or scale channel.
//
// Parameters:
//   - k: the channel
//   - time: the query time in seconds
//
// Returns:
//   - mgl32.Vec3: the sampled value
//   - bool: false past the last keyframe
func SampleVec3(k Keyframes[mgl32.Vec3], time float32) (mgl32.Vec3, bool) {
	return sample(vec3Space, k, time)
}

// SampleQuat samples a rotation channel. Linear and cubic-spline results are normalized.
//
// Parameters:
//   - k: the channel
//   - time: the query time in seconds
//
// Returns:
//   - mgl32.Quat: the sampled rotation
//   - bool: false past the last keyframe
func SampleQuat(k Keyframes[mgl32.Quat], time float32) (mgl32.Quat, bool) {
	q, ok := sample(quatSpace, k, time)
	if ok && k.Interpolation != InterpolationStep {
		q = q.Normalize()
	}
	return q, ok
}
