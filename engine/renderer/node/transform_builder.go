package node

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// TransformBuilderOption is a functional option used to configure a Transform during construction.
type TransformBuilderOption func(*transform)

// WithTranslation sets the initial translation.
//
// Parameters:
//   - v: the translation
//
// Returns:
//   - TransformBuilderOption: a function that sets the translation
func WithTranslation(v mgl32.Vec3) TransformBuilderOption {
	return func(t *transform) {
		t.translation = v
	}
}

// WithRotation sets the initial rotation.
//
// Parameters:
//   - r: the rotation
//
// Returns:
//   - TransformBuilderOption: a function that sets the rotation
func WithRotation(r mgl32.Quat) TransformBuilderOption {
	return func(t *transform) {
		t.rotation = r
	}
}

// WithScale sets the initial scale.
//
// Parameters:
//   - s: the scale
//
// Returns:
//   - TransformBuilderOption: a function that sets the scale
func WithScale(s mgl32.Vec3) TransformBuilderOption {
	return func(t *transform) {
		t.scale = s
	}
}

// WithMatrix sets the initial transform from a matrix.
//
// Parameters:
//   - m: an affine transform without shear
//
// Returns:
//   - TransformBuilderOption: a function that decomposes and sets the transform
func WithMatrix(m mgl32.Mat4) TransformBuilderOption {
	return func(t *transform) {
		t.translation, t.rotation, t.scale = common.DecomposeTRS(m)
	}
}
