package asset

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeTransform is either a full matrix or a decomposed translation/rotation/scale.
type NodeTransform struct {
	matrix      *mgl32.Mat4
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// MatrixTransform wraps a raw local matrix.
func MatrixTransform(m mgl32.Mat4) *NodeTransform {
	t, r, s := common.DecomposeTRS(m)
	return &NodeTransform{matrix: &m, Translation: t, Rotation: r, Scale: s}
}

// DecomposedTransform wraps a translation, rotation and scale triple.
func DecomposedTransform(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) *NodeTransform {
	return &NodeTransform{Translation: translation, Rotation: rotation, Scale: scale}
}

// Matrix returns the local matrix, composing it from TRS when the transform was decomposed.
func (t *NodeTransform) Matrix() mgl32.Mat4 {
	if t.matrix != nil {
		return *t.matrix
	}
	return common.ComposeTRS(t.Translation, t.Rotation, t.Scale)
}

// IsMatrix reports whether the source provided a raw matrix.
func (t *NodeTransform) IsMatrix() bool {
	return t.matrix != nil
}

// NodeAsset is one node of a source scene hierarchy.
type NodeAsset struct {
	ID        Index
	Name      string
	Camera    *CameraAsset
	Children  []*NodeAsset
	Skin      *SkinAsset
	Transform *NodeTransform
	Mesh      *MeshAsset
	// Weights are default morph target weights, carried through untouched.
	Weights []float32
}

// Walk visits n and all of its descendants depth-first.
func (n *NodeAsset) Walk(fn func(*NodeAsset)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
