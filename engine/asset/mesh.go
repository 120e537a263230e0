package asset

import "github.com/go-gl/mathgl/mgl32"

// PrimitiveMode is the topology of a primitive.
type PrimitiveMode uint8

const (
	ModeTriangleList PrimitiveMode = iota
	ModeTriangleStrip
	ModeLineList
	ModeLineStrip
	ModePoints
)

// PrimitiveAttributes are the per-vertex streams of a primitive. Every
// non-empty stream has the same length as Position.
type PrimitiveAttributes struct {
	Position []mgl32.Vec3
	Normal   []mgl32.Vec3
	Tangent  []mgl32.Vec4
	TexCoord [][]mgl32.Vec2
	Color    [][]mgl32.Vec4
	Joints   [][][4]uint16
	Weights  [][]mgl32.Vec4
}

// MorphTarget is a displacement set. Targets are carried through but never evaluated.
type MorphTarget struct {
	Position []mgl32.Vec3
	Normal   []mgl32.Vec3
	Tangent  []mgl32.Vec3
}

// PrimitiveAsset is one draw call worth of geometry.
type PrimitiveAsset struct {
	Attributes PrimitiveAttributes
	Indices    []uint32
	Material   *MaterialAsset
	Mode       PrimitiveMode
	Targets    []MorphTarget
}

// MeshAsset groups the primitives of a mesh.
type MeshAsset struct {
	ID         Index
	Name       string
	Primitives []*PrimitiveAsset
}
