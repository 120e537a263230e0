package model

import (
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// ContentKind identifies the vertex format of a mesh and the pipeline family drawing it.
type ContentKind int

const (
	// ContentColor is a mesh of ColorVertex.
	ContentColor ContentKind = iota
	// ContentTexture is a mesh of TextureVertex.
	ContentTexture
	// ContentColorSkin is a mesh of ColorSkinVertex.
	ContentColorSkin
	// ContentTextureSkin is a mesh of TextureSkinVertex.
	ContentTextureSkin
)

// String returns the content kind name.
func (k ContentKind) String() string {
	switch k {
	case ContentColor:
		return "Color"
	case ContentTexture:
		return "Texture"
	case ContentColorSkin:
		return "ColorSkin"
	case ContentTextureSkin:
		return "TextureSkin"
	}
	return "Unknown"
}

// Skinned reports whether the content carries joint indices and weights.
func (k ContentKind) Skinned() bool {
	return k == ContentColorSkin || k == ContentTextureSkin
}

// Textured reports whether the content samples a texture.
func (k ContentKind) Textured() bool {
	return k == ContentTexture || k == ContentTextureSkin
}

// Vertex is a GPU vertex that can serialize itself.
type Vertex interface {
	// Size returns the vertex stride in bytes.
	//
	// Returns:
	//   - int: the size of the vertex in bytes
	Size() int

	// MarshalTo writes the vertex into buf, which must hold Size() bytes.
	//
	// Parameters:
	//   - buf: the destination
	MarshalTo(buf []byte)
}

// ColorVertex is a vertex with a per-vertex colour.
// Matches the WGSL ColorVertexInput struct.
// Size: 40 bytes.
type ColorVertex struct {
	Position [3]float32 // offset  0
	Color    [4]float32 // offset 12: linear RGBA
	Normal   [3]float32 // offset 28
}

func (v ColorVertex) Size() int {
	return int(unsafe.Sizeof(v))
}

func (v ColorVertex) MarshalTo(buf []byte) {
	off := common.PutFloat32s(buf, v.Position[:]...)
	off += common.PutFloat32s(buf[off:], v.Color[:]...)
	common.PutFloat32s(buf[off:], v.Normal[:]...)
}

// TextureVertex is a vertex with texture coordinates.
// Matches the WGSL TextureVertexInput struct.
// Size: 32 bytes.
type TextureVertex struct {
	Position [3]float32 // offset  0
	TexCoord [2]float32 // offset 12
	Normal   [3]float32 // offset 20
}

func (v TextureVertex) Size() int {
	return int(unsafe.Sizeof(v))
}

func (v TextureVertex) MarshalTo(buf []byte) {
	off := common.PutFloat32s(buf, v.Position[:]...)
	off += common.PutFloat32s(buf[off:], v.TexCoord[:]...)
	common.PutFloat32s(buf[off:], v.Normal[:]...)
}

// ColorSkinVertex extends ColorVertex with up to four joint influences.
// Matches the WGSL ColorSkinVertexInput struct.
// Size: 72 bytes.
type ColorSkinVertex struct {
	ColorVertex            // offset  0: 40 bytes
	JointIndex  [4]uint32  // offset 40
	JointWeight [4]float32 // offset 56
}

func (v ColorSkinVertex) Size() int {
	return int(unsafe.Sizeof(v))
}

func (v ColorSkinVertex) MarshalTo(buf []byte) {
	v.ColorVertex.MarshalTo(buf)
	putJoints(buf[40:], v.JointIndex, v.JointWeight)
}

// TextureSkinVertex extends TextureVertex with up to four joint influences.
// Matches the WGSL TextureSkinVertexInput struct.
// Size: 64 bytes.
type TextureSkinVertex struct {
	TextureVertex            // offset  0: 32 bytes
	JointIndex    [4]uint32  // offset 32
	JointWeight   [4]float32 // offset 48
}

func (v TextureSkinVertex) Size() int {
	return int(unsafe.Sizeof(v))
}

func (v TextureSkinVertex) MarshalTo(buf []byte) {
	v.TextureVertex.MarshalTo(buf)
	putJoints(buf[32:], v.JointIndex, v.JointWeight)
}

func putJoints(buf []byte, index [4]uint32, weight [4]float32) {
	for i, j := range index {
		binary.LittleEndian.PutUint32(buf[i*4:], j)
	}
	common.PutFloat32s(buf[16:], weight[:]...)
}

// MarshalVertices serializes vertices back to back.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: the vertex buffer contents
func MarshalVertices[V Vertex](vertices []V) []byte {
	if len(vertices) == 0 {
		return nil
	}
	stride := vertices[0].Size()
	buf := make([]byte, stride*len(vertices))
	for i, v := range vertices {
		v.MarshalTo(buf[i*stride:])
	}
	return buf
}

// MarshalIndices serializes u32 indices in little-endian order.
//
// Parameters:
//   - indices: the index list
//
// Returns:
//   - []byte: the index buffer contents
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
