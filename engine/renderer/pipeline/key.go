package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// ShaderType identifies the vertex format and entry point family of a pipeline.
type ShaderType int

const (
	// ShaderTypeLight draws unlit coloured helpers such as light boxes and the crosshair.
	ShaderTypeLight ShaderType = iota
	// ShaderTypeColor draws per-vertex coloured meshes.
	ShaderTypeColor
	// ShaderTypeTexture draws textured meshes.
	ShaderTypeTexture
	// ShaderTypeColorSkin draws skinned coloured meshes.
	ShaderTypeColorSkin
	// ShaderTypeTextureSkin draws skinned textured meshes.
	ShaderTypeTextureSkin
)

// String returns the shader type name.
func (s ShaderType) String() string {
	switch s {
	case ShaderTypeLight:
		return "Light"
	case ShaderTypeColor:
		return "Color"
	case ShaderTypeTexture:
		return "Texture"
	case ShaderTypeColorSkin:
		return "ColorSkin"
	case ShaderTypeTextureSkin:
		return "TextureSkin"
	}
	return "Unknown"
}

// Accepts reports whether a pipeline of this shader type can draw a mesh of the
// given content kind. Colour content accepts Color and Light pipelines.
//
// Parameters:
//   - content: the mesh content kind
//
// Returns:
//   - bool: true if the vertex formats match
func (s ShaderType) Accepts(content model.ContentKind) bool {
	switch content {
	case model.ContentColor:
		return s == ShaderTypeColor || s == ShaderTypeLight
	case model.ContentTexture:
		return s == ShaderTypeTexture
	case model.ContentColorSkin:
		return s == ShaderTypeColorSkin
	case model.ContentTextureSkin:
		return s == ShaderTypeTextureSkin
	}
	return false
}

// ShaderTypeFor returns the non-light shader type drawing a content kind.
//
// Parameters:
//   - content: the mesh content kind
//
// Returns:
//   - ShaderType: the matching shader type
func ShaderTypeFor(content model.ContentKind) ShaderType {
	switch content {
	case model.ContentTexture:
		return ShaderTypeTexture
	case model.ContentColorSkin:
		return ShaderTypeColorSkin
	case model.ContentTextureSkin:
		return ShaderTypeTextureSkin
	}
	return ShaderTypeColor
}

// AlphaMode selects the blend state of a pipeline.
type AlphaMode int

const (
	// AlphaModeOpaque replaces the target colour.
	AlphaModeOpaque AlphaMode = iota
	// AlphaModeMask replaces the target colour; the cutoff is applied by the material.
	AlphaModeMask
	// AlphaModeBlend blends premultiplied colour over the target.
	AlphaModeBlend
)

// String returns the alpha mode name.
func (a AlphaMode) String() string {
	switch a {
	case AlphaModeOpaque:
		return "Opaque"
	case AlphaModeMask:
		return "Mask"
	case AlphaModeBlend:
		return "Blend"
	}
	return "Unknown"
}

// Key is the content identity of a pipeline. Equal keys share one pipeline.
type Key struct {
	Shader    ShaderType
	Topology  wgpu.PrimitiveTopology
	AlphaMode AlphaMode
	Lit       bool
	Outline   bool
}

// String renders the key as a pipeline label.
func (k Key) String() string {
	s := fmt.Sprintf("%s/%s/%s", k.Shader, topologyName(k.Topology), k.AlphaMode)
	if k.Lit {
		s += "/Lit"
	}
	if k.Outline {
		s += "/Outline"
	}
	return s
}

func topologyName(t wgpu.PrimitiveTopology) string {
	switch t {
	case wgpu.PrimitiveTopologyPointList:
		return "PointList"
	case wgpu.PrimitiveTopologyLineList:
		return "LineList"
	case wgpu.PrimitiveTopologyLineStrip:
		return "LineStrip"
	case wgpu.PrimitiveTopologyTriangleList:
		return "TriangleList"
	case wgpu.PrimitiveTopologyTriangleStrip:
		return "TriangleStrip"
	}
	return "Unknown"
}

// IsTriangles reports whether a topology rasterizes faces.
func IsTriangles(t wgpu.PrimitiveTopology) bool {
	return t == wgpu.PrimitiveTopologyTriangleList || t == wgpu.PrimitiveTopologyTriangleStrip
}
