package asset

import "github.com/go-gl/mathgl/mgl32"

// TextureFormat is the pixel layout of TextureAsset.Data.
type TextureFormat uint8

const (
	TextureFormatR8 TextureFormat = iota
	TextureFormatRg8
	TextureFormatRgb8
	TextureFormatRgba8
	TextureFormatR16
	TextureFormatRg16
	TextureFormatRgb16
	TextureFormatRgba16
)

// Channels returns the number of colour channels.
func (f TextureFormat) Channels() int {
	switch f {
	case TextureFormatR8, TextureFormatR16:
		return 1
	case TextureFormatRg8, TextureFormatRg16:
		return 2
	case TextureFormatRgb8, TextureFormatRgb16:
		return 3
	default:
		return 4
	}
}

// BytesPerChannel returns 1 for 8-bit formats and 2 for 16-bit formats.
func (f TextureFormat) BytesPerChannel() int {
	if f >= TextureFormatR16 {
		return 2
	}
	return 1
}

// FilterMode selects nearest or linear sampling.
type FilterMode uint8

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// WrapMode selects how coordinates outside [0, 1] are resolved.
type WrapMode uint8

const (
	WrapClampToEdge WrapMode = iota
	WrapMirroredRepeat
	WrapRepeat
)

// SamplerAsset carries the sampling parameters of a texture.
type SamplerAsset struct {
	MagFilter    FilterMode
	MinFilter    FilterMode
	MipmapFilter FilterMode
	WrapU        WrapMode
	WrapV        WrapMode
}

// TextureAsset is a decoded image plus its sampler.
type TextureAsset struct {
	ID      Index
	Width   uint32
	Height  uint32
	Format  TextureFormat
	Data    []byte
	Sampler SamplerAsset
}

// TextureTransform is a texture-coordinate transform (offset, rotation in radians, scale).
type TextureTransform struct {
	Offset   mgl32.Vec2
	Rotation float32
	Scale    mgl32.Vec2
}

// IdentityTextureTransform leaves coordinates untouched.
func IdentityTextureTransform() TextureTransform {
	return TextureTransform{Scale: mgl32.Vec2{1, 1}}
}

// TextureInfo references a texture from a material.
type TextureInfo struct {
	Texture   *TextureAsset
	TexCoord  int
	Transform *TextureTransform
}
