package asset

import "github.com/go-gl/mathgl/mgl32"

// MaterialKind names the lighting model of a material.
type MaterialKind uint8

const (
	MaterialPbr MaterialKind = iota
	MaterialBlinnPhong
	MaterialUnlit
	MaterialMToon
	MaterialPmx
)

// MaterialData is the lighting-model specific part of a material.
type MaterialData interface {
	// Kind returns the lighting model.
	Kind() MaterialKind

	// Diffuse returns the base colour factor and the optional base colour texture.
	//
	// Returns:
	//   - mgl32.Vec4: RGBA factor
	//   - *TextureInfo: the diffuse texture, or nil
	Diffuse() (mgl32.Vec4, *TextureInfo)
}

// PbrMaterial is the glTF metallic-roughness model.
type PbrMaterial struct {
	BaseColorFactor          mgl32.Vec4
	BaseColorTexture         *TextureInfo
	MetallicFactor           float32
	RoughnessFactor          float32
	MetallicRoughnessTexture *TextureInfo
}

func (m *PbrMaterial) Kind() MaterialKind { return MaterialPbr }
func (m *PbrMaterial) Diffuse() (mgl32.Vec4, *TextureInfo) {
	return m.BaseColorFactor, m.BaseColorTexture
}

// BlinnPhongMaterial is the MTL model used by OBJ files.
type BlinnPhongMaterial struct {
	AmbientColor    mgl32.Vec3
	DiffuseColor    mgl32.Vec3
	SpecularColor   mgl32.Vec3
	Shininess       float32
	Dissolve        float32
	OpticalDensity  float32
	AmbientTexture  *TextureInfo
	DiffuseTexture  *TextureInfo
	SpecularTexture *TextureInfo
}

func (m *BlinnPhongMaterial) Kind() MaterialKind { return MaterialBlinnPhong }
func (m *BlinnPhongMaterial) Diffuse() (mgl32.Vec4, *TextureInfo) {
	return m.DiffuseColor.Vec4(1), m.DiffuseTexture
}

// UnlitMaterial is glTF KHR_materials_unlit.
type UnlitMaterial struct {
	BaseColorFactor  mgl32.Vec4
	BaseColorTexture *TextureInfo
}

func (m *UnlitMaterial) Kind() MaterialKind { return MaterialUnlit }
func (m *UnlitMaterial) Diffuse() (mgl32.Vec4, *TextureInfo) {
	return m.BaseColorFactor, m.BaseColorTexture
}

// MToonMaterial is the VRM toon model. Only the fields the viewer renders are kept.
type MToonMaterial struct {
	BaseColorFactor       mgl32.Vec4
	BaseColorTexture      *TextureInfo
	ShadeColorFactor      mgl32.Vec3
	ShadingToonyFactor    float32
	OutlineWidthFactor    float32
	OutlineColorFactor    mgl32.Vec3
	TransparentWithZWrite bool
}

func (m *MToonMaterial) Kind() MaterialKind { return MaterialMToon }
func (m *MToonMaterial) Diffuse() (mgl32.Vec4, *TextureInfo) {
	return m.BaseColorFactor, m.BaseColorTexture
}

// PmxMaterial is the MikuMikuDance model.
type PmxMaterial struct {
	NoCull           bool
	HasEdge          bool
	AmbientColor     mgl32.Vec3
	DiffuseColor     mgl32.Vec4
	SpecularColor    mgl32.Vec3
	SpecularStrength float32
	EdgeColor        mgl32.Vec4
	EdgeScale        float32
	Texture          *TextureInfo
	Environment      *TextureInfo
}

func (m *PmxMaterial) Kind() MaterialKind { return MaterialPmx }
func (m *PmxMaterial) Diffuse() (mgl32.Vec4, *TextureInfo) {
	return m.DiffuseColor, m.Texture
}

// AlphaMode controls transparency handling.
type AlphaMode uint8

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// UVAnimation scrolls texture coordinates over time. Carried through for the shader.
type UVAnimation struct {
	ScrollXSpeed  float32
	ScrollYSpeed  float32
	RotationSpeed float32
}

// MaterialAsset describes the surface of a primitive.
type MaterialAsset struct {
	ID             Index
	Name           string
	Data           MaterialData
	Normal         *TextureInfo
	Occlusion      *TextureInfo
	Emissive       *TextureInfo
	EmissiveFactor mgl32.Vec3
	AlphaMode      AlphaMode
	// AlphaCutoff applies when AlphaMode is AlphaMask.
	AlphaCutoff float32
	DoubleSided bool
	UVAnimation *UVAnimation
}
