package loader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
)

var white = mgl32.Vec4{1, 1, 1, 1}

func topology(mode asset.PrimitiveMode) wgpu.PrimitiveTopology {
	switch mode {
	case asset.ModePoints:
		return wgpu.PrimitiveTopologyPointList
	case asset.ModeLineList:
		return wgpu.PrimitiveTopologyLineList
	case asset.ModeLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	case asset.ModeTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	}
	return wgpu.PrimitiveTopologyTriangleList
}

func alphaMode(m *asset.MaterialAsset) pipeline.AlphaMode {
	if m == nil {
		return pipeline.AlphaModeOpaque
	}
	switch m.AlphaMode {
	case asset.AlphaMask:
		return pipeline.AlphaModeMask
	case asset.AlphaBlend:
		return pipeline.AlphaModeBlend
	}
	return pipeline.AlphaModeOpaque
}

func materialKind(m *asset.MaterialAsset) (asset.MaterialKind, bool) {
	if m == nil || m.Data == nil {
		return 0, false
	}
	return m.Data.Kind(), true
}

func lit(m *asset.MaterialAsset) bool {
	kind, ok := materialKind(m)
	return !ok || kind != asset.MaterialUnlit
}

func hasOutline(m *asset.MaterialAsset, t wgpu.PrimitiveTopology) bool {
	kind, ok := materialKind(m)
	return ok && pipeline.IsTriangles(t) && (kind == asset.MaterialMToon || kind == asset.MaterialPmx)
}

func diffuse(m *asset.MaterialAsset) (mgl32.Vec4, *asset.TextureInfo) {
	if m == nil || m.Data == nil {
		return white, nil
	}
	return m.Data.Diffuse()
}

func validatePrimitive(p *asset.PrimitiveAsset) error {
	a := p.Attributes
	n := len(a.Position)
	if n == 0 {
		return fmt.Errorf("primitive has no positions: %w", ErrUnsupportedPrimitive)
	}
	if len(a.Normal) != 0 && len(a.Normal) != n {
		return fmt.Errorf("%d normals for %d positions: %w", len(a.Normal), n, ErrUnsupportedPrimitive)
	}
	for i, set := range a.TexCoord {
		if len(set) != n {
			return fmt.Errorf("texcoord set %d has %d entries for %d positions: %w", i, len(set), n, ErrUnsupportedPrimitive)
		}
	}
	if len(a.Joints) != len(a.Weights) {
		return fmt.Errorf("%d joint sets with %d weight sets: %w", len(a.Joints), len(a.Weights), ErrUnsupportedPrimitive)
	}
	for i := range a.Joints {
		if len(a.Joints[i]) != n || len(a.Weights[i]) != n {
			return fmt.Errorf("joint set %d does not match %d positions: %w", i, n, ErrUnsupportedPrimitive)
		}
	}
	for _, idx := range p.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d out of range for %d positions: %w", idx, n, ErrUnsupportedPrimitive)
		}
	}
	return nil
}

// primitiveNormals returns the source normals, or face normals accumulated
// from the triangle list when the source has none.
func primitiveNormals(p *asset.PrimitiveAsset) [][3]float32 {
	a := p.Attributes
	if len(a.Normal) == len(a.Position) {
		out := make([][3]float32, len(a.Normal))
		for i, n := range a.Normal {
			out[i] = n
		}
		return out
	}
	if p.Mode != asset.ModeTriangleList {
		return make([][3]float32, len(a.Position))
	}
	positions := make([][3]float32, len(a.Position))
	for i, v := range a.Position {
		positions[i] = v
	}
	return model.ComputeNormals(positions, p.Indices)
}

func vertexColor(a asset.PrimitiveAttributes, i int, fallback mgl32.Vec4) [4]float32 {
	if len(a.Color) == 0 {
		return fallback
	}
	if i < len(a.Color[0]) {
		return a.Color[0][i]
	}
	return white
}

func joints(a asset.PrimitiveAttributes, i int) ([4]uint32, [4]float32) {
	j := a.Joints[0][i]
	return [4]uint32{uint32(j[0]), uint32(j[1]), uint32(j[2]), uint32(j[3])}, a.Weights[0][i]
}

func texCoords(a asset.PrimitiveAttributes, info *asset.TextureInfo) []mgl32.Vec2 {
	if info.TexCoord >= 0 && info.TexCoord < len(a.TexCoord) {
		return a.TexCoord[info.TexCoord]
	}
	return a.TexCoord[0]
}

// buildMesh picks the vertex content of a primitive. Precedence: skinned and
// textured, skinned, textured, vertex coloured, flat diffuse colour.
func buildMesh(name string, p *asset.PrimitiveAsset) (model.Mesh, *asset.TextureInfo) {
	a := p.Attributes
	normals := primitiveNormals(p)
	factor, info := diffuse(p.Material)
	skinned := len(a.Joints) > 0
	textured := info != nil && len(a.TexCoord) > 0

	options := []model.MeshBuilderOption{model.WithName(name)}
	if len(p.Indices) > 0 {
		options = append(options, model.WithIndices(p.Indices))
	}

	colorVertex := func(i int) model.ColorVertex {
		return model.ColorVertex{Position: a.Position[i], Color: vertexColor(a, i, factor), Normal: normals[i]}
	}

	switch {
	case skinned && textured:
		uv := texCoords(a, info)
		vertices := make([]model.TextureSkinVertex, len(a.Position))
		for i := range vertices {
			index, weight := joints(a, i)
			vertices[i] = model.TextureSkinVertex{
				TextureVertex: model.TextureVertex{Position: a.Position[i], TexCoord: uv[i], Normal: normals[i]},
				JointIndex:    index,
				JointWeight:   weight,
			}
		}
		return model.NewMesh(append(options, model.WithTextureSkinVertices(vertices))...), info
	case skinned:
		vertices := make([]model.ColorSkinVertex, len(a.Position))
		for i := range vertices {
			index, weight := joints(a, i)
			vertices[i] = model.ColorSkinVertex{ColorVertex: colorVertex(i), JointIndex: index, JointWeight: weight}
		}
		return model.NewMesh(append(options, model.WithColorSkinVertices(vertices))...), nil
	case textured:
		uv := texCoords(a, info)
		vertices := make([]model.TextureVertex, len(a.Position))
		for i := range vertices {
			vertices[i] = model.TextureVertex{Position: a.Position[i], TexCoord: uv[i], Normal: normals[i]}
		}
		return model.NewMesh(append(options, model.WithTextureVertices(vertices))...), info
	default:
		vertices := make([]model.ColorVertex, len(a.Position))
		for i := range vertices {
			vertices[i] = colorVertex(i)
		}
		return model.NewMesh(append(options, model.WithColorVertices(vertices))...), nil
	}
}

func (l *loader) loadPrimitive(device gpu.Device, name string, p *asset.PrimitiveAsset) (node.Primitive, error) {
	if err := validatePrimitive(p); err != nil {
		return nil, fmt.Errorf("load primitive %s: %w", name, err)
	}

	mesh, info := buildMesh(name, p)
	key := pipeline.Key{
		Shader:    pipeline.ShaderTypeFor(mesh.Content()),
		Topology:  topology(p.Mode),
		AlphaMode: alphaMode(p.Material),
		Lit:       lit(p.Material),
	}
	main, err := l.pipelines.Get(device, key)
	if err != nil {
		return nil, fmt.Errorf("load primitive %s: %w", name, err)
	}

	var options []node.PrimitiveBuilderOption
	if hasOutline(p.Material, key.Topology) {
		key.Outline = true
		outline, err := l.pipelines.Get(device, key)
		if err != nil {
			return nil, fmt.Errorf("load primitive %s outline: %w", name, err)
		}
		options = append(options, node.WithOutline(outline))
	}

	if info != nil {
		if info.Texture == nil {
			return nil, fmt.Errorf("load primitive %s: %w", name, ErrMissingTexture)
		}
		tex, err := l.textures.Load(device, info.Texture)
		if err != nil {
			return nil, fmt.Errorf("load primitive %s texture: %w", name, err)
		}
		group, err := l.textures.Bind(device, tex, info.Transform)
		if err != nil {
			return nil, fmt.Errorf("load primitive %s texture: %w", name, err)
		}
		options = append(options, node.WithTexture(group))
	}

	return node.NewPrimitive(l.ids, mesh, main, options...), nil
}
