package model

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithName sets the label of the Mesh.
//
// Parameters:
//   - name: the mesh label
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

func withVertices[V Vertex](kind ContentKind, vertices []V) MeshBuilderOption {
	return func(m *mesh) {
		m.content = kind
		m.vertexData = MarshalVertices(vertices)
		m.vertexCount = len(vertices)
	}
}

// WithColorVertices sets ColorVertex data and the Color content kind.
//
// Parameters:
//   - vertices: the vertices
//
// Returns:
//   - MeshBuilderOption: a function that applies the vertices to a mesh
func WithColorVertices(vertices []ColorVertex) MeshBuilderOption {
	return withVertices(ContentColor, vertices)
}

// WithTextureVertices sets TextureVertex data and the Texture content kind.
func WithTextureVertices(vertices []TextureVertex) MeshBuilderOption {
	return withVertices(ContentTexture, vertices)
}

// WithColorSkinVertices sets ColorSkinVertex data and the ColorSkin content kind.
func WithColorSkinVertices(vertices []ColorSkinVertex) MeshBuilderOption {
	return withVertices(ContentColorSkin, vertices)
}

// WithTextureSkinVertices sets TextureSkinVertex data and the TextureSkin content kind.
func WithTextureSkinVertices(vertices []TextureSkinVertex) MeshBuilderOption {
	return withVertices(ContentTextureSkin, vertices)
}

// WithIndices sets the u32 index list of the Mesh.
//
// Parameters:
//   - indices: the index list
//
// Returns:
//   - MeshBuilderOption: a function that applies the indices to a mesh
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.indices = indices
	}
}
