package model

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name        string
	content     ContentKind
	vertexData  []byte
	vertexCount int
	indices     []uint32
}

// Mesh is CPU-side geometry ready for upload: serialized vertices of one
// content kind and an optional u32 index list.
type Mesh interface {
	// Name retrieves the mesh label.
	//
	// Returns:
	//   - string: the label used for device buffers
	Name() string

	// Content retrieves the vertex format of the mesh.
	//
	// Returns:
	//   - ContentKind: the content kind
	Content() ContentKind

	// VertexData retrieves the serialized vertices.
	//
	// Returns:
	//   - []byte: the vertex buffer contents
	VertexData() []byte

	// VertexCount retrieves the number of vertices.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Indexed reports whether the mesh carries an index list.
	//
	// Returns:
	//   - bool: true if IndexData is non-empty
	Indexed() bool

	// IndexData retrieves the serialized u32 indices.
	//
	// Returns:
	//   - []byte: the index buffer contents, nil when not indexed
	IndexData() []byte

	// IndexCount retrieves the number of indices.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh. The vertex option applied last decides the content kind.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - Mesh: the mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{name: "Mesh"}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Content() ContentKind {
	return m.content
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) Indexed() bool {
	return len(m.indices) > 0
}

func (m *mesh) IndexData() []byte {
	if len(m.indices) == 0 {
		return nil
	}
	return MarshalIndices(m.indices)
}

func (m *mesh) IndexCount() int {
	return len(m.indices)
}
