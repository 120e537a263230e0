package node

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
)

// primitive is the implementation of the Primitive interface.
type primitive struct {
	id       ID
	kind     Kind
	mesh     model.Mesh
	pipeline pipeline.Pipeline
	outline  pipeline.Pipeline
	texture  gpu.BindGroup

	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
}

// Primitive is a leaf drawing one mesh with one pipeline and an optional
// outline pipeline.
type Primitive interface {
	Node

	// Mesh returns the drawn mesh.
	Mesh() model.Mesh

	// Pipeline returns the main pipeline.
	Pipeline() pipeline.Pipeline

	// Outline returns the outline pipeline, or nil.
	Outline() pipeline.Pipeline

	// TextureBindGroup returns the slot 2 bind group, or nil.
	TextureBindGroup() gpu.BindGroup
}

var _ Primitive = &primitive{}

// NewPrimitive creates a primitive. The vertex and index buffers are created
// on the first Prepare.
//
// Parameters:
//   - ids: the id factory
//   - mesh: the vertex data
//   - p: the main pipeline, whose shader type must accept the mesh content
//   - options: builder options
//
// Returns:
//   - Primitive: the primitive node
func NewPrimitive(ids *IDFactory, mesh model.Mesh, p pipeline.Pipeline, options ...PrimitiveBuilderOption) Primitive {
	prim := &primitive{
		id:       ids.Next(),
		kind:     KindPrimitive,
		mesh:     mesh,
		pipeline: p,
	}
	for _, opt := range options {
		opt(prim)
	}
	return prim
}

func (p *primitive) ID() ID {
	return p.id
}

func (p *primitive) Kind() Kind {
	return p.kind
}

func (p *primitive) Children() []Node {
	return nil
}

func (p *primitive) Mesh() model.Mesh {
	return p.mesh
}

func (p *primitive) Pipeline() pipeline.Pipeline {
	return p.pipeline
}

func (p *primitive) Outline() pipeline.Pipeline {
	return p.outline
}

func (p *primitive) TextureBindGroup() gpu.BindGroup {
	return p.texture
}

func (p *primitive) Update(rc.LocalContext, *rc.GlobalContext, bool) {}

func (p *primitive) Prepare(device gpu.Device, _ PrepareState) {
	if p.vertexBuffer != nil {
		return
	}
	label := fmt.Sprintf("%s %d", p.mesh.Name(), p.id)
	vb, err := device.CreateBuffer(label+" Vertex Buffer", gpu.BufferVertex, p.mesh.VertexData())
	if err != nil {
		common.Logger().Warn("failed to create vertex buffer", "node", p.id, "error", err)
		return
	}
	if p.mesh.Indexed() {
		ib, err := device.CreateBuffer(label+" Index Buffer", gpu.BufferIndex, p.mesh.IndexData())
		if err != nil {
			common.Logger().Warn("failed to create index buffer", "node", p.id, "error", err)
			return
		}
		p.indexBuffer = ib
	}
	p.vertexBuffer = vb
}

func (p *primitive) Draw(state *DrawState) {
	content := p.mesh.Content()
	if !p.pipeline.ShaderType().Accepts(content) {
		panic(fmt.Sprintf("primitive %d: %s pipeline cannot draw %s content", p.id, p.pipeline.ShaderType(), content))
	}
	if p.vertexBuffer == nil {
		common.Logger().Warn("primitive drawn before prepare", "node", p.id)
		return
	}
	if content.Skinned() && state.Joint == nil {
		common.Logger().Warn("skinned primitive drawn without joints", "node", p.id)
		return
	}

	switch content {
	case model.ContentColorSkin:
		if state.EmptyTexture != nil {
			state.Pass.SetBindGroup(2, state.EmptyTexture)
		}
		state.Pass.SetBindGroup(3, state.Joint)
	case model.ContentTexture:
		p.bindTexture(state)
	case model.ContentTextureSkin:
		p.bindTexture(state)
		state.Pass.SetBindGroup(3, state.Joint)
	}

	p.drawWith(state, p.pipeline)
	if p.outline != nil {
		p.drawWith(state, p.outline)
	}
}

func (p *primitive) bindTexture(state *DrawState) {
	group := p.texture
	if group == nil {
		group = state.EmptyTexture
	}
	if group != nil {
		state.Pass.SetBindGroup(2, group)
	}
}

func (p *primitive) drawWith(state *DrawState, pl pipeline.Pipeline) {
	state.Pass.SetPipeline(pl.Handle())
	state.Pipeline = pl
	state.Pass.SetVertexBuffer(0, p.vertexBuffer)
	if p.indexBuffer != nil {
		state.Pass.SetIndexBuffer(p.indexBuffer)
		state.Pass.DrawIndexed(uint32(p.mesh.IndexCount()))
		return
	}
	state.Pass.Draw(uint32(p.mesh.VertexCount()))
}
