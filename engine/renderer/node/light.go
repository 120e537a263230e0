package node

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
)

const lightBoxHalfSize = 0.05

// lightNode is the implementation of the Light interface.
type lightNode struct {
	id    ID
	param light.Param
	box   Primitive
}

// Light publishes one light to the frame every Update, placed by its world
// transform. It may carry a small cube drawn at its position.
type Light interface {
	Node

	// Param returns the light description.
	Param() light.Param

	// SetParam replaces the light description.
	SetParam(p light.Param)

	// ShowBox returns the cube primitive, or nil.
	ShowBox() Primitive
}

var _ Light = &lightNode{}

// NewLight creates a light node.
//
// Parameters:
//   - ids: the id factory
//   - param: the light description
//   - options: builder options
//
// Returns:
//   - Light: the light node
func NewLight(ids *IDFactory, param light.Param, options ...LightBuilderOption) Light {
	l := &lightNode{id: ids.Next(), param: param}
	for _, opt := range options {
		opt(ids, l)
	}
	return l
}

// LightBoxMesh builds the cube drawn at a light: 8 vertices at +/-0.05 in
// the light colour and 36 indices.
//
// Parameters:
//   - param: the light whose colour the cube takes
//
// Returns:
//   - model.Mesh: the cube mesh
func LightBoxMesh(param light.Param) model.Mesh {
	c := [4]float32{param.Color[0], param.Color[1], param.Color[2], 1}
	h := float32(lightBoxHalfSize)
	vertices := make([]model.ColorVertex, 0, 8)
	for _, z := range []float32{-h, h} {
		for _, y := range []float32{-h, h} {
			for _, x := range []float32{-h, h} {
				vertices = append(vertices, model.ColorVertex{
					Position: [3]float32{x, y, z},
					Color:    c,
					Normal:   [3]float32{x / h, y / h, z / h},
				})
			}
		}
	}
	// vertex index = x + 2y + 4z over {-h, h}
	indices := []uint32{
		0, 2, 3, 0, 3, 1, // -Z
		4, 5, 7, 4, 7, 6, // +Z
		0, 4, 6, 0, 6, 2, // -X
		1, 3, 7, 1, 7, 5, // +X
		0, 1, 5, 0, 5, 4, // -Y
		2, 6, 7, 2, 7, 3, // +Y
	}
	return model.NewMesh(model.WithName("Light Box"), model.WithColorVertices(vertices), model.WithIndices(indices))
}

func (l *lightNode) ID() ID {
	return l.id
}

func (l *lightNode) Kind() Kind {
	return KindLight
}

func (l *lightNode) Children() []Node {
	if l.box == nil {
		return nil
	}
	return []Node{l.box}
}

func (l *lightNode) Param() light.Param {
	return l.param
}

func (l *lightNode) SetParam(p light.Param) {
	l.param = p
}

func (l *lightNode) ShowBox() Primitive {
	return l.box
}

func (l *lightNode) Update(local rc.LocalContext, global *rc.GlobalContext, _ bool) {
	global.AddLight(l.param.Resolve(local.Transform()))
}

func (l *lightNode) Prepare(device gpu.Device, state PrepareState) {
	if l.box != nil {
		l.box.Prepare(device, state)
	}
}

func (l *lightNode) Draw(state *DrawState) {
	if l.box != nil {
		l.box.Draw(state)
	}
}

// LightBuilderOption is a functional option used to configure a Light during construction.
type LightBuilderOption func(*IDFactory, *lightNode)

// WithShowBox attaches a cube drawn at the light with a Light pipeline.
//
// Parameters:
//   - p: a pipeline of shader type Light
//
// Returns:
//   - LightBuilderOption: a function that attaches the cube
func WithShowBox(p pipeline.Pipeline) LightBuilderOption {
	return func(ids *IDFactory, l *lightNode) {
		l.box = NewPrimitive(ids, LightBoxMesh(l.param), p)
	}
}
