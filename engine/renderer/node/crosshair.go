package node

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
)

// CrosshairMesh builds three unit axis lines coloured red, green and blue.
func CrosshairMesh() model.Mesh {
	axes := [3][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	vertices := make([]model.ColorVertex, 0, 6)
	for _, axis := range axes {
		color := [4]float32{axis[0], axis[1], axis[2], 1}
		vertices = append(vertices,
			model.ColorVertex{Color: color, Normal: axis},
			model.ColorVertex{Position: axis, Color: color, Normal: axis},
		)
	}
	return model.NewMesh(model.WithName("Crosshair"), model.WithColorVertices(vertices))
}

// NewCrosshair creates the axis crosshair primitive.
//
// Parameters:
//   - ids: the id factory
//   - p: a LineList pipeline of shader type Light
//
// Returns:
//   - Primitive: a primitive of kind KindCrosshair
func NewCrosshair(ids *IDFactory, p pipeline.Pipeline) Primitive {
	prim := NewPrimitive(ids, CrosshairMesh(), p).(*primitive)
	prim.kind = KindCrosshair
	return prim
}
