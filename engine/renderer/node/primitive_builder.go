package node

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
)

// PrimitiveBuilderOption is a functional option used to configure a Primitive during construction.
type PrimitiveBuilderOption func(*primitive)

// WithOutline sets the pipeline that redraws the mesh as an outline.
//
// Parameters:
//   - p: the outline pipeline
//
// Returns:
//   - PrimitiveBuilderOption: a function that sets the outline pipeline
func WithOutline(p pipeline.Pipeline) PrimitiveBuilderOption {
	return func(prim *primitive) {
		prim.outline = p
	}
}

// WithTexture sets the slot 2 bind group of a textured primitive.
//
// Parameters:
//   - group: the texture bind group
//
// Returns:
//   - PrimitiveBuilderOption: a function that sets the texture bind group
func WithTexture(group gpu.BindGroup) PrimitiveBuilderOption {
	return func(prim *primitive) {
		prim.texture = group
	}
}
