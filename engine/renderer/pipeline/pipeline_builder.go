package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithEntryPoints sets the vertex and fragment entry points.
//
// Parameters:
//   - vertex: the vertex entry point name
//   - fragment: the fragment entry point name
//
// Returns:
//   - PipelineBuilderOption: a function that sets the entry points for this pipeline
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithLayouts sets the bind group layouts in slot order.
//
// Parameters:
//   - layouts: the layout kinds for slots 0..n-1
//
// Returns:
//   - PipelineBuilderOption: a function that sets the layouts for this pipeline
func WithLayouts(layouts ...gpu.LayoutKind) PipelineBuilderOption {
	return func(p *pipeline) {
		p.layouts = layouts
	}
}

// WithVertexLayout sets the single vertex buffer layout.
//
// Parameters:
//   - layout: the vertex buffer layout bound at slot 0
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayout(layout wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayout = layout
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the front face winding for this pipeline.
//
// Parameters:
//   - frontFace: the front face to use for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithBlendState sets the blend state for this pipeline.
//
// Parameters:
//   - blendState: the colour target blend state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}
