package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key Key

	// entry points and layouts are resolved from the key before creation
	vertexEntry, fragmentEntry string
	layouts                    []gpu.LayoutKind
	vertexLayout               wgpu.VertexBufferLayout

	depthWriteEnabled bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	blendState        *wgpu.BlendState

	handle gpu.RenderPipeline
}

// Pipeline is a render pipeline created for one Key, together with the
// configuration it was created from.
type Pipeline interface {
	// Key returns the content identity this pipeline was created for.
	//
	// Returns:
	//   - Key: the pipeline key
	Key() Key

	// ShaderType returns the shader type of the key.
	//
	// Returns:
	//   - ShaderType: the vertex format and entry point family
	ShaderType() ShaderType

	// VertexEntry returns the vertex entry point name.
	VertexEntry() string

	// FragmentEntry returns the fragment entry point name.
	FragmentEntry() string

	// Layouts returns the bind group layouts in slot order.
	//
	// Returns:
	//   - []gpu.LayoutKind: the layouts bound at slots 0..n-1
	Layouts() []gpu.LayoutKind

	// DepthWriteEnabled returns whether the pipeline writes depth.
	DepthWriteEnabled() bool

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: wgpu.CullModeBack, wgpu.CullModeFront for outlines, wgpu.CullModeNone for lines and points
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	FrontFace() wgpu.FrontFace

	// BlendState returns the colour target blend state.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state
	BlendState() *wgpu.BlendState

	// Descriptor builds the device descriptor for this pipeline.
	//
	// Parameters:
	//   - source: the WGSL source containing the entry points
	//
	// Returns:
	//   - gpu.RenderPipelineDescriptor: the descriptor
	Descriptor(source string) gpu.RenderPipelineDescriptor

	// Handle returns the device pipeline, nil before creation.
	//
	// Returns:
	//   - gpu.RenderPipeline: the device handle
	Handle() gpu.RenderPipeline

	// SetHandle stores the device pipeline created from Descriptor.
	//
	// Parameters:
	//   - handle: the device handle
	SetHandle(handle gpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline for a key with the given options applied over
// the defaults (depth write on, back-face culling, counter-clockwise front faces,
// replace blending).
//
// Parameters:
//   - key: the pipeline key
//   - opts: builder options
//
// Returns:
//   - Pipeline: a new Pipeline with no device handle
func NewPipeline(key Key, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:               key,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeBack,
		topology:          key.Topology,
		frontFace:         wgpu.FrontFaceCCW,
		blendState:        blendReplace(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func blendReplace() *wgpu.BlendState {
	replace := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	}
	return &wgpu.BlendState{Color: replace, Alpha: replace}
}

func blendAlpha() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorDstAlpha,
			Operation: wgpu.BlendOperationMax,
		},
	}
}

func (p *pipeline) Key() Key {
	return p.key
}

func (p *pipeline) ShaderType() ShaderType {
	return p.key.Shader
}

func (p *pipeline) VertexEntry() string {
	return p.vertexEntry
}

func (p *pipeline) FragmentEntry() string {
	return p.fragmentEntry
}

func (p *pipeline) Layouts() []gpu.LayoutKind {
	return p.layouts
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Descriptor(source string) gpu.RenderPipelineDescriptor {
	return gpu.RenderPipelineDescriptor{
		Label:         p.key.String(),
		Source:        source,
		VertexEntry:   p.vertexEntry,
		FragmentEntry: p.fragmentEntry,
		Layouts:       p.layouts,
		VertexBuffers: []wgpu.VertexBufferLayout{p.vertexLayout},
		Topology:      p.topology,
		FrontFace:     p.frontFace,
		CullMode:      p.cullMode,
		Blend:         p.blendState,
		DepthWrite:    p.depthWriteEnabled,
	}
}

func (p *pipeline) Handle() gpu.RenderPipeline {
	return p.handle
}

func (p *pipeline) SetHandle(handle gpu.RenderPipeline) {
	p.handle = handle
}
