package gpu

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrSurfaceLost is returned by BeginFrame when the surface must be reconfigured.
	ErrSurfaceLost = errors.New("surface lost")

	// ErrSurfaceTimeout is returned by BeginFrame when no surface texture became available in time.
	ErrSurfaceTimeout = errors.New("surface texture timeout")
)

// Buffer is an opaque device buffer.
type Buffer interface {
	Label() string
	Size() uint64
}

// Texture is an opaque device texture together with its default view.
type Texture interface {
	Label() string
	Width() uint32
	Height() uint32
}

// Sampler is an opaque device sampler.
type Sampler interface {
	Label() string
}

// BindGroup is an opaque set of resources bound to one slot.
type BindGroup interface {
	Label() string
	Layout() LayoutKind
}

// RenderPipeline is an opaque compiled render pipeline.
type RenderPipeline interface {
	Label() string
}

// BufferKind selects how a buffer is used by shaders.
type BufferKind int

const (
	BufferVertex BufferKind = iota
	BufferIndex
	BufferUniform
	BufferStorage
)

// TextureDescriptor describes a 2D sampled texture with a single mip level.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format wgpu.TextureFormat
}

// SamplerDescriptor describes texture sampling.
type SamplerDescriptor struct {
	Label        string
	AddressModeU wgpu.AddressMode
	AddressModeV wgpu.AddressMode
	MagFilter    wgpu.FilterMode
	MinFilter    wgpu.FilterMode
	MipmapFilter wgpu.MipmapFilterMode
}

// BindGroupEntry binds exactly one of Buffer, Texture or Sampler at Binding.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
	Texture Texture
	Sampler Sampler
}

// RenderPipelineDescriptor describes a render pipeline. The colour target
// format, multisample count and depth format come from the device.
type RenderPipelineDescriptor struct {
	Label         string
	Source        string
	VertexEntry   string
	FragmentEntry string
	Layouts       []LayoutKind
	VertexBuffers []wgpu.VertexBufferLayout
	Topology      wgpu.PrimitiveTopology
	FrontFace     wgpu.FrontFace
	CullMode      wgpu.CullMode
	Blend         *wgpu.BlendState
	DepthWrite    bool
}

// RenderPass records draw commands for the current frame.
type RenderPass interface {
	// SetPipeline binds a render pipeline.
	SetPipeline(pipeline RenderPipeline)

	// SetBindGroup binds a bind group at a slot.
	//
	// Parameters:
	//   - slot: the bind group index used by the shader
	//   - group: the bind group to bind
	SetBindGroup(slot uint32, group BindGroup)

	// SetVertexBuffer binds a whole buffer as vertex input.
	SetVertexBuffer(slot uint32, buffer Buffer)

	// SetIndexBuffer binds a whole buffer of uint32 indices.
	SetIndexBuffer(buffer Buffer)

	// Draw issues a non-indexed draw of one instance.
	Draw(vertexCount uint32)

	// DrawIndexed issues an indexed draw of one instance.
	DrawIndexed(indexCount uint32)
}

// Device is the set of GPU capabilities the viewer needs: resource creation,
// uploads, pipeline compilation and frame submission.
type Device interface {
	// CreateBuffer creates a buffer initialised with data.
	//
	// Parameters:
	//   - label: debug label
	//   - kind: how the buffer is bound
	//   - data: initial contents, which also determine the size
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: an error if the buffer could not be created
	CreateBuffer(label string, kind BufferKind, data []byte) (Buffer, error)

	// WriteBuffer queues a write of data into buffer at offset.
	//
	// Parameters:
	//   - buffer: the destination buffer
	//   - offset: byte offset into the buffer
	//   - data: bytes to write
	WriteBuffer(buffer Buffer, offset uint64, data []byte)

	// CreateTexture creates a sampled texture.
	//
	// Parameters:
	//   - desc: size, format and label
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: an error if the texture could not be created
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// WriteTexture uploads tightly packed pixel rows into a texture.
	//
	// Parameters:
	//   - texture: the destination texture
	//   - data: pixel bytes
	//   - bytesPerRow: bytes in one row of data
	WriteTexture(texture Texture, data []byte, bytesPerRow uint32)

	// CreateSampler creates a sampler.
	//
	// Parameters:
	//   - desc: filtering and addressing
	//
	// Returns:
	//   - Sampler: the created sampler
	//   - error: an error if the sampler could not be created
	CreateSampler(desc SamplerDescriptor) (Sampler, error)

	// CreateBindGroup creates a bind group for one of the fixed layouts.
	//
	// Parameters:
	//   - label: debug label
	//   - layout: the layout the entries follow
	//   - entries: the resources to bind
	//
	// Returns:
	//   - BindGroup: the created bind group
	//   - error: an error if the bind group could not be created
	CreateBindGroup(label string, layout LayoutKind, entries []BindGroupEntry) (BindGroup, error)

	// CreateRenderPipeline compiles a render pipeline.
	//
	// Parameters:
	//   - desc: shader source, entry points and fixed-function state
	//
	// Returns:
	//   - RenderPipeline: the compiled pipeline
	//   - error: an error if compilation failed
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	// Resize reconfigures the surface and depth target.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	Resize(width, height int)

	// BeginFrame acquires the next surface texture and begins a render pass
	// cleared to the given colour.
	//
	// Parameters:
	//   - clear: the background colour
	//
	// Returns:
	//   - RenderPass: the pass to record into
	//   - error: ErrSurfaceLost or ErrSurfaceTimeout when no frame is available
	BeginFrame(clear wgpu.Color) (RenderPass, error)

	// EndFrame ends the pass, submits it and presents the surface.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error
}
