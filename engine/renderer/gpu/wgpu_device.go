package gpu

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

type wgpuBuffer struct {
	label  string
	size   uint64
	buffer *wgpu.Buffer
}

func (b *wgpuBuffer) Label() string { return b.label }
func (b *wgpuBuffer) Size() uint64  { return b.size }

type wgpuTexture struct {
	label   string
	width   uint32
	height  uint32
	format  wgpu.TextureFormat
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *wgpuTexture) Label() string  { return t.label }
func (t *wgpuTexture) Width() uint32  { return t.width }
func (t *wgpuTexture) Height() uint32 { return t.height }

type wgpuSampler struct {
	label   string
	sampler *wgpu.Sampler
}

func (s *wgpuSampler) Label() string { return s.label }

type wgpuBindGroup struct {
	label  string
	layout LayoutKind
	group  *wgpu.BindGroup
}

func (g *wgpuBindGroup) Label() string      { return g.label }
func (g *wgpuBindGroup) Layout() LayoutKind { return g.layout }

type wgpuRenderPipeline struct {
	label    string
	pipeline *wgpu.RenderPipeline
}

func (p *wgpuRenderPipeline) Label() string { return p.label }

type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *wgpuRenderPass) SetPipeline(pipeline RenderPipeline) {
	p.pass.SetPipeline(pipeline.(*wgpuRenderPipeline).pipeline)
}

func (p *wgpuRenderPass) SetBindGroup(slot uint32, group BindGroup) {
	p.pass.SetBindGroup(slot, group.(*wgpuBindGroup).group, nil)
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buffer Buffer) {
	p.pass.SetVertexBuffer(slot, buffer.(*wgpuBuffer).buffer, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) SetIndexBuffer(buffer Buffer) {
	p.pass.SetIndexBuffer(buffer.(*wgpuBuffer).buffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) Draw(vertexCount uint32) {
	p.pass.Draw(vertexCount, 1, 0, 0)
}

func (p *wgpuRenderPass) DrawIndexed(indexCount uint32) {
	p.pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

type wgpuDeviceImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode
	sampleCount          MSAASampleCount

	surfaceFormat    wgpu.TextureFormat
	msaaTexture      *wgpu.Texture
	msaaTextureView  *wgpu.TextureView
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	layouts       map[LayoutKind]*wgpu.BindGroupLayout
	shaderModules map[[32]byte]*wgpu.ShaderModule

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Device = &wgpuDeviceImpl{}

// NewWGPUDevice creates an instance, adapter and device for the surface and
// configures the surface at the given size. It must be called from the
// thread that owns the window.
//
// Parameters:
//   - surfaceDescriptor: the platform surface, usually from the window
//   - width, height: the initial surface size in pixels
//   - options: functional options for present mode, MSAA and adapter selection
//
// Returns:
//   - Device: the ready device
//   - error: an error if no adapter or device could be obtained
func NewWGPUDevice(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...DeviceBuilderOption) (Device, error) {
	runtime.LockOSThread()
	d := &wgpuDeviceImpl{
		mu:            &sync.Mutex{},
		instance:      wgpu.CreateInstance(nil),
		presentMode:   wgpu.PresentModeFifo,
		sampleCount:   MSAA4x,
		layouts:       make(map[LayoutKind]*wgpu.BindGroupLayout),
		shaderModules: make(map[[32]byte]*wgpu.ShaderModule),
	}
	for _, option := range options {
		option(d)
	}
	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = a

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	d.Resize(width, height)
	return d, nil
}

func toWGPUPresentMode(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate
	default:
		return wgpu.PresentModeFifo
	}
}

func (d *wgpuDeviceImpl) CreateBuffer(label string, kind BufferKind, data []byte) (Buffer, error) {
	usage := wgpu.BufferUsageCopyDst
	switch kind {
	case BufferVertex:
		usage |= wgpu.BufferUsageVertex
	case BufferIndex:
		usage |= wgpu.BufferUsageIndex
	case BufferUniform:
		usage |= wgpu.BufferUsageUniform
	case BufferStorage:
		usage |= wgpu.BufferUsageStorage
	}

	// Buffer sizes must be 4-byte aligned for queue writes.
	size := (uint64(len(data)) + 3) &^ 3
	if size == 0 {
		size = 4
	}
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}
	if len(data) > 0 {
		d.queue.WriteBuffer(buf, 0, padTo4(data))
	}
	common.Logger().Debug("created buffer", "label", label, "size", size)
	return &wgpuBuffer{label: label, size: size, buffer: buf}, nil
}

func (d *wgpuDeviceImpl) WriteBuffer(buffer Buffer, offset uint64, data []byte) {
	d.queue.WriteBuffer(buffer.(*wgpuBuffer).buffer, offset, padTo4(data))
}

func (d *wgpuDeviceImpl) CreateTexture(desc TextureDescriptor) (Texture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        desc.Format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", desc.Label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create view for texture %q: %w", desc.Label, err)
	}
	return &wgpuTexture{
		label:   desc.Label,
		width:   desc.Width,
		height:  desc.Height,
		format:  desc.Format,
		texture: tex,
		view:    view,
	}, nil
}

func (d *wgpuDeviceImpl) WriteTexture(texture Texture, data []byte, bytesPerRow uint32) {
	t := texture.(*wgpuTexture)
	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  bytesPerRow,
			RowsPerImage: t.height,
		},
		&wgpu.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: 1,
		},
	)
}

func (d *wgpuDeviceImpl) CreateSampler(desc SamplerDescriptor) (Sampler, error) {
	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  common.Coalesce(desc.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(desc.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     desc.MagFilter,
		MinFilter:     desc.MinFilter,
		MipmapFilter:  desc.MipmapFilter,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", desc.Label, err)
	}
	return &wgpuSampler{label: desc.Label, sampler: samp}, nil
}

// layout returns the cached bind group layout for kind. Caller must hold the mutex.
func (d *wgpuDeviceImpl) layout(kind LayoutKind) (*wgpu.BindGroupLayout, error) {
	if l, ok := d.layouts[kind]; ok {
		return l, nil
	}
	desc := kind.Descriptor()
	l, err := d.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s bind group layout: %w", kind, err)
	}
	d.layouts[kind] = l
	return l, nil
}

func (d *wgpuDeviceImpl) CreateBindGroup(label string, layout LayoutKind, entries []BindGroupEntry) (BindGroup, error) {
	d.mu.Lock()
	l, err := d.layout(layout)
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}

	wgpuEntries := make([]wgpu.BindGroupEntry, 0, len(entries))
	for _, e := range entries {
		entry := wgpu.BindGroupEntry{Binding: e.Binding}
		switch {
		case e.Buffer != nil:
			entry.Buffer = e.Buffer.(*wgpuBuffer).buffer
			entry.Offset = 0
			entry.Size = wgpu.WholeSize
		case e.Texture != nil:
			entry.TextureView = e.Texture.(*wgpuTexture).view
		case e.Sampler != nil:
			entry.Sampler = e.Sampler.(*wgpuSampler).sampler
		default:
			return nil, fmt.Errorf("bind group %q: binding %d has no resource", label, e.Binding)
		}
		wgpuEntries = append(wgpuEntries, entry)
	}

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  l,
		Entries: wgpuEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %q: %w", label, err)
	}
	return &wgpuBindGroup{label: label, layout: layout, group: group}, nil
}

func (d *wgpuDeviceImpl) CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error) {
	if desc.VertexEntry == "" || desc.FragmentEntry == "" {
		return nil, errors.New("both vertex and fragment entry points must be set to create a render pipeline")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := sha256.Sum256([]byte(desc.Source))
	module, ok := d.shaderModules[key]
	if !ok {
		var err error
		module, err = d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label: desc.Label + " Shader",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: desc.Source,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compile shader for %q: %w", desc.Label, err)
		}
		d.shaderModules[key] = module
	}

	bindGroupLayouts := make([]*wgpu.BindGroupLayout, 0, len(desc.Layouts))
	for _, kind := range desc.Layouts {
		l, err := d.layout(kind)
		if err != nil {
			return nil, err
		}
		bindGroupLayouts = append(bindGroupLayouts, l)
	}

	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return nil, err
	}

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers:    desc.VertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    d.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     desc.Blend,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  desc.Topology,
			FrontFace: desc.FrontFace,
			CullMode:  desc.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(d.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline %q: %w", desc.Label, err)
	}
	common.Logger().Debug("created render pipeline", "label", desc.Label)
	return &wgpuRenderPipeline{label: desc.Label, pipeline: created}, nil
}

func (d *wgpuDeviceImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = capabilities.Formats[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if d.msaaTextureView != nil {
		d.msaaTextureView.Release()
		d.msaaTexture.Release()
		d.msaaTextureView, d.msaaTexture = nil, nil
	}
	if d.depthTextureView != nil {
		d.depthTextureView.Release()
		d.depthTexture.Release()
	}

	count := uint32(d.sampleCount)
	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: 1,
	}
	if count > 1 {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        d.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		d.msaaTexture = msaaTexture
		d.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	d.depthTexture = depthTexture
	d.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
}

// surfaceStatusErrors maps surface texture statuses onto the errors BeginFrame
// reports. Device loss and exhaustion are checked before plain loss.
var surfaceStatusErrors = []struct {
	status wgpu.SurfaceGetCurrentTextureStatus
	err    error
}{
	{wgpu.SurfaceGetCurrentTextureStatusDeviceLost, nil},
	{wgpu.SurfaceGetCurrentTextureStatusOutOfMemory, nil},
	{wgpu.SurfaceGetCurrentTextureStatusTimeout, ErrSurfaceTimeout},
	{wgpu.SurfaceGetCurrentTextureStatusOutdated, ErrSurfaceLost},
	{wgpu.SurfaceGetCurrentTextureStatusLost, ErrSurfaceLost},
}

// surfaceError classifies a GetCurrentTexture failure. The binding only reports
// the surface status inside the error message, so the status names are matched
// there. Device loss and out-of-memory are returned unwrapped and end the run;
// unrecognised failures are treated as a lost surface and reconfigured.
func surfaceError(err error) error {
	msg := strings.ToLower(err.Error())
	for _, s := range surfaceStatusErrors {
		name := s.status.String()
		if !strings.Contains(msg, name) && !strings.Contains(msg, strings.ReplaceAll(name, "-", " ")) {
			continue
		}
		if s.err == nil {
			return fmt.Errorf("surface %s: %w", name, err)
		}
		return fmt.Errorf("%w: %w", s.err, err)
	}
	return fmt.Errorf("%w: %w", ErrSurfaceLost, err)
}

func (d *wgpuDeviceImpl) BeginFrame(clear wgpu.Color) (RenderPass, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface != nil {
		return nil, fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return nil, surfaceError(err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, err
	}

	color := wgpu.RenderPassColorAttachment{
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: clear,
	}
	if d.sampleCount > 1 {
		color.View = d.msaaTextureView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	d.frameEncoder = encoder
	d.framePass = pass
	d.frameSurface = surfaceTexture
	d.frameView = view

	return &wgpuRenderPass{pass: pass}, nil
}

func (d *wgpuDeviceImpl) EndFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.framePass == nil {
		return nil
	}
	d.framePass.End()
	d.framePass = nil

	defer d.releaseFrame()

	commandBuffer, err := d.frameEncoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish frame: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()

	d.surface.Present()
	return nil
}

// releaseFrame drops the per-frame encoder and surface references. Caller must hold the mutex.
func (d *wgpuDeviceImpl) releaseFrame() {
	if d.frameEncoder != nil {
		d.frameEncoder.Release()
		d.frameEncoder = nil
	}
	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameSurface != nil {
		d.frameSurface.Release()
		d.frameSurface = nil
	}
}

func padTo4(data []byte) []byte {
	if len(data)%4 == 0 {
		return data
	}
	padded := make([]byte, (len(data)+3)&^3)
	copy(padded, data)
	return padded
}
