// Package gputest provides an in-memory gpu.Device that records every call,
// for tests that exercise the render tree without a GPU.
package gputest

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// Buffer is a recorded buffer. Data holds the latest contents.
type Buffer struct {
	ID    int
	Name  string
	Kind  gpu.BufferKind
	Data  []byte
	Write int
}

func (b *Buffer) Label() string { return b.Name }
func (b *Buffer) Size() uint64  { return uint64(len(b.Data)) }

// Texture is a recorded texture.
type Texture struct {
	ID          int
	Desc        gpu.TextureDescriptor
	Data        []byte
	BytesPerRow uint32
	Uploads     int
}

func (t *Texture) Label() string  { return t.Desc.Label }
func (t *Texture) Width() uint32  { return t.Desc.Width }
func (t *Texture) Height() uint32 { return t.Desc.Height }

// Sampler is a recorded sampler.
type Sampler struct {
	ID   int
	Desc gpu.SamplerDescriptor
}

func (s *Sampler) Label() string { return s.Desc.Label }

// BindGroup is a recorded bind group.
type BindGroup struct {
	ID      int
	Name    string
	Kind    gpu.LayoutKind
	Entries []gpu.BindGroupEntry
}

func (g *BindGroup) Label() string          { return g.Name }
func (g *BindGroup) Layout() gpu.LayoutKind { return g.Kind }

// Pipeline is a recorded render pipeline.
type Pipeline struct {
	ID   int
	Desc gpu.RenderPipelineDescriptor
}

func (p *Pipeline) Label() string { return p.Desc.Label }

// Op names a recorded render pass command.
type Op string

const (
	OpSetPipeline     Op = "SetPipeline"
	OpSetBindGroup    Op = "SetBindGroup"
	OpSetVertexBuffer Op = "SetVertexBuffer"
	OpSetIndexBuffer  Op = "SetIndexBuffer"
	OpDraw            Op = "Draw"
	OpDrawIndexed     Op = "DrawIndexed"
)

// Command is one recorded render pass call.
type Command struct {
	Op       Op
	Slot     uint32
	Count    uint32
	Pipeline *Pipeline
	Group    *BindGroup
	Buffer   *Buffer
}

// String renders the command for assertion messages.
func (c Command) String() string {
	switch c.Op {
	case OpSetPipeline:
		return fmt.Sprintf("%s(%s)", c.Op, c.Pipeline.Name())
	case OpSetBindGroup:
		return fmt.Sprintf("%s(%d, %s)", c.Op, c.Slot, c.Group.Name)
	case OpSetVertexBuffer, OpSetIndexBuffer:
		return fmt.Sprintf("%s(%s)", c.Op, c.Buffer.Name)
	default:
		return fmt.Sprintf("%s(%d)", c.Op, c.Count)
	}
}

// Name returns the pipeline label.
func (p *Pipeline) Name() string { return p.Desc.Label }

type pass struct {
	d *Device
}

func (p *pass) record(c Command) {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	p.d.Commands = append(p.d.Commands, c)
}

func (p *pass) SetPipeline(pipeline gpu.RenderPipeline) {
	p.record(Command{Op: OpSetPipeline, Pipeline: pipeline.(*Pipeline)})
}

func (p *pass) SetBindGroup(slot uint32, group gpu.BindGroup) {
	p.record(Command{Op: OpSetBindGroup, Slot: slot, Group: group.(*BindGroup)})
}

func (p *pass) SetVertexBuffer(slot uint32, buffer gpu.Buffer) {
	p.record(Command{Op: OpSetVertexBuffer, Slot: slot, Buffer: buffer.(*Buffer)})
}

func (p *pass) SetIndexBuffer(buffer gpu.Buffer) {
	p.record(Command{Op: OpSetIndexBuffer, Buffer: buffer.(*Buffer)})
}

func (p *pass) Draw(vertexCount uint32) {
	p.record(Command{Op: OpDraw, Count: vertexCount})
}

func (p *pass) DrawIndexed(indexCount uint32) {
	p.record(Command{Op: OpDrawIndexed, Count: indexCount})
}

// Device is a recording gpu.Device. All fields are safe to read once the
// code under test has returned.
type Device struct {
	mu *sync.Mutex

	nextID int

	Buffers    []*Buffer
	Textures   []*Texture
	Samplers   []*Sampler
	BindGroups []*BindGroup
	Pipelines  []*Pipeline
	Commands   []Command

	Frames     int
	ClearColor wgpu.Color
	Width      int
	Height     int

	// FrameErr, when set, is returned by the next BeginFrame.
	FrameErr error
	// BindGroupErr, when set, is returned by every CreateBindGroup.
	BindGroupErr error
}

var _ gpu.Device = &Device{}

// NewDevice creates an empty recording device.
func NewDevice() *Device {
	return &Device{mu: &sync.Mutex{}}
}

func (d *Device) id() int {
	d.nextID++
	return d.nextID
}

func (d *Device) CreateBuffer(label string, kind gpu.BufferKind, data []byte) (gpu.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := &Buffer{ID: d.id(), Name: label, Kind: kind, Data: append([]byte(nil), data...)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) WriteBuffer(buffer gpu.Buffer, offset uint64, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := buffer.(*Buffer)
	end := int(offset) + len(data)
	if end > len(b.Data) {
		grown := make([]byte, end)
		copy(grown, b.Data)
		b.Data = grown
	}
	copy(b.Data[offset:], data)
	b.Write++
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := &Texture{ID: d.id(), Desc: desc}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) WriteTexture(texture gpu.Texture, data []byte, bytesPerRow uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := texture.(*Texture)
	t.Data = append([]byte(nil), data...)
	t.BytesPerRow = bytesPerRow
	t.Uploads++
}

func (d *Device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &Sampler{ID: d.id(), Desc: desc}
	d.Samplers = append(d.Samplers, s)
	return s, nil
}

func (d *Device) CreateBindGroup(label string, layout gpu.LayoutKind, entries []gpu.BindGroupEntry) (gpu.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.BindGroupErr != nil {
		return nil, d.BindGroupErr
	}
	g := &BindGroup{ID: d.id(), Name: label, Kind: layout, Entries: append([]gpu.BindGroupEntry(nil), entries...)}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &Pipeline{ID: d.id(), Desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

func (d *Device) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Width, d.Height = width, height
}

func (d *Device) BeginFrame(clear wgpu.Color) (gpu.RenderPass, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FrameErr != nil {
		err := d.FrameErr
		d.FrameErr = nil
		return nil, err
	}
	d.ClearColor = clear
	d.Commands = nil
	return &pass{d: d}, nil
}

func (d *Device) EndFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Frames++
	return nil
}

// Reset drops recorded commands, keeping created resources.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Commands = nil
}

// Pass returns a render pass recording into the device without a frame.
func (d *Device) Pass() gpu.RenderPass {
	return &pass{d: d}
}

// Ops returns the recorded commands rendered as strings.
func (d *Device) Ops() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.Commands))
	for i, c := range d.Commands {
		out[i] = c.String()
	}
	return out
}

// BuffersNamed returns every recorded buffer with the given label.
func (d *Device) BuffersNamed(label string) []*Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*Buffer
	for _, b := range d.Buffers {
		if b.Name == label {
			out = append(out, b)
		}
	}
	return out
}
