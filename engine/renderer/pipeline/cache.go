package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
)

// ErrMissingEntryPoint is returned when the program lacks an entry point a key needs.
var ErrMissingEntryPoint = errors.New("shader program has no such entry point")

// ErrMissingVertexLayout is returned when the program lacks the vertex input struct a key needs.
var ErrMissingVertexLayout = errors.New("shader program has no such vertex input")

// cache is the implementation of the Cache interface.
type cache struct {
	mu      *sync.Mutex
	program shader.Program
	items   map[Key]Pipeline
}

// Cache creates render pipelines on demand and shares them between every
// primitive with an equal Key. Entries are never evicted.
type Cache interface {
	// Get returns the pipeline for a key, creating it on the first request.
	//
	// Parameters:
	//   - device: the device used to create a missing pipeline
	//   - key: the pipeline key
	//
	// Returns:
	//   - Pipeline: the shared pipeline for the key
	//   - error: an error if the pipeline could not be created
	Get(device gpu.Device, key Key) (Pipeline, error)

	// Len returns the number of cached pipelines.
	//
	// Returns:
	//   - int: the cache size
	Len() int

	// Program returns the shader program every pipeline is compiled from.
	//
	// Returns:
	//   - shader.Program: the program
	Program() shader.Program
}

var _ Cache = &cache{}

// NewCache creates an empty Cache over the embedded viewer program unless
// another program is given.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - Cache: the pipeline cache
func NewCache(options ...CacheBuilderOption) Cache {
	c := &cache{
		mu:    &sync.Mutex{},
		items: make(map[Key]Pipeline),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.program == nil {
		c.program = shader.Viewer()
	}
	return c
}

func (c *cache) Get(device gpu.Device, key Key) (Pipeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.items[key]; ok {
		return p, nil
	}

	opts, err := c.options(key)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	p := NewPipeline(key, opts...)
	handle, err := device.CreateRenderPipeline(p.Descriptor(c.program.Source()))
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	p.SetHandle(handle)
	c.items[key] = p
	common.Logger().Debug("pipeline cached", "key", key.String(), "count", len(c.items))
	return p, nil
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *cache) Program() shader.Program {
	return c.program
}

func (c *cache) options(key Key) ([]PipelineBuilderOption, error) {
	vs, fs := EntryPoints(key)
	if !c.program.HasEntryPoint(wgpu.ShaderStageVertex, vs) {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntryPoint, vs)
	}
	if !c.program.HasEntryPoint(wgpu.ShaderStageFragment, fs) {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntryPoint, fs)
	}

	structName := vertexInput(key.Shader)
	layout, ok := c.program.VertexLayout(structName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingVertexLayout, structName)
	}

	cull := wgpu.CullModeBack
	switch {
	case !IsTriangles(key.Topology):
		cull = wgpu.CullModeNone
	case key.Outline && key.Shader != ShaderTypeLight:
		cull = wgpu.CullModeFront
	}

	opts := []PipelineBuilderOption{
		WithEntryPoints(vs, fs),
		WithLayouts(layouts(key.Shader)...),
		WithVertexLayout(layout),
		WithCullMode(cull),
	}
	if key.AlphaMode == AlphaModeBlend {
		opts = append(opts, WithBlendState(blendAlpha()))
	}
	return opts, nil
}

// EntryPoints returns the vertex and fragment entry point names for a key.
// Light pipelines ignore the lit and outline flags.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - vertex: the vertex entry point
//   - fragment: the fragment entry point
func EntryPoints(key Key) (vertex, fragment string) {
	if key.Shader == ShaderTypeLight {
		return "light_vs_main", "light_fs_main"
	}

	switch key.Shader {
	case ShaderTypeTexture:
		vertex = "texture"
	case ShaderTypeColorSkin:
		vertex = "color_skin"
	case ShaderTypeTextureSkin:
		vertex = "texture_skin"
	default:
		vertex = "color"
	}
	if key.Outline {
		return vertex + "_outline_vs_main", "outline_fs_main"
	}
	vertex += "_vs_main"

	fragment = "color"
	if key.Shader == ShaderTypeTexture || key.Shader == ShaderTypeTextureSkin {
		fragment = "texture"
	}
	if key.Lit {
		fragment += "_light"
	}
	return vertex, fragment + "_fs_main"
}

func vertexInput(s ShaderType) string {
	switch s {
	case ShaderTypeTexture:
		return shader.VertexTexture
	case ShaderTypeColorSkin:
		return shader.VertexColorSkin
	case ShaderTypeTextureSkin:
		return shader.VertexTextureSkin
	}
	return shader.VertexColor
}

func layouts(s ShaderType) []gpu.LayoutKind {
	switch s {
	case ShaderTypeTexture:
		return []gpu.LayoutKind{gpu.LayoutGlobal, gpu.LayoutInstance, gpu.LayoutTexture}
	case ShaderTypeColorSkin, ShaderTypeTextureSkin:
		return []gpu.LayoutKind{gpu.LayoutGlobal, gpu.LayoutInstance, gpu.LayoutTexture, gpu.LayoutJoint}
	}
	return []gpu.LayoutKind{gpu.LayoutGlobal, gpu.LayoutInstance}
}
