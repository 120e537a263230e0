package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/texture"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithIDFactory numbers the renderer's nodes from an existing factory, so a
// loader can build subtrees before the renderer exists.
//
// Parameters:
//   - ids: the factory to share
//
// Returns:
//   - RendererBuilderOption: a function that applies the factory option to a renderer
func WithIDFactory(ids *node.IDFactory) RendererBuilderOption {
	return func(r *renderer) {
		r.ids = ids
	}
}

// WithPipelineCache replaces the renderer's pipeline cache.
//
// Parameters:
//   - cache: the pipeline cache
//
// Returns:
//   - RendererBuilderOption: a function that applies the cache option to a renderer
func WithPipelineCache(cache pipeline.Cache) RendererBuilderOption {
	return func(r *renderer) {
		r.state.pipelines = cache
	}
}

// WithTextureCache replaces the renderer's texture cache.
//
// Parameters:
//   - cache: the texture cache
//
// Returns:
//   - RendererBuilderOption: a function that applies the cache option to a renderer
func WithTextureCache(cache texture.Cache) RendererBuilderOption {
	return func(r *renderer) {
		r.state.textures = cache
	}
}

// WithBackground sets the initial clear colour.
//
// Parameters:
//   - color: the clear colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the background option to a renderer
func WithBackground(color wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.state.background = color
	}
}

// WithLightParam sets the initial global light parameters.
//
// Parameters:
//   - param: the light parameters
//
// Returns:
//   - RendererBuilderOption: a function that applies the light option to a renderer
func WithLightParam(param light.GlobalParam) RendererBuilderOption {
	return func(r *renderer) {
		r.state.lightParam = param
	}
}

// WithQueueSize sets how many requests may wait before Enqueue blocks.
//
// Parameters:
//   - size: the queue capacity
//
// Returns:
//   - RendererBuilderOption: a function that applies the queue option to a renderer
func WithQueueSize(size int) RendererBuilderOption {
	return func(r *renderer) {
		r.requests = make(chan Request, size)
	}
}
