package loader

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/texture"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderer is an option builder that shares the renderer's id factory,
// pipeline cache and texture cache with the Loader.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the renderer option to a loader
func WithRenderer(r renderer.Renderer) LoaderBuilderOption {
	return func(l *loader) {
		l.ids = r.IDs()
		l.pipelines = r.State().Pipelines()
		l.textures = r.State().Textures()
	}
}

// WithIDFactory is an option builder that sets the factory loaded nodes are numbered from.
//
// Parameters:
//   - ids: the id factory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the factory option to a loader
func WithIDFactory(ids *node.IDFactory) LoaderBuilderOption {
	return func(l *loader) {
		l.ids = ids
	}
}

// WithPipelineCache is an option builder that sets the pipeline cache.
//
// Parameters:
//   - cache: the pipeline cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithPipelineCache(cache pipeline.Cache) LoaderBuilderOption {
	return func(l *loader) {
		l.pipelines = cache
	}
}

// WithTextureCache is an option builder that sets the texture cache.
//
// Parameters:
//   - cache: the texture cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithTextureCache(cache texture.Cache) LoaderBuilderOption {
	return func(l *loader) {
		l.textures = cache
	}
}

// WithWorkers is an option builder that sets how many goroutines convert texture pixels.
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}
