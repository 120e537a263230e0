package pipeline

import "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"

// CacheBuilderOption is a functional option used to configure a Cache during construction.
type CacheBuilderOption func(*cache)

// WithProgram sets the shader program pipelines are compiled from.
//
// Parameters:
//   - program: the shader program
//
// Returns:
//   - CacheBuilderOption: a function that sets the program for this cache
func WithProgram(program shader.Program) CacheBuilderOption {
	return func(c *cache) {
		c.program = program
	}
}
