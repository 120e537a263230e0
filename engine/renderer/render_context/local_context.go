package render_context

import "github.com/go-gl/mathgl/mgl32"

// LocalContext is the transform accumulated from the root down to a node.
// It is a value type; AddTransform never modifies the receiver.
type LocalContext struct {
	transform mgl32.Mat4
}

// NewLocalContext returns the identity context used at the root of a tree.
func NewLocalContext() LocalContext {
	return LocalContext{transform: mgl32.Ident4()}
}

// Transform returns the accumulated transform. The zero LocalContext is treated as identity.
func (c LocalContext) Transform() mgl32.Mat4 {
	if c.transform == (mgl32.Mat4{}) {
		return mgl32.Ident4()
	}
	return c.transform
}

// AddTransform returns a new context whose transform is parent * local.
//
// Parameters:
//   - local: the node's own transform
//
// Returns:
//   - LocalContext: the composed context
func (c LocalContext) AddTransform(local mgl32.Mat4) LocalContext {
	return LocalContext{transform: c.Transform().Mul4(local)}
}
