package render_context

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
)

// SkinID identifies the shared joint data of one skin.
type SkinID uint64

// GlobalContext collects what nodes publish during one update pass: joint
// world matrices keyed by skin and the frame's lights in traversal order.
// It is created fresh every frame and must not be reused after Finish.
type GlobalContext struct {
	joints map[SkinID]map[int]mgl32.Mat4
	lights []light.Data
}

// NewGlobalContext creates an empty context for one frame.
func NewGlobalContext() *GlobalContext {
	return &GlobalContext{
		joints: make(map[SkinID]map[int]mgl32.Mat4),
	}
}

// SetJoint records the world matrix of one joint. Setting the same joint twice
// in one frame logs a warning; the last write wins.
//
// Parameters:
//   - skin: the skin the joint belongs to
//   - index: the joint index within the skin
//   - matrix: the joint's world transform
func (g *GlobalContext) SetJoint(skin SkinID, index int, matrix mgl32.Mat4) {
	byIndex, ok := g.joints[skin]
	if !ok {
		byIndex = make(map[int]mgl32.Mat4)
		g.joints[skin] = byIndex
	}
	if _, dup := byIndex[index]; dup {
		common.Logger().Warn("joint already set in global context", "skin", skin, "joint", index)
	}
	byIndex[index] = matrix
}

// Joints returns the joints published for a skin this frame, or nil.
func (g *GlobalContext) Joints(skin SkinID) map[int]mgl32.Mat4 {
	return g.joints[skin]
}

// AddLight appends a light for this frame.
func (g *GlobalContext) AddLight(data light.Data) {
	g.lights = append(g.lights, data)
}

// Finish returns the collected lights and drains the context.
//
// Returns:
//   - []light.Data: the lights in traversal order
func (g *GlobalContext) Finish() []light.Data {
	lights := g.lights
	g.lights = nil
	g.joints = nil
	return lights
}
