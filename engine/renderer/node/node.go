package node

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
)

// ID identifies a node within the tree built from one IDFactory.
type ID uint64

// IDFactory hands out node ids. Ids are never reused within one factory.
type IDFactory struct {
	next atomic.Uint64
}

// NewIDFactory creates a factory whose first id is 1.
func NewIDFactory() *IDFactory {
	return &IDFactory{}
}

// Next returns a fresh id.
func (f *IDFactory) Next() ID {
	return ID(f.next.Add(1))
}

// Kind names the concrete node type.
type Kind int

const (
	KindGroup Kind = iota
	KindTransform
	KindPrimitive
	KindSkin
	KindJoint
	KindCamera
	KindLight
	KindCrosshair
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindTransform:
		return "Transform"
	case KindPrimitive:
		return "Primitive"
	case KindSkin:
		return "Skin"
	case KindJoint:
		return "Joint"
	case KindCamera:
		return "Camera"
	case KindLight:
		return "Light"
	case KindCrosshair:
		return "Crosshair"
	}
	return "Unknown"
}

// Node is one element of the render tree. Every frame the renderer calls
// Update, then Prepare, then Draw on the root.
type Node interface {
	// ID returns the node id.
	ID() ID

	// Kind returns the node type.
	Kind() Kind

	// Children returns the direct children in draw order.
	//
	// Returns:
	//   - []Node: the children, empty for leaves
	Children() []Node

	// Update propagates transforms down the tree and publishes joints and lights.
	//
	// Parameters:
	//   - local: the transform accumulated from the root
	//   - global: the per-frame sink for joints and lights
	//   - invalid: true when an ancestor transform changed this frame
	Update(local rc.LocalContext, global *rc.GlobalContext, invalid bool)

	// Prepare creates or rewrites the node's device resources.
	//
	// Parameters:
	//   - device: the device to create resources on
	//   - state: the renderer state visible to nodes
	Prepare(device gpu.Device, state PrepareState)

	// Draw records the node's draw commands.
	//
	// Parameters:
	//   - state: the ongoing render state
	Draw(state *DrawState)
}

// PrepareState is the part of the renderer state nodes need during prepare.
type PrepareState interface {
	// EnabledCamera returns the id of the camera node the view is taken from.
	//
	// Returns:
	//   - ID: the camera node id
	//   - bool: false when the free camera is in use
	EnabledCamera() (ID, bool)

	// SetEnabledCameraData stores the view and projection of the enabled camera.
	//
	// Parameters:
	//   - data: the camera data
	SetEnabledCameraData(data camera.Data)

	// EnabledCameraData returns the data held for the enabled camera.
	//
	// Returns:
	//   - camera.Data: the held camera data
	//   - bool: false when nothing has been pushed since the camera was enabled
	EnabledCameraData() (camera.Data, bool)
}

// DrawState is the render state carried through one Draw traversal.
type DrawState struct {
	// Pass is the render pass being recorded.
	Pass gpu.RenderPass
	// Instance is the bind group bound at slot 1.
	Instance gpu.BindGroup
	// Joint is the bind group bound at slot 3, nil outside a skin.
	Joint gpu.BindGroup
	// EmptyTexture is bound at slot 2 by colour skins.
	EmptyTexture gpu.BindGroup
	// Pipeline is the most recently bound pipeline.
	Pipeline pipeline.Pipeline
}

// bindInstance binds group at slot 1 and returns the previous binding.
func (s *DrawState) bindInstance(group gpu.BindGroup) gpu.BindGroup {
	prev := s.Instance
	s.Instance = group
	s.Pass.SetBindGroup(1, group)
	return prev
}

func (s *DrawState) restoreInstance(prev gpu.BindGroup) {
	s.Instance = prev
	if prev != nil {
		s.Pass.SetBindGroup(1, prev)
	}
}

func (s *DrawState) bindJoint(group gpu.BindGroup) gpu.BindGroup {
	prev := s.Joint
	s.Joint = group
	s.Pass.SetBindGroup(3, group)
	return prev
}

func (s *DrawState) restoreJoint(prev gpu.BindGroup) {
	s.Joint = prev
	if prev != nil {
		s.Pass.SetBindGroup(3, prev)
	}
}

// Walk visits root and every descendant depth first, parents before children.
// Returning false from fn stops the walk.
//
// Parameters:
//   - root: the subtree to visit
//   - fn: the visitor
func Walk(root Node, fn func(Node) bool) {
	walk(root, fn)
}

func walk(n Node, fn func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children() {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// FindTransform searches a subtree for the transform node with the given id.
//
// Parameters:
//   - root: the subtree to search
//   - id: the node id
//
// Returns:
//   - Transform: the transform node, or nil when absent
func FindTransform(root Node, id ID) Transform {
	var found Transform
	Walk(root, func(n Node) bool {
		if t, ok := n.(Transform); ok && n.ID() == id {
			found = t
			return false
		}
		return true
	})
	return found
}

// Find searches a subtree for the node with the given id.
//
// Parameters:
//   - root: the subtree to search
//   - id: the node id
//
// Returns:
//   - Node: the node, or nil when absent
func Find(root Node, id ID) Node {
	var found Node
	Walk(root, func(n Node) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}
