package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
)

// Request is a change handed to the renderer from another goroutine and
// applied at the start of the next Prepare.
type Request interface {
	apply(r *renderer)
}

// PlayAnimationRequest sets the play state of an animation group.
type PlayAnimationRequest struct {
	ID    node.ID
	State animator.PlayState
}

func (q PlayAnimationRequest) apply(r *renderer) {
	if !r.setAnimationState(q.ID, q.State) {
		common.Logger().Warn("play request for unknown animation group", "group", q.ID)
	}
}

// SetLightParamRequest replaces the global light parameters.
type SetLightParamRequest struct {
	Param light.GlobalParam
}

func (q SetLightParamRequest) apply(r *renderer) {
	r.state.SetLightParam(q.Param)
}

// SetBackgroundRequest replaces the clear colour.
type SetBackgroundRequest struct {
	Color wgpu.Color
}

func (q SetBackgroundRequest) apply(r *renderer) {
	r.state.SetBackground(q.Color)
}

// EnableCameraRequest takes the view from a camera node, or returns to the
// free camera when Clear is set.
type EnableCameraRequest struct {
	ID    node.ID
	Clear bool
}

func (q EnableCameraRequest) apply(r *renderer) {
	if q.Clear {
		r.state.ClearEnabledCamera()
		return
	}
	r.state.SetEnabledCamera(q.ID)
}

// AddNodeRequest appends a subtree to the root.
type AddNodeRequest struct {
	Node node.Node
}

func (q AddNodeRequest) apply(r *renderer) {
	r.root.Add(q.Node)
}

// AddAnimationGroupRequest registers an animation group with an optional
// initial state.
type AddAnimationGroupRequest struct {
	Group *animator.AnimationGroupNode
}

func (q AddAnimationGroupRequest) apply(r *renderer) {
	r.addAnimationGroup(q.Group)
}

// SetCameraSpeedRequest changes how fast the free camera moves, in world
// units per millisecond.
type SetCameraSpeedRequest struct {
	Speed float32
}

func (q SetCameraSpeedRequest) apply(r *renderer) {
	r.state.PositionController().SetSpeed(q.Speed)
}
