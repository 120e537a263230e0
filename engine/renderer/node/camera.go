package node

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
)

// cameraNode is the implementation of the Camera interface.
type cameraNode struct {
	id         ID
	label      string
	projection camera.Projection
	view       *camera.View

	// changed is set when the view or projection changes and cleared once pushed
	changed bool
	pushed  bool
}

// Camera is a scene camera. Its view follows the node's world transform: a
// camera at identity looks down -Z.
type Camera interface {
	Node

	// Label returns the camera name.
	Label() string

	// Projection returns the camera projection.
	Projection() camera.Projection

	// SetProjection replaces the projection.
	SetProjection(p camera.Projection)

	// Data returns the view and projection.
	//
	// Returns:
	//   - camera.Data: the camera data
	//   - bool: false before the first Update
	Data() (camera.Data, bool)
}

var _ Camera = &cameraNode{}

// NewCamera creates a camera node.
//
// Parameters:
//   - ids: the id factory
//   - label: the camera name
//   - projection: the camera projection
//
// Returns:
//   - Camera: the camera node
func NewCamera(ids *IDFactory, label string, projection camera.Projection) Camera {
	return &cameraNode{id: ids.Next(), label: label, projection: projection}
}

func (c *cameraNode) ID() ID {
	return c.id
}

func (c *cameraNode) Kind() Kind {
	return KindCamera
}

func (c *cameraNode) Children() []Node {
	return nil
}

func (c *cameraNode) Label() string {
	return c.label
}

func (c *cameraNode) Projection() camera.Projection {
	return c.projection
}

func (c *cameraNode) SetProjection(p camera.Projection) {
	c.projection = p
	c.changed = true
}

func (c *cameraNode) Data() (camera.Data, bool) {
	if c.view == nil {
		return camera.Data{}, false
	}
	return camera.Data{View: *c.view, Projection: c.projection}, true
}

// ViewFromTransform derives a free-look view from a world transform. Yaw is
// the Y Euler angle minus 90 degrees and pitch is the Z Euler angle.
//
// Parameters:
//   - world: the camera world transform
//
// Returns:
//   - camera.View: the view
func ViewFromTransform(world mgl32.Mat4) camera.View {
	translation, rotation, _ := common.DecomposeTRS(world)
	_, y, z := common.EulerXYZ(rotation)
	return camera.View{
		Eye:   translation,
		Yaw:   mgl32.RadToDeg(y) - 90,
		Pitch: mgl32.RadToDeg(z),
	}
}

func (c *cameraNode) Update(local rc.LocalContext, _ *rc.GlobalContext, invalid bool) {
	if !invalid && c.view != nil {
		return
	}
	view := ViewFromTransform(local.Transform())
	c.view = &view
	c.changed = true
}

func (c *cameraNode) Prepare(_ gpu.Device, state PrepareState) {
	enabled, ok := state.EnabledCamera()
	if !ok || enabled != c.id {
		c.pushed = false
		return
	}
	if c.view == nil {
		return
	}
	if _, held := state.EnabledCameraData(); held && c.pushed && !c.changed {
		return
	}
	state.SetEnabledCameraData(camera.Data{View: *c.view, Projection: c.projection})
	c.pushed = true
	c.changed = false
}

func (c *cameraNode) Draw(*DrawState) {}
