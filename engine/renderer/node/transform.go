package node

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uniform"
)

// transform is the implementation of the Transform interface.
type transform struct {
	id    ID
	child Node

	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3

	// updated is set by the setters and cleared when the world context is recomposed
	updated bool
	// recomposed reports whether the last Update recomposed the world context
	recomposed bool
	// prepareInvalid is set on recompose and cleared once the uniform is rewritten
	prepareInvalid bool
	cached         *rc.LocalContext

	uniform   *uniform.InstanceUniform
	bindGroup gpu.BindGroup
}

// Transform is a node with a decomposed local transform and one child. It
// owns the instance uniform bound at slot 1 while its child draws.
type Transform interface {
	Node

	// Translation returns the local translation.
	Translation() mgl32.Vec3

	// Rotation returns the local rotation.
	Rotation() mgl32.Quat

	// Scale returns the local scale.
	Scale() mgl32.Vec3

	// Matrix returns the local transform T * R * S.
	Matrix() mgl32.Mat4

	// World returns the world context composed by the last Update.
	//
	// Returns:
	//   - rc.LocalContext: the world context
	//   - bool: false before the first Update
	World() (rc.LocalContext, bool)

	// SetTranslation replaces the local translation and marks the node updated.
	SetTranslation(t mgl32.Vec3)

	// SetRotation replaces the local rotation and marks the node updated.
	SetRotation(r mgl32.Quat)

	// SetScale replaces the local scale and marks the node updated.
	SetScale(s mgl32.Vec3)

	// SetMatrix decomposes m into translation, rotation and scale and marks
	// the node updated.
	//
	// Parameters:
	//   - m: an affine transform without shear
	SetMatrix(m mgl32.Mat4)

	// Child returns the transformed subtree.
	Child() Node
}

var _ Transform = &transform{}

// NewTransform creates an identity transform over a child.
//
// Parameters:
//   - ids: the id factory
//   - child: the transformed subtree
//   - options: builder options
//
// Returns:
//   - Transform: the transform node
func NewTransform(ids *IDFactory, child Node, options ...TransformBuilderOption) Transform {
	t := &transform{
		id:       ids.Next(),
		child:    child,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *transform) ID() ID {
	return t.id
}

func (t *transform) Kind() Kind {
	return KindTransform
}

func (t *transform) Children() []Node {
	return []Node{t.child}
}

func (t *transform) Child() Node {
	return t.child
}

func (t *transform) Translation() mgl32.Vec3 {
	return t.translation
}

func (t *transform) Rotation() mgl32.Quat {
	return t.rotation
}

func (t *transform) Scale() mgl32.Vec3 {
	return t.scale
}

func (t *transform) Matrix() mgl32.Mat4 {
	return common.ComposeTRS(t.translation, t.rotation, t.scale)
}

func (t *transform) World() (rc.LocalContext, bool) {
	if t.cached == nil {
		return rc.LocalContext{}, false
	}
	return *t.cached, true
}

func (t *transform) SetTranslation(v mgl32.Vec3) {
	t.translation = v
	t.updated = true
}

func (t *transform) SetRotation(r mgl32.Quat) {
	t.rotation = r
	t.updated = true
}

func (t *transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.updated = true
}

func (t *transform) SetMatrix(m mgl32.Mat4) {
	t.translation, t.rotation, t.scale = common.DecomposeTRS(m)
	t.updated = true
}

func (t *transform) Update(local rc.LocalContext, global *rc.GlobalContext, invalid bool) {
	t.recomposed = false
	if t.updated || invalid || t.cached == nil {
		world := local.AddTransform(t.Matrix())
		t.cached = &world
		t.prepareInvalid = true
		t.updated = false
		t.recomposed = true
		t.child.Update(world, global, true)
		return
	}
	t.child.Update(*t.cached, global, invalid)
}

func (t *transform) Prepare(device gpu.Device, state PrepareState) {
	switch {
	case t.cached == nil:
		common.Logger().Warn("transform prepared before update", "node", t.id)
	case t.uniform == nil:
		u, err := uniform.NewInstanceUniform(device, fmt.Sprintf("Transform %d Instance", t.id), t.cached.Transform())
		if err != nil {
			common.Logger().Warn("failed to create instance uniform", "node", t.id, "error", err)
			break
		}
		t.uniform = u
		t.prepareInvalid = false
	case t.prepareInvalid:
		t.uniform.Set(t.cached.Transform())
		t.uniform.Update(device)
		t.prepareInvalid = false
	}
	if t.uniform != nil && t.bindGroup == nil {
		group, err := device.CreateBindGroup(fmt.Sprintf("Transform %d Bind Group", t.id), gpu.LayoutInstance,
			[]gpu.BindGroupEntry{{Binding: 0, Buffer: t.uniform.Buffer()}})
		if err != nil {
			common.Logger().Warn("failed to create instance bind group", "node", t.id, "error", err)
		} else {
			t.bindGroup = group
		}
	}
	t.child.Prepare(device, state)
}

func (t *transform) Draw(state *DrawState) {
	if t.bindGroup == nil {
		common.Logger().Warn("transform drawn without instance buffer", "node", t.id)
		t.child.Draw(state)
		return
	}
	prev := state.bindInstance(t.bindGroup)
	t.child.Draw(state)
	state.restoreInstance(prev)
}
