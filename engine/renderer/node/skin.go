package node

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uniform"
)

// SkinData is the joint description shared by every skin node of one skin asset.
type SkinData struct {
	ID                  rc.SkinID
	InverseBindMatrices []mgl32.Mat4
}

// skin is the implementation of the Skin interface.
type skin struct {
	id      ID
	data    *SkinData
	child   Node
	items   []mgl32.Mat4
	invalid bool

	uniform   *uniform.JointUniform
	bindGroup gpu.BindGroup
}

// Skin binds the joint matrices of one skin at slot 3 while its child draws.
type Skin interface {
	Node

	// Data returns the shared skin description.
	Data() *SkinData

	// Items returns the current joint matrices, joint world * inverse bind.
	Items() []mgl32.Mat4

	// Child returns the skinned subtree.
	Child() Node
}

var _ Skin = &skin{}

// NewSkin creates a skin node with every joint matrix at identity.
//
// Parameters:
//   - ids: the id factory
//   - data: the shared skin description
//   - child: the skinned subtree
//
// Returns:
//   - Skin: the skin node
func NewSkin(ids *IDFactory, data *SkinData, child Node) Skin {
	items := make([]mgl32.Mat4, len(data.InverseBindMatrices))
	for i := range items {
		items[i] = mgl32.Ident4()
	}
	return &skin{
		id:      ids.Next(),
		data:    data,
		child:   child,
		items:   items,
		invalid: true,
	}
}

func (s *skin) ID() ID {
	return s.id
}

func (s *skin) Kind() Kind {
	return KindSkin
}

func (s *skin) Children() []Node {
	return []Node{s.child}
}

func (s *skin) Child() Node {
	return s.child
}

func (s *skin) Data() *SkinData {
	return s.data
}

func (s *skin) Items() []mgl32.Mat4 {
	return s.items
}

func (s *skin) Update(local rc.LocalContext, global *rc.GlobalContext, invalid bool) {
	for index, matrix := range global.Joints(s.data.ID) {
		if index < 0 || index >= len(s.data.InverseBindMatrices) {
			common.Logger().Warn("joint index out of range", "node", s.id, "skin", s.data.ID, "joint", index)
			continue
		}
		s.items[index] = matrix.Mul4(s.data.InverseBindMatrices[index])
		s.invalid = true
	}
	s.child.Update(local, global, invalid)
}

func (s *skin) Prepare(device gpu.Device, state PrepareState) {
	switch {
	case s.uniform == nil:
		u, err := uniform.NewJointUniform(device, fmt.Sprintf("Skin %d Joints", s.id), s.items)
		if err != nil {
			common.Logger().Warn("failed to create joint uniform", "node", s.id, "error", err)
			break
		}
		s.uniform = u
		s.invalid = false
	case s.invalid:
		s.uniform.Set(s.items)
		s.uniform.Update(device)
		s.invalid = false
	}
	if s.uniform != nil && s.bindGroup == nil {
		group, err := device.CreateBindGroup(fmt.Sprintf("Skin %d Bind Group", s.id), gpu.LayoutJoint,
			[]gpu.BindGroupEntry{{Binding: 0, Buffer: s.uniform.Buffer()}})
		if err != nil {
			common.Logger().Warn("failed to create joint bind group", "node", s.id, "error", err)
		} else {
			s.bindGroup = group
		}
	}
	s.child.Prepare(device, state)
}

func (s *skin) Draw(state *DrawState) {
	if s.bindGroup == nil {
		common.Logger().Warn("skin drawn without joint buffer", "node", s.id)
		return
	}
	prev := state.bindJoint(s.bindGroup)
	s.child.Draw(state)
	state.restoreJoint(prev)
}
