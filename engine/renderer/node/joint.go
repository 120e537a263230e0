package node

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
)

// JointTarget is one (skin, joint index) slot a joint node feeds.
type JointTarget struct {
	Skin  rc.SkinID
	Index int
}

// joint is the implementation of the Joint interface.
type joint struct {
	id        ID
	targets   []JointTarget
	child     Node
	published bool
}

// Joint publishes its world matrix to every target skin slot. When its child
// is a Transform the published matrix is the child's world context,
// otherwise the joint's incoming context.
type Joint interface {
	Node

	// Targets returns the skin slots this joint feeds.
	Targets() []JointTarget

	// Child returns the subtree below the joint.
	Child() Node
}

var _ Joint = &joint{}

// NewJoint creates a joint node.
//
// Parameters:
//   - ids: the id factory
//   - targets: the skin slots fed by this joint
//   - child: the subtree below the joint
//
// Returns:
//   - Joint: the joint node
func NewJoint(ids *IDFactory, targets []JointTarget, child Node) Joint {
	return &joint{id: ids.Next(), targets: targets, child: child}
}

func (j *joint) ID() ID {
	return j.id
}

func (j *joint) Kind() Kind {
	return KindJoint
}

func (j *joint) Children() []Node {
	return []Node{j.child}
}

func (j *joint) Child() Node {
	return j.child
}

func (j *joint) Targets() []JointTarget {
	return j.targets
}

func (j *joint) Update(local rc.LocalContext, global *rc.GlobalContext, invalid bool) {
	j.child.Update(local, global, invalid)

	world := local
	changed := invalid
	if t, ok := j.child.(*transform); ok {
		if w, ok := t.World(); ok {
			world = w
		}
		changed = changed || t.recomposed
	}
	if j.published && !changed {
		return
	}
	m := world.Transform()
	for _, target := range j.targets {
		global.SetJoint(target.Skin, target.Index, m)
	}
	j.published = true
}

func (j *joint) Prepare(device gpu.Device, state PrepareState) {
	j.child.Prepare(device, state)
}

func (j *joint) Draw(state *DrawState) {
	j.child.Draw(state)
}
