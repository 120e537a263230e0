package node

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
)

// group is an ordered list of children with no state of its own.
type group struct {
	id       ID
	children []Node
}

// Group is a node with ordered children.
type Group interface {
	Node

	// Add appends children.
	//
	// Parameters:
	//   - children: the nodes to append
	Add(children ...Node)
}

var _ Group = &group{}

// NewGroup creates a group.
//
// Parameters:
//   - ids: the id factory
//   - children: the initial children
//
// Returns:
//   - Group: the group node
func NewGroup(ids *IDFactory, children ...Node) Group {
	return &group{id: ids.Next(), children: children}
}

func (g *group) ID() ID {
	return g.id
}

func (g *group) Kind() Kind {
	return KindGroup
}

func (g *group) Children() []Node {
	return g.children
}

func (g *group) Add(children ...Node) {
	g.children = append(g.children, children...)
}

func (g *group) Update(local rc.LocalContext, global *rc.GlobalContext, invalid bool) {
	for _, child := range g.children {
		child.Update(local, global, invalid)
	}
}

func (g *group) Prepare(device gpu.Device, state PrepareState) {
	for _, child := range g.children {
		child.Prepare(device, state)
	}
}

func (g *group) Draw(state *DrawState) {
	for _, child := range g.children {
		child.Draw(state)
	}
}
