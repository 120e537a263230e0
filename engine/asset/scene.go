package asset

// SceneAsset is a fully decoded scene: root nodes, the skins they reference and
// the animations targeting them.
type SceneAsset struct {
	Name       string
	Nodes      []*NodeAsset
	Skins      []*SkinAsset
	Animations []*AnimationAsset
}

// SkinnedNodes returns every node that carries a skin, in depth-first order.
func (s *SceneAsset) SkinnedNodes() []*NodeAsset {
	var out []*NodeAsset
	for _, root := range s.Nodes {
		root.Walk(func(n *NodeAsset) {
			if n.Skin != nil {
				out = append(out, n)
			}
		})
	}
	return out
}

// AnimatedNodeIDs returns the set of node ids targeted by any animation channel.
func (s *SceneAsset) AnimatedNodeIDs() map[Index]struct{} {
	out := make(map[Index]struct{})
	for _, a := range s.Animations {
		for _, c := range a.Channels {
			out[c.TargetID] = struct{}{}
		}
	}
	return out
}
