package animator

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
)

// PlayMode selects how a group maps wall-clock time onto channel time.
type PlayMode int

const (
	// PlayStopped does not animate.
	PlayStopped PlayMode = iota
	// PlayOnce plays from the start once and then stops.
	PlayOnce
	// PlayRepeat restarts from zero at the end of every cycle.
	PlayRepeat
	// PlayLoop plays forward then backward.
	PlayLoop
)

// String returns the mode name.
func (m PlayMode) String() string {
	switch m {
	case PlayStopped:
		return "Stopped"
	case PlayOnce:
		return "Once"
	case PlayRepeat:
		return "Repeat"
	case PlayLoop:
		return "Loop"
	}
	return "Unknown"
}

// PlayState is a play mode and the time playback started.
type PlayState struct {
	Mode  PlayMode
	Start time.Time
}

// Stopped returns the stopped state.
func Stopped() PlayState {
	return PlayState{Mode: PlayStopped}
}

// Once returns a single playback starting at start.
func Once(start time.Time) PlayState {
	return PlayState{Mode: PlayOnce, Start: start}
}

// Repeat returns a repeating playback starting at start.
func Repeat(start time.Time) PlayState {
	return PlayState{Mode: PlayRepeat, Start: start}
}

// Loop returns a forward-backward playback starting at start.
func Loop(start time.Time) PlayState {
	return PlayState{Mode: PlayLoop, Start: start}
}

// AnimationGroupNode is a named set of channels played together.
type AnimationGroupNode struct {
	Name  string
	Nodes []*AnimationNode
	// Length is the longest channel length in seconds.
	Length float32
	State  PlayState
}

// NewAnimationGroupNode creates a stopped group whose length is the longest
// channel length.
//
// Parameters:
//   - name: the group name
//   - nodes: the channels
//
// Returns:
//   - *AnimationGroupNode: the group
func NewAnimationGroupNode(name string, nodes []*AnimationNode) *AnimationGroupNode {
	g := &AnimationGroupNode{Name: name, Nodes: nodes, State: Stopped()}
	for _, n := range nodes {
		g.Length = max(g.Length, n.Length)
	}
	return g
}

// SetState replaces the play state.
func (g *AnimationGroupNode) SetState(state PlayState) {
	g.State = state
}

// EffectiveTime maps now onto channel time for the current state.
//
// Parameters:
//   - now: the frame time
//
// Returns:
//   - float32: the channel time in seconds
//   - bool: false when the group is stopped or a single playback has ended
func (g *AnimationGroupNode) EffectiveTime(now time.Time) (float32, bool) {
	elapsed := float32(now.Sub(g.State.Start).Seconds())
	switch g.State.Mode {
	case PlayOnce:
		if elapsed > g.Length {
			return 0, false
		}
		return max(elapsed, 0), true
	case PlayRepeat:
		if g.Length <= 0 {
			return 0, true
		}
		return positiveMod(elapsed, g.Length), true
	case PlayLoop:
		if g.Length <= 0 {
			return 0, true
		}
		progress := positiveMod(elapsed, 2*g.Length)
		if progress > g.Length {
			return 2*g.Length - progress, true
		}
		return progress, true
	}
	return 0, false
}

func positiveMod(x, m float32) float32 {
	r := math32.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// Update advances every channel to now. A single playback past its end
// switches the group to Stopped without touching the channels.
//
// Parameters:
//   - root: the render tree holding the target transforms
//   - now: the frame time
func (g *AnimationGroupNode) Update(root node.Node, now time.Time) {
	t, ok := g.EffectiveTime(now)
	if !ok {
		if g.State.Mode == PlayOnce {
			g.State = Stopped()
		}
		return
	}
	for _, n := range g.Nodes {
		n.Update(root, t)
	}
}
