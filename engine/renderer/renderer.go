package renderer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uniform"
)

// RenderResult reports how a frame ended.
type RenderResult int

const (
	// RenderOK means the frame was presented.
	RenderOK RenderResult = iota
	// RenderSurfaceLost means the surface must be reconfigured with Resize.
	RenderSurfaceLost
	// RenderTimeout means the frame was skipped and the next one may succeed.
	RenderTimeout
	// RenderError means the frame failed for another reason.
	RenderError
)

func (r RenderResult) String() string {
	switch r {
	case RenderOK:
		return "ok"
	case RenderSurfaceLost:
		return "surface lost"
	case RenderTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// AnimationGroupInfo describes a registered animation group.
type AnimationGroupInfo struct {
	ID     node.ID
	Name   string
	Length float32
	State  animator.PlayState
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	ids   *node.IDFactory
	root  node.Group
	state *rendererState

	groupOrder []node.ID
	groups     map[node.ID]*animator.AnimationGroupNode

	requests chan Request

	lastPrepare time.Time

	cameraUniform *uniform.CameraUniform
	lightUniform  *uniform.LightUniform
	identity      *uniform.InstanceUniform
	global        gpu.BindGroup
	instance      gpu.BindGroup
	emptyTexture  gpu.BindGroup
}

// Renderer owns the scene graph, the animation groups and the global GPU
// state, and turns them into frames.
//
// Each frame runs Prepare then Render on the render goroutine. Other
// goroutines change the renderer by sending requests through Enqueue.
type Renderer interface {
	// IDs returns the factory every node of this renderer is numbered from.
	IDs() *node.IDFactory

	// Root returns the root group of the scene graph.
	Root() node.Group

	// AddNode appends a subtree to the root.
	//
	// Parameters:
	//   - n: the subtree root
	AddNode(n node.Node)

	// AddAnimationGroup registers an animation group.
	//
	// Parameters:
	//   - g: the group
	//
	// Returns:
	//   - node.ID: the id the group is addressed by
	AddAnimationGroup(g *animator.AnimationGroupNode) node.ID

	// SetAnimationState changes the play state of a group.
	//
	// Parameters:
	//   - id: the group id
	//   - state: the new play state
	//
	// Returns:
	//   - bool: false when no group has that id
	SetAnimationState(id node.ID, state animator.PlayState) bool

	// AnimationGroups returns a snapshot of the registered groups in
	// registration order.
	AnimationGroups() []AnimationGroupInfo

	// Enqueue hands a request to the render goroutine. It blocks when the
	// queue is full.
	//
	// Parameters:
	//   - req: the request
	Enqueue(req Request)

	// State returns the renderer configuration.
	State() RendererState

	// Prepare applies queued requests, advances animations, updates the
	// scene graph and uploads everything the next Render needs.
	//
	// Parameters:
	//   - device: the device resources are created on
	//   - now: the frame time
	//
	// Returns:
	//   - error: an error if a global resource could not be created
	Prepare(device gpu.Device, now time.Time) error

	// Render records and presents one frame.
	//
	// Parameters:
	//   - device: the device to render with
	//
	// Returns:
	//   - RenderResult: how the frame ended
	//   - error: the underlying error when the result is not RenderOK
	Render(device gpu.Device) (RenderResult, error)

	// Resize reconfigures the surface and the camera aspect.
	//
	// Parameters:
	//   - device: the device owning the surface
	//   - width, height: the new size in pixels
	Resize(device gpu.Device, width, height int)
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer with an empty root group.
//
// Parameters:
//   - options: the builder options
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:       &sync.Mutex{},
		state:    newRendererState(),
		groups:   make(map[node.ID]*animator.AnimationGroupNode),
		requests: make(chan Request, defaultQueueSize),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.ids == nil {
		r.ids = node.NewIDFactory()
	}
	r.root = node.NewGroup(r.ids)
	return r
}

const defaultQueueSize = 64

func (r *renderer) IDs() *node.IDFactory {
	return r.ids
}

func (r *renderer) Root() node.Group {
	return r.root
}

func (r *renderer) AddNode(n node.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.root.Add(n)
}

func (r *renderer) AddAnimationGroup(g *animator.AnimationGroupNode) node.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addAnimationGroup(g)
}

func (r *renderer) addAnimationGroup(g *animator.AnimationGroupNode) node.ID {
	id := r.ids.Next()
	r.groups[id] = g
	r.groupOrder = append(r.groupOrder, id)
	return id
}

func (r *renderer) SetAnimationState(id node.ID, state animator.PlayState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setAnimationState(id, state)
}

func (r *renderer) setAnimationState(id node.ID, state animator.PlayState) bool {
	g, ok := r.groups[id]
	if !ok {
		return false
	}
	g.SetState(state)
	return true
}

func (r *renderer) AnimationGroups() []AnimationGroupInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AnimationGroupInfo, 0, len(r.groupOrder))
	for _, id := range r.groupOrder {
		g := r.groups[id]
		out = append(out, AnimationGroupInfo{ID: id, Name: g.Name, Length: g.Length, State: g.State})
	}
	return out
}

func (r *renderer) Enqueue(req Request) {
	r.requests <- req
}

func (r *renderer) State() RendererState {
	return r.state
}

func (r *renderer) drain() {
	for {
		select {
		case req := <-r.requests:
			req.apply(r)
		default:
			return
		}
	}
}

func (r *renderer) Prepare(device gpu.Device, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drain()

	for _, id := range r.groupOrder {
		r.groups[id].Update(r.root, now)
	}

	global := rc.NewGlobalContext()
	r.root.Update(rc.NewLocalContext(), global, false)

	if err := r.ensureGlobals(device); err != nil {
		return err
	}

	r.lightUniform.Set(global.Finish())
	r.lightUniform.SetParam(r.state.LightParam())
	r.lightUniform.Update(device)

	if _, ok := r.state.EnabledCamera(); !ok && !r.lastPrepare.IsZero() {
		r.state.PositionController().Update(r.state.FreeCamera(), now.Sub(r.lastPrepare))
	}
	r.lastPrepare = now

	r.root.Prepare(device, r.state)

	r.cameraUniform.Set(r.state.CameraData(), r.state.Aspect())
	r.cameraUniform.Update(device)
	return nil
}

func (r *renderer) ensureGlobals(device gpu.Device) error {
	if r.global != nil {
		return nil
	}

	var err error
	if r.cameraUniform, err = uniform.NewCameraUniform(device); err != nil {
		return fmt.Errorf("create camera uniform: %w", err)
	}
	if r.lightUniform, err = uniform.NewLightUniform(device, r.state.LightParam()); err != nil {
		return fmt.Errorf("create light uniform: %w", err)
	}
	if r.identity, err = uniform.NewInstanceUniform(device, "Identity Instance", mgl32.Ident4()); err != nil {
		return fmt.Errorf("create identity instance: %w", err)
	}
	if r.instance, err = device.CreateBindGroup("Identity Instance Bind Group", gpu.LayoutInstance, []gpu.BindGroupEntry{
		{Binding: 0, Buffer: r.identity.Buffer()},
	}); err != nil {
		return fmt.Errorf("create identity bind group: %w", err)
	}
	if r.emptyTexture, err = r.state.Textures().Empty(device); err != nil {
		return fmt.Errorf("create empty texture: %w", err)
	}
	global, err := device.CreateBindGroup("Global Bind Group", gpu.LayoutGlobal, []gpu.BindGroupEntry{
		{Binding: 0, Buffer: r.cameraUniform.Buffer()},
		{Binding: 1, Buffer: r.lightUniform.Buffer()},
	})
	if err != nil {
		return fmt.Errorf("create global bind group: %w", err)
	}
	r.global = global
	return nil
}

func (r *renderer) Render(device gpu.Device) (RenderResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.global == nil {
		return RenderError, errors.New("render before prepare")
	}

	pass, err := device.BeginFrame(r.state.Background())
	switch {
	case errors.Is(err, gpu.ErrSurfaceLost):
		common.Logger().Warn("surface lost")
		return RenderSurfaceLost, err
	case errors.Is(err, gpu.ErrSurfaceTimeout):
		common.Logger().Warn("surface timeout")
		return RenderTimeout, err
	case err != nil:
		return RenderError, err
	}

	pass.SetBindGroup(gpu.LayoutGlobal.Slot(), r.global)
	pass.SetBindGroup(gpu.LayoutInstance.Slot(), r.instance)
	r.root.Draw(&node.DrawState{
		Pass:         pass,
		Instance:     r.instance,
		EmptyTexture: r.emptyTexture,
	})

	if err := device.EndFrame(); err != nil {
		return RenderError, err
	}
	return RenderOK, nil
}

func (r *renderer) Resize(device gpu.Device, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	device.Resize(width, height)
	r.state.Resize(width, height)
}
