package loader

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	rc "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/render_context"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/texture"
)

var (
	// ErrInvalidSkin is returned when a skin's joints and inverse bind
	// matrices disagree or a joint names a node missing from the scene.
	ErrInvalidSkin = errors.New("invalid skin")
	// ErrMissingTexture is returned when a material references a texture
	// without pixel data.
	ErrMissingTexture = errors.New("missing texture")
	// ErrUnsupportedPrimitive is returned for primitives whose vertex streams
	// cannot be turned into a mesh.
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")
)

// LoadResult is everything LoadScene produced besides the subtree.
type LoadResult struct {
	// NodeMap maps the asset id of every animated or joint node to its Transform node.
	NodeMap map[asset.Index]node.ID
	// Animations holds one group per scene animation, in scene order.
	Animations []*animator.AnimationGroupNode
	// Cameras lists the camera nodes in load order.
	Cameras []node.Camera
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.Mutex

	ids       *node.IDFactory
	pipelines pipeline.Cache
	textures  texture.Cache

	workers int
	pool    worker.DynamicWorkerPool
}

// Loader turns decoded scene assets into render node subtrees, sharing
// pipelines and textures through the caches it was built with.
type Loader interface {
	// LoadScene builds the render subtree of a scene: skins first, then the
	// node hierarchy, then the animations. Any error aborts the load and no
	// subtree is returned.
	//
	// Parameters:
	//   - device: the device textures and pipelines are created on
	//   - scene: the decoded scene
	//
	// Returns:
	//   - node.Node: the scene root group
	//   - *LoadResult: the node map, animation groups and cameras
	//   - error: ErrInvalidSkin, ErrMissingTexture or ErrUnsupportedPrimitive wrapped with context
	LoadScene(device gpu.Device, scene *asset.SceneAsset) (node.Node, *LoadResult, error)

	// LoadAnimation builds a stopped animation group. Channels whose target
	// is not in nodeMap are skipped with a warning.
	//
	// Parameters:
	//   - a: the animation asset
	//   - nodeMap: asset node id to Transform node id, from LoadResult
	//
	// Returns:
	//   - *animator.AnimationGroupNode: the group
	//   - error: animator.ErrInvalidCubicSpline or animator.ErrKeyframeCount on malformed channels
	LoadAnimation(a *asset.AnimationAsset, nodeMap map[asset.Index]node.ID) (*animator.AnimationGroupNode, error)
}

var _ Loader = &loader{}

// NewLoader creates a loader. Without options it numbers nodes from a new
// factory and uses fresh caches; WithRenderer shares the renderer's.
//
// Parameters:
//   - options: the builder options
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:      &sync.Mutex{},
		workers: defaultWorkers,
	}
	for _, option := range options {
		option(l)
	}
	if l.ids == nil {
		l.ids = node.NewIDFactory()
	}
	if l.pipelines == nil {
		l.pipelines = pipeline.NewCache()
	}
	if l.textures == nil {
		l.textures = texture.NewCache()
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

const defaultWorkers = 4

// sceneLoad is the state of one LoadScene call.
type sceneLoad struct {
	device   gpu.Device
	animated map[asset.Index]struct{}
	joints   map[asset.Index][]node.JointTarget
	skins    map[asset.Index]*node.SkinData
	result   *LoadResult
	// skinned collects nodes carrying a skin; they are loaded after every
	// other node so their joints are published first.
	skinned []*asset.NodeAsset
}

func (l *loader) LoadScene(device gpu.Device, scene *asset.SceneAsset) (node.Node, *LoadResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := &sceneLoad{
		device:   device,
		animated: scene.AnimatedNodeIDs(),
		joints:   make(map[asset.Index][]node.JointTarget),
		skins:    make(map[asset.Index]*node.SkinData),
		result:   &LoadResult{NodeMap: make(map[asset.Index]node.ID)},
	}

	if err := l.loadSkins(s, scene); err != nil {
		return nil, nil, fmt.Errorf("load scene %q: %w", scene.Name, err)
	}
	if err := l.preloadTextures(device, scene); err != nil {
		return nil, nil, fmt.Errorf("load scene %q: %w", scene.Name, err)
	}

	var children []node.Node
	for _, n := range scene.Nodes {
		if n.Skin != nil {
			s.skinned = append(s.skinned, n)
			continue
		}
		child, err := l.loadNode(s, n)
		if err != nil {
			return nil, nil, fmt.Errorf("load scene %q: %w", scene.Name, err)
		}
		children = append(children, child)
	}

	for i := 0; i < len(s.skinned); i++ {
		n := s.skinned[i]
		child, err := l.loadNode(s, n)
		if err != nil {
			return nil, nil, fmt.Errorf("load scene %q: %w", scene.Name, err)
		}
		children = append(children, node.NewSkin(l.ids, s.skins[n.Skin.ID], child))
	}

	for _, a := range scene.Animations {
		group, err := l.loadAnimation(a, s.result.NodeMap)
		if err != nil {
			return nil, nil, fmt.Errorf("load scene %q: %w", scene.Name, err)
		}
		s.result.Animations = append(s.result.Animations, group)
	}

	common.Logger().Debug("scene loaded", "scene", scene.Name, "nodes", len(children),
		"skins", len(s.skins), "animations", len(s.result.Animations))
	return node.NewGroup(l.ids, children...), s.result, nil
}

func (l *loader) loadSkins(s *sceneLoad, scene *asset.SceneAsset) error {
	present := make(map[asset.Index]struct{})
	for _, root := range scene.Nodes {
		root.Walk(func(n *asset.NodeAsset) {
			present[n.ID] = struct{}{}
		})
	}

	skins := slices.Clone(scene.Skins)
	for _, n := range scene.SkinnedNodes() {
		skins = append(skins, n.Skin)
	}

	for _, skin := range skins {
		if _, ok := s.skins[skin.ID]; ok {
			continue
		}
		if err := skin.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSkin, err)
		}
		for _, id := range skin.JointIDs {
			if _, ok := present[id]; !ok {
				return fmt.Errorf("skin %s joint %s not in scene: %w", skin.ID, id, ErrInvalidSkin)
			}
		}

		data := &node.SkinData{
			ID:                  rc.SkinID(l.ids.Next()),
			InverseBindMatrices: slices.Clone(skin.InverseBindMatrices),
		}
		s.skins[skin.ID] = data
		for i, id := range skin.JointIDs {
			s.joints[id] = append(s.joints[id], node.JointTarget{Skin: data.ID, Index: i})
		}
	}
	return nil
}

// loadNode builds one node following the assembly table:
//
//	joint, animated:      Joint(Transform(Group))
//	joint:                Joint(Transform(Group)) or Joint(Group) without a transform
//	animated:             Transform(Group)
//	transform:            Transform(Group)
//	otherwise:            Group
func (l *loader) loadNode(s *sceneLoad, n *asset.NodeAsset) (node.Node, error) {
	var children []node.Node

	if n.Mesh != nil {
		for i, p := range n.Mesh.Primitives {
			name := fmt.Sprintf("%s#%d", meshName(n), i)
			prim, err := l.loadPrimitive(s.device, name, p)
			if err != nil {
				return nil, err
			}
			children = append(children, prim)
		}
	}

	if n.Camera != nil {
		cam := node.NewCamera(l.ids, n.Camera.Label, cameraProjection(n.Camera))
		s.result.Cameras = append(s.result.Cameras, cam)
		children = append(children, cam)
	}

	for _, c := range n.Children {
		if c.Skin != nil {
			s.skinned = append(s.skinned, c)
			continue
		}
		child, err := l.loadNode(s, c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	var out node.Node = node.NewGroup(l.ids, children...)

	targets, isJoint := s.joints[n.ID]
	_, isAnimated := s.animated[n.ID]

	if n.Transform != nil || isAnimated {
		t := node.NewTransform(l.ids, out, transformOptions(n.Transform)...)
		if isAnimated || isJoint {
			s.result.NodeMap[n.ID] = t.ID()
		}
		out = t
	}
	if isJoint {
		out = node.NewJoint(l.ids, targets, out)
	}
	return out, nil
}

func meshName(n *asset.NodeAsset) string {
	switch {
	case n.Mesh.Name != "":
		return n.Mesh.Name
	case n.Name != "":
		return n.Name
	}
	return n.ID.String()
}

func transformOptions(t *asset.NodeTransform) []node.TransformBuilderOption {
	switch {
	case t == nil:
		return nil
	case t.IsMatrix():
		return []node.TransformBuilderOption{node.WithMatrix(t.Matrix())}
	}
	return []node.TransformBuilderOption{
		node.WithTranslation(t.Translation),
		node.WithRotation(t.Rotation),
		node.WithScale(t.Scale),
	}
}

func cameraProjection(c *asset.CameraAsset) camera.Projection {
	if o := c.Orthographic; o != nil {
		return camera.Orthographic(o.XMag, o.YMag, o.ZNear, o.ZFar)
	}
	if p := c.Perspective; p != nil {
		return camera.Perspective(p.AspectRatio, mgl32.RadToDeg(p.YFov), p.ZNear, p.ZFar)
	}
	return camera.DefaultData().Projection
}

func (l *loader) LoadAnimation(a *asset.AnimationAsset, nodeMap map[asset.Index]node.ID) (*animator.AnimationGroupNode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadAnimation(a, nodeMap)
}

func (l *loader) loadAnimation(a *asset.AnimationAsset, nodeMap map[asset.Index]node.ID) (*animator.AnimationGroupNode, error) {
	var nodes []*animator.AnimationNode
	for _, c := range a.Channels {
		target, ok := nodeMap[c.TargetID]
		if !ok {
			common.Logger().Warn("animation target not loaded", "animation", a.Name, "target", c.TargetID.String())
			continue
		}
		sampler, err := animator.NewSampler(c.Sampler)
		if err != nil {
			return nil, fmt.Errorf("load animation %q channel %s: %w", a.Name, c.TargetID, err)
		}
		nodes = append(nodes, &animator.AnimationNode{TargetID: target, Sampler: sampler, Length: c.Length})
	}
	return animator.NewAnimationGroupNode(a.Name, nodes), nil
}
