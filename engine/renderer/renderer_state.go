package renderer

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/node"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/texture"
)

// DefaultBackground is the clear colour used until one is set.
var DefaultBackground = wgpu.Color{R: 0.8, G: 0.8, B: 1.0, A: 1.0}

// rendererState is the implementation of the RendererState interface.
type rendererState struct {
	mu *sync.Mutex

	enabledCamera     *node.ID
	enabledCameraData *camera.Data

	freeCamera camera.Camera
	controller camera.PositionController

	lightParam light.GlobalParam
	background wgpu.Color

	width, height int

	pipelines pipeline.Cache
	textures  texture.Cache
}

// RendererState is the renderer configuration shared with nodes and the
// application: which camera the view comes from, the free camera, shading
// parameters, the background and the resource caches.
type RendererState interface {
	node.PrepareState

	// SetEnabledCamera takes the view from a camera node from the next prepare on.
	//
	// Parameters:
	//   - id: the camera node id
	SetEnabledCamera(id node.ID)

	// ClearEnabledCamera returns to the free camera.
	ClearEnabledCamera()

	// CameraData returns the data the frame is rendered with: the enabled
	// camera's when available, the free camera's otherwise.
	CameraData() camera.Data

	// FreeCamera returns the camera used when no scene camera is enabled.
	FreeCamera() camera.Camera

	// PositionController returns the keyboard controller moving the free camera.
	PositionController() camera.PositionController

	// LightParam returns the global light parameters.
	LightParam() light.GlobalParam

	// SetLightParam replaces the global light parameters.
	SetLightParam(param light.GlobalParam)

	// Background returns the clear colour.
	Background() wgpu.Color

	// SetBackground replaces the clear colour.
	SetBackground(color wgpu.Color)

	// Resize records the surface size.
	//
	// Parameters:
	//   - width, height: the surface size in pixels
	Resize(width, height int)

	// Size returns the surface size in pixels.
	Size() (width, height int)

	// Aspect returns width / height, 1 before the first resize.
	Aspect() float32

	// Pipelines returns the pipeline cache.
	Pipelines() pipeline.Cache

	// Textures returns the texture cache.
	Textures() texture.Cache
}

var _ RendererState = &rendererState{}

func newRendererState() *rendererState {
	return &rendererState{
		mu:         &sync.Mutex{},
		freeCamera: camera.NewCamera(),
		controller: camera.NewPositionController(),
		lightParam: light.DefaultGlobalParam(),
		background: DefaultBackground,
		pipelines:  pipeline.NewCache(),
		textures:   texture.NewCache(),
	}
}

func (s *rendererState) EnabledCamera() (node.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabledCamera == nil {
		return 0, false
	}
	return *s.enabledCamera, true
}

func (s *rendererState) SetEnabledCamera(id node.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabledCamera != nil && *s.enabledCamera == id {
		return
	}
	s.enabledCamera = &id
	s.enabledCameraData = nil
}

func (s *rendererState) ClearEnabledCamera() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabledCamera = nil
	s.enabledCameraData = nil
}

func (s *rendererState) SetEnabledCameraData(data camera.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabledCameraData = &data
}

func (s *rendererState) EnabledCameraData() (camera.Data, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabledCamera == nil || s.enabledCameraData == nil {
		return camera.Data{}, false
	}
	return *s.enabledCameraData, true
}

func (s *rendererState) CameraData() camera.Data {
	if data, ok := s.EnabledCameraData(); ok {
		return data
	}
	return s.freeCamera.Data()
}

func (s *rendererState) FreeCamera() camera.Camera {
	return s.freeCamera
}

func (s *rendererState) PositionController() camera.PositionController {
	return s.controller
}

func (s *rendererState) LightParam() light.GlobalParam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lightParam
}

func (s *rendererState) SetLightParam(param light.GlobalParam) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightParam = param
}

func (s *rendererState) Background() wgpu.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *rendererState) SetBackground(color wgpu.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = color
}

func (s *rendererState) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *rendererState) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *rendererState) Aspect() float32 {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

func (s *rendererState) Pipelines() pipeline.Cache {
	return s.pipelines
}

func (s *rendererState) Textures() texture.Cache {
	return s.textures
}
