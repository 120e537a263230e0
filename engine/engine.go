package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

const (
	// RotationSpeed converts cursor pixels into degrees of yaw and pitch.
	RotationSpeed = 0.3
	// FovStep is the field of view change per scroll notch, in degrees.
	FovStep = 10
	// MinFov and MaxFov bound the free camera field of view, in degrees.
	MinFov = 30
	MaxFov = 120
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	cfg config.Config

	window   window.Window
	device   gpu.Device
	renderer renderer.Renderer
	loader   loader.Loader
	profiler *profiler.Profiler
	watcher  *config.Watcher
	level    *slog.LevelVar

	now func() time.Time

	quitOnce sync.Once
}

// Engine runs the viewer: it turns window input into free camera movement and
// renderer requests, and drives one Prepare and Render per message loop iteration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil for a headless engine
	Window() window.Window

	// Device returns the GPU device frames are rendered with.
	//
	// Returns:
	//   - gpu.Device: the device
	Device() gpu.Device

	// Renderer returns the renderer owning the scene root.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Loader returns the loader sharing the renderer's caches and id factory.
	//
	// Returns:
	//   - loader.Loader: the loader
	Loader() loader.Loader

	// Config returns the configuration currently applied.
	//
	// Returns:
	//   - config.Config: the active configuration
	Config() config.Config

	// LoadScene loads a scene, adds its subtree to the root and registers its
	// animation groups, stopped.
	//
	// Parameters:
	//   - scene: the scene to load
	//
	// Returns:
	//   - *loader.LoadResult: the loaded node map, animation groups and cameras
	//   - error: any load error; nothing is added on failure
	LoadScene(scene *asset.SceneAsset) (*loader.LoadResult, error)

	// ApplyConfig hands a new configuration to the renderer. The changes take
	// effect at the start of the next frame. Window size, title, present mode
	// and MSAA are fixed at start-up; the log level changes only when the
	// engine was given a level variable with WithLevelVar.
	//
	// Parameters:
	//   - cfg: the configuration to apply
	ApplyConfig(cfg config.Config)

	// WatchConfig reloads the configuration file whenever it changes and applies it.
	//
	// Parameters:
	//   - path: the TOML or YAML config file
	//
	// Returns:
	//   - error: an error if the file cannot be watched
	WatchConfig(path string) error

	// HandleKey feeds a key press or release into the viewer controls.
	// W/A/S/D, Space and Left Shift move the free camera, 1 to 9 toggle
	// animation groups and C toggles cursor capture.
	//
	// Parameters:
	//   - keyCode: the key code (see common.Key*)
	//   - pressed: true on press, false on release
	HandleKey(keyCode uint32, pressed bool)

	// HandleLook rotates the free camera by a cursor delta.
	//
	// Parameters:
	//   - dx, dy: the cursor movement in pixels
	HandleLook(dx, dy float32)

	// HandleScroll zooms the free camera. Scrolling down widens the field of view.
	//
	// Parameters:
	//   - delta: the vertical scroll delta
	HandleScroll(delta float32)

	// Frame prepares and renders one frame, reconfiguring the surface when it was lost.
	//
	// Parameters:
	//   - now: the frame time
	//
	// Returns:
	//   - renderer.RenderResult: how the frame ended
	//   - error: a prepare or render error
	Frame(now time.Time) (renderer.RenderResult, error)

	// Run starts the message loop and blocks until the window closes.
	//
	// Returns:
	//   - error: ErrNoWindow, or the error that stopped the loop
	Run() error

	// Quit stops the message loop and config watcher. Safe to call multiple times.
	Quit()
}

// NewEngine creates the viewer engine. Without WithWindow and WithDevice it
// opens a GLFW window and a wgpu device sized from the configuration.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the window or device could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:  &sync.Mutex{},
		cfg: config.Default(),
		now: time.Now,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil && e.device == nil {
		w, err := window.NewWindow(
			window.WithTitle(e.cfg.Window.Title),
			window.WithSize(e.cfg.Window.Width, e.cfg.Window.Height),
		)
		if err != nil {
			return nil, err
		}
		e.window = w
	}
	if e.device == nil {
		d, err := gpu.NewWGPUDevice(e.window.SurfaceDescriptor(), e.window.Width(), e.window.Height(),
			gpu.WithPresentMode(e.cfg.PresentMode()),
			gpu.WithSampleCount(e.cfg.SampleCount()),
		)
		if err != nil {
			_ = e.window.Close()
			return nil, fmt.Errorf("create device: %w", err)
		}
		e.device = d
	}

	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(
			renderer.WithBackground(e.cfg.ClearColor()),
			renderer.WithLightParam(e.cfg.Light),
		)
	}
	e.renderer.State().PositionController().SetSpeed(e.cfg.Camera.Speed)
	if e.window != nil {
		e.renderer.Resize(e.device, e.window.Width(), e.window.Height())
	}
	if e.loader == nil {
		e.loader = loader.NewLoader(loader.WithRenderer(e.renderer), loader.WithWorkers(e.cfg.Workers))
	}
	if e.profiler == nil && e.cfg.Profile {
		e.profiler = profiler.NewProfiler()
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.renderer.Resize(e.device, width, height)
		})
		e.window.SetKeyCallback(e.HandleKey)
		e.window.SetLookCallback(e.HandleLook)
		e.window.SetScrollCallback(e.HandleScroll)
	}
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Device() gpu.Device {
	return e.device
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *engine) LoadScene(scene *asset.SceneAsset) (*loader.LoadResult, error) {
	root, result, err := e.loader.LoadScene(e.device, scene)
	if err != nil {
		return nil, err
	}
	e.renderer.AddNode(root)
	for _, g := range result.Animations {
		e.renderer.AddAnimationGroup(g)
	}
	common.Logger().Info("scene added", "scene", scene.Name, "animations", len(result.Animations), "cameras", len(result.Cameras))
	return result, nil
}

func (e *engine) ApplyConfig(cfg config.Config) {
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()

	e.renderer.Enqueue(renderer.SetBackgroundRequest{Color: cfg.ClearColor()})
	e.renderer.Enqueue(renderer.SetLightParamRequest{Param: cfg.Light})
	e.renderer.Enqueue(renderer.SetCameraSpeedRequest{Speed: cfg.Camera.Speed})

	if e.level != nil {
		if level, err := cfg.Level(); err == nil {
			e.level.Set(level)
		}
	}
	common.Logger().Debug("config applied")
}

func (e *engine) WatchConfig(path string) error {
	w, err := config.Watch(path, e.ApplyConfig)
	if err != nil {
		return err
	}
	e.mu.Lock()
	prev := e.watcher
	e.watcher = w
	e.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

func (e *engine) HandleKey(keyCode uint32, pressed bool) {
	controller := e.renderer.State().PositionController()
	weight := float32(0)
	if pressed {
		weight = 1
	}

	switch keyCode {
	case common.KeyW:
		controller.SetInput(camera.DirectionForward, weight)
	case common.KeyS:
		controller.SetInput(camera.DirectionBackward, weight)
	case common.KeyA:
		controller.SetInput(camera.DirectionLeft, weight)
	case common.KeyD:
		controller.SetInput(camera.DirectionRight, weight)
	case common.KeySpace:
		controller.SetInput(camera.DirectionUp, weight)
	case common.KeyLeftShift:
		controller.SetInput(camera.DirectionDown, weight)
	case common.KeyC:
		if pressed && e.window != nil {
			e.window.SetGrab(!e.window.Grabbed())
		}
	default:
		if pressed && keyCode >= common.Key1 && keyCode <= common.Key9 {
			e.toggleAnimation(int(keyCode - common.Key1))
		}
	}
}

// toggleAnimation starts the n-th animation group repeating, or stops it if it is playing.
func (e *engine) toggleAnimation(n int) {
	groups := e.renderer.AnimationGroups()
	if n >= len(groups) {
		return
	}
	g := groups[n]
	state := animator.Repeat(e.now())
	if g.State.Mode != animator.PlayStopped {
		state = animator.Stopped()
	}
	common.Logger().Info("animation toggled", "group", g.Name, "mode", state.Mode)
	e.renderer.Enqueue(renderer.PlayAnimationRequest{ID: g.ID, State: state})
}

func (e *engine) HandleLook(dx, dy float32) {
	e.renderer.State().FreeCamera().Rotate(dx*RotationSpeed, -dy*RotationSpeed)
}

func (e *engine) HandleScroll(delta float32) {
	cam := e.renderer.State().FreeCamera()
	data := cam.Data()
	if data.Projection.Type != camera.ProjectionPerspective {
		return
	}
	data.Projection.YFov = mgl32.Clamp(data.Projection.YFov-delta*FovStep, MinFov, MaxFov)
	cam.SetData(data)
}

func (e *engine) Frame(now time.Time) (renderer.RenderResult, error) {
	if err := e.renderer.Prepare(e.device, now); err != nil {
		return renderer.RenderError, fmt.Errorf("prepare: %w", err)
	}
	result, err := e.renderer.Render(e.device)
	switch result {
	case renderer.RenderSurfaceLost:
		width, height := e.renderer.State().Size()
		if e.window != nil {
			width, height = e.window.Width(), e.window.Height()
		}
		e.renderer.Resize(e.device, width, height)
		return result, nil
	case renderer.RenderTimeout:
		return result, nil
	case renderer.RenderError:
		return result, err
	}
	if e.profiler != nil {
		e.profiler.Tick()
	}
	return result, nil
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}

	var runErr error
	e.window.SetUpdateCallback(func() {
		if _, err := e.Frame(e.now()); err != nil {
			common.Logger().Error("frame failed", "err", err)
			runErr = err
			e.window.RequestClose()
		}
	})
	common.Logger().Info("viewer running", "width", e.window.Width(), "height", e.window.Height())
	e.window.ProcessMessages()

	e.Quit()
	if err := e.window.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		w := e.watcher
		e.watcher = nil
		e.mu.Unlock()
		if w != nil {
			_ = w.Close()
		}
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}
