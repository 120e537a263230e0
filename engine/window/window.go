package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and viewer input.
// Wraps the platform window with a common interface so the engine never touches GLFW directly.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	// Zero sizes (minimised windows) are not reported.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta (positive = up)
	SetScrollCallback(callback func(delta float32))

	// SetKeyCallback sets the callback for key press and release events.
	// Key repeats are not reported.
	//
	// Parameters:
	//   - callback: function receiving the key code and whether it went down
	SetKeyCallback(callback func(keyCode uint32, pressed bool))

	// SetLookCallback sets the callback for mouse motion while the cursor is grabbed.
	//
	// Parameters:
	//   - callback: function receiving the cursor delta in pixels since the last motion
	SetLookCallback(callback func(dx, dy float32))

	// SetGrab captures or releases the cursor. A grabbed cursor is hidden and
	// reports look deltas; the window grabs on focus and releases on blur.
	//
	// Parameters:
	//   - grab: true to capture the cursor
	SetGrab(grab bool)

	// Grabbed reports whether the cursor is captured.
	//
	// Returns:
	//   - bool: true while look deltas are reported
	Grabbed() bool

	// SetTitle replaces the title bar text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound the framebuffer during resize.
	minWidth  int
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// grabOnFocus captures the cursor whenever the window gains focus.
	grabOnFocus bool

	// cursor turns absolute cursor positions into look deltas.
	cursor cursorTracker

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate func()
	onResize func(width, height int)
	onScroll func(delta float32)
	onKey    func(keyCode uint32, pressed bool)
	onLook   func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:       "oxy viewer",
		minWidth:    320,
		minHeight:   200,
		width:       1280,
		height:      720,
		grabOnFocus: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyCallback(callback func(keyCode uint32, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetLookCallback(callback func(dx, dy float32)) {
	w.onLook = callback
}

func (w *engineWindow) SetGrab(grab bool) {
	w.cursor.reset()
	w.cursor.grabbed = grab
	platformSetGrab(w, grab)
}

func (w *engineWindow) Grabbed() bool {
	return w.cursor.grabbed
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleResize records a framebuffer size and forwards it unless it is empty.
func (w *engineWindow) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) handleKey(keyCode uint32, pressed bool) {
	if w.onKey != nil {
		w.onKey(keyCode, pressed)
	}
}

func (w *engineWindow) handleCursor(x, y float64) {
	dx, dy, ok := w.cursor.move(x, y)
	if ok && w.onLook != nil {
		w.onLook(dx, dy)
	}
}

func (w *engineWindow) handleFocus(focused bool) {
	if w.grabOnFocus {
		w.SetGrab(focused)
	}
}

// cursorTracker converts absolute cursor positions into deltas. The first
// sample after a grab only primes the tracker so re-grabbing never jumps the view.
type cursorTracker struct {
	grabbed bool
	primed  bool
	x, y    float64
}

func (c *cursorTracker) reset() {
	c.primed = false
}

func (c *cursorTracker) move(x, y float64) (float32, float32, bool) {
	if !c.grabbed {
		return 0, 0, false
	}
	if !c.primed {
		c.x, c.y, c.primed = x, y, true
		return 0, 0, false
	}
	dx, dy := x-c.x, y-c.y
	c.x, c.y = x, y
	if dx == 0 && dy == 0 {
		return 0, 0, false
	}
	return float32(dx), float32(dy), true
}
