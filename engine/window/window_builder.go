package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested initial size. The framebuffer size reported
// afterwards may differ on high-DPI displays.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the smallest size the window can be resized to.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithGrabOnFocus controls whether focus changes capture and release the cursor.
//
// Parameters:
//   - grab: false to leave the cursor alone until SetGrab is called
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithGrabOnFocus(grab bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.grabOnFocus = grab
	}
}
