package gpu

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// DeviceBuilderOption configures the wgpu device during construction.
type DeviceBuilderOption func(*wgpuDeviceImpl)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: VSync or Uncapped
//
// Returns:
//   - DeviceBuilderOption: a function that applies the present mode
func WithPresentMode(mode PresentMode) DeviceBuilderOption {
	return func(d *wgpuDeviceImpl) {
		d.presentMode = toWGPUPresentMode(mode)
	}
}

// WithSampleCount sets the MSAA sample count of the main pass.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - DeviceBuilderOption: a function that applies the sample count
func WithSampleCount(count MSAASampleCount) DeviceBuilderOption {
	return func(d *wgpuDeviceImpl) {
		d.sampleCount = count
	}
}

// WithForceFallbackAdapter requests the software adapter.
//
// Parameters:
//   - force: true to use the fallback adapter
//
// Returns:
//   - DeviceBuilderOption: a function that applies the adapter preference
func WithForceFallbackAdapter(force bool) DeviceBuilderOption {
	return func(d *wgpuDeviceImpl) {
		d.forceFallbackAdapter = force
	}
}
