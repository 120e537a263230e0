package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig sets the start-up configuration. Defaults to config.Default().
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// WithWindow sets the window that provides the surface and input.
//
// Parameters:
//   - w: the window to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithDevice sets the GPU device. An engine given a device and no window runs headless.
//
// Parameters:
//   - d: the device to render with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDevice(d gpu.Device) EngineBuilderOption {
	return func(e *engine) {
		e.device = d
	}
}

// WithRenderer replaces the renderer built from the configuration.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithLoader replaces the loader built over the renderer.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithProfiler enables frame statistics with the given profiler.
//
// Parameters:
//   - p: the profiler ticked after every presented frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithLevelVar lets configuration reloads change the log level.
//
// Parameters:
//   - level: the level variable the installed slog handler reads
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLevelVar(level *slog.LevelVar) EngineBuilderOption {
	return func(e *engine) {
		e.level = level
	}
}

// WithClock replaces the time source used for frames and animation starts.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}
