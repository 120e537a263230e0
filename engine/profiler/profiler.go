package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS        float64
	FrameTime  time.Duration
	HeapMB     float64
	AllocRate  float64 // MB/s
	SysMB      float64
	GCCount    uint32
	LastPause  time.Duration
	MaxPause   time.Duration
	WindowSize time.Duration
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Logs a summary at Info level once per interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are reported.
//
// Parameters:
//   - interval: reporting interval, values <= 0 keep the one second default
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler. The interval defaults to one second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per rendered frame.
// When the interval has elapsed it logs FPS, heap usage, allocation rate
// and GC pauses, then starts a new window.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:        float64(p.frameCount) / elapsed.Seconds(),
		FrameTime:  elapsed / time.Duration(p.frameCount),
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:      float64(p.memStats.Sys) / 1024 / 1024,
		AllocRate:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:    p.memStats.NumGC,
		WindowSize: elapsed,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		s.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	common.Logger().Info("frame stats",
		"fps", s.FPS,
		"frame_time", s.FrameTime,
		"heap_mb", s.HeapMB,
		"alloc_mb_s", s.AllocRate,
		"gc", s.GCCount,
		"gc_last", s.LastPause,
		"gc_max", s.MaxPause,
		"sys_mb", s.SysMB,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}

// Last returns the most recently reported window.
//
// Returns:
//   - Stats: the statistics logged by the last reporting Tick
func (p *Profiler) Last() Stats {
	return p.last
}
