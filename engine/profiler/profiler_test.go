package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

func TestProfiler_ReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	now := time.Unix(100, 0)
	p := NewProfiler(WithInterval(time.Second), WithClock(func() time.Time { return now }))

	for range 59 {
		now = now.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	now = now.Add(410 * time.Millisecond)
	assert.True(t, p.Tick())

	s := p.Last()
	assert.InDelta(t, 60, s.FPS, 1e-9)
	assert.Equal(t, time.Second, s.WindowSize)
	assert.Equal(t, time.Second/60, s.FrameTime)
	assert.Contains(t, buf.String(), "frame stats")
	assert.Contains(t, buf.String(), "fps=60")

	now = now.Add(500 * time.Millisecond)
	assert.False(t, p.Tick(), "window restarted")
}

func TestWithInterval_IgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
