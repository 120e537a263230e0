package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindow_Options(t *testing.T) {
	w := newEngineWindow(WithTitle("model"), WithSize(640, 480), WithMinSize(10, 20), WithGrabOnFocus(false))
	assert.Equal(t, "model", w.title)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
	assert.Equal(t, 10, w.minWidth)
	assert.Equal(t, 20, w.minHeight)
	assert.False(t, w.grabOnFocus)
	assert.False(t, w.IsRunning())
}

func TestCursorTracker_Deltas(t *testing.T) {
	var c cursorTracker

	_, _, ok := c.move(10, 10)
	assert.False(t, ok, "released cursor reports nothing")

	c.grabbed = true
	_, _, ok = c.move(100, 100)
	assert.False(t, ok, "first grabbed sample primes")

	dx, dy, ok := c.move(103, 96)
	assert.True(t, ok)
	assert.Equal(t, float32(3), dx)
	assert.Equal(t, float32(-4), dy)

	_, _, ok = c.move(103, 96)
	assert.False(t, ok, "no motion")

	c.reset()
	_, _, ok = c.move(500, 500)
	assert.False(t, ok, "reset re-primes")
	dx, _, ok = c.move(501, 500)
	assert.True(t, ok)
	assert.Equal(t, float32(1), dx)
}

func TestEngineWindow_Handlers(t *testing.T) {
	w := newEngineWindow(WithGrabOnFocus(true))

	var sizes [][2]int
	w.SetResizeCallback(func(width, height int) { sizes = append(sizes, [2]int{width, height}) })
	w.handleResize(0, 300)
	w.handleResize(800, 600)
	assert.Equal(t, [][2]int{{800, 600}}, sizes)
	assert.Equal(t, 800, w.Width())

	var keys []uint32
	w.SetKeyCallback(func(k uint32, pressed bool) {
		if pressed {
			keys = append(keys, k)
		}
	})
	w.handleKey(87, true)
	w.handleKey(87, false)
	assert.Equal(t, []uint32{87}, keys)

	var looks [][2]float32
	w.SetLookCallback(func(dx, dy float32) { looks = append(looks, [2]float32{dx, dy}) })
	w.handleCursor(5, 5)
	w.handleFocus(true)
	assert.True(t, w.Grabbed())
	w.handleCursor(5, 5)
	w.handleCursor(7, 4)
	w.handleFocus(false)
	w.handleCursor(50, 50)
	assert.Equal(t, [][2]float32{{2, -1}}, looks)
	assert.False(t, w.Grabbed())
}
