package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, gpu.PresentModeVSync, cfg.PresentMode())
	assert.Equal(t, gpu.MSAA4x, cfg.SampleCount())
	assert.Equal(t, 0.8, cfg.ClearColor().R)
	assert.Equal(t, 1.0, cfg.ClearColor().A)
	assert.Equal(t, light.DefaultGlobalParam(), cfg.Light)
}

func TestParse_TOMLOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level = "debug"
workers = 2

[window]
width = 640
vsync = false
msaa = 1

[light]
ambient_strength = 0.25
`), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, gpu.PresentModeUncapped, cfg.PresentMode())
	assert.Equal(t, gpu.MSAAOff, cfg.SampleCount())
	assert.Equal(t, float32(0.25), cfg.Light.AmbientStrength)
	assert.Equal(t, light.DefaultGlobalParam().MaxStrength, cfg.Light.MaxStrength)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Equal(t, 2, cfg.Workers)
}

func TestParse_YAML(t *testing.T) {
	cfg, err := Parse([]byte(`
background:
  r: 0
  g: 0.5
  b: 1
camera:
  speed: 0.05
profile: true
`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0, G: 0.5, B: 1}, cfg.Background)
	assert.Equal(t, float32(0.05), cfg.Camera.Speed)
	assert.True(t, cfg.Profile)

	cfg, err = Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]struct {
		data   string
		format Format
	}{
		"unknown toml key":   {"colour = 1", FormatTOML},
		"unknown yaml key":   {"colour: 1", FormatYAML},
		"bad msaa":           {"[window]\nmsaa = 8", FormatTOML},
		"zero width":         {"window:\n  width: 0", FormatYAML},
		"background range":   {"[background]\nr = 2.0", FormatTOML},
		"bad log level":      {"log_level = \"loud\"", FormatTOML},
		"no workers":         {"workers = 0", FormatTOML},
		"negative cam speed": {"camera:\n  speed: -1", FormatYAML},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(c.data), c.format)
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("[window]\nmsaa = 8"), FormatTOML)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("viewer.TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)
	f, err = FormatOf("viewer.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = FormatOf("viewer.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Window.Title = "round trip"
	cfg.Light.AmbientStrength = 0.5

	for _, name := range []string{"viewer.toml", "viewer.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.Save(path))
		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, got, name)
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = 1"), 0o644))

	reloaded := make(chan Config, 4)
	w, err := Watch(path, func(c Config) { reloaded <- c })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("workers = 9"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("workers = 3"), 0o644))

	// a truncating write can be observed half done, so wait for the final content
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			assert.NotEqual(t, 9, cfg.Workers)
			if cfg.Workers == 3 {
				return
			}
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
}

func TestWatch_KeepsRunningAfterInvalidEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 1\n"), 0o644))

	reloaded := make(chan Config, 4)
	w, err := Watch(path, func(c Config) { reloaded <- c })
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("workers: 6\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Workers == 6 {
				require.NoError(t, w.Close())
				require.NoError(t, w.Close())
				return
			}
		case <-deadline:
			t.Fatal("valid edit after an invalid one was not reloaded")
		}
	}
}

func TestWatch_RejectsUnknownFormat(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "viewer.ini"), func(Config) {})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
