// Command viewer opens a window and shows one of the procedural scenes with
// a free-flying camera.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-viewer/examples"
)

func main() {
	var (
		configFile string
		sceneName  string
		imageFile  string
		noLights   bool
		noCross    bool
		paused     bool
		writeCfg   string
	)

	flag.StringVar(&configFile, "config", "", "TOML or YAML configuration file, reloaded on change")
	flag.StringVar(&sceneName, "scene", "cube", "scene to show: "+strings.Join(examples.Names, ", "))
	flag.StringVar(&imageFile, "image", "", "image file shown on a cube instead of the scene")
	flag.BoolVar(&noLights, "no-lights", false, "do not add the light rig")
	flag.BoolVar(&noCross, "no-crosshair", false, "do not add the origin crosshair")
	flag.BoolVar(&paused, "paused", false, "leave animations stopped (keys 1-9 toggle them)")
	flag.StringVar(&writeCfg, "write-config", "", "write the default configuration to a file and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Controls: mouse look, W/A/S/D move, Space/Left Shift up/down,\n")
		fmt.Fprintf(os.Stderr, "scroll zoom, 1-9 toggle animations, C release cursor, Esc quit.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if writeCfg != "" {
		if err := config.Default().Save(writeCfg); err != nil {
			fatal(err)
		}
		return
	}

	if err := run(configFile, sceneName, imageFile, !noLights, !noCross, !paused); err != nil {
		fatal(err)
	}
}

func run(configFile, sceneName, imageFile string, lights, crosshair, play bool) error {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	level := &slog.LevelVar{}
	if l, err := cfg.Level(); err == nil {
		level.Set(l)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	scene, err := chooseScene(sceneName, imageFile)
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(engine.WithConfig(cfg), engine.WithLevelVar(level))
	if err != nil {
		return err
	}
	if configFile != "" {
		if err := eng.WatchConfig(configFile); err != nil {
			common.Logger().Warn("config will not reload", "path", configFile, "err", err)
		}
	}

	result, err := eng.LoadScene(scene)
	if err != nil {
		eng.Quit()
		return fmt.Errorf("load %s: %w", scene.Name, err)
	}
	if lights {
		if _, err := examples.AddLightRig(eng.Renderer(), eng.Device()); err != nil {
			return err
		}
	}
	if crosshair {
		if _, err := examples.AddCrosshair(eng.Renderer(), eng.Device()); err != nil {
			return err
		}
	}
	if len(result.Cameras) > 0 {
		eng.Renderer().Enqueue(renderer.EnableCameraRequest{ID: result.Cameras[0].ID()})
	}
	if play {
		start := time.Now()
		for _, g := range eng.Renderer().AnimationGroups() {
			eng.Renderer().Enqueue(renderer.PlayAnimationRequest{ID: g.ID, State: animator.Repeat(start)})
		}
	}

	eng.Window().SetTitle(fmt.Sprintf("%s - %s", cfg.Window.Title, scene.Name))
	return eng.Run()
}

func chooseScene(name, imageFile string) (*asset.SceneAsset, error) {
	if imageFile != "" {
		data, err := os.ReadFile(imageFile)
		if err != nil {
			return nil, err
		}
		id := asset.PathIndex(asset.BundleDigest(data), filepath.Base(imageFile))
		tex, err := asset.DecodeTexture(id, data, asset.SamplerAsset{WrapU: asset.WrapRepeat, WrapV: asset.WrapRepeat})
		if err != nil {
			return nil, err
		}
		return examples.TextureCube(tex), nil
	}
	scene, ok := examples.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown scene %q, want one of %s", name, strings.Join(examples.Names, ", "))
	}
	return scene, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
	os.Exit(1)
}
