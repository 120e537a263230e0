package loader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/texture"
)

// sceneTextures returns the diffuse textures of a scene that are not cached
// yet, each once, in first-use order.
func (l *loader) sceneTextures(scene *asset.SceneAsset) []*asset.TextureAsset {
	seen := make(map[asset.Index]struct{})
	var out []*asset.TextureAsset
	for _, root := range scene.Nodes {
		root.Walk(func(n *asset.NodeAsset) {
			if n.Mesh == nil {
				return
			}
			for _, p := range n.Mesh.Primitives {
				_, info := diffuse(p.Material)
				if info == nil || info.Texture == nil {
					continue
				}
				id := info.Texture.ID
				if _, ok := seen[id]; ok || l.textures.Has(id) {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, info.Texture)
			}
		})
	}
	return out
}

// preloadTextures converts every new texture of the scene on the worker pool
// and uploads the results on the calling goroutine.
func (l *loader) preloadTextures(device gpu.Device, scene *asset.SceneAsset) error {
	textures := l.sceneTextures(scene)
	if len(textures) == 0 {
		return nil
	}

	pixels := make([]texture.Pixels, len(textures))
	errs := make([]error, len(textures))

	var wg sync.WaitGroup
	for i, tex := range textures {
		wg.Add(1)
		l.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				pixels[i], errs[i] = texture.Convert(tex)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("convert textures: %w", err)
	}
	for i, tex := range textures {
		if _, err := l.textures.LoadPixels(device, tex, pixels[i]); err != nil {
			return fmt.Errorf("upload texture %s: %w", tex.ID, err)
		}
	}
	return nil
}
