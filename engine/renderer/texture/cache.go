package texture

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

type transformKey struct {
	id        asset.Index
	transform asset.TextureTransform
}

// cache is the implementation of the Cache interface.
type cache struct {
	mu          *sync.Mutex
	textures    map[asset.Index]*texture
	transformed map[transformKey]gpu.BindGroup
	empty       *texture
}

// Cache uploads each texture asset once and shares it between every
// material that references it.
type Cache interface {
	// Load returns the texture for an asset, converting and uploading it on
	// the first request. A hit never uploads again.
	//
	// Parameters:
	//   - device: the device to upload to
	//   - tex: the texture asset
	//
	// Returns:
	//   - Texture: the shared texture
	//   - error: an error if conversion or upload failed
	Load(device gpu.Device, tex *asset.TextureAsset) (Texture, error)

	// LoadPixels is Load with pixels already produced by Convert. The pixels
	// are ignored when the asset is already cached.
	//
	// Parameters:
	//   - device: the device to upload to
	//   - tex: the texture asset
	//   - px: the converted pixels of tex
	//
	// Returns:
	//   - Texture: the shared texture
	//   - error: an error if upload failed
	LoadPixels(device gpu.Device, tex *asset.TextureAsset, px Pixels) (Texture, error)

	// Has reports whether an asset is already uploaded.
	Has(id asset.Index) bool

	// Bind returns the slot 2 bind group of a texture under a UV transform.
	// A nil or identity transform returns the texture's own bind group; any
	// other transform gets one bind group per (texture, transform) pair.
	//
	// Parameters:
	//   - device: the device used to create a missing bind group
	//   - t: a texture returned by this cache
	//   - transform: the optional UV transform
	//
	// Returns:
	//   - gpu.BindGroup: the bind group
	//   - error: an error if the bind group could not be created
	Bind(device gpu.Device, t Texture, transform *asset.TextureTransform) (gpu.BindGroup, error)

	// Empty returns the bind group of a 1x1 opaque white texture, created once.
	// Colour skins bind it to satisfy the texture slot of the skinned layout.
	//
	// Parameters:
	//   - device: the device used on first use
	//
	// Returns:
	//   - gpu.BindGroup: the empty texture bind group
	//   - error: an error if creation failed
	Empty(device gpu.Device) (gpu.BindGroup, error)

	// Len returns the number of uploaded textures, excluding the empty texture.
	Len() int
}

var _ Cache = &cache{}

// NewCache creates an empty texture cache.
//
// Returns:
//   - Cache: the texture cache
func NewCache() Cache {
	return &cache{
		mu:          &sync.Mutex{},
		textures:    make(map[asset.Index]*texture),
		transformed: make(map[transformKey]gpu.BindGroup),
	}
}

func (c *cache) Load(device gpu.Device, tex *asset.TextureAsset) (Texture, error) {
	if t, ok := c.lookup(tex.ID); ok {
		return t, nil
	}
	px, err := Convert(tex)
	if err != nil {
		return nil, err
	}
	return c.LoadPixels(device, tex, px)
}

func (c *cache) LoadPixels(device gpu.Device, tex *asset.TextureAsset, px Pixels) (Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.textures[tex.ID]; ok {
		return t, nil
	}
	t, err := upload(device, tex.ID, tex.Width, tex.Height, px, tex.Sampler)
	if err != nil {
		return nil, fmt.Errorf("failed to upload texture %s: %w", tex.ID, err)
	}
	c.textures[tex.ID] = t
	common.Logger().Debug("texture uploaded", "id", tex.ID.String(), "width", tex.Width, "height", tex.Height)
	return t, nil
}

func (c *cache) Has(id asset.Index) bool {
	_, ok := c.lookup(id)
	return ok
}

func (c *cache) lookup(id asset.Index) (*texture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.textures[id]
	return t, ok
}

func (c *cache) Bind(device gpu.Device, t Texture, transform *asset.TextureTransform) (gpu.BindGroup, error) {
	if transform == nil || *transform == asset.IdentityTextureTransform() {
		return t.BindGroup(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := transformKey{id: t.ID(), transform: *transform}
	if group, ok := c.transformed[key]; ok {
		return group, nil
	}
	impl, ok := t.(*texture)
	if !ok {
		return nil, fmt.Errorf("texture %s was not created by this cache", t.ID())
	}
	_, group, err := bind(device, impl, fmt.Sprintf("%s #%d", t.ID(), len(c.transformed)), *transform)
	if err != nil {
		return nil, fmt.Errorf("failed to bind texture %s: %w", t.ID(), err)
	}
	c.transformed[key] = group
	return group, nil
}

func (c *cache) Empty(device gpu.Device) (gpu.BindGroup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.empty != nil {
		return c.empty.bindGroup, nil
	}
	white := &asset.TextureAsset{
		ID:     asset.PathIndex(asset.BundleID{}, "empty"),
		Width:  1,
		Height: 1,
		Format: asset.TextureFormatRgba8,
		Data:   []byte{0xFF, 0xFF, 0xFF, 0xFF},
	}
	px, err := Convert(white)
	if err != nil {
		return nil, err
	}
	t, err := upload(device, white.ID, 1, 1, px, white.Sampler)
	if err != nil {
		return nil, fmt.Errorf("failed to create empty texture: %w", err)
	}
	c.empty = t
	return t.bindGroup, nil
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}
