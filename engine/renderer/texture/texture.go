package texture

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uniform"
)

// texture is the implementation of the Texture interface.
type texture struct {
	id        asset.Index
	format    wgpu.TextureFormat
	handle    gpu.Texture
	sampler   gpu.Sampler
	transform *uniform.TextureTransformUniform
	bindGroup gpu.BindGroup
}

// Texture is an uploaded texture with its sampler and a bind group using the
// identity texture transform.
type Texture interface {
	// ID returns the asset identity the texture was loaded from.
	//
	// Returns:
	//   - asset.Index: the texture asset id
	ID() asset.Index

	// Format returns the device pixel format.
	Format() wgpu.TextureFormat

	// Handle returns the device texture.
	Handle() gpu.Texture

	// Sampler returns the device sampler.
	Sampler() gpu.Sampler

	// BindGroup returns the slot 2 bind group with an identity transform.
	//
	// Returns:
	//   - gpu.BindGroup: the texture bind group
	BindGroup() gpu.BindGroup
}

var _ Texture = &texture{}

func (t *texture) ID() asset.Index {
	return t.id
}

func (t *texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *texture) Handle() gpu.Texture {
	return t.handle
}

func (t *texture) Sampler() gpu.Sampler {
	return t.sampler
}

func (t *texture) BindGroup() gpu.BindGroup {
	return t.bindGroup
}

// upload creates the device texture, its sampler and the identity bind group.
func upload(device gpu.Device, id asset.Index, width, height uint32, px Pixels, sampler asset.SamplerAsset) (*texture, error) {
	label := id.String()
	handle, err := device.CreateTexture(gpu.TextureDescriptor{
		Label:  label,
		Width:  width,
		Height: height,
		Format: px.Format,
	})
	if err != nil {
		return nil, err
	}
	device.WriteTexture(handle, px.Data, px.BytesPerRow)

	s, err := device.CreateSampler(SamplerDescriptor(label+" Sampler", sampler))
	if err != nil {
		return nil, err
	}

	t := &texture{id: id, format: px.Format, handle: handle, sampler: s}
	t.transform, t.bindGroup, err = bind(device, t, label, asset.IdentityTextureTransform())
	if err != nil {
		return nil, err
	}
	return t, nil
}

func bind(device gpu.Device, t *texture, label string, tr asset.TextureTransform) (*uniform.TextureTransformUniform, gpu.BindGroup, error) {
	u, err := uniform.NewTextureTransformUniform(device, label+" Transform",
		uniform.TextureTransformMatrix(tr.Offset, tr.Rotation, tr.Scale))
	if err != nil {
		return nil, nil, err
	}
	group, err := device.CreateBindGroup(label+" Bind Group", gpu.LayoutTexture, []gpu.BindGroupEntry{
		{Binding: 0, Texture: t.handle},
		{Binding: 1, Sampler: t.sampler},
		{Binding: 2, Buffer: u.Buffer()},
	})
	if err != nil {
		return nil, nil, err
	}
	return u, group, nil
}
