package texture

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-viewer/engine/asset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// ErrPixelData is returned when a texture's data does not match its size and format.
var ErrPixelData = errors.New("texture data does not match its size and format")

// Pixels is texture data in the layout the device is given.
type Pixels struct {
	Format      wgpu.TextureFormat
	Data        []byte
	BytesPerRow uint32
}

// Convert produces upload-ready pixels from a texture asset. Three channel
// sources gain an opaque alpha channel and 16-bit sources keep their high byte.
//
// Parameters:
//   - tex: the texture asset
//
// Returns:
//   - Pixels: the converted pixels
//   - error: ErrPixelData if the data length is wrong
func Convert(tex *asset.TextureAsset) (Pixels, error) {
	channels := tex.Format.Channels()
	width := int(tex.Width)
	count := width * int(tex.Height)
	want := count * channels * tex.Format.BytesPerChannel()
	if len(tex.Data) != want || count == 0 {
		return Pixels{}, fmt.Errorf("texture %s: %w: have %d bytes, want %d", tex.ID, ErrPixelData, len(tex.Data), want)
	}

	src := tex.Data
	if tex.Format.BytesPerChannel() == 2 {
		src = narrow(src)
	}

	switch channels {
	case 1:
		return Pixels{Format: wgpu.TextureFormatR8Unorm, Data: src, BytesPerRow: uint32(width)}, nil
	case 2:
		return Pixels{Format: wgpu.TextureFormatRG8Unorm, Data: src, BytesPerRow: uint32(width * 2)}, nil
	case 3:
		src = expandRGB(src, count)
	}
	return Pixels{Format: wgpu.TextureFormatRGBA8UnormSrgb, Data: src, BytesPerRow: uint32(width * 4)}, nil
}

// narrow keeps the high byte of little-endian 16-bit channels.
func narrow(data []byte) []byte {
	out := make([]byte, len(data)/2)
	for i := range out {
		out[i] = data[i*2+1]
	}
	return out
}

func expandRGB(data []byte, count int) []byte {
	out := make([]byte, count*4)
	for i := range count {
		copy(out[i*4:i*4+3], data[i*3:i*3+3])
		out[i*4+3] = 0xFF
	}
	return out
}

// SamplerDescriptor maps an asset sampler onto the device sampler descriptor.
//
// Parameters:
//   - label: debug label
//   - s: the asset sampler
//
// Returns:
//   - gpu.SamplerDescriptor: the device descriptor
func SamplerDescriptor(label string, s asset.SamplerAsset) gpu.SamplerDescriptor {
	return gpu.SamplerDescriptor{
		Label:        label,
		AddressModeU: addressMode(s.WrapU),
		AddressModeV: addressMode(s.WrapV),
		MagFilter:    filterMode(s.MagFilter),
		MinFilter:    filterMode(s.MinFilter),
		MipmapFilter: mipmapFilterMode(s.MipmapFilter),
	}
}

func addressMode(w asset.WrapMode) wgpu.AddressMode {
	switch w {
	case asset.WrapRepeat:
		return wgpu.AddressModeRepeat
	case asset.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	}
	return wgpu.AddressModeClampToEdge
}

func filterMode(f asset.FilterMode) wgpu.FilterMode {
	if f == asset.FilterNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

func mipmapFilterMode(f asset.FilterMode) wgpu.MipmapFilterMode {
	if f == asset.FilterNearest {
		return wgpu.MipmapFilterModeNearest
	}
	return wgpu.MipmapFilterModeLinear
}
