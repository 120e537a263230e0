package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when texture bytes are not a recognised image container.
var ErrNotImage = errors.New("data is not a supported image")

// DecodeTexture decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP)
// into a TextureAsset. 8-bit grayscale images stay single channel, 16-bit
// images become Rgba16, everything else becomes Rgba8 with straight alpha.
//
// Parameters:
//   - id: the content identity of the texture
//   - data: the encoded image bytes
//   - sampler: the sampling parameters to attach
//
// Returns:
//   - *TextureAsset: the decoded texture
//   - error: ErrNotImage when the container is unknown, or the decoder error
func DecodeTexture(id Index, data []byte, sampler SamplerAsset) (*TextureAsset, error) {
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("texture %s: %w", id, ErrNotImage)
	}
	kind, _ := filetype.Match(data)

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s texture %s: %w", kind.Extension, id, err)
	}

	bounds := img.Bounds()
	tex := &TextureAsset{
		ID:      id,
		Width:   uint32(bounds.Dx()),
		Height:  uint32(bounds.Dy()),
		Sampler: sampler,
	}

	switch src := img.(type) {
	case *image.Gray:
		tex.Format = TextureFormatR8
		tex.Data = make([]byte, 0, bounds.Dx()*bounds.Dy())
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[(y-bounds.Min.Y)*src.Stride:]
			tex.Data = append(tex.Data, row[:bounds.Dx()]...)
		}
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		wide := image.NewNRGBA64(bounds)
		draw.Draw(wide, bounds, img, bounds.Min, draw.Src)
		tex.Format = TextureFormatRgba16
		tex.Data = make([]byte, len(wide.Pix))
		// image stores 16-bit channels big-endian; the GPU wants little-endian.
		for i := 0; i+1 < len(wide.Pix); i += 2 {
			binary.LittleEndian.PutUint16(tex.Data[i:], binary.BigEndian.Uint16(wide.Pix[i:]))
		}
	default:
		rgba := image.NewNRGBA(bounds)
		draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
		tex.Format = TextureFormatRgba8
		tex.Data = rgba.Pix
	}
	return tex, nil
}
