package asset

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeTextureRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 128})

	id := PathIndex(BundleDigest([]byte("bundle")), "tex.png")
	tex, err := DecodeTexture(id, encodePNG(t, img), SamplerAsset{WrapU: WrapRepeat})
	require.NoError(t, err)

	assert.Equal(t, id, tex.ID)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Equal(t, TextureFormatRgba8, tex.Format)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 128}, tex.Data)
	assert.Equal(t, WrapRepeat, tex.Sampler.WrapU)
}

func TestDecodeTextureGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(1, 0, color.Gray{Y: 200})

	tex, err := DecodeTexture(Index{}, encodePNG(t, img), SamplerAsset{})
	require.NoError(t, err)
	assert.Equal(t, TextureFormatR8, tex.Format)
	assert.Equal(t, []byte{0, 200, 0}, tex.Data)
}

func TestDecodeTexture16Bit(t *testing.T) {
	img := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	img.SetNRGBA64(0, 0, color.NRGBA64{R: 0x1234, A: 0xFFFF})

	tex, err := DecodeTexture(Index{}, encodePNG(t, img), SamplerAsset{})
	require.NoError(t, err)
	require.Equal(t, TextureFormatRgba16, tex.Format)
	assert.Equal(t, uint16(0x1234), binary.LittleEndian.Uint16(tex.Data[0:]))
	assert.Equal(t, uint16(0xFFFF), binary.LittleEndian.Uint16(tex.Data[6:]))
}

func TestDecodeTextureRejectsNonImage(t *testing.T) {
	_, err := DecodeTexture(Index{}, []byte("definitely not an image"), SamplerAsset{})
	assert.ErrorIs(t, err, ErrNotImage)
}
