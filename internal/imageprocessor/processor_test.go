package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestAvatar_CropsToSquare(t *testing.T) {
	p := NewProcessor(80, 200)

	out, err := p.Avatar(encodePNG(t, 640, 320))
	require.NoError(t, err)

	w, h, err := Dimensions(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, w)
	assert.Equal(t, 200, h)

	_, format, err := image.DecodeConfig(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestAvatar_RejectsGarbage(t *testing.T) {
	p := NewProcessor(0, 0)
	_, err := p.Avatar(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
}

func TestCenterSquare(t *testing.T) {
	assert.Equal(t, image.Rect(10, 0, 30, 20), centerSquare(image.Rect(0, 0, 40, 20)))
	assert.Equal(t, image.Rect(0, 5, 10, 15), centerSquare(image.Rect(0, 0, 10, 20)))
	assert.Equal(t, image.Rect(0, 0, 7, 7), centerSquare(image.Rect(0, 0, 7, 7)))
}
