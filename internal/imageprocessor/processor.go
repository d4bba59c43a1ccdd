package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Processor turns uploaded avatars into square JPEGs.
type Processor struct {
	quality   int // JPEG quality (1-100)
	dimension int
}

func NewProcessor(quality, dimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if dimension <= 0 {
		dimension = 200
	}
	return &Processor{quality: quality, dimension: dimension}
}

// Avatar decodes jpeg, png or webp, crops the centre square and scales it to
// dimension x dimension. The result is always JPEG.
func (p *Processor) Avatar(r io.Reader) (*bytes.Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.dimension, p.dimension))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, centerSquare(img.Bounds()), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return &buf, nil
}

// centerSquare is the largest square centred in b.
func centerSquare(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w == h {
		return b
	}
	if w > h {
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	}
	off := (h - w) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
}

// Dimensions returns the size of an encoded image without decoding pixels.
func Dimensions(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
