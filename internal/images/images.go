// Package images resizes cover images before they are persisted.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	xdraw "golang.org/x/image/draw"

	_ "image/gif" // Register GIF decoder
	_ "image/png" // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMaxDimension = 800
	DefaultJPEGQuality  = 85
)

// Processor decodes an image, scales it down so neither dimension exceeds
// the configured maximum (preserving aspect ratio, never upscaling) and
// re-encodes it as JPEG.
type Processor struct {
	maxDimension int
	quality      int
}

// NewProcessor creates a processor. Zero values select the defaults.
func NewProcessor(maxDimension, quality int) *Processor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	return &Processor{maxDimension: maxDimension, quality: quality}
}

// Resize reads an image and returns it as a bounded JPEG.
func (p *Processor) Resize(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > p.maxDimension || height > p.maxDimension {
		ratio := float64(width) / float64(height)
		if width > height {
			width = p.maxDimension
			height = int(float64(p.maxDimension) / ratio)
		} else {
			height = p.maxDimension
			width = int(float64(p.maxDimension) * ratio)
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
