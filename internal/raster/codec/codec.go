// Package codec provides the two raster.Codec implementations every
// worker encodes frames with: PNG (always available, used for stream
// mode) and lossless WebP (file mode only).
package codec

import (
	"bytes"
	"image"
	"image/png"

	"github.com/chai2010/webp"
)

// PNG encodes frames with the fastest compression level; frame-rendering
// throughput matters far more than output size for a per-frame dump.
type PNG struct{}

func (PNG) Name() string { return "png" }

func (PNG) Encode(dst []byte, img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WebP encodes frames losslessly at maximum quality, matching the
// rasterizer's own pixel values exactly so autofit comparisons between
// PNG and WebP outputs of the same run never diverge.
type WebP struct{}

func (WebP) Name() string { return "webp" }

func (WebP) Encode(dst []byte, img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	if err := webp.Encode(buf, img, &webp.Options{Lossless: true, Quality: 100}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
