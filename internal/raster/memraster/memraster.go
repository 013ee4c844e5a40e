// Package memraster is a deterministic, in-memory stand-in for the
// external vector-graphics rasterizer: it implements raster.Animation
// and raster.Surface without parsing any real Lottie document, so tests
// can exercise dispatch, worker, and writer behavior without a real
// rendering backend.
package memraster

import (
	"image"
	"image/color"
	"time"

	"render/internal/raster"
)

// Animation renders a single flat color per frame, derived
// deterministically from the seek time, so two renders of the same
// frame index always produce byte-identical pixels.
type Animation struct {
	duration      time.Duration
	width, height int
}

// New returns an Animation of the given duration and canvas size.
func New(duration time.Duration, width, height int) *Animation {
	return &Animation{duration: duration, width: width, height: height}
}

// Opener returns a factory.Opener-compatible function that ignores the
// document bytes and resource provider and always returns a fresh
// Animation of the given duration and canvas size. It is the stand-in
// wired in by cmd/render until a real vector-graphics rasterizer is
// plugged into the same seam.
func Opener(duration time.Duration, width, height int) func(doc []byte, resources raster.ResourceProvider) (raster.Animation, error) {
	return func(doc []byte, resources raster.ResourceProvider) (raster.Animation, error) {
		return New(duration, width, height), nil
	}
}

func (a *Animation) Duration() time.Duration { return a.duration }
func (a *Animation) Width() int              { return a.width }
func (a *Animation) Height() int             { return a.height }

// Seek fills dst with a color derived from t's millisecond value modulo
// 256, so every frame time maps to a reproducible color (times a
// multiple of 256ms apart share one).
func (a *Animation) Seek(t time.Duration, dst raster.Surface) error {
	s, ok := dst.(*Surface)
	if !ok {
		return errNotMemSurface
	}
	ms := uint8(t.Milliseconds() % 256)
	c := color.RGBA{R: ms, G: 255 - ms, B: ms / 2, A: 255}
	draw := s.img.Bounds()
	for y := draw.Min.Y; y < draw.Max.Y; y++ {
		for x := draw.Min.X; x < draw.Max.X; x++ {
			s.img.SetRGBA(x, y, c)
		}
	}
	return nil
}

// NewSurface allocates a Surface sized to the animation's canvas.
func (a *Animation) NewSurface(format raster.PixelFormat) raster.Surface {
	return &Surface{format: format, img: image.NewRGBA(image.Rect(0, 0, a.width, a.height))}
}

var errNotMemSurface = surfaceTypeError{}

type surfaceTypeError struct{}

func (surfaceTypeError) Error() string { return "memraster: dst is not a *memraster.Surface" }

// Surface is a plain RGBA backing buffer.
type Surface struct {
	format raster.PixelFormat
	img    *image.RGBA
}

func (s *Surface) Bounds() image.Rectangle         { return s.img.Bounds() }
func (s *Surface) PixelFormat() raster.PixelFormat { return s.format }

func (s *Surface) Clear() {
	*s.img = *image.NewRGBA(s.img.Bounds())
}

func (s *Surface) Snapshot() image.Image {
	cp := image.NewRGBA(s.img.Bounds())
	copy(cp.Pix, s.img.Pix)
	return cp
}

// typeface is a deterministic stand-in: every typeface measures text as
// a fixed fraction of size per rune, with no real glyph metrics.
type typeface struct{ family string }

func (t typeface) Family() string { return t.family }

// FontManager measures text as a fixed width-per-rune multiple of size,
// so autofit binary search against it is exactly reproducible without
// loading any real font.
type FontManager struct{}

const widthPerRune = 0.55

func (FontManager) Resolve(family, name string, style raster.Style) raster.Typeface {
	if family == "" {
		family = name
	}
	return typeface{family: family}
}

func (FontManager) Advance(tf raster.Typeface, size float64, text string) float64 {
	return float64(len([]rune(text))) * size * widthPerRune
}

func (m FontManager) ShapedAdvance(tf raster.Typeface, size float64, text string) float64 {
	return m.Advance(tf, size, text)
}

func (FontManager) Render(tf raster.Typeface, size float64, text string, pad int) image.Image {
	w := int(float64(len([]rune(text)))*size*widthPerRune) + 2*pad
	h := int(size) + 2*pad
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := pad; y < h-pad; y++ {
		for x := pad; x < w-pad; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	return img
}

// Codec "encodes" a snapshot as a deterministic byte summary (bounds
// plus a checksum of its pixels), cheap enough for tests that only need
// to assert two renders of the same frame produce identical output.
type Codec struct{ NameValue string }

func (c Codec) Name() string { return c.NameValue }

func (c Codec) Encode(dst []byte, img image.Image) ([]byte, error) {
	b := img.Bounds()
	out := dst[:0]
	out = append(out, []byte(c.NameValue)...)
	var sum uint64
	if rgba, ok := img.(*image.RGBA); ok {
		for _, p := range rgba.Pix {
			sum = sum*31 + uint64(p)
		}
	}
	out = append(out, byte(b.Dx()), byte(b.Dy()))
	for i := 0; i < 8; i++ {
		out = append(out, byte(sum>>(8*i)))
	}
	return out, nil
}
