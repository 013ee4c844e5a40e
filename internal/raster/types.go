// Package raster defines the boundary between the render pipeline and the
// vector-graphics rasterizer it assumes but does not implement.
//
// A real deployment wires these interfaces to a third-party 2D graphics
// library capable of parsing and seeking a Lottie animation. This package
// only describes the shape of that collaborator; see memraster for a
// deterministic stand-in used by tests.
package raster

import (
	"image"
	"time"
)

// Style is a font style modifier, mirroring the four combinations a Lottie
// fonts-list entry can declare.
type Style int

const (
	Normal Style = iota
	Bold
	Italic
	BoldItalic
)

// Typeface is an opaque, resolved font handle returned by a FontManager.
// Implementations never fail to produce one: resolution always falls back
// to some typeface, per the measurer's fallback chain.
type Typeface interface {
	// Family reports the resolved family name, which may differ from the
	// name requested if resolution fell back.
	Family() string
}

// FontManager resolves (family, style, name) triples to a Typeface and
// measures text under a resolved typeface and size. Implementations must
// be safe for concurrent use by multiple workers.
type FontManager interface {
	// Resolve walks the fallback chain described in the text measurer's
	// contract: (family, style) -> (name, Normal) -> legacy-construct name
	// -> legacy default. It never returns an error.
	Resolve(family, name string, style Style) Typeface

	// Advance returns the rendered width of text in device units, using
	// only bounding-box metrics (the FAST measurement mode).
	Advance(tf Typeface, size float64, text string) float64

	// ShapedAdvance returns the rendered width of a shaped run, accounting
	// for kerning (the ACCURATE measurement mode).
	ShapedAdvance(tf Typeface, size float64, text string) float64

	// Render draws text in a single line onto a padded off-screen RGBA
	// image for the PIXEL_PERFECT measurement mode. pad is added on every
	// side so anti-aliased edges are never clipped.
	Render(tf Typeface, size float64, text string, pad int) image.Image
}

// Surface is a raster target the rasterizer renders an animation frame
// into. PixelFormat reports the native layout; Snapshot copies pixels out
// as a standard library image for encoding or further processing.
type Surface interface {
	Bounds() image.Rectangle
	PixelFormat() PixelFormat
	Clear()
	Snapshot() image.Image
}

// PixelFormat enumerates the pixel layouts a Surface may hold. Only RGBA
// (unpremultiplied, 8 bits per channel) is consumable directly by the PNG
// and WebP encoders; any other format must be redrawn into an RGBA
// conversion surface first.
type PixelFormat int

const (
	RGBAUnpremultiplied PixelFormat = iota
	RGBAPremultiplied
	BGRAUnpremultiplied
)

// Animation is one independent, seekable instance of a parsed Lottie
// document. Workers never share an Animation: the Animation Factory
// builds one clone per worker.
type Animation interface {
	// Duration is the total playable duration of the animation.
	Duration() time.Duration
	// Width and Height report the animation's native canvas size.
	Width() int
	Height() int
	// Seek moves the animation's internal clock to t and renders into dst.
	Seek(t time.Duration, dst Surface) error

	// NewSurface allocates a Surface sized to the animation's native
	// canvas in the given pixel format. Each worker allocates its render
	// surface once (plus, only when needed, one RGBA conversion surface)
	// and reuses it, clearing between frames, rather than allocating a
	// fresh one per frame.
	NewSurface(format PixelFormat) Surface
}

// ResourceProvider resolves image assets referenced by an animation
// document relative to the document's directory, and supplies a
// FontManager for in-process-registered fonts when the document carries
// any.
type ResourceProvider interface {
	FontManager() FontManager
}

// Codec encodes a snapshot image into an encoded byte form. PNG and WebP
// each have a Codec implementation; a Worker may run both over one
// snapshot in a single pass.
type Codec interface {
	// Name is the short identifier used for filenames ("png", "webp").
	Name() string
	Encode(dst []byte, img image.Image) ([]byte, error)
}
