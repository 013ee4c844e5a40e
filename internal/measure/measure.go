// Package measure implements the Text Measurer (C4): given a resolved
// typeface, a size, and text, report a rendered width in device units
// under one of three measurement modes.
package measure

import (
	"image"
	"strings"

	"render/internal/model"
	"render/internal/raster"
)

// pixelPerfectPad is the off-screen padding, in pixels, added on every
// side before scanning for non-transparent pixels.
const pixelPerfectPad = 20

// Measurer measures text width against a FontManager, splitting on line
// breaks and returning the widest line.
type Measurer struct {
	Fonts raster.FontManager
}

// New returns a Measurer backed by fonts.
func New(fonts raster.FontManager) Measurer {
	return Measurer{Fonts: fonts}
}

// Width measures fi.Text under fi's resolved typeface and size, in mode.
func (m Measurer) Width(fi model.FontInfo, mode model.MeasurementMode) float64 {
	tf := m.Fonts.Resolve(fi.Family, fi.Name, toRasterStyle(fi.Style))
	return m.WidthOf(tf, fi.Size, fi.Text, mode)
}

// WidthOf measures text directly against an already-resolved typeface,
// for callers (the sizer) that re-measure the same layer at many
// candidate sizes without re-resolving the typeface each time.
func (m Measurer) WidthOf(tf raster.Typeface, size float64, text string, mode model.MeasurementMode) float64 {
	if text == "" {
		return 0
	}
	var maxWidth float64
	for _, line := range splitLines(text) {
		w := m.lineWidth(tf, size, line, mode)
		if w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func (m Measurer) lineWidth(tf raster.Typeface, size float64, line string, mode model.MeasurementMode) float64 {
	switch mode {
	case model.Fast:
		return m.Fonts.Advance(tf, size, line)
	case model.PixelPerfect:
		return m.pixelPerfectWidth(tf, size, line)
	default:
		return m.Fonts.ShapedAdvance(tf, size, line)
	}
}

// pixelPerfectWidth renders line to a padded off-screen image and scans
// rows for the leftmost and rightmost non-transparent pixel. The 1px
// safety margin ("+2") is kept even though it looks redundant with the
// padding, because downstream callers size their text box against it.
func (m Measurer) pixelPerfectWidth(tf raster.Typeface, size float64, line string) float64 {
	img := m.Fonts.Render(tf, size, line, pixelPerfectPad)
	left, right, ok := scanNonTransparentBounds(img)
	if !ok {
		return 0
	}
	return float64(right-left+2)
}

// scanNonTransparentBounds returns the leftmost and rightmost columns
// across all rows of img that hold a non-transparent pixel.
func scanNonTransparentBounds(img image.Image) (left, right int, ok bool) {
	b := img.Bounds()
	left, right = b.Max.X, b.Min.X
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			found = true
			if x < left {
				left = x
			}
			if x > right {
				right = x
			}
		}
	}
	return left, right, found
}

// splitLines splits on \r\n, \r, and \n, treating \r\n as a single break
// rather than two.
func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

func toRasterStyle(s model.Style) raster.Style {
	switch s {
	case model.Bold:
		return raster.Bold
	case model.Italic:
		return raster.Italic
	case model.BoldItalic:
		return raster.BoldItalic
	default:
		return raster.Normal
	}
}
