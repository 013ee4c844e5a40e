// Package gxfont is a concrete raster.FontManager built on
// golang.org/x/image/font/sfnt and golang.org/x/image/font/opentype. It is
// the font manager the Animation Factory hands to every worker and the
// one the text measurer sizes against, so autofit decisions match what
// the rasterizer will actually draw.
package gxfont

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"render/internal/raster"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// entry is one registered font: its parsed sfnt.Font plus the
// family/style it was registered under.
type entry struct {
	font   *sfnt.Font
	family string
	style  raster.Style
}

func (e *entry) Family() string { return e.family }

// Manager resolves and measures fonts registered in-process, falling
// back to a built-in default so resolution never fails.
type Manager struct {
	mu       sync.RWMutex
	byKey    map[string]*entry // "family|style"
	byName   map[string]*entry // legacy-construct / name-only lookup
	fallback *entry
}

// New returns a Manager whose only registered font is the built-in
// default; call Register to add real typefaces before rendering.
func New() (*Manager, error) {
	def, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	fb := &entry{font: def, family: "default", style: raster.Normal}
	return &Manager{
		byKey:    map[string]*entry{},
		byName:   map[string]*entry{},
		fallback: fb,
	}, nil
}

// Register parses fontData and makes it resolvable under family/style and
// under name (both the fName-keyed and legacy-construct lookups).
func (m *Manager) Register(family, name string, style raster.Style, fontData []byte) error {
	f, err := loadSFNT(fontData)
	if err != nil {
		return err
	}
	e := &entry{font: f, family: family, style: style}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[key(family, style)] = e
	if name != "" {
		m.byName[name] = e
	}
	return nil
}

// loadSFNT accepts either a bare SFNT/OTF font or an OpenType collection
// and always returns the first face, for .ttc-style collection files.
func loadSFNT(data []byte) (*sfnt.Font, error) {
	if f, err := sfnt.Parse(data); err == nil {
		return f, nil
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	of, err := coll.Font(0)
	if err != nil {
		return nil, err
	}
	return (*sfnt.Font)(of), nil
}

func key(family string, style raster.Style) string {
	switch style {
	case raster.Bold:
		return family + "|bold"
	case raster.Italic:
		return family + "|italic"
	case raster.BoldItalic:
		return family + "|bolditalic"
	default:
		return family + "|normal"
	}
}

// Resolve implements a four-step fallback chain: (family, style) ->
// (name, Normal) -> legacy-construct name -> legacy default. It never
// fails.
func (m *Manager) Resolve(family, name string, style raster.Style) raster.Typeface {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.byKey[key(family, style)]; ok {
		return e
	}
	if e, ok := m.byName[name]; ok {
		return e
	}
	// Legacy-construct: some authoring tools bake the style into the
	// font's postscript name (e.g. "Helvetica-Bold") rather than setting
	// a separate style flag; try that composite directly.
	if e, ok := m.byKey[key(name, style)]; ok {
		return e
	}
	return m.fallback
}

func asEntry(tf raster.Typeface) *entry {
	e, ok := tf.(*entry)
	if !ok || e == nil {
		return nil
	}
	return e
}

func toPPEM(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// Advance implements the FAST measurement mode: bare glyph advances, no
// kerning.
func (m *Manager) Advance(tf raster.Typeface, size float64, text string) float64 {
	e := asEntry(tf)
	if e == nil {
		return 0
	}
	ppem := toPPEM(size)
	var buf sfnt.Buffer
	var total fixed.Int26_6
	for _, r := range text {
		idx, err := e.font.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		adv, err := e.font.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		total += adv
	}
	return float64(total) / 64
}

// ShapedAdvance implements the ACCURATE measurement mode: glyph advances
// plus the font's own kerning-pair table between consecutive glyphs.
func (m *Manager) ShapedAdvance(tf raster.Typeface, size float64, text string) float64 {
	e := asEntry(tf)
	if e == nil {
		return 0
	}
	ppem := toPPEM(size)
	var buf sfnt.Buffer
	var total fixed.Int26_6
	var prev sfnt.GlyphIndex
	havePrev := false
	for _, r := range text {
		idx, err := e.font.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		if havePrev {
			if kern, err := e.font.Kern(&buf, prev, idx, ppem, font.HintingNone); err == nil {
				total += kern
			}
		}
		adv, err := e.font.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err == nil {
			total += adv
		}
		prev, havePrev = idx, true
	}
	return float64(total) / 64
}

// Render draws text as a single line into a padded RGBA image for the
// PIXEL_PERFECT measurement mode.
func (m *Manager) Render(tf raster.Typeface, size float64, text string, pad int) image.Image {
	e := asEntry(tf)
	if e == nil {
		return image.NewRGBA(image.Rect(0, 0, 2*pad, 2*pad))
	}

	face, err := opentype.NewFace((*opentype.Font)(e.font), &opentype.FaceOptions{
		Size: size,
		DPI:  72,
	})
	if err != nil {
		return image.NewRGBA(image.Rect(0, 0, 2*pad, 2*pad))
	}
	defer face.Close()

	width := int(font.MeasureString(face, text).Ceil())
	metrics := face.Metrics()
	height := metrics.Height.Ceil()
	canvas := image.NewRGBA(image.Rect(0, 0, width+2*pad, height+2*pad))
	draw.Draw(canvas, canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(pad),
			Y: fixed.I(pad + metrics.Ascent.Ceil()),
		},
	}
	d.DrawString(text)
	return canvas
}
