// Package model holds the plain data types shared across the override and
// rendering pipelines: they carry no behavior of their own beyond small
// validation helpers, so that locator, sizer, measurer and mutator can all
// agree on one vocabulary.
package model

import "fmt"

// Style mirrors raster.Style without importing the raster package, so that
// override parsing does not need to know about the rasterizer boundary.
type Style int

const (
	Normal Style = iota
	Bold
	Italic
	BoldItalic
)

// FontInfo is the derived, per-text-layer font description: the style
// keyframe's family/style/name/size plus the text content and the box
// width the text must fit inside.
type FontInfo struct {
	Family        string
	Style         Style
	Name          string
	Size          float64
	Text          string
	TextBoxWidth  float64
}

// TextOverride is a per-named-layer override record. All fields are
// optional; see Validate for the invariants they must satisfy.
type TextOverride struct {
	MinSize      *float64
	MaxSize      *float64
	FallbackText *string
	TextBoxWidth *float64
	Value        *string
}

// AutofitEnabled reports whether both bounds are present: autofit is
// disabled for a layer unless both minSize and maxSize are set.
func (o TextOverride) AutofitEnabled() bool {
	return o.MinSize != nil && o.MaxSize != nil
}

// Validate checks the override invariants. It does not mutate o; the
// caller decides whether to skip or warn on failure.
func (o TextOverride) Validate() error {
	if o.MinSize != nil && o.MaxSize != nil {
		if !(*o.MaxSize > *o.MinSize && *o.MinSize > 0) {
			return fmt.Errorf("textOverride: maxSize (%v) must be > minSize (%v) > 0", *o.MaxSize, *o.MinSize)
		}
	}
	if o.TextBoxWidth != nil && *o.TextBoxWidth <= 0 {
		return fmt.Errorf("textOverride: textBoxWidth must be > 0, got %v", *o.TextBoxWidth)
	}
	return nil
}

// ImageOverride is a per-asset-id image override record.
type ImageOverride struct {
	FilePath string
	FileName string
}

// LayerModification is the transient, computed result of sizing one text
// layer: the text finally chosen (original, override value, or fallback),
// the optimal size found, and the widths before/after for ΔW bookkeeping.
type LayerModification struct {
	LayerName     string
	TextToUse     string
	OptimalSize   float64
	OriginalWidth float64
	NewWidth      float64
}

// DeltaWidth is NewWidth - OriginalWidth; positive when the substituted
// text is wider than the original.
func (m LayerModification) DeltaWidth() float64 {
	return m.NewWidth - m.OriginalWidth
}

// MeasurementMode selects how Text Measurer (C4) computes a width.
type MeasurementMode int

const (
	// Fast uses only bounding-box metrics from the font manager.
	Fast MeasurementMode = iota
	// Accurate shapes the run and accounts for kerning. Default mode.
	Accurate
	// PixelPerfect renders to an off-screen surface and scans pixels.
	PixelPerfect
)

// ParseMeasurementMode maps the CLI's textual flag value to a mode.
func ParseMeasurementMode(s string) (MeasurementMode, error) {
	switch s {
	case "", "accurate":
		return Accurate, nil
	case "fast":
		return Fast, nil
	case "pixel-perfect":
		return PixelPerfect, nil
	default:
		return Accurate, fmt.Errorf("unknown text measurement mode %q", s)
	}
}

func (m MeasurementMode) String() string {
	switch m {
	case Fast:
		return "fast"
	case PixelPerfect:
		return "pixel-perfect"
	default:
		return "accurate"
	}
}
