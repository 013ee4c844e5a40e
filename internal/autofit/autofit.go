// Package autofit orchestrates one render's worth of text substitution:
// for every named layer in an override document, it locates the layer,
// decides the text to show and (when autofit is enabled) the largest
// size that still fits its text box, and hands the resulting edits to
// the mutator in a single pass over the document.
package autofit

import (
	"errors"

	"render/internal/locator"
	"render/internal/measure"
	"render/internal/model"
	"render/internal/mutate"
	"render/internal/override"
	"render/internal/raster"
	"render/internal/sizer"

	"github.com/rs/zerolog"
)

// defaultTextPadding shrinks the measured text box slightly before
// fitting against it, leaving a safety margin against renderer rounding.
const defaultTextPadding = 0.97

// Result is what one autofit pass produced: the rewritten document and
// the per-layer bookkeeping every caller needs to report a run summary.
type Result struct {
	Doc           []byte
	Modifications []model.LayerModification
}

// Run applies every text layer override in ov against doc, returning the
// rewritten document. textPadding of 0 falls back to defaultTextPadding.
// Layers that cannot be located, aren't text layers, or don't expose a
// usable style object are skipped with a warning; they never fail the
// run.
func Run(doc []byte, ov override.Document, m measure.Measurer, mode model.MeasurementMode, textPadding float64, log zerolog.Logger) Result {
	if textPadding <= 0 {
		textPadding = defaultTextPadding
	}
	animW, _ := readAnimationWidth(doc)

	var edits []mutate.Edit
	var mods []model.LayerModification

	for name, to := range ov.TextLayers {
		layer, err := locator.Find(doc, name)
		if err != nil {
			log.Warn().Str("layer", name).Msg("text override layer not found; skipping")
			continue
		}
		if !layer.IsText {
			log.Warn().Str("layer", name).Msg("override layer is not a text layer; skipping")
			continue
		}
		if layer.StyleStart == layer.StyleEnd {
			log.Warn().Str("layer", name).Msg("text layer has no style object; skipping")
			continue
		}

		styleRange := locator.Range{Start: layer.StyleStart, End: layer.StyleEnd}
		fields, ok := readStyleFields(doc, styleRange)
		if !ok {
			log.Warn().Str("layer", name).Msg("text layer style missing size field; skipping")
			continue
		}

		family, style := resolveFamily(doc, fields.FontName)
		boxWidth := resolveBoxWidth(to, fields, animW)
		if boxWidth <= 0 {
			log.Warn().Str("layer", name).Msg("no usable text box width for layer; skipping autofit")
			continue
		}

		originalText := fields.Text
		textToUse := originalText
		if to.Value != nil {
			textToUse = *to.Value
		}

		fi := model.FontInfo{
			Family:       family,
			Style:        style,
			Name:         fields.FontName,
			Size:         fields.Size,
			TextBoxWidth: boxWidth,
		}
		originalWidth := m.WidthOf(m.Fonts.Resolve(family, fields.FontName, toRasterStyle(style)), fields.Size, originalText, mode)

		chosenSize := fields.Size
		target := boxWidth * textPadding

		if to.AutofitEnabled() {
			fi.Text = textToUse
			size, err := sizer.Find(m, fi, textToUse, *to.MinSize, *to.MaxSize, target, mode)
			var notFit sizer.ErrDidNotFit
			if errors.As(err, &notFit) && to.FallbackText != nil {
				textToUse = *to.FallbackText
				fi.Text = textToUse
				size, err = sizer.Find(m, fi, textToUse, *to.MinSize, *to.MaxSize, target, mode)
			}
			if err != nil {
				size = *to.MinSize
				log.Warn().Str("layer", name).Msg("text does not fit even at minSize; leaving it oversized")
			}
			chosenSize = size
		}

		tf := m.Fonts.Resolve(family, fields.FontName, toRasterStyle(style))
		newWidth := m.WidthOf(tf, chosenSize, textToUse, mode)

		mods = append(mods, model.LayerModification{
			LayerName:     name,
			TextToUse:     textToUse,
			OptimalSize:   chosenSize,
			OriginalWidth: originalWidth,
			NewWidth:      newWidth,
		})

		if chosenSize != fields.Size {
			if e, err := mutate.SizeEdit(doc, styleRange, chosenSize); err == nil {
				edits = append(edits, e)
			}
		}
		if textToUse != originalText {
			if e, err := mutate.TextEdit(doc, styleRange, textToUse); err == nil {
				edits = append(edits, e)
			}
		}
		edits = append(edits, mutate.AnimatorEdits(doc, layer.AnimatorRanges, newWidth-originalWidth)...)
	}

	return Result{Doc: mutate.Apply(doc, edits), Modifications: mods}
}

// resolveFamily looks the style's font-name reference up in the
// animation's fonts list; when the reference isn't found there, the name
// itself is tried as the family so resolution still has something to
// go on.
func resolveFamily(doc []byte, fName string) (string, model.Style) {
	if entry, ok := readFontsList(doc, fName); ok {
		return entry.Family, entry.Style
	}
	return fName, model.Normal
}

// resolveBoxWidth picks the text box width in order of precedence: an
// explicit override value, the style's own "sz" box width, then the
// animation's overall width.
func resolveBoxWidth(to model.TextOverride, fields styleFields, animW float64) float64 {
	if to.TextBoxWidth != nil && *to.TextBoxWidth > 0 {
		return *to.TextBoxWidth
	}
	if fields.TextBoxWidth > 0 {
		return fields.TextBoxWidth
	}
	return animW
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
