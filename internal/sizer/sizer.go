// Package sizer implements the Text Sizer (C3): a binary search over a
// [minSize, maxSize] band for the largest font size whose measured width
// does not exceed a padded target width.
package sizer

import (
	"render/internal/measure"
	"render/internal/model"
	"render/internal/raster"
)

// ErrDidNotFit is the "did-not-fit" sentinel: even minSize overflows the
// target width.
type ErrDidNotFit struct{}

func (ErrDidNotFit) Error() string { return "sizer: text does not fit at minSize" }

// upIterations is the iteration budget when sizing up from the current
// size toward maxSize. Ten iterations are enough to converge a binary
// search over any realistic font-size band.
const upIterations = 10

// downIterations is the iteration budget when sizing down from the
// current size toward minSize.
const downIterations = 15

// downConvergence stops the down-sizing search early once the interval
// is narrower than this.
const downConvergence = 0.1

// Find runs a binary search for the largest font size that fits. fi
// carries the current size (fi.Size) that the search starts from; text
// is the text already chosen for this layer (override value, or the
// original); target is the padded target width. minSize/maxSize come
// from the override record.
func Find(m measure.Measurer, fi model.FontInfo, text string, minSize, maxSize, target float64, mode model.MeasurementMode) (float64, error) {
	if text == "" {
		return fi.Size, nil
	}

	tf := m.Fonts.Resolve(fi.Family, fi.Name, toRasterStyle(fi.Style))
	measureAt := func(size float64) float64 {
		return m.WidthOf(tf, size, text, mode)
	}

	w0 := measureAt(fi.Size)
	if w0 <= target {
		return searchUp(measureAt, fi.Size, maxSize, target), nil
	}

	wMin := measureAt(minSize)
	if wMin > target {
		return 0, ErrDidNotFit{}
	}
	return searchDown(measureAt, minSize, fi.Size, target), nil
}

// searchUp finds the largest size in [lo, maxSize] whose measured width
// is <= target.
func searchUp(measureAt func(float64) float64, lo, maxSize, target float64) float64 {
	best := lo
	hi := maxSize
	for i := 0; i < upIterations; i++ {
		mid := (lo + hi) / 2
		if measureAt(mid) <= target {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
	}
	if best > maxSize {
		return maxSize
	}
	return best
}

// searchDown finds the largest size in [minSize, hi] whose measured
// width is <= target.
func searchDown(measureAt func(float64) float64, minSize, hi, target float64) float64 {
	lo := minSize
	best := minSize
	for i := 0; i < downIterations && hi-lo >= downConvergence; i++ {
		mid := (lo + hi) / 2
		if measureAt(mid) <= target {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
	}
	return best
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
