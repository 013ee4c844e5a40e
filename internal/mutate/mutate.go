// Package mutate implements the JSON Mutator (C5): in-place text
// substitutions of a text layer's font size, text content, and animator
// X-position keyframes, applied in reverse document order so earlier
// edits never invalidate later byte offsets.
package mutate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"render/internal/locator"
)

// Edit is a single byte-range replacement against the original document.
// [Start, End) in the original document is replaced by Replacement.
type Edit struct {
	Start, End  int
	Replacement []byte
}

// ErrUnmatched is returned whenever a mutation cannot locate the field it
// needs to rewrite. The caller skips the layer and leaves the document
// untouched for it; it is never fatal.
var ErrUnmatched = fmt.Errorf("mutate: field not found")

var sizeFieldRe = regexp.MustCompile(`"s"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
var textFieldRe = regexp.MustCompile(`"t"\s*:\s*"`)

// SizeEdit builds the edit that rewrites the numeric "s" field inside a
// style object to newSize, formatted to one fractional digit, per
// one fractional digit.
func SizeEdit(doc []byte, style locator.Range, newSize float64) (Edit, error) {
	region := doc[style.Start:style.End]
	loc := sizeFieldRe.FindSubmatchIndex(region)
	if loc == nil {
		return Edit{}, ErrUnmatched
	}
	start := style.Start + loc[2]
	end := style.Start + loc[3]
	return Edit{Start: start, End: end, Replacement: []byte(strconv.FormatFloat(newSize, 'f', 1, 64))}, nil
}

// TextEdit builds the edit that rewrites the "t" string field inside a
// style object to newText. Escaping order: backslashes first, then
// double quotes, then carriage returns (as a four-digit unicode
// escape), then tabs (as a literal two-character backslash-t sequence).
func TextEdit(doc []byte, style locator.Range, newText string) (Edit, error) {
	region := doc[style.Start:style.End]
	loc := textFieldRe.FindIndex(region)
	if loc == nil {
		return Edit{}, ErrUnmatched
	}
	quoteStart := style.Start + loc[1]
	end, ok := closingQuote(doc, quoteStart)
	if !ok {
		return Edit{}, ErrUnmatched
	}
	return Edit{Start: quoteStart, End: end, Replacement: []byte(escapeText(newText))}, nil
}

// closingQuote returns the offset of the unescaped closing quote for a
// JSON string whose content begins at start.
func closingQuote(doc []byte, start int) (int, bool) {
	i := start
	for i < len(doc) {
		switch doc[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i, true
		}
		i++
	}
	return 0, false
}

// escapeText applies the escaping order TextEdit documents above.
func escapeText(s string) string {
	const cr = "\r"
	const tab = "\t"
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, cr, "\\u000D")
	s = strings.ReplaceAll(s, tab, `\t`)
	return s
}

// AnimatorEdits builds the edits that shift negative animator X-position
// starts further left by the absolute value of deltaW. Positions are
// left unchanged when text did not grow wider.
func AnimatorEdits(doc []byte, ranges []locator.Range, deltaW float64) []Edit {
	if deltaW <= 0 {
		return nil
	}
	var edits []Edit
	for _, r := range ranges {
		region := doc[r.Start:r.End]
		edit, ok := shiftFirstNegativeX(region, r.Start, deltaW)
		if ok {
			edits = append(edits, edit)
		}
	}
	return edits
}

var firstNumberRe = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)

// shiftFirstNegativeX rewrites the first number inside a "[x,y,z]"
// animator keyframe array, if and only if it is negative, subtracting
// deltaW so the off-screen start moves further left.
func shiftFirstNegativeX(region []byte, base int, deltaW float64) (Edit, bool) {
	loc := firstNumberRe.FindIndex(region)
	if loc == nil {
		return Edit{}, false
	}
	raw := string(region[loc[0]:loc[1]])
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil || x >= 0 {
		return Edit{}, false
	}
	newX := x - deltaW
	return Edit{
		Start:       base + loc[0],
		End:         base + loc[1],
		Replacement: []byte(strconv.FormatFloat(newX, 'f', -1, 64)),
	}, true
}

// Apply replaces every edit against doc, applying them in descending
// Start order so earlier byte offsets stay valid. Per-layer edits never
// overlap, so order among them beyond descending Start does not matter.
func Apply(doc []byte, edits []Edit) []byte {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	out := append([]byte(nil), doc...)
	for _, e := range sorted {
		tail := append([]byte(nil), out[e.End:]...)
		out = append(out[:e.Start], append(append([]byte(nil), e.Replacement...), tail...)...)
	}
	return out
}
