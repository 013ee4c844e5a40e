// Package locator implements the JSON Locator (C1): finding a named
// layer's name field, text-data object, style object, and animator
// position keyframes inside an animation document, working directly on
// the document's bytes.
//
// The animation documents this core handles are produced by a small set
// of authoring tools with a very regular shape, which is what makes
// textual surgery over that shape a deliberate, if brittle, choice: the
// locator's contract is byte offsets rather than a parsed tree.
package locator

import (
	"bytes"
	"fmt"
	"regexp"
)

// textLayerType is the Lottie layer "ty" value for a text layer.
const textLayerType = "5"

// maxBalanceWindow bounds how far a brace-balancing scan looks before
// giving up, guaranteeing termination on malformed input.
const maxBalanceWindow = 5000

// minBalanceWindow is the smallest window used for balancing a nearby,
// already-located object (the style object sits close to its opening
// brace, so a small window is enough and keeps false positives down).
const minBalanceWindow = 500

// ErrNotFound is returned whenever a layer, its text-data object, its
// style object, or its animator cannot be located. Callers treat it as a
// "skip this layer" signal, never a fatal error.
var ErrNotFound = fmt.Errorf("locator: not found")

// Layer describes everything the locator found about one named layer.
type Layer struct {
	Name           string
	NameOffset     int // byte offset of the "name" field's value
	IsText         bool
	StyleStart     int // [StyleStart, StyleEnd) bounds the style object, "{".."}"
	StyleEnd       int
	AnimatorRanges []Range // byte ranges of animator position keyframe "s" arrays
}

// Range is a half-open byte range [Start, End) within the document.
type Range struct {
	Start, End int
}

// Find locates the layer named name within doc. It never returns a
// fatal error for malformed input; any failure to find the layer itself
// is ErrNotFound.
func Find(doc []byte, name string) (Layer, error) {
	offset, err := findNameOffset(doc, name)
	if err != nil {
		return Layer{}, err
	}

	layer := Layer{Name: name, NameOffset: offset}
	layer.IsText = hasTypeNear(doc, offset, textLayerType, 1000)

	textData, ok := findTextDataObject(doc, offset)
	if !ok {
		return layer, nil
	}

	styleStart, styleEnd, ok := findStyleObject(doc, textData)
	if ok {
		layer.StyleStart, layer.StyleEnd = styleStart, styleEnd
	}

	layer.AnimatorRanges = findAnimatorRanges(doc, offset)
	return layer, nil
}

// findNameOffset runs a three-strategy lookup: an anchored, escaped
// regex; an unescaped fast path; and finally a linear authoritative scan
// comparing each "name" field's decoded value. Strategy 3 is
// authoritative: 1 and 2 only short-circuit when they agree with it.
func findNameOffset(doc []byte, name string) (int, error) {
	if off, ok := findByAnchoredRegex(doc, name); ok {
		if verifyNameAt(doc, off, name) {
			return off, nil
		}
	}
	if off, ok := findByUnescaped(doc, name); ok {
		if verifyNameAt(doc, off, name) {
			return off, nil
		}
	}
	return linearScanForName(doc, name)
}

func findByAnchoredRegex(doc []byte, name string) (int, bool) {
	pattern := `"nm"\s*:\s*"` + regexp.QuoteMeta(name) + `"`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, false
	}
	loc := re.FindIndex(doc)
	if loc == nil {
		return 0, false
	}
	return valueOffsetWithinMatch(doc, loc[0]), true
}

func findByUnescaped(doc []byte, name string) (int, bool) {
	needle := []byte(`"nm":"` + name + `"`)
	idx := bytes.Index(doc, needle)
	if idx < 0 {
		needle = []byte(`"nm": "` + name + `"`)
		idx = bytes.Index(doc, needle)
		if idx < 0 {
			return 0, false
		}
	}
	return valueOffsetWithinMatch(doc, idx), true
}

// valueOffsetWithinMatch returns the byte offset of the opening quote of
// the string value within a `"nm"...:"value"` match starting at idx.
func valueOffsetWithinMatch(doc []byte, idx int) int {
	rest := doc[idx:]
	colon := bytes.IndexByte(rest, ':')
	if colon < 0 {
		return idx
	}
	quote := bytes.IndexByte(rest[colon:], '"')
	if quote < 0 {
		return idx
	}
	return idx + colon + quote
}

// linearScanForName scans every `"nm"` field in the document, decoding
// each quoted value with a minimal JSON-string unescape, and compares it
// to name. This is the authoritative strategy: it is immune to regex
// metacharacters or encoding quirks the fast paths miss.
func linearScanForName(doc []byte, name string) (int, error) {
	const key = `"nm"`
	pos := 0
	for {
		idx := bytes.Index(doc[pos:], []byte(key))
		if idx < 0 {
			return 0, ErrNotFound
		}
		idx += pos
		valStart := idx + len(key)
		rest := doc[valStart:]
		colon := bytes.IndexByte(rest, ':')
		if colon < 0 {
			pos = idx + len(key)
			continue
		}
		quoteRel := -1
		for i := colon + 1; i < len(rest); i++ {
			if rest[i] == ' ' || rest[i] == '\t' {
				continue
			}
			if rest[i] == '"' {
				quoteRel = i
			}
			break
		}
		if quoteRel < 0 {
			pos = idx + len(key)
			continue
		}
		quoteAbs := valStart + quoteRel
		value, end, ok := readJSONString(doc, quoteAbs)
		if ok && value == name {
			return quoteAbs, nil
		}
		if !ok {
			pos = idx + len(key)
			continue
		}
		pos = end
	}
}

// readJSONString decodes the JSON string starting at the opening quote
// byte offset start, returning the decoded value and the offset just
// past the closing quote.
func readJSONString(doc []byte, start int) (string, int, bool) {
	if start >= len(doc) || doc[start] != '"' {
		return "", start, false
	}
	var buf bytes.Buffer
	i := start + 1
	for i < len(doc) {
		c := doc[i]
		switch {
		case c == '"':
			return buf.String(), i + 1, true
		case c == '\\' && i+1 < len(doc):
			i++
			switch doc[i] {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case '"', '\\', '/':
				buf.WriteByte(doc[i])
			default:
				buf.WriteByte(doc[i])
			}
			i++
		default:
			buf.WriteByte(c)
			i++
		}
	}
	return "", start, false
}

// verifyNameAt confirms the value at a fast-path offset really decodes to
// name, guarding against regex/escaping false positives.
func verifyNameAt(doc []byte, offset int, name string) bool {
	value, _, ok := readJSONString(doc, offset)
	return ok && value == name
}

// hasTypeNear reports whether a `"ty":<typeValue>` field appears within
// window bytes of offset, in either direction.
func hasTypeNear(doc []byte, offset int, typeValue string, window int) bool {
	lo := offset - window
	if lo < 0 {
		lo = 0
	}
	hi := offset + window
	if hi > len(doc) {
		hi = len(doc)
	}
	region := doc[lo:hi]
	re := regexp.MustCompile(`"ty"\s*:\s*` + regexp.QuoteMeta(typeValue) + `\b`)
	return re.Match(region)
}

// findTextDataObject locates the layer's text-data object: the value of
// the "t" key whose content is a brace-balanced object (not a keyframe
// time, which starts with a digit) and whose first 100 bytes contain a
// "d" key.
func findTextDataObject(doc []byte, nearOffset int) (Range, bool) {
	lo := nearOffset
	hi := nearOffset + maxBalanceWindow
	if hi > len(doc) {
		hi = len(doc)
	}
	region := doc[lo:hi]

	re := regexp.MustCompile(`"t"\s*:\s*`)
	locs := re.FindAllIndex(region, -1)
	for _, loc := range locs {
		valStart := lo + loc[1]
		if valStart >= len(doc) {
			continue
		}
		c := doc[valStart]
		if c >= '0' && c <= '9' {
			continue // keyframe time, not the text-data object
		}
		if c != '{' {
			continue
		}
		end, ok := balancedObjectEnd(doc, valStart, maxBalanceWindow)
		if !ok {
			continue
		}
		peekEnd := valStart + 100
		if peekEnd > end {
			peekEnd = end
		}
		if bytes.Contains(doc[valStart:peekEnd], []byte(`"d"`)) {
			return Range{valStart, end}, true
		}
	}
	return Range{}, false
}

// findStyleObject locates the text-data object's first keyframe's style
// object: textData -> "k" array -> first element -> "s" object.
func findStyleObject(doc []byte, textData Range) (start, end int, ok bool) {
	region := doc[textData.Start:textData.End]

	kIdx := regexp.MustCompile(`"k"\s*:\s*\[`).FindIndex(region)
	if kIdx == nil {
		return 0, 0, false
	}
	arrStart := textData.Start + kIdx[1] - 1 // offset of '['

	sRe := regexp.MustCompile(`"s"\s*:\s*\{`)
	sLoc := sRe.FindIndex(doc[arrStart:textData.End])
	if sLoc == nil {
		return 0, 0, false
	}
	braceOff := arrStart + sLoc[1] - 1
	end, ok = balancedObjectEnd(doc, braceOff, minBalanceWindow)
	if !ok {
		return 0, 0, false
	}
	return braceOff, end, true
}

// findAnimatorRanges locates the byte ranges of animator position
// keyframe "s":[x,y,z] arrays for this layer, bounded to a window after
// the layer's name so an adjacent layer's animator is never picked up.
func findAnimatorRanges(doc []byte, nearOffset int) []Range {
	hi := nearOffset + maxBalanceWindow
	if hi > len(doc) {
		hi = len(doc)
	}
	region := doc[nearOffset:hi]

	aIdx := regexp.MustCompile(`"a"\s*:\s*\[`).FindIndex(region)
	if aIdx == nil {
		return nil
	}
	pIdx := regexp.MustCompile(`"p"\s*:\s*\{`).FindIndex(region[aIdx[1]:])
	if pIdx == nil {
		return nil
	}
	base := nearOffset + aIdx[1] + pIdx[1]

	var ranges []Range
	kRe := regexp.MustCompile(`"s"\s*:\s*\[`)
	searchFrom := base
	for searchFrom < hi {
		loc := kRe.FindIndex(doc[searchFrom:hi])
		if loc == nil {
			break
		}
		arrStart := searchFrom + loc[1] - 1
		end := bytes.IndexByte(doc[arrStart:hi], ']')
		if end < 0 {
			break
		}
		ranges = append(ranges, Range{arrStart, arrStart + end + 1})
		searchFrom = arrStart + end + 1
	}
	return ranges
}

// balancedObjectEnd returns the offset just past the closing brace that
// matches the opening brace at start, scanning at most window bytes so
// malformed input cannot cause an unbounded scan.
func balancedObjectEnd(doc []byte, start, window int) (int, bool) {
	if start >= len(doc) || doc[start] != '{' {
		return 0, false
	}
	hi := start + window
	if hi > len(doc) {
		hi = len(doc)
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < hi; i++ {
		c := doc[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
