package autofit

import (
	"bytes"
	"regexp"
	"strconv"

	"render/internal/locator"
	"render/internal/model"
)

// styleFields is everything read out of a text layer's style object: the
// current size, the font name reference (into the fonts list), the
// current text, and an optional box width carried on the style itself
// ("sz" is a Lottie text-box array [w, h]).
type styleFields struct {
	Size         float64
	FontName     string
	Text         string
	TextBoxWidth float64 // 0 if the style carries no "sz" field
}

var (
	sReField  = regexp.MustCompile(`"s"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
	fReField  = regexp.MustCompile(`"f"\s*:\s*"([^"]*)"`)
	tReField  = regexp.MustCompile(`"t"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	szReField = regexp.MustCompile(`"sz"\s*:\s*\[\s*(-?[0-9]+(?:\.[0-9]+)?)`)
)

// readStyleFields parses the fields a style object carries: s, f, t, sz.
func readStyleFields(doc []byte, style locator.Range) (styleFields, bool) {
	region := doc[style.Start:style.End]
	sm := sReField.FindSubmatch(region)
	if sm == nil {
		return styleFields{}, false
	}
	size, err := strconv.ParseFloat(string(sm[1]), 64)
	if err != nil {
		return styleFields{}, false
	}

	var fields styleFields
	fields.Size = size

	if fm := fReField.FindSubmatch(region); fm != nil {
		fields.FontName = string(fm[1])
	}
	if tm := tReField.FindSubmatch(region); tm != nil {
		fields.Text = unescapeJSONString(tm[1])
	}
	if zm := szReField.FindSubmatch(region); zm != nil {
		if w, err := strconv.ParseFloat(string(zm[1]), 64); err == nil {
			fields.TextBoxWidth = w
		}
	}
	return fields, true
}

// unescapeJSONString decodes the minimal set of escapes the mutator
// itself writes (and that Lottie text fields use in practice).
func unescapeJSONString(b []byte) string {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		i++
		switch b[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '"', '\\', '/':
			out = append(out, b[i])
		case 'u':
			if i+4 < len(b) {
				if v, err := strconv.ParseUint(string(b[i+1:i+5]), 16, 32); err == nil {
					out = append(out, []byte(string(rune(v)))...)
					i += 4
					continue
				}
			}
			out = append(out, 'u')
		default:
			out = append(out, b[i])
		}
	}
	return string(out)
}

var fontEntryRe = regexp.MustCompile(`\{[^{}]*?"fName"\s*:\s*"([^"]*)"[^{}]*?\}`)
var fFamilyRe = regexp.MustCompile(`"fFamily"\s*:\s*"([^"]*)"`)
var fStyleRe = regexp.MustCompile(`"fStyle"\s*:\s*"([^"]*)"`)

// fontsListEntry is one animation-level fonts.list[] record.
type fontsListEntry struct {
	Family string
	Style  model.Style
}

// readFontsList scans the animation document's fonts.list for the entry
// matching fName.
func readFontsList(doc []byte, fName string) (fontsListEntry, bool) {
	idx := findKey(doc, `"fonts"`)
	if idx < 0 {
		return fontsListEntry{}, false
	}
	listIdx := findKeyFrom(doc, `"list"`, idx)
	if listIdx < 0 {
		return fontsListEntry{}, false
	}
	window := doc[listIdx:]
	if len(window) > 20000 {
		window = window[:20000]
	}
	for _, m := range fontEntryRe.FindAllSubmatch(window, -1) {
		if string(m[1]) != fName {
			continue
		}
		entry := fontsListEntry{Family: fName}
		obj := m[0]
		if fm := fFamilyRe.FindSubmatch(obj); fm != nil {
			entry.Family = string(fm[1])
		}
		if sm := fStyleRe.FindSubmatch(obj); sm != nil {
			entry.Style = parseStyleName(string(sm[1]))
		}
		return entry, true
	}
	return fontsListEntry{}, false
}

func parseStyleName(s string) model.Style {
	hasBold := containsFold(s, "bold")
	hasItalic := containsFold(s, "italic")
	switch {
	case hasBold && hasItalic:
		return model.BoldItalic
	case hasBold:
		return model.Bold
	case hasItalic:
		return model.Italic
	default:
		return model.Normal
	}
}

func containsFold(s, substr string) bool {
	sl, subl := []rune(s), []rune(substr)
	for i := 0; i+len(subl) <= len(sl); i++ {
		match := true
		for j, r := range subl {
			a, b := sl[i+j], r
			if a >= 'A' && a <= 'Z' {
				a += 'a' - 'A'
			}
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func findKey(doc []byte, key string) int {
	return findKeyFrom(doc, key, 0)
}

func findKeyFrom(doc []byte, key string, from int) int {
	if from > len(doc) {
		return -1
	}
	idx := bytes.Index(doc[from:], []byte(key))
	if idx < 0 {
		return -1
	}
	return from + idx
}

var animationWidthRe = regexp.MustCompile(`"w"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)

// readAnimationWidth reads the animation's top-level "w" field.
func readAnimationWidth(doc []byte) (float64, bool) {
	m := animationWidthRe.FindSubmatch(doc)
	if m == nil {
		return 0, false
	}
	w, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, false
	}
	return w, true
}
