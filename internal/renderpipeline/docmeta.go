package renderpipeline

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

var (
	frRe = regexp.MustCompile(`"fr"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
	ipRe = regexp.MustCompile(`"ip"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
	opRe = regexp.MustCompile(`"op"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
	wRe  = regexp.MustCompile(`"w"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
	hRe  = regexp.MustCompile(`"h"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
)

// docMeta is the animation-level metadata the dispatcher and animation
// factory need before any real rasterizer parses the document: its
// native frame rate, playable frame range, and canvas size.
type docMeta struct {
	FrameRate        float64
	InPoint, OutPoint float64
	Width, Height    int
}

func (m docMeta) Duration() time.Duration {
	seconds := (m.OutPoint - m.InPoint) / m.FrameRate
	if seconds < 0 {
		seconds = 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// readDocMeta extracts the handful of top-level fields every Lottie
// document carries. A missing frame rate or out point is fatal: there
// is no way to compute a frame count without it. A missing in point,
// width or height reads as 0.
func readDocMeta(doc []byte) (docMeta, error) {
	fr, ok := matchFloat(frRe, doc)
	if !ok || fr <= 0 {
		return docMeta{}, fmt.Errorf("renderpipeline: animation missing a usable frame rate")
	}
	ip, _ := matchFloat(ipRe, doc)
	op, ok := matchFloat(opRe, doc)
	if !ok {
		return docMeta{}, fmt.Errorf("renderpipeline: animation missing an out point")
	}
	w, _ := matchFloat(wRe, doc)
	h, _ := matchFloat(hRe, doc)

	return docMeta{FrameRate: fr, InPoint: ip, OutPoint: op, Width: int(w), Height: int(h)}, nil
}

// Meta is the subset of docMeta a caller needs before any real
// rasterizer has parsed the animation: the duration and canvas size a
// stand-in Animation (or a real one's constructor) needs up front.
type Meta struct {
	Duration      time.Duration
	Width, Height int
}

// ReadMeta reads just enough of the animation at path to report its
// duration and native canvas size, without running the full pipeline.
func ReadMeta(path string) (Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, fmt.Errorf("renderpipeline: reading input: %w", err)
	}
	m, err := readDocMeta(raw)
	if err != nil {
		return Meta{}, err
	}
	return Meta{Duration: m.Duration(), Width: m.Width, Height: m.Height}, nil
}

func matchFloat(re *regexp.Regexp, doc []byte) (float64, bool) {
	m := re.FindSubmatch(doc)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
