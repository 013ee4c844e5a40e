// Package worker implements the per-frame Worker (C8): clearing and
// re-seeking one exclusively-owned Animation/Surface pair, snapshotting,
// encoding, and delivering each frame it owns, without ever sharing
// rasterizer state with another worker.
package worker

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"render/internal/raster"
	"render/internal/writer"
)

// Options configures how a worker delivers finished frames: to files in
// a directory (one file per codec per frame) or to a single stream
// (PNG only, handed to a Sequential Writer).
type Options struct {
	OutputDir string
	Prefix    string
	Stream    bool
	Stdout    *writer.Writer // required when Stream is true
	Codecs    []raster.Codec
}

// Progress tracks rendered/failed frame counts across every worker in a
// run, using atomics so no lock is needed between workers.
type Progress struct {
	rendered int64
	failed   int64
}

func (p *Progress) addRendered() int64 { return atomic.AddInt64(&p.rendered, 1) }
func (p *Progress) addFailed() int64   { return atomic.AddInt64(&p.failed, 1) }

// MarkFailed records a frame as failed without attempting to render it,
// for a worker that could not even start (e.g. its Animation clone
// failed to open).
func (p *Progress) MarkFailed() { p.addFailed() }

// Snapshot returns the current rendered/failed counts.
func (p *Progress) Snapshot() (rendered, failed int) {
	return int(atomic.LoadInt64(&p.rendered)), int(atomic.LoadInt64(&p.failed))
}

// Worker owns one Animation clone and the Surfaces it renders every frame
// into; both are reused across frames and never touched by another
// worker. conversion is allocated lazily, only if the render surface's
// native pixel format ever turns out not to already be RGBA
// unpremultiplied.
type Worker struct {
	id         int
	anim       raster.Animation
	surface    raster.Surface
	conversion raster.Surface
	opts       Options
}

// New builds a Worker around anim, allocating its single reused Surface.
func New(id int, anim raster.Animation, opts Options) *Worker {
	return &Worker{id: id, anim: anim, surface: anim.NewSurface(raster.RGBAUnpremultiplied), opts: opts}
}

// onProgress is called after each frame (success or failure) with the
// run-wide totals so far; it may be nil.
type onProgress func(rendered, failed int)

// RenderShare renders every frame index in indices, using frameTime to
// look up each index's timestamp, delivering each as it completes. A
// single frame's failure to seek, encode, or deliver is logged by the
// caller via progress and never aborts the remaining frames.
func (w *Worker) RenderShare(indices []int, frameTime []time.Duration, progress *Progress, onEvery10 onProgress) []error {
	var errs []error
	for n, idx := range indices {
		if err := w.renderOne(idx, frameTime[idx]); err != nil {
			progress.addFailed()
			errs = append(errs, fmt.Errorf("frame %d: %w", idx, err))
		} else {
			progress.addRendered()
		}
		if onEvery10 != nil && (n+1)%10 == 0 {
			r, f := progress.Snapshot()
			onEvery10(r, f)
		}
	}
	return errs
}

func (w *Worker) renderOne(index int, t time.Duration) error {
	w.surface.Clear()
	if err := w.anim.Seek(t, w.surface); err != nil {
		w.deliverFailure(index)
		return fmt.Errorf("seek: %w", err)
	}
	img := w.surface.Snapshot()

	if w.surface.PixelFormat() != raster.RGBAUnpremultiplied {
		if w.conversion == nil {
			w.conversion = w.anim.NewSurface(raster.RGBAUnpremultiplied)
		}
		w.conversion.Clear()
		if err := w.anim.Seek(t, w.conversion); err != nil {
			w.deliverFailure(index)
			return fmt.Errorf("seek (conversion): %w", err)
		}
		img = w.conversion.Snapshot()
	}

	if w.opts.Stream {
		enc, err := encodeWith(w.opts.Codecs, "png", img)
		if err != nil {
			w.deliverFailure(index)
			return err
		}
		return w.opts.Stdout.Submit(writer.Frame{Index: index, Encoded: enc})
	}

	for _, c := range w.opts.Codecs {
		enc, err := c.Encode(nil, img)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.Name(), err)
		}
		path := filepath.Join(w.opts.OutputDir, fmt.Sprintf("%s%05d.%s", w.opts.Prefix, index, c.Name()))
		if err := os.WriteFile(path, enc, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// deliverFailure tells a Sequential Writer that this frame's index must
// still advance the cursor even though nothing will be written for it.
func (w *Worker) deliverFailure(index int) {
	if w.opts.Stream {
		w.opts.Stdout.Submit(writer.Frame{Index: index, Err: fmt.Errorf("render failed")})
	}
}

// encodeWith runs the named codec (stream mode only ever asks for
// "png") against img, erroring if that codec was not configured for
// this run.
func encodeWith(codecs []raster.Codec, name string, img image.Image) ([]byte, error) {
	for _, c := range codecs {
		if c.Name() == name {
			return c.Encode(nil, img)
		}
	}
	return nil, fmt.Errorf("worker: codec %q not configured", name)
}
