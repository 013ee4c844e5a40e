// Package renderpipeline wires the Override Parser, autofit orchestrator,
// Animation Factory, Frame Dispatcher, Worker pool, and Sequential
// Writer into the one operation the CLI exposes: render an animation's
// frames to either a directory or a stdout stream.
package renderpipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"render/internal/autofit"
	"render/internal/dispatch"
	"render/internal/factory"
	"render/internal/jsonfast"
	"render/internal/measure"
	"render/internal/model"
	"render/internal/override"
	"render/internal/raster"
	"render/internal/raster/codec"
	"render/internal/writer"
	ww "render/internal/worker"

	"github.com/rs/zerolog"
)

// Options configures one render run.
type Options struct {
	InputPath     string
	OutputDir     string // ignored when Stream is true
	OverridesPath string
	FPS           int // 0 means use the animation's own frame rate
	Workers       int // 0 means runtime.NumCPU()
	Stream        bool
	TextPadding   float64
	Mode          model.MeasurementMode
	Prefix        string // output file prefix in file mode; default "frame_"
	Stdout        *os.File
	EmitWebP      bool // file mode only; stream mode is PNG-only regardless
}

// Summary is what a render run reports once every frame has been
// accounted for.
type Summary struct {
	Rendered int
	Failed   int
	Elapsed  time.Duration
}

// Render runs the full pipeline. open constructs the real Animation
// collaborator from the (already autofit-rewritten) document bytes; the
// pipeline itself never parses Lottie drawing commands.
func Render(opts Options, open factory.Opener, log zerolog.Logger) (Summary, error) {
	start := time.Now()

	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("renderpipeline: reading input: %w", err)
	}
	if !jsonfast.Valid(raw) {
		return Summary{}, fmt.Errorf("renderpipeline: input is not valid JSON")
	}

	baseDir := filepath.Dir(opts.InputPath)
	overrideDir := baseDir
	var overrideData []byte
	if opts.OverridesPath != "" {
		overrideDir = filepath.Dir(opts.OverridesPath)
		overrideData, _ = os.ReadFile(opts.OverridesPath)
	}
	ov := override.Parse(overrideData, overrideDir, log)

	meta, err := readDocMeta(raw)
	if err != nil {
		return Summary{}, err
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = int(meta.FrameRate)
	}
	if fps <= 0 {
		fps = 30
	}

	fonts, err := factory.NewFonts()
	if err != nil {
		return Summary{}, fmt.Errorf("renderpipeline: %w", err)
	}

	measurer := measure.New(fonts)
	result := autofit.Run(raw, ov, measurer, opts.Mode, opts.TextPadding, log)
	for _, m := range result.Modifications {
		log.Debug().
			Str("layer", m.LayerName).
			Float64("size", m.OptimalSize).
			Float64("delta_width", m.DeltaWidth()).
			Msg("applied text override")
	}

	fac := factory.New(result.Doc, baseDir, ov, open, fonts, meta.Width, meta.Height)

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	plan := dispatch.New(meta.Duration(), fps, workers)

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "frame_"
	}

	var codecs []raster.Codec
	var seqWriter *writer.Writer
	if opts.Stream {
		codecs = []raster.Codec{codec.PNG{}}
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		seqWriter = writer.New(out, plan.FrameCount)
	} else {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return Summary{}, fmt.Errorf("renderpipeline: creating output directory: %w", err)
		}
		codecs = []raster.Codec{codec.PNG{}}
		if opts.EmitWebP {
			codecs = append(codecs, codec.WebP{})
		}
	}

	progress := &ww.Progress{}
	var wg sync.WaitGroup
	shares := plan.Shares()
	for wID, indices := range shares {
		if len(indices) == 0 {
			continue
		}
		wg.Add(1)
		go func(wID int, indices []int) {
			defer wg.Done()
			anim, _, err := fac.Clone()
			if err != nil {
				log.Error().Err(err).Int("worker", wID).Msg("failed to start worker; its frames are marked failed")
				for range indices {
					progress.MarkFailed()
				}
				return
			}
			worker := ww.New(wID, anim, ww.Options{
				OutputDir: opts.OutputDir,
				Prefix:    prefix,
				Stream:    opts.Stream,
				Stdout:    seqWriter,
				Codecs:    codecs,
			})
			errs := worker.RenderShare(indices, plan.FrameTime, progress, func(rendered, failed int) {
				log.Info().Int("rendered", rendered).Int("failed", failed).Msg("progress")
			})
			for _, e := range errs {
				log.Warn().Int("worker", wID).Err(e).Msg("frame failed")
			}
		}(wID, indices)
	}
	wg.Wait()

	var rendered, failed int
	if opts.Stream && seqWriter != nil {
		rendered, failed = seqWriter.Wait()
	} else {
		rendered, failed = progress.Snapshot()
	}

	return Summary{Rendered: rendered, Failed: failed, Elapsed: time.Since(start)}, nil
}
