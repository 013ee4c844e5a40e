// Command render turns a Lottie JSON animation, optionally with a text
// autofit/override document, into a sequence of RGBA frames written
// either to a directory or as a PNG stream to stdout.
package main

import (
	"fmt"
	"os"
	"runtime"

	"render/internal/crashsafe"
	"render/internal/logging"
	"render/internal/model"
	"render/internal/raster/memraster"
	"render/internal/renderpipeline"

	"github.com/spf13/cobra"
)

func main() {
	var (
		stream      bool
		debug       bool
		overrides   string
		textPadding float64
		modeFlag    string
		workers     int
		prefix      string
		webp        bool
	)

	cmd := &cobra.Command{
		Use:   "render INPUT.json [OUTPUT_DIR] [FPS]",
		Short: "Render a Lottie animation to RGBA frames, applying any text autofit overrides first",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := model.ParseMeasurementMode(modeFlag)
			if err != nil {
				return err
			}

			opts := renderpipeline.Options{
				InputPath:     args[0],
				OverridesPath: overrides,
				Stream:        stream,
				TextPadding:   textPadding,
				Mode:          mode,
				Workers:       workers,
				Prefix:        prefix,
				EmitWebP:      webp,
			}
			if !stream {
				if len(args) < 2 {
					return fmt.Errorf("render: an output directory is required unless --stream is set")
				}
				opts.OutputDir = args[1]
			}
			if len(args) > 2 {
				fps, err := parseFPS(args[2])
				if err != nil {
					return err
				}
				opts.FPS = fps
			}

			dst := logging.Stdout()
			if stream {
				dst = logging.Stderr()
			}
			log := logging.New(dst, debug)
			crashsafe.Install(log)

			meta, err := renderpipeline.ReadMeta(opts.InputPath)
			if err != nil {
				return err
			}

			summary, err := renderpipeline.Render(opts, memraster.Opener(meta.Duration, meta.Width, meta.Height), log)
			if err != nil {
				return err
			}

			log.Info().
				Int("rendered", summary.Rendered).
				Int("failed", summary.Failed).
				Dur("elapsed", summary.Elapsed).
				Msg("render complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "write a PNG frame stream to stdout instead of a directory of files")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	cmd.Flags().StringVar(&overrides, "layer-overrides", "", "path to a text/image layer override JSON document")
	cmd.Flags().Float64Var(&textPadding, "text-padding", 0, "fraction of the text box width autofit targets (default 0.97)")
	cmd.Flags().StringVar(&modeFlag, "text-measurement-mode", "accurate", "text measurement mode: fast, accurate, or pixel-perfect")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of concurrent render workers")
	cmd.Flags().StringVar(&prefix, "prefix", "frame_", "output file name prefix in directory mode")
	cmd.Flags().BoolVar(&webp, "webp", true, "also encode each frame as lossless WebP in directory mode")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseFPS(s string) (int, error) {
	var fps int
	if _, err := fmt.Sscanf(s, "%d", &fps); err != nil || fps <= 0 {
		return 0, fmt.Errorf("render: invalid FPS %q", s)
	}
	return fps, nil
}
