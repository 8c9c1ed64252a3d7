package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/paintdev"
	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/device"
)

// NewRoundtripCmd runs repeated gain passes through a precise wrapper and
// compares the result with the same passes done at 8 bits.
func NewRoundtripCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "apply gain passes in 16-bit precision and report drift",
		Long: "Loads an image into an 8-bit RGBA device, applies darken/brighten passes " +
			"through a precise wrapper on tile-row strips and reports the largest channel " +
			"change against the original, next to the change the same passes cause at 8 bits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" {
				return fmt.Errorf("input image is required. Use --in flag or provide as argument")
			}
			out, _ := cmd.Flags().GetString("out")
			passes, _ := cmd.Flags().GetInt("passes")
			gain, _ := cmd.Flags().GetFloat64("gain")
			dump16, _ := cmd.Flags().GetString("dump16")
			workers, _ := cmd.Flags().GetInt("workers")
			if gain <= 0 {
				return fmt.Errorf("gain must be positive, got %v", gain)
			}

			res, err := runRoundtrip(cmd.Context(), in, out, dump16, passes, gain, workers)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "passes=%d gain=%.3f max delta: precise=%d 8-bit=%d\n",
				passes, gain, res.precise, res.baseline)
			return nil
		},
	}
	cmd.SetContext(ctx)

	pf := cmd.PersistentFlags()
	pf.String("in", "", "input image (png, jpeg, tiff)")
	pf.String("out", "", "write the processed image as PNG")
	pf.Int("passes", 4, "number of darken/brighten passes")
	pf.Float64("gain", 1.7, "gain of each pass")
	pf.String("dump16", "", "write the 16-bit intermediate as TIFF")
	pf.Int("workers", 0, "worker goroutines, 0 for GOMAXPROCS")
	return cmd
}

type roundtripResult struct {
	precise  int
	baseline int
}

func runRoundtrip(ctx context.Context, in, out, dump16 string, passes int, gain float64, workers int) (roundtripResult, error) {
	dev, bounds, err := loadDevice(in)
	if err != nil {
		return roundtripResult{}, err
	}
	orig := dev.ReadBytes(bounds)

	baseline := bytes.Clone(orig)
	gainPasses8(baseline, gain, passes)

	var dump *device.PaintDevice
	if dump16 != "" {
		dump = device.New(colorspace.RGBA16())
	}

	err = paintdev.ProcessPartitioned(ctx, dev, bounds, workers,
		func(ctx context.Context, w *paintdev.PreciseWrapper, strip image.Rectangle) error {
			w.ReadRect(strip)
			prec := w.PreciseDevice()
			data := prec.ReadBytes(strip)
			gainPasses16(data, gain, passes)
			prec.WriteBytes(strip, data)
			w.WriteRect(strip)
			if dump != nil {
				device.CopyAreaOptimized(strip.Min, prec, dump, strip)
			}
			return ctx.Err()
		})
	if err != nil {
		return roundtripResult{}, fmt.Errorf("processing failed: %w", err)
	}

	res := roundtripResult{
		precise:  maxDelta(orig, dev.ReadBytes(bounds)),
		baseline: maxDelta(orig, baseline),
	}
	slog.InfoContext(ctx, "roundtrip done",
		slog.String("in", in),
		slog.Any("bounds", bounds),
		slog.Int("precise_delta", res.precise),
		slog.Int("baseline_delta", res.baseline))

	if out != "" {
		if err := savePNG(out, dev, bounds); err != nil {
			return res, err
		}
	}
	if dump != nil {
		if err := saveTIFF(dump16, dump, bounds); err != nil {
			return res, err
		}
	}
	return res, nil
}
