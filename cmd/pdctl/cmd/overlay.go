package cmd

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/paintdev"
	"github.com/gogpu/paintdev/undo"
)

// NewOverlayCmd edits an image through an overlay wrapper inside a
// transaction and walks the result through undo and redo.
func NewOverlayCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "invert a rectangle through an overlay transaction, then undo and redo it",
		Long: "Reads a rectangle of the image into the overlays, inverts it on the first " +
			"overlay and writes it back in one transaction. The transaction is pushed onto " +
			"an undo stack, undone and redone, and the source is checked after each step.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" {
				return fmt.Errorf("input image is required. Use --in flag or provide as argument")
			}
			out, _ := cmd.Flags().GetString("out")
			dump16, _ := cmd.Flags().GetString("dump16")
			n, _ := cmd.Flags().GetInt("overlays")
			rectStr, _ := cmd.Flags().GetString("rect")
			modeStr, _ := cmd.Flags().GetString("mode")

			mode, err := parseMode(modeStr)
			if err != nil {
				return err
			}
			var rect image.Rectangle
			if rectStr != "" {
				if rect, err = parseRect(rectStr); err != nil {
					return err
				}
			}

			res, err := runOverlay(cmd.Context(), overlayRun{
				in: in, out: out, dump16: dump16,
				overlays: n, mode: mode, rect: rect,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "rect=%v overlays=%d mode=%s overlay-cs=%s\n", res.rect, res.overlays, mode, res.overlayCS)
			fmt.Fprintf(w, "after edit: max delta=%d\n", res.edited)
			fmt.Fprintf(w, "after undo: max delta=%d\n", res.undone)
			fmt.Fprintf(w, "after redo: max delta=%d\n", res.redone)
			return nil
		},
	}
	cmd.SetContext(ctx)

	pf := cmd.PersistentFlags()
	pf.String("in", "", "input image (png, jpeg, tiff)")
	pf.String("out", "", "write the edited image as PNG")
	pf.String("dump16", "", "write the first overlay as TIFF")
	pf.Int("overlays", 2, "number of overlay devices")
	pf.String("rect", "", "area to edit as x,y,w,h; the whole image when empty")
	pf.String("mode", "precise", "overlay mode: normal, precise or lazy-precise")
	return cmd
}

func parseMode(s string) (paintdev.OverlayMode, error) {
	for _, m := range []paintdev.OverlayMode{paintdev.NormalMode, paintdev.PreciseMode, paintdev.LazyPreciseMode} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown overlay mode %q", s)
}

type overlayRun struct {
	in, out, dump16 string
	overlays        int
	mode            paintdev.OverlayMode
	rect            image.Rectangle
}

type overlayResult struct {
	rect      image.Rectangle
	overlays  int
	overlayCS string
	edited    int
	undone    int
	redone    int
}

func runOverlay(ctx context.Context, r overlayRun) (overlayResult, error) {
	dev, bounds, err := loadDevice(r.in)
	if err != nil {
		return overlayResult{}, err
	}
	rect := bounds
	if !r.rect.Empty() {
		rect = r.rect.Intersect(bounds)
	}
	if rect.Empty() {
		return overlayResult{}, fmt.Errorf("rect %v does not intersect the image %v", r.rect, bounds)
	}
	orig := dev.ReadBytes(bounds)

	w := paintdev.NewOverlayWrapper(dev, paintdev.WithOverlays(r.overlays), paintdev.WithMode(r.mode))

	dev.BeginTransaction()
	w.BeginTransaction(nil)
	w.ReadRect(rect)
	invertColors(w.Overlay(0), rect)
	w.WriteRect(rect, 0)
	root := w.EndTransaction()
	undo.NewSkipFirstRedo(dev.EndTransaction(), root)

	res := overlayResult{
		rect:      rect,
		overlays:  w.NumOverlays(),
		overlayCS: w.OverlayColorSpace().ID(),
	}

	st := undo.NewStack(0)
	st.Push(root)
	res.edited = maxDelta(orig, dev.ReadBytes(bounds))
	st.Undo()
	res.undone = maxDelta(orig, dev.ReadBytes(bounds))
	st.Redo()
	res.redone = maxDelta(orig, dev.ReadBytes(bounds))

	slog.InfoContext(ctx, "overlay transaction done",
		slog.String("in", r.in),
		slog.Any("rect", rect),
		slog.String("id", root.ID().String()),
		slog.Int("edited_delta", res.edited),
		slog.Int("undone_delta", res.undone))

	if r.out != "" {
		if err := savePNG(r.out, dev, bounds); err != nil {
			return res, err
		}
	}
	if r.dump16 != "" {
		if err := saveTIFF(r.dump16, w.Overlay(0), bounds); err != nil {
			return res, err
		}
	}
	return res, nil
}
