package paintdev

import (
	"image"
	"log/slog"

	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/device"
	"github.com/gogpu/paintdev/region"
	"github.com/gogpu/paintdev/undo"
)

// OverlayWrapper mirrors parts of a source device into one or more overlay
// devices that share one color space.
//
// Overlays are read from the source on demand; a tile-merge grid records
// which cells were already read so that repeated and overlapping requests
// copy nothing twice. Results are written back from one overlay into the
// source or into an external destination.
//
// A wrapper created with a single overlay in LazyPreciseMode over a source
// that needs no precision upgrade creates no overlay at all: Overlay(0)
// returns the source and reads and writes do nothing.
//
// Thread safety: OverlayWrapper is NOT thread-safe.
type OverlayWrapper struct {
	source       *device.PaintDevice
	overlays     []*device.PaintDevice
	overlayCS    colorspace.ColorSpace
	precise      bool
	scaler       *colorspace.RGBAScaler
	grid         *region.TileMergeGrid
	externalDest *device.PaintDevice

	previousGrid    region.GridSnapshot
	hasPreviousGrid bool
	root            *undo.Group
	gridChange      *gridChangeCommand
}

// NewOverlayWrapper wraps source. By default one overlay is created in
// NormalMode. A nil source is logged and yields a wrapper whose operations
// do nothing.
func NewOverlayWrapper(source *device.PaintDevice, opts ...OverlayOption) *OverlayWrapper {
	o := defaultOverlayOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w := &OverlayWrapper{
		source: source,
		grid:   region.NewTileMergeGrid(device.TileSize),
	}
	if !assertRecoverable(source != nil, "overlay wrapper over nil device") {
		return w
	}

	w.overlayCS = overlayColorSpace(source, o)
	w.precise = !colorspace.Equal(w.overlayCS, source.ColorSpace())
	w.scaler = colorspace.NewFastScaler(source.ColorSpace(), w.overlayCS)

	if o.numOverlays == 1 && o.mode == LazyPreciseMode && !w.precise {
		Logger().Debug("paintdev: overlay elided", slog.String("colorspace", w.overlayCS.ID()))
		return w
	}

	pixel := colorspace.ConvertPixel(source.DefaultPixel(), source.ColorSpace(), w.overlayCS)
	w.overlays = make([]*device.PaintDevice, o.numOverlays)
	for i := range w.overlays {
		w.overlays[i] = device.New(w.overlayCS,
			device.WithDefaultPixel(pixel),
			device.WithDefaultBounds(source.DefaultBounds()),
			device.WithOffset(source.Offset()),
		)
	}
	Logger().Debug("paintdev: overlays created",
		slog.Int("count", o.numOverlays),
		slog.String("mode", o.mode.String()),
		slog.String("colorspace", w.overlayCS.ID()),
		slog.Bool("scaler", w.scaler != nil))
	return w
}

// overlayColorSpace picks the overlay color space: the forced one if set,
// otherwise the source's composition color space, upgraded from 8 to 16
// bits in the precise modes.
func overlayColorSpace(source *device.PaintDevice, o overlayOptions) colorspace.ColorSpace {
	if o.forcedCS != nil {
		return o.forcedCS
	}
	cs := source.CompositionSourceColorSpace()
	if o.mode == NormalMode || !colorspace.IsInteger8(cs) {
		return cs
	}
	upgraded, err := colorspace.WithDepth(cs, colorspace.U16)
	if err != nil {
		Logger().Warn("paintdev: no 16-bit overlay color space",
			slog.String("colorspace", cs.ID()), slog.Any("err", err))
		return cs
	}
	return upgraded
}

// Source returns the wrapped device.
func (w *OverlayWrapper) Source() *device.PaintDevice { return w.source }

// NumOverlays returns the number of overlay devices that exist. It is zero
// when the overlay was elided.
func (w *OverlayWrapper) NumOverlays() int { return len(w.overlays) }

// Overlay returns overlay device index. Without overlays it returns the
// source for any index. An index out of range is logged and nil returned.
func (w *OverlayWrapper) Overlay(index int) *device.PaintDevice {
	if len(w.overlays) == 0 {
		return w.source
	}
	if !assertRecoverable(index >= 0 && index < len(w.overlays), "overlay index out of range",
		slog.Int("index", index), slog.Int("overlays", len(w.overlays))) {
		return nil
	}
	return w.overlays[index]
}

// OverlayColorSpace returns the color space shared by all overlays.
func (w *OverlayWrapper) OverlayColorSpace() colorspace.ColorSpace { return w.overlayCS }

// UsesPreciseMode reports whether the overlay color space differs from the
// source color space.
func (w *OverlayWrapper) UsesPreciseMode() bool { return w.precise }

// SetExternalDestination makes writes go to dev instead of the source.
// Pass nil to write to the source again.
func (w *OverlayWrapper) SetExternalDestination(dev *device.PaintDevice) {
	w.externalDest = dev
}

// ExternalDestination returns the device set by SetExternalDestination.
func (w *OverlayWrapper) ExternalDestination() *device.PaintDevice { return w.externalDest }

// CreatePreciseCompositionSourceDevice returns an empty device suitable as a
// composition source. Without a precision upgrade it delegates to the
// source; otherwise it builds a device in the 16-bit variant of the
// source's composition color space.
func (w *OverlayWrapper) CreatePreciseCompositionSourceDevice() *device.PaintDevice {
	if !assertRecoverable(w.source != nil, "composition source requested from empty overlay wrapper") {
		return nil
	}
	if !w.precise {
		return w.source.CreateCompositionSourceDevice()
	}
	return preciseCompositionSourceDevice(w.source)
}

// ReadRect reads rect of the source into every overlay.
func (w *OverlayWrapper) ReadRect(rect image.Rectangle) {
	w.ReadRects([]image.Rectangle{rect})
}

// ReadRects reads rects of the source into every overlay. Only grid cells
// that were not read before are copied. In wrap-around mode each rect is
// split at the wrap border first.
func (w *OverlayWrapper) ReadRects(rects []image.Rectangle) {
	if len(w.overlays) == 0 || len(rects) == 0 {
		return
	}

	cropRect := w.source.Extent()
	wrapRect := wrapRectOf(w.source)

	var toRead []image.Rectangle
	for _, rc := range rects {
		for _, piece := range splitForWrap(rc, wrapRect) {
			toRead = append(toRead, w.grid.AddRect(piece)...)
		}
	}
	if !wrapRect.Empty() {
		cropRect = cropRect.Intersect(wrapRect)
	}
	if len(toRead) == 0 {
		return
	}
	toRead = region.MergeSparseRects(region.MakeGridLikeRectsUnique(toRead))

	if w.scaler == nil {
		for _, ov := range w.overlays {
			for _, rc := range toRead {
				if rc = rc.Intersect(cropRect); !rc.Empty() {
					device.CopyAreaOptimized(rc.Min, w.source, ov, rc)
				}
			}
		}
	} else {
		first := w.overlays[0]
		srcAcc := w.source.NewRandomConstAccessor()
		dstAcc := first.NewRandomAccessor()
		for _, rc := range toRead {
			if rc = rc.Intersect(cropRect); !rc.Empty() {
				device.ProcessTwoDevicesStrided(rc, srcAcc, dstAcc, w.scaler.ConvertU8ToU16)
			}
		}
		for _, ov := range w.overlays[1:] {
			for _, rc := range toRead {
				if rc = rc.Intersect(cropRect); !rc.Empty() {
					device.CopyAreaOptimized(rc.Min, first, ov, rc)
				}
			}
		}
	}

	Logger().Debug("paintdev: overlay read",
		slog.Int("requested", len(rects)),
		slog.Int("copied", len(toRead)))
}

// WriteRect writes rect of overlay index to the destination.
func (w *OverlayWrapper) WriteRect(rect image.Rectangle, index int) {
	w.WriteRects([]image.Rectangle{rect}, index)
}

// WriteRects writes rects of overlay index to the external destination, or
// to the source when none is set. A destination whose color space differs
// from the source's is written through a converting copy.
func (w *OverlayWrapper) WriteRects(rects []image.Rectangle, index int) {
	if len(w.overlays) == 0 || len(rects) == 0 {
		return
	}
	ov := w.Overlay(index)
	if ov == nil {
		return
	}
	dst := w.source
	if w.externalDest != nil {
		dst = w.externalDest
	}

	if w.scaler == nil || !colorspace.Equal(dst.ColorSpace(), w.source.ColorSpace()) {
		for _, rc := range rects {
			device.CopyAreaOptimized(rc.Min, ov, dst, rc)
		}
		return
	}

	srcAcc := ov.NewRandomConstAccessor()
	dstAcc := dst.NewRandomAccessor()
	for _, rc := range rects {
		device.ProcessTwoDevicesStrided(rc, srcAcc, dstAcc, w.scaler.ConvertU16ToU8)
	}
}
