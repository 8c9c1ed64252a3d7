package paintdev

import (
	"image"
	"log/slog"

	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/device"
	"github.com/gogpu/paintdev/region"
)

// PreciseWrapper gives 16-bit access to a device that stores 8 bits per
// channel.
//
// When the source is already precise the wrapper is unwrapped: PreciseDevice
// returns the source itself and ReadRects/WriteRects do nothing. Otherwise a
// shadow device with the same color model and profile at 16 bits per channel
// is created, and the wrapper tracks the region of the source that has
// already been mirrored into it.
//
// Thread safety: PreciseWrapper is NOT thread-safe.
type PreciseWrapper struct {
	source    *device.PaintDevice
	precise   *device.PaintDevice
	preciseCS colorspace.ColorSpace

	prepared         region.Region
	keepRectsHistory int
}

// NewPreciseWrapper wraps dev. A nil device is logged and yields a wrapper
// whose operations do nothing.
func NewPreciseWrapper(dev *device.PaintDevice, opts ...PreciseOption) *PreciseWrapper {
	o := defaultPreciseOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w := &PreciseWrapper{source: dev, keepRectsHistory: o.keepRectsHistory}
	if !assertRecoverable(dev != nil, "precise wrapper over nil device") {
		return w
	}

	w.precise = dev
	w.preciseCS = dev.ColorSpace()
	if !colorspace.IsInteger8(dev.ColorSpace()) {
		return w
	}

	cs, err := colorspace.WithDepth(dev.ColorSpace(), colorspace.U16)
	if err != nil {
		Logger().Warn("paintdev: no 16-bit variant, working unwrapped",
			slog.String("colorspace", dev.ColorSpace().ID()), slog.Any("err", err))
		return w
	}
	w.preciseCS = cs
	w.precise = device.New(cs,
		device.WithDefaultBounds(dev.DefaultBounds()),
		device.WithOffset(dev.Offset()),
		device.WithDefaultPixel(colorspace.ConvertPixel(dev.DefaultPixel(), dev.ColorSpace(), cs)),
	)
	return w
}

// SourceDevice returns the wrapped device.
func (w *PreciseWrapper) SourceDevice() *device.PaintDevice { return w.source }

// PreciseDevice returns the 16-bit shadow device, or the source when it is
// already precise.
func (w *PreciseWrapper) PreciseDevice() *device.PaintDevice { return w.precise }

// PreciseColorSpace returns the color space of PreciseDevice.
func (w *PreciseWrapper) PreciseColorSpace() colorspace.ColorSpace { return w.preciseCS }

// wrapped reports whether a separate shadow device exists.
func (w *PreciseWrapper) wrapped() bool {
	return w.source != nil && w.precise != w.source
}

// CachedRegion returns a copy of the source area already mirrored into the
// precise device.
func (w *PreciseWrapper) CachedRegion() region.Region {
	return w.prepared.Clone()
}

// ResetCachedRegion forgets all mirrored area, so the next read copies
// again. Call it after the source was changed behind the wrapper's back.
func (w *PreciseWrapper) ResetCachedRegion() {
	w.prepared = region.Region{}
}

// CreatePreciseCompositionSourceDevice returns an empty device suitable as a
// composition source in precise color space. Unwrapped wrappers delegate to
// the source; wrapped ones build a device in the 16-bit variant of the
// source's composition color space.
func (w *PreciseWrapper) CreatePreciseCompositionSourceDevice() *device.PaintDevice {
	if !assertRecoverable(w.source != nil, "composition source requested from empty precise wrapper") {
		return nil
	}
	if !w.wrapped() {
		return w.source.CreateCompositionSourceDevice()
	}
	return preciseCompositionSourceDevice(w.source)
}

// ReadRect mirrors rect of the source into the precise device.
func (w *PreciseWrapper) ReadRect(rect image.Rectangle) {
	w.ReadRects([]image.Rectangle{rect})
}

// ReadRects mirrors rects of the source into the precise device. Each rect
// is cropped to the source extent, split at the wrap border in wrap-around
// mode, and only the part outside the cached region is copied.
func (w *PreciseWrapper) ReadRects(rects []image.Rectangle) {
	if !w.wrapped() || len(rects) == 0 {
		return
	}
	if len(rects) > w.keepRectsHistory {
		rects = region.ApproximateOverlappingRects(rects, device.TileSize)
	}

	extent := w.source.Extent()
	wrapRect := wrapRectOf(w.source)

	var requested region.Region
	for _, rc := range rects {
		for _, piece := range splitForWrap(rc, wrapRect) {
			if piece = piece.Intersect(extent); !piece.Empty() {
				requested.Add(piece)
			}
		}
	}

	diff := requested.Clone()
	diff.SubtractRegion(w.prepared)

	channels := w.preciseCS.ChannelCount()
	promote := func(s []byte, ss int, d []byte, ds int, rows, cols int) {
		for r := range rows {
			colorspace.PromoteU8ToU16(s[r*ss:], d[r*ds:], channels, cols)
		}
	}
	srcAcc := w.source.NewRandomConstAccessor()
	dstAcc := w.precise.NewRandomAccessor()
	for _, rc := range diff.Rects() {
		device.ProcessTwoDevicesStrided(rc, srcAcc, dstAcc, promote)
	}

	if w.prepared.RectCount() > w.keepRectsHistory {
		w.prepared = requested
	} else {
		w.prepared.AddRegion(requested)
	}

	Logger().Debug("paintdev: precise read",
		slog.Int("requested", len(rects)),
		slog.Int("copied", diff.RectCount()),
		slog.Int("cached", w.prepared.RectCount()))
}

// WriteRect narrows rect of the precise device back into the source.
func (w *PreciseWrapper) WriteRect(rect image.Rectangle) {
	w.WriteRects([]image.Rectangle{rect})
}

// WriteRects narrows rects of the precise device back into the source.
// Writes are not clipped against the cached region; callers write only
// what they changed.
func (w *PreciseWrapper) WriteRects(rects []image.Rectangle) {
	if !w.wrapped() || len(rects) == 0 {
		return
	}
	channels := w.preciseCS.ChannelCount()
	narrow := func(s []byte, ss int, d []byte, ds int, rows, cols int) {
		for r := range rows {
			colorspace.NarrowU16ToU8(s[r*ss:], d[r*ds:], channels, cols)
		}
	}
	srcAcc := w.precise.NewRandomConstAccessor()
	dstAcc := w.source.NewRandomAccessor()
	for _, rc := range rects {
		device.ProcessTwoDevicesStrided(rc, srcAcc, dstAcc, narrow)
	}
}

// preciseCompositionSourceDevice creates an empty device in the 16-bit
// variant of src's composition color space.
func preciseCompositionSourceDevice(src *device.PaintDevice) *device.PaintDevice {
	cs, err := colorspace.WithDepth(src.CompositionSourceColorSpace(), colorspace.U16)
	if err != nil {
		Logger().Warn("paintdev: no 16-bit composition color space",
			slog.String("colorspace", src.CompositionSourceColorSpace().ID()), slog.Any("err", err))
		return src.CreateCompositionSourceDevice()
	}
	return device.New(cs, device.WithDefaultBounds(src.DefaultBounds()))
}

// wrapRectOf returns the wrap border of dev, or an empty rectangle when dev
// does not wrap.
func wrapRectOf(dev *device.PaintDevice) image.Rectangle {
	b := dev.DefaultBounds()
	if !b.WrapAroundMode() {
		return image.Rectangle{}
	}
	return b.ImageBorderRect()
}

// splitForWrap splits rc at the wrap border, or returns it unchanged when
// wrapRect is empty.
func splitForWrap(rc, wrapRect image.Rectangle) []image.Rectangle {
	if wrapRect.Empty() {
		return []image.Rectangle{rc}
	}
	return region.SplitWrapped(rc, wrapRect)
}
