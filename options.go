package paintdev

import "github.com/gogpu/paintdev/colorspace"

// OverlayMode selects whether an OverlayWrapper upgrades precision.
type OverlayMode int

const (
	// NormalMode keeps the source's composition color space.
	NormalMode OverlayMode = iota

	// PreciseMode upgrades 8-bit integer color spaces to 16 bits.
	PreciseMode

	// LazyPreciseMode behaves like PreciseMode, but a single-overlay
	// wrapper that needs no upgrade creates no overlay and works on the
	// source directly.
	LazyPreciseMode
)

// String returns the mode name.
func (m OverlayMode) String() string {
	switch m {
	case NormalMode:
		return "normal"
	case PreciseMode:
		return "precise"
	case LazyPreciseMode:
		return "lazy-precise"
	default:
		return "unknown"
	}
}

// defaultKeepRectsHistory is the prepared-region complexity above which a
// PreciseWrapper stops tracking individual rectangles.
const defaultKeepRectsHistory = 50

// OverlayOption configures an OverlayWrapper during creation.
//
// Example:
//
//	w := paintdev.NewOverlayWrapper(dev,
//	    paintdev.WithOverlays(2),
//	    paintdev.WithMode(paintdev.PreciseMode))
type OverlayOption func(*overlayOptions)

// overlayOptions holds optional configuration for OverlayWrapper creation.
type overlayOptions struct {
	numOverlays int
	mode        OverlayMode
	forcedCS    colorspace.ColorSpace
}

// defaultOverlayOptions returns one overlay in NormalMode.
func defaultOverlayOptions() overlayOptions {
	return overlayOptions{numOverlays: 1, mode: NormalMode}
}

// WithOverlays sets the number of overlay devices. Values below 1 are
// treated as 1.
func WithOverlays(n int) OverlayOption {
	return func(o *overlayOptions) {
		o.numOverlays = max(n, 1)
	}
}

// WithMode sets the precision mode.
func WithMode(mode OverlayMode) OverlayOption {
	return func(o *overlayOptions) {
		o.mode = mode
	}
}

// WithForcedColorSpace makes every overlay use cs regardless of mode.
// A nil cs restores the automatic choice.
func WithForcedColorSpace(cs colorspace.ColorSpace) OverlayOption {
	return func(o *overlayOptions) {
		o.forcedCS = cs
	}
}

// PreciseOption configures a PreciseWrapper during creation.
type PreciseOption func(*preciseOptions)

// preciseOptions holds optional configuration for PreciseWrapper creation.
type preciseOptions struct {
	keepRectsHistory int
}

// defaultPreciseOptions returns the default precise wrapper options.
func defaultPreciseOptions() preciseOptions {
	return preciseOptions{keepRectsHistory: defaultKeepRectsHistory}
}

// WithKeepRectsHistory sets how many rectangles the prepared region may
// hold before it is replaced by the latest request. Values below 1 are
// treated as 1.
func WithKeepRectsHistory(n int) PreciseOption {
	return func(o *preciseOptions) {
		o.keepRectsHistory = max(n, 1)
	}
}
