package device

import "image"

// DefaultBounds is the bounds policy a device inherits from the image it
// belongs to.
type DefaultBounds interface {
	// Bounds returns the nominal image rectangle.
	Bounds() image.Rectangle

	// WrapAroundMode reports whether the device content repeats
	// periodically at ImageBorderRect.
	WrapAroundMode() bool

	// ImageBorderRect returns the period rectangle used in wrap-around mode.
	ImageBorderRect() image.Rectangle
}

// staticBounds is a DefaultBounds with fixed values.
type staticBounds struct {
	rect image.Rectangle
	wrap bool
}

// NewDefaultBounds returns a fixed bounds policy. Wrap-around mode requires
// a non-empty rectangle; with an empty rectangle wrap is ignored.
func NewDefaultBounds(rect image.Rectangle, wrap bool) DefaultBounds {
	return staticBounds{rect: rect, wrap: wrap && !rect.Empty()}
}

func (b staticBounds) Bounds() image.Rectangle          { return b.rect }
func (b staticBounds) WrapAroundMode() bool             { return b.wrap }
func (b staticBounds) ImageBorderRect() image.Rectangle { return b.rect }

// wrapRectOf returns the wrap rectangle of b, or an empty rectangle when b
// does not wrap.
func wrapRectOf(b DefaultBounds) image.Rectangle {
	if b == nil || !b.WrapAroundMode() {
		return image.Rectangle{}
	}
	return b.ImageBorderRect()
}
