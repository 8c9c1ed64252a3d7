package region

import "image"

// WrapCoord maps v into the half-open range [lo, lo+size) modulo size.
func WrapCoord(v, lo, size int) int {
	if size <= 0 {
		return v
	}
	return lo + floorMod(v-lo, size)
}

// WrapPoint maps p into wrapRect, treating the plane as wrapRect tiled
// infinitely in both directions.
func WrapPoint(p image.Point, wrapRect image.Rectangle) image.Point {
	return image.Pt(
		WrapCoord(p.X, wrapRect.Min.X, wrapRect.Dx()),
		WrapCoord(p.Y, wrapRect.Min.Y, wrapRect.Dy()),
	)
}

// SplitWrapped splits rc into the pieces it covers once the plane is folded
// onto wrapRect. Every returned rectangle lies inside wrapRect; together they
// cover exactly the wrapRect pixels that rc maps to. A request wider or taller
// than wrapRect is clamped to the full wrapRect extent on that axis, so at
// most four pieces are returned.
//
// An empty wrapRect disables wrapping and returns rc itself.
func SplitWrapped(rc, wrapRect image.Rectangle) []image.Rectangle {
	if rc.Empty() {
		return nil
	}
	if wrapRect.Empty() {
		return []image.Rectangle{rc}
	}

	xs := wrapAxis(rc.Min.X, rc.Dx(), wrapRect.Min.X, wrapRect.Dx())
	ys := wrapAxis(rc.Min.Y, rc.Dy(), wrapRect.Min.Y, wrapRect.Dy())

	out := make([]image.Rectangle, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			out = append(out, image.Rect(x.start, y.start, x.end, y.end))
		}
	}
	return out
}

// wrapAxis folds the interval [start, start+length) onto [lo, lo+size).
func wrapAxis(start, length, lo, size int) []span {
	if length >= size {
		return []span{{lo, lo + size}}
	}
	s := WrapCoord(start, lo, size)
	if s+length <= lo+size {
		return []span{{s, s + length}}
	}
	return []span{
		{s, lo + size},
		{lo, s + length - size},
	}
}
