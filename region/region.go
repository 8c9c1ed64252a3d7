package region

import (
	"image"
	"slices"
)

// Region is a set of pixels stored as pairwise disjoint rectangles.
//
// The zero value is an empty region ready to use.
type Region struct {
	rects []image.Rectangle
}

// New returns a region covering the union of rects.
func New(rects ...image.Rectangle) Region {
	var r Region
	for _, rc := range rects {
		r.Add(rc)
	}
	return r
}

// Add extends the region by rc.
func (r *Region) Add(rc image.Rectangle) {
	if rc.Empty() {
		return
	}
	pieces := []image.Rectangle{rc}
	for _, existing := range r.rects {
		if !existing.Overlaps(rc) {
			continue
		}
		next := pieces[:0:0]
		for _, p := range pieces {
			next = append(next, subtractRect(p, existing)...)
		}
		pieces = next
		if len(pieces) == 0 {
			return
		}
	}
	r.rects = MergeSparseRects(slices.Concat(r.rects, pieces))
}

// AddRegion extends the region by every rectangle of other.
func (r *Region) AddRegion(other Region) {
	for _, rc := range other.rects {
		r.Add(rc)
	}
}

// Subtract removes rc from the region.
func (r *Region) Subtract(rc image.Rectangle) {
	if rc.Empty() || len(r.rects) == 0 {
		return
	}
	out := make([]image.Rectangle, 0, len(r.rects))
	changed := false
	for _, existing := range r.rects {
		if !existing.Overlaps(rc) {
			out = append(out, existing)
			continue
		}
		changed = true
		out = append(out, subtractRect(existing, rc)...)
	}
	if changed {
		r.rects = MergeSparseRects(out)
	}
}

// SubtractRegion removes every rectangle of other from the region.
func (r *Region) SubtractRegion(other Region) {
	for _, rc := range other.rects {
		r.Subtract(rc)
	}
}

// Intersect restricts the region to rc.
func (r *Region) Intersect(rc image.Rectangle) {
	out := make([]image.Rectangle, 0, len(r.rects))
	for _, existing := range r.rects {
		if in := existing.Intersect(rc); !in.Empty() {
			out = append(out, in)
		}
	}
	r.rects = out
}

// ContainsRect reports whether every pixel of rc belongs to the region.
func (r Region) ContainsRect(rc image.Rectangle) bool {
	if rc.Empty() {
		return true
	}
	rest := []image.Rectangle{rc}
	for _, existing := range r.rects {
		next := rest[:0:0]
		for _, p := range rest {
			next = append(next, subtractRect(p, existing)...)
		}
		rest = next
		if len(rest) == 0 {
			return true
		}
	}
	return false
}

// Rects returns a copy of the region's disjoint rectangles.
func (r Region) Rects() []image.Rectangle {
	return slices.Clone(r.rects)
}

// RectCount returns the number of rectangles the region is stored as.
func (r Region) RectCount() int {
	return len(r.rects)
}

// IsEmpty reports whether the region covers no pixels.
func (r Region) IsEmpty() bool {
	return len(r.rects) == 0
}

// BoundingRect returns the smallest rectangle containing the region.
func (r Region) BoundingRect() image.Rectangle {
	return BoundingRect(r.rects)
}

// Area returns the number of pixels in the region.
func (r Region) Area() int {
	n := 0
	for _, rc := range r.rects {
		n += Area(rc)
	}
	return n
}

// Clone returns an independent copy of the region.
func (r Region) Clone() Region {
	return Region{rects: slices.Clone(r.rects)}
}
