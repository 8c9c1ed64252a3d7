// Package region provides rectangle algebra for tiled paint devices.
//
// All rectangles are [image.Rectangle] values in device (image) coordinates.
// The package offers:
//
//   - Region: a set of pairwise disjoint rectangles with union and subtraction
//   - MergeSparseRects / ApproximateOverlappingRects: rect list compaction
//   - MakeGridLikeRectsUnique: deduplication of grid-aligned rect lists
//   - SplitWrapped: splitting of requests in wrap-around (tileable) addressing
//   - TileMergeGrid: persistent coverage grid with cheap snapshot/restore
//
// Thread safety: none of the types in this package are safe for concurrent
// mutation.
package region

import "image"

// floorDiv returns a/b rounded towards negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// ceilDiv returns a/b rounded towards positive infinity. b must be positive.
func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// floorMod returns a mod b in the range [0, b). b must be positive.
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// AlignToGrid expands r so that all its edges lie on multiples of cell.
// An empty rectangle or a non-positive cell size returns r unchanged.
func AlignToGrid(r image.Rectangle, cell int) image.Rectangle {
	if r.Empty() || cell <= 0 {
		return r
	}
	return image.Rect(
		floorDiv(r.Min.X, cell)*cell,
		floorDiv(r.Min.Y, cell)*cell,
		ceilDiv(r.Max.X, cell)*cell,
		ceilDiv(r.Max.Y, cell)*cell,
	)
}

// Area returns the number of pixels covered by r.
func Area(r image.Rectangle) int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// subtractRect returns the parts of a not covered by b.
// The result holds at most four disjoint rectangles.
func subtractRect(a, b image.Rectangle) []image.Rectangle {
	in := a.Intersect(b)
	if in.Empty() {
		return []image.Rectangle{a}
	}
	if in == a {
		return nil
	}

	out := make([]image.Rectangle, 0, 4)
	// Full-width band above the intersection
	if in.Min.Y > a.Min.Y {
		out = append(out, image.Rect(a.Min.X, a.Min.Y, a.Max.X, in.Min.Y))
	}
	// Full-width band below
	if in.Max.Y < a.Max.Y {
		out = append(out, image.Rect(a.Min.X, in.Max.Y, a.Max.X, a.Max.Y))
	}
	// Left and right pieces in the intersection's rows
	if in.Min.X > a.Min.X {
		out = append(out, image.Rect(a.Min.X, in.Min.Y, in.Min.X, in.Max.Y))
	}
	if in.Max.X < a.Max.X {
		out = append(out, image.Rect(in.Max.X, in.Min.Y, a.Max.X, in.Max.Y))
	}
	return out
}

// BoundingRect returns the smallest rectangle containing all rects.
func BoundingRect(rects []image.Rectangle) image.Rectangle {
	var b image.Rectangle
	for _, r := range rects {
		b = b.Union(r)
	}
	return b
}
