package region

import (
	"cmp"
	"image"
	"slices"
)

// MergeSparseRects joins rectangles that share a complete edge until no
// further join is possible. The union of the input is preserved exactly,
// so disjoint input yields disjoint output. The input slice is not modified.
func MergeSparseRects(rects []image.Rectangle) []image.Rectangle {
	out := make([]image.Rectangle, 0, len(rects))
	for _, r := range rects {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	for {
		var changedH, changedV bool
		out, changedH = mergeRuns(out, byRowThenColumn, horizontallyAdjacent)
		out, changedV = mergeRuns(out, byColumnThenRow, verticallyAdjacent)
		if !changedH && !changedV {
			return out
		}
	}
}

func byRowThenColumn(a, b image.Rectangle) int {
	return cmp.Or(
		cmp.Compare(a.Min.Y, b.Min.Y),
		cmp.Compare(a.Max.Y, b.Max.Y),
		cmp.Compare(a.Min.X, b.Min.X),
	)
}

func byColumnThenRow(a, b image.Rectangle) int {
	return cmp.Or(
		cmp.Compare(a.Min.X, b.Min.X),
		cmp.Compare(a.Max.X, b.Max.X),
		cmp.Compare(a.Min.Y, b.Min.Y),
	)
}

func horizontallyAdjacent(a, b image.Rectangle) bool {
	return a.Min.Y == b.Min.Y && a.Max.Y == b.Max.Y && a.Max.X == b.Min.X
}

func verticallyAdjacent(a, b image.Rectangle) bool {
	return a.Min.X == b.Min.X && a.Max.X == b.Max.X && a.Max.Y == b.Min.Y
}

// mergeRuns sorts rects with order and joins consecutive pairs accepted by adjacent.
func mergeRuns(
	rects []image.Rectangle,
	order func(a, b image.Rectangle) int,
	adjacent func(a, b image.Rectangle) bool,
) ([]image.Rectangle, bool) {
	if len(rects) < 2 {
		return rects, false
	}
	slices.SortFunc(rects, order)

	changed := false
	out := rects[:1]
	for _, r := range rects[1:] {
		last := &out[len(out)-1]
		if adjacent(*last, r) {
			*last = last.Union(r)
			changed = true
			continue
		}
		out = append(out, r)
	}
	return out, changed
}

// ApproximateOverlappingRects returns a set of disjoint rectangles aligned to
// a grid of gridSize cells that covers every input rectangle. The result may
// cover more pixels than the input, never fewer.
func ApproximateOverlappingRects(rects []image.Rectangle, gridSize int) []image.Rectangle {
	if gridSize <= 0 {
		gridSize = 1
	}

	rows := make(map[int][]span)
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		a := AlignToGrid(r, gridSize)
		s := span{a.Min.X / gridSize, a.Max.X / gridSize}
		for cy := a.Min.Y / gridSize; cy < a.Max.Y/gridSize; cy++ {
			rows[cy] = unionSpan(rows[cy], s)
		}
	}

	out := make([]image.Rectangle, 0, len(rows))
	for cy, spans := range rows {
		for _, s := range spans {
			out = append(out, image.Rect(
				s.start*gridSize, cy*gridSize,
				s.end*gridSize, (cy+1)*gridSize,
			))
		}
	}
	return MergeSparseRects(out)
}

// MakeGridLikeRectsUnique removes duplicates from a list of grid-like
// rectangles, i.e. rectangles that are either identical or disjoint.
// The result is sorted in row-major order and reuses the input's storage.
func MakeGridLikeRectsUnique(rects []image.Rectangle) []image.Rectangle {
	slices.SortFunc(rects, byRowThenColumn)
	return slices.Compact(rects)
}
