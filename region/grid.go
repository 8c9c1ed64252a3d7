package region

import (
	"image"
	"maps"
	"slices"
)

// DefaultCellSize is the default TileMergeGrid cell size in pixels.
// It matches the tile size of paint devices.
const DefaultCellSize = 64

// TileMergeGrid records which grid cells of a device have already been
// synchronized. AddRect reports only the cells a request adds, so repeated
// or overlapping requests never trigger duplicate copy work.
//
// Coverage is stored in a persistent structure: Snapshot and Restore are
// reference swaps, and rows are copied only when a mutation touches a row
// that is shared with a published snapshot.
//
// Thread safety: TileMergeGrid is NOT thread-safe.
type TileMergeGrid struct {
	cellSize int
	state    *gridState
}

// gridState is one version of the grid coverage.
type gridState struct {
	rows map[int]*gridRow
}

// gridRow holds the covered cell columns of one cell row.
// A row may be mutated in place only by the state that owns it.
type gridRow struct {
	owner *gridState
	spans []span
}

// GridSnapshot is an immutable view of a TileMergeGrid's coverage.
// The zero value is an empty coverage.
type GridSnapshot struct {
	state    *gridState
	cellSize int
}

// NewTileMergeGrid creates an empty grid with the given cell size.
// A non-positive cell size selects DefaultCellSize.
func NewTileMergeGrid(cellSize int) *TileMergeGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &TileMergeGrid{
		cellSize: cellSize,
		state:    &gridState{rows: make(map[int]*gridRow)},
	}
}

// CellSize returns the grid cell size in pixels.
func (g *TileMergeGrid) CellSize() int {
	return g.cellSize
}

// AddRect extends the coverage by rc and returns the grid-aligned rectangles
// that were not covered before the call. The returned rectangles are
// disjoint, aligned to the cell size and may extend beyond rc.
func (g *TileMergeGrid) AddRect(rc image.Rectangle) []image.Rectangle {
	if rc.Empty() {
		return nil
	}
	cs := g.cellSize
	a := AlignToGrid(rc, cs)
	want := span{a.Min.X / cs, a.Max.X / cs}

	var added []image.Rectangle
	for cy := a.Min.Y / cs; cy < a.Max.Y/cs; cy++ {
		var covered []span
		if row := g.state.rows[cy]; row != nil {
			covered = row.spans
		}
		missing := missingSpans(covered, want)
		if len(missing) == 0 {
			continue
		}
		for _, s := range missing {
			added = append(added, image.Rect(s.start*cs, cy*cs, s.end*cs, (cy+1)*cs))
		}
		row := g.writableRow(cy)
		row.spans = unionSpan(row.spans, want)
	}
	return MergeSparseRects(added)
}

// AddRects calls AddRect for every rectangle and concatenates the results.
func (g *TileMergeGrid) AddRects(rects []image.Rectangle) []image.Rectangle {
	var added []image.Rectangle
	for _, rc := range rects {
		added = append(added, g.AddRect(rc)...)
	}
	return added
}

// Contains reports whether every cell touched by rc is covered.
func (g *TileMergeGrid) Contains(rc image.Rectangle) bool {
	if rc.Empty() {
		return true
	}
	cs := g.cellSize
	a := AlignToGrid(rc, cs)
	want := span{a.Min.X / cs, a.Max.X / cs}
	for cy := a.Min.Y / cs; cy < a.Max.Y/cs; cy++ {
		row := g.state.rows[cy]
		if row == nil || !coversSpan(row.spans, want) {
			return false
		}
	}
	return true
}

// CoveredRects returns the covered area as disjoint grid-aligned rectangles.
func (g *TileMergeGrid) CoveredRects() []image.Rectangle {
	return g.Snapshot().Rects()
}

// IsEmpty reports whether nothing is covered.
func (g *TileMergeGrid) IsEmpty() bool {
	return len(g.state.rows) == 0
}

// Clear drops all coverage. Published snapshots are unaffected.
func (g *TileMergeGrid) Clear() {
	g.state = &gridState{rows: make(map[int]*gridRow)}
}

// Snapshot publishes the current coverage. Later mutations of the grid do
// not affect the returned snapshot.
func (g *TileMergeGrid) Snapshot() GridSnapshot {
	published := g.state
	g.state = published.fork()
	return GridSnapshot{state: published, cellSize: g.cellSize}
}

// Restore replaces the grid coverage with s. A snapshot taken from a grid
// with a different cell size is ignored.
func (g *TileMergeGrid) Restore(s GridSnapshot) {
	if s.state == nil {
		g.Clear()
		return
	}
	if s.cellSize != g.cellSize {
		return
	}
	g.state = s.state.fork()
}

// writableRow returns row cy, copying it first if it is shared.
func (g *TileMergeGrid) writableRow(cy int) *gridRow {
	row := g.state.rows[cy]
	if row == nil {
		row = &gridRow{owner: g.state}
		g.state.rows[cy] = row
		return row
	}
	if row.owner != g.state {
		row = &gridRow{owner: g.state, spans: slices.Clone(row.spans)}
		g.state.rows[cy] = row
	}
	return row
}

// fork returns a new state sharing all rows with s.
func (s *gridState) fork() *gridState {
	return &gridState{rows: maps.Clone(s.rows)}
}

// Rects returns the snapshot's coverage as disjoint grid-aligned rectangles.
func (s GridSnapshot) Rects() []image.Rectangle {
	if s.state == nil {
		return nil
	}
	cs := s.cellSize
	out := make([]image.Rectangle, 0, len(s.state.rows))
	for cy, row := range s.state.rows {
		for _, sp := range row.spans {
			out = append(out, image.Rect(sp.start*cs, cy*cs, sp.end*cs, (cy+1)*cs))
		}
	}
	return MergeSparseRects(out)
}

// IsEmpty reports whether the snapshot covers nothing.
func (s GridSnapshot) IsEmpty() bool {
	return s.state == nil || len(s.state.rows) == 0
}
