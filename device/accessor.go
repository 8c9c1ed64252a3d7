package device

import (
	"image"

	"github.com/gogpu/paintdev/region"
)

// ConstAccessor reads pixels of a device at arbitrary positions.
type ConstAccessor interface {
	// MoveTo positions the accessor at image coordinates (x, y).
	MoveTo(x, y int)

	// RawDataConst returns the device memory starting at the current pixel.
	// The slice extends at least to the end of the current contiguous
	// block; it must not be written.
	RawDataConst() []byte

	// NumContiguousColumns returns how many pixels starting at column x
	// are stored contiguously within one row.
	NumContiguousColumns(x int) int

	// NumContiguousRows returns how many rows starting at row y share one
	// contiguous block.
	NumContiguousRows(y int) int

	// RowStride returns the byte distance between vertically adjacent
	// pixels of the block containing (x, y).
	RowStride(x, y int) int
}

// Accessor reads and writes pixels of a device at arbitrary positions.
type Accessor interface {
	ConstAccessor

	// RawData returns writable device memory starting at the current pixel.
	RawData() []byte
}

// RandomAccessor is the device's Accessor implementation. Accessors capture
// the device offset and wrap rectangle when created; create a new accessor
// after changing either.
//
// Thread safety: an accessor must be used by one goroutine at a time.
type RandomAccessor struct {
	dev       *PaintDevice
	writable  bool
	offset    image.Point
	wrapRect  image.Rectangle // empty unless wrap-around mode is active
	pixelSize int
	data      []byte
}

// NewRandomAccessor returns a writable accessor. Moving it onto unallocated
// storage allocates the tile.
func (d *PaintDevice) NewRandomAccessor() *RandomAccessor {
	return d.newAccessor(true)
}

// NewRandomConstAccessor returns a read-only accessor. It never allocates
// storage.
func (d *PaintDevice) NewRandomConstAccessor() *RandomAccessor {
	return d.newAccessor(false)
}

func (d *PaintDevice) newAccessor(writable bool) *RandomAccessor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &RandomAccessor{
		dev:       d,
		writable:  writable,
		offset:    d.offset,
		wrapRect:  wrapRectOf(d.bounds),
		pixelSize: d.pixelSize,
	}
}

// MoveTo positions the accessor at image coordinates (x, y).
func (a *RandomAccessor) MoveTo(x, y int) {
	x = a.wrapX(x)
	y = a.wrapY(y)
	lx, ly := x-a.offset.X, y-a.offset.Y
	key := tileKey{x: floorDiv(lx, TileSize), y: floorDiv(ly, TileSize)}

	var t *tile
	if a.writable {
		t = a.dev.tileForWrite(key)
	} else {
		t = a.dev.tileForRead(key)
	}
	px, py := lx-key.x*TileSize, ly-key.y*TileSize
	a.data = t.data[(py*TileSize+px)*a.pixelSize:]
}

// RawDataConst returns device memory starting at the current pixel.
func (a *RandomAccessor) RawDataConst() []byte {
	return a.data
}

// RawData returns writable device memory starting at the current pixel.
// Calling it on a read-only accessor is a programming error; it is logged
// and nil is returned.
func (a *RandomAccessor) RawData() []byte {
	if !a.writable {
		slogger().Warn("device: RawData called on a const accessor")
		return nil
	}
	return a.data
}

// NumContiguousColumns returns how many pixels starting at column x are
// stored contiguously. The count stops at tile and wrap borders.
func (a *RandomAccessor) NumContiguousColumns(x int) int {
	x = a.wrapX(x)
	n := TileSize - floorMod(x-a.offset.X, TileSize)
	if !a.wrapRect.Empty() {
		n = min(n, a.wrapRect.Max.X-x)
	}
	return n
}

// NumContiguousRows returns how many rows starting at row y are stored in
// the same block. The count stops at tile and wrap borders.
func (a *RandomAccessor) NumContiguousRows(y int) int {
	y = a.wrapY(y)
	n := TileSize - floorMod(y-a.offset.Y, TileSize)
	if !a.wrapRect.Empty() {
		n = min(n, a.wrapRect.Max.Y-y)
	}
	return n
}

// RowStride returns the byte distance between rows of a tile.
func (a *RandomAccessor) RowStride(x, y int) int {
	return TileSize * a.pixelSize
}

func (a *RandomAccessor) wrapX(x int) int {
	if a.wrapRect.Empty() {
		return x
	}
	return region.WrapCoord(x, a.wrapRect.Min.X, a.wrapRect.Dx())
}

func (a *RandomAccessor) wrapY(y int) int {
	if a.wrapRect.Empty() {
		return y
	}
	return region.WrapCoord(y, a.wrapRect.Min.Y, a.wrapRect.Dy())
}

// floorDiv returns a/b rounded towards negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// floorMod returns a mod b in the range [0, b). b must be positive.
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
