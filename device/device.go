// Package device provides the tiled paint device used as pixel storage.
//
// A PaintDevice is an unbounded 2-D grid of pixels in one color space.
// Storage is divided into 64x64 pixel tiles that are allocated on first
// write; unallocated tiles read as the device's default pixel. Pixels are
// addressed in image coordinates, which differ from storage coordinates by
// the device offset.
//
// In wrap-around mode (see DefaultBounds) every coordinate is folded onto
// the image border rectangle before it reaches storage, so the device
// content repeats periodically in both directions.
//
// Thread safety: the tile table is guarded by a mutex, so accessors on
// different tiles may be used from different goroutines. Pixel data itself
// is not synchronized; callers must not write the same tile concurrently.
package device

import (
	"bytes"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/paintdev/colorspace"
)

// Tile geometry constants.
const (
	// TileSize is the width and height of a storage tile in pixels.
	TileSize = 64

	// TilePixels is the number of pixels in a tile.
	TilePixels = TileSize * TileSize
)

// tileKey addresses a tile by column and row in storage coordinates.
type tileKey struct {
	x, y int
}

// tile is one block of device storage.
type tile struct {
	key  tileKey
	data []byte // TilePixels * pixelSize bytes, row-major
}

// bounds returns the tile's storage-space rectangle.
func (t *tile) bounds() image.Rectangle {
	return image.Rect(t.key.x*TileSize, t.key.y*TileSize, (t.key.x+1)*TileSize, (t.key.y+1)*TileSize)
}

// PaintDevice is a tiled pixel store with a color space, a default pixel,
// default bounds and an offset.
type PaintDevice struct {
	mu sync.RWMutex

	cs            colorspace.ColorSpace
	compositionCS colorspace.ColorSpace
	pixelSize     int

	tiles        map[tileKey]*tile
	defaultPixel []byte
	defaultTile  *tile // shared read-only tile filled with defaultPixel

	bounds DefaultBounds
	offset image.Point

	tx *transaction
}

// Option configures a PaintDevice during creation.
type Option func(*options)

type options struct {
	bounds        DefaultBounds
	defaultPixel  []byte
	offset        image.Point
	compositionCS colorspace.ColorSpace
}

// WithDefaultBounds sets the device's default bounds policy.
func WithDefaultBounds(b DefaultBounds) Option {
	return func(o *options) {
		o.bounds = b
	}
}

// WithDefaultPixel sets the pixel returned for unallocated storage.
// The pixel must be encoded in the device's color space.
func WithDefaultPixel(pixel []byte) Option {
	return func(o *options) {
		o.defaultPixel = bytes.Clone(pixel)
	}
}

// WithOffset sets the offset of storage coordinates relative to image
// coordinates.
func WithOffset(pt image.Point) Option {
	return func(o *options) {
		o.offset = pt
	}
}

// WithCompositionColorSpace sets the color space that composition source
// devices created from this device use. By default it is the device's own
// color space.
func WithCompositionColorSpace(cs colorspace.ColorSpace) Option {
	return func(o *options) {
		o.compositionCS = cs
	}
}

// New creates an empty device in color space cs.
// A nil color space is a programming error; it is logged and replaced with
// 8-bit sRGB RGBA.
func New(cs colorspace.ColorSpace, opts ...Option) *PaintDevice {
	if cs == nil {
		slogger().Warn("device: nil color space, falling back to RGBA8")
		cs = colorspace.RGBA8()
	}
	o := options{bounds: NewDefaultBounds(image.Rectangle{}, false)}
	for _, opt := range opts {
		opt(&o)
	}

	d := &PaintDevice{
		cs:            cs,
		compositionCS: o.compositionCS,
		pixelSize:     cs.PixelSize(),
		tiles:         make(map[tileKey]*tile),
		bounds:        o.bounds,
		offset:        o.offset,
	}
	if d.bounds == nil {
		d.bounds = NewDefaultBounds(image.Rectangle{}, false)
	}
	d.setDefaultPixelLocked(o.defaultPixel)
	return d
}

// ColorSpace returns the device's color space.
func (d *PaintDevice) ColorSpace() colorspace.ColorSpace { return d.cs }

// CompositionSourceColorSpace returns the color space used by devices that
// serve as composition sources for this device.
func (d *PaintDevice) CompositionSourceColorSpace() colorspace.ColorSpace {
	if d.compositionCS != nil {
		return d.compositionCS
	}
	return d.cs
}

// PixelSize returns the byte size of one pixel.
func (d *PaintDevice) PixelSize() int { return d.pixelSize }

// DefaultBounds returns the default bounds policy.
func (d *PaintDevice) DefaultBounds() DefaultBounds {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.bounds
}

// SetDefaultBounds replaces the default bounds policy. A nil value resets it
// to empty bounds without wrap-around.
func (d *PaintDevice) SetDefaultBounds(b DefaultBounds) {
	if b == nil {
		b = NewDefaultBounds(image.Rectangle{}, false)
	}
	d.mu.Lock()
	d.bounds = b
	d.mu.Unlock()
}

// Offset returns the offset of storage relative to image coordinates.
func (d *PaintDevice) Offset() image.Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.offset
}

// MoveTo sets the device offset. Pixel content moves with it.
func (d *PaintDevice) MoveTo(pt image.Point) {
	d.mu.Lock()
	d.offset = pt
	d.mu.Unlock()
}

// DefaultPixel returns a copy of the default pixel.
func (d *PaintDevice) DefaultPixel() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return bytes.Clone(d.defaultPixel)
}

// SetDefaultPixel replaces the pixel returned for unallocated storage.
// A pixel of the wrong size is logged and ignored.
func (d *PaintDevice) SetDefaultPixel(pixel []byte) {
	if len(pixel) != d.pixelSize {
		slogger().Warn("device: default pixel size mismatch",
			slog.Int("got", len(pixel)), slog.Int("want", d.pixelSize))
		return
	}
	d.mu.Lock()
	d.setDefaultPixelLocked(pixel)
	d.mu.Unlock()
}

func (d *PaintDevice) setDefaultPixelLocked(pixel []byte) {
	if len(pixel) != d.pixelSize {
		pixel = make([]byte, d.pixelSize)
	}
	d.defaultPixel = bytes.Clone(pixel)
	d.defaultTile = &tile{data: filledTileData(d.defaultPixel)}
}

// Extent returns the image-space rectangle covered by allocated tiles.
// It is aligned to the tile grid shifted by the offset.
func (d *PaintDevice) Extent() image.Rectangle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var r image.Rectangle
	for _, t := range d.tiles {
		r = r.Union(t.bounds())
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r.Add(d.offset)
}

// TileCount returns the number of allocated tiles.
func (d *PaintDevice) TileCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.tiles)
}

// Clear drops all allocated tiles; the device reads as the default pixel
// everywhere afterwards.
func (d *PaintDevice) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tx != nil {
		for key, t := range d.tiles {
			d.tx.record(key, t)
		}
	}
	clear(d.tiles)
}

// Clone returns a deep copy of the device without any open transaction.
func (d *PaintDevice) Clone() *PaintDevice {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c := &PaintDevice{
		cs:            d.cs,
		compositionCS: d.compositionCS,
		pixelSize:     d.pixelSize,
		tiles:         make(map[tileKey]*tile, len(d.tiles)),
		bounds:        d.bounds,
		offset:        d.offset,
	}
	c.setDefaultPixelLocked(d.defaultPixel)
	for key, t := range d.tiles {
		c.tiles[key] = &tile{key: key, data: bytes.Clone(t.data)}
	}
	return c
}

// CreateCompositionSourceDevice returns an empty device in the composition
// source color space that inherits default bounds, offset and the default
// pixel converted to that color space.
func (d *PaintDevice) CreateCompositionSourceDevice() *PaintDevice {
	cs := d.CompositionSourceColorSpace()
	return New(cs,
		WithDefaultBounds(d.DefaultBounds()),
		WithOffset(d.Offset()),
		WithDefaultPixel(colorspace.ConvertPixel(d.DefaultPixel(), d.cs, cs)),
	)
}

// tileForRead returns the tile at key or the shared default tile.
func (d *PaintDevice) tileForRead(key tileKey) *tile {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.tiles[key]; ok {
		return t
	}
	return d.defaultTile
}

// tileForWrite returns the tile at key, allocating it if needed, and records
// it in the open transaction.
func (d *PaintDevice) tileForWrite(key tileKey) *tile {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tiles[key]
	if d.tx != nil {
		d.tx.record(key, t)
	}
	if !ok {
		t = &tile{key: key, data: filledTileData(d.defaultPixel)}
		d.tiles[key] = t
	}
	return t
}

// filledTileData returns tile storage filled with pixel.
func filledTileData(pixel []byte) []byte {
	data := make([]byte, TilePixels*len(pixel))
	if len(pixel) == 0 {
		return data
	}
	copy(data, pixel)
	for n := len(pixel); n < len(data); n *= 2 {
		copy(data[n:], data[:n])
	}
	return data
}
