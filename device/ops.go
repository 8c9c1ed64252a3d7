package device

import (
	"bytes"
	"image"
	"log/slog"
)

// Fill sets every pixel of rect to pixel. A pixel of the wrong size is
// logged and ignored.
func (d *PaintDevice) Fill(rect image.Rectangle, pixel []byte) {
	if len(pixel) != d.pixelSize {
		slogger().Warn("device: fill pixel size mismatch",
			slog.Int("got", len(pixel)), slog.Int("want", d.pixelSize))
		return
	}
	if rect.Empty() {
		return
	}
	acc := d.NewRandomAccessor()
	stride := acc.RowStride(0, 0)
	row := bytes.Repeat(pixel, min(rect.Dx(), TileSize))
	forEachBlock(rect, acc, func(_, _, rows, cols int) {
		data := acc.RawData()
		n := cols * d.pixelSize
		for r := range rows {
			copy(data[r*stride:r*stride+n], row)
		}
	})
}

// Pixel returns a copy of the pixel at image coordinates (x, y).
func (d *PaintDevice) Pixel(x, y int) []byte {
	acc := d.NewRandomConstAccessor()
	acc.MoveTo(x, y)
	return bytes.Clone(acc.RawDataConst()[:d.pixelSize])
}

// SetPixel writes one pixel. A pixel of the wrong size is logged and
// ignored.
func (d *PaintDevice) SetPixel(x, y int, pixel []byte) {
	if len(pixel) != d.pixelSize {
		slogger().Warn("device: pixel size mismatch",
			slog.Int("got", len(pixel)), slog.Int("want", d.pixelSize))
		return
	}
	acc := d.NewRandomAccessor()
	acc.MoveTo(x, y)
	copy(acc.RawData(), pixel)
}

// ReadBytes returns the pixels of rect packed row by row without padding.
func (d *PaintDevice) ReadBytes(rect image.Rectangle) []byte {
	if rect.Empty() {
		return nil
	}
	ps := d.pixelSize
	out := make([]byte, rect.Dx()*rect.Dy()*ps)
	outStride := rect.Dx() * ps
	acc := d.NewRandomConstAccessor()
	stride := acc.RowStride(0, 0)
	forEachBlock(rect, acc, func(x, y, rows, cols int) {
		src := acc.RawDataConst()
		base := (y-rect.Min.Y)*outStride + (x-rect.Min.X)*ps
		n := cols * ps
		for r := range rows {
			copy(out[base+r*outStride:base+r*outStride+n], src[r*stride:r*stride+n])
		}
	})
	return out
}

// WriteBytes stores data, packed as returned by ReadBytes, into rect.
// Data of the wrong length is logged and ignored.
func (d *PaintDevice) WriteBytes(rect image.Rectangle, data []byte) {
	if rect.Empty() {
		return
	}
	ps := d.pixelSize
	if want := rect.Dx() * rect.Dy() * ps; len(data) != want {
		slogger().Warn("device: WriteBytes length mismatch",
			slog.Int("got", len(data)), slog.Int("want", want))
		return
	}
	inStride := rect.Dx() * ps
	acc := d.NewRandomAccessor()
	stride := acc.RowStride(0, 0)
	forEachBlock(rect, acc, func(x, y, rows, cols int) {
		dst := acc.RawData()
		base := (y-rect.Min.Y)*inStride + (x-rect.Min.X)*ps
		n := cols * ps
		for r := range rows {
			copy(dst[r*stride:r*stride+n], data[base+r*inStride:base+r*inStride+n])
		}
	})
}
