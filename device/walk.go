package device

import (
	"image"
	"log/slog"
)

// PixelFunc transforms one source pixel into one destination pixel.
// src and dst are exactly one pixel long.
type PixelFunc func(src, dst []byte)

// BlockFunc transforms a rows×cols block. Strides are in bytes.
type BlockFunc func(src []byte, srcRowStride int, dst []byte, dstRowStride int, rows, cols int)

// ProcessTwoDevices applies fn to every pixel of rc, reading through src and
// writing through dst. rc is split into blocks that are contiguous in both
// devices, so neither device needs contiguous storage over rc.
// Pixel sizes are the byte sizes of one pixel in each device.
func ProcessTwoDevices(rc image.Rectangle, src ConstAccessor, dst Accessor, srcPixelSize, dstPixelSize int, fn PixelFunc) {
	ProcessTwoDevicesStrided(rc, src, dst, func(s []byte, ss int, d []byte, ds int, rows, cols int) {
		for r := range rows {
			sp := s[r*ss:]
			dp := d[r*ds:]
			for c := range cols {
				fn(sp[c*srcPixelSize:(c+1)*srcPixelSize], dp[c*dstPixelSize:(c+1)*dstPixelSize])
			}
		}
	})
}

// ProcessTwoDevicesStrided calls fn once per block of rc that is contiguous
// in both devices.
func ProcessTwoDevicesStrided(rc image.Rectangle, src ConstAccessor, dst Accessor, fn BlockFunc) {
	processTwoDevicesAt(rc, rc.Min, src, dst, fn)
}

// processTwoDevicesAt walks srcRect in the source and the same-sized
// rectangle at dstPt in the destination.
func processTwoDevicesAt(srcRect image.Rectangle, dstPt image.Point, src ConstAccessor, dst Accessor, fn BlockFunc) {
	if src == nil || dst == nil || fn == nil {
		slogger().Warn("device: process two devices with nil accessor or func",
			slog.Any("rect", srcRect))
		return
	}
	if srcRect.Empty() {
		return
	}
	shift := dstPt.Sub(srcRect.Min)

	for y := srcRect.Min.Y; y < srcRect.Max.Y; {
		dy := y + shift.Y
		rows := min(src.NumContiguousRows(y), dst.NumContiguousRows(dy), srcRect.Max.Y-y)

		for x := srcRect.Min.X; x < srcRect.Max.X; {
			dx := x + shift.X
			cols := min(src.NumContiguousColumns(x), dst.NumContiguousColumns(dx), srcRect.Max.X-x)

			src.MoveTo(x, y)
			dst.MoveTo(dx, dy)
			fn(src.RawDataConst(), src.RowStride(x, y), dst.RawData(), dst.RowStride(dx, dy), rows, cols)

			x += cols
		}
		y += rows
	}
}

// forEachBlock calls fn for every block of rc that is contiguous for acc.
// fn receives the block's top-left corner and size; acc is positioned at
// the corner.
func forEachBlock(rc image.Rectangle, acc *RandomAccessor, fn func(x, y, rows, cols int)) {
	for y := rc.Min.Y; y < rc.Max.Y; {
		rows := min(acc.NumContiguousRows(y), rc.Max.Y-y)
		for x := rc.Min.X; x < rc.Max.X; {
			cols := min(acc.NumContiguousColumns(x), rc.Max.X-x)
			acc.MoveTo(x, y)
			fn(x, y, rows, cols)
			x += cols
		}
		y += rows
	}
}
