package device

import (
	"image"
	"log/slog"

	"github.com/gogpu/paintdev/colorspace"
)

// CopyAreaOptimized copies srcRect of src into dst with its top-left corner
// at dstPt. Rows are copied block by block straight between tile memory.
// When the devices use different color spaces every block is converted
// to dst's color space on the way.
func CopyAreaOptimized(dstPt image.Point, src, dst *PaintDevice, srcRect image.Rectangle) {
	if src == nil || dst == nil {
		slogger().Warn("device: CopyAreaOptimized with nil device", slog.Any("rect", srcRect))
		return
	}
	if srcRect.Empty() {
		return
	}

	srcAcc := src.NewRandomConstAccessor()
	dstAcc := dst.NewRandomAccessor()
	srcCS, dstCS := src.ColorSpace(), dst.ColorSpace()

	if colorspace.Equal(srcCS, dstCS) {
		ps := src.PixelSize()
		processTwoDevicesAt(srcRect, dstPt, srcAcc, dstAcc,
			func(s []byte, ss int, d []byte, ds int, rows, cols int) {
				n := cols * ps
				for r := range rows {
					copy(d[r*ds:r*ds+n], s[r*ss:r*ss+n])
				}
			})
		return
	}

	processTwoDevicesAt(srcRect, dstPt, srcAcc, dstAcc,
		func(s []byte, ss int, d []byte, ds int, rows, cols int) {
			for r := range rows {
				colorspace.Convert(s[r*ss:], srcCS, d[r*ds:], dstCS, cols)
			}
		})
}
