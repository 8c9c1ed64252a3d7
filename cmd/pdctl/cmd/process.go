package cmd

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/gogpu/paintdev/device"
)

// gainPasses16 runs passes darken/brighten cycles by gain over the color
// channels of packed 16-bit RGBA data. Alpha is left alone.
func gainPasses16(data []byte, gain float64, passes int) {
	for i := 0; i+8 <= len(data); i += 8 {
		for c := range 3 {
			v := float64(binary.LittleEndian.Uint16(data[i+2*c:]))
			for range passes {
				v = math.Round(v / gain)
				v = min(math.Round(v*gain), math.MaxUint16)
			}
			binary.LittleEndian.PutUint16(data[i+2*c:], uint16(v))
		}
	}
}

// gainPasses8 is gainPasses16 for packed 8-bit RGBA data.
func gainPasses8(data []byte, gain float64, passes int) {
	for i := 0; i+4 <= len(data); i += 4 {
		for c := range 3 {
			v := float64(data[i+c])
			for range passes {
				v = math.Round(v / gain)
				v = min(math.Round(v*gain), math.MaxUint8)
			}
			data[i+c] = uint8(v)
		}
	}
}

// invertColors inverts the color channels of rect in an RGBA device of any
// integer depth. Alpha is left alone.
func invertColors(dev *device.PaintDevice, rect image.Rectangle) {
	data := dev.ReadBytes(rect)
	chSize := dev.ColorSpace().ChannelSize()
	ps := dev.PixelSize()
	for i := 0; i+ps <= len(data); i += ps {
		for b := range 3 * chSize {
			data[i+b] = ^data[i+b]
		}
	}
	dev.WriteBytes(rect, data)
}

// maxDelta returns the largest absolute difference between two byte slices
// of equal length.
func maxDelta(a, b []byte) int {
	d := 0
	for i := range min(len(a), len(b)) {
		d = max(d, absInt(int(a[i])-int(b[i])))
	}
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
