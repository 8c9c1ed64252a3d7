package paintdev

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/device"
)

var (
	red   = []byte{255, 0, 0, 255}
	green = []byte{0, 255, 0, 255}
	blue  = []byte{0, 0, 255, 255}
)

// promote returns the 16-bit equivalent of an 8-bit pixel.
func promote(p []byte) []byte {
	out := make([]byte, 2*len(p))
	colorspace.PromoteU8ToU16(p, out, len(p), 1)
	return out
}

// rgbDevice returns the red/green/blue test layout on an 8-bit RGBA device.
func rgbDevice(opts ...device.Option) *device.PaintDevice {
	d := device.New(colorspace.RGBA8(), opts...)
	d.Fill(image.Rect(0, 0, 100, 100), red)
	d.Fill(image.Rect(100, 0, 200, 100), green)
	d.Fill(image.Rect(0, 100, 200, 200), blue)
	return d
}

// patternDevice returns an 8-bit RGBA device whose channels take every
// byte value across rect.
func patternDevice(rect image.Rectangle, opts ...device.Option) *device.PaintDevice {
	d := device.New(colorspace.RGBA8(), opts...)
	data := make([]byte, rect.Dx()*rect.Dy()*4)
	for i := range data {
		data[i] = byte(i*7 + i/251)
	}
	d.WriteBytes(rect, data)
	return d
}

// checkPromoted verifies that got holds the 16-bit equivalent of src over
// rect.
func checkPromoted(t *testing.T, src, got *device.PaintDevice, rect image.Rectangle) {
	t.Helper()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			want := promote(src.Pixel(x, y))
			if diff := cmp.Diff(want, got.Pixel(x, y)); diff != "" {
				t.Fatalf("pixel (%d, %d) mismatch (-want +got):\n%s", x, y, diff)
			}
		}
	}
}
