package device

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/undo"
)

var (
	red   = []byte{255, 0, 0, 255}
	green = []byte{0, 255, 0, 255}
	blue  = []byte{0, 0, 255, 255}
)

func pixel16(r, g, b, a uint16) []byte {
	p := make([]byte, 8)
	binary.LittleEndian.PutUint16(p[0:], r)
	binary.LittleEndian.PutUint16(p[2:], g)
	binary.LittleEndian.PutUint16(p[4:], b)
	binary.LittleEndian.PutUint16(p[6:], a)
	return p
}

// =============================================================================
// PaintDevice
// =============================================================================

func TestPaintDevice_DefaultPixel(t *testing.T) {
	d := New(colorspace.RGBA8(), WithDefaultPixel(blue))

	if got := d.Pixel(-1000, 5000); !cmp.Equal(got, blue) {
		t.Errorf("Pixel on empty device = %v, want %v", got, blue)
	}
	if d.TileCount() != 0 {
		t.Errorf("reading allocated %d tiles", d.TileCount())
	}
	if !d.Extent().Empty() {
		t.Errorf("Extent() = %v, want empty", d.Extent())
	}

	d.SetDefaultPixel([]byte{1, 2}) // wrong size, ignored
	if got := d.DefaultPixel(); !cmp.Equal(got, blue) {
		t.Errorf("DefaultPixel() = %v after bad set, want %v", got, blue)
	}
}

func TestPaintDevice_FillAndExtent(t *testing.T) {
	d := New(colorspace.RGBA8())
	d.Fill(image.Rect(10, 10, 70, 20), red)

	tests := []struct {
		x, y int
		want []byte
	}{
		{10, 10, red},
		{69, 19, red},
		{9, 10, []byte{0, 0, 0, 0}},
		{70, 10, []byte{0, 0, 0, 0}},
		{40, 20, []byte{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		if got := d.Pixel(tt.x, tt.y); !cmp.Equal(got, tt.want) {
			t.Errorf("Pixel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if want := image.Rect(0, 0, 128, 64); d.Extent() != want {
		t.Errorf("Extent() = %v, want %v", d.Extent(), want)
	}

	d.MoveTo(image.Pt(5, -3))
	if got := d.Pixel(15, 7); !cmp.Equal(got, red) {
		t.Errorf("Pixel after MoveTo = %v, want %v", got, red)
	}
	if want := image.Rect(5, -3, 133, 61); d.Extent() != want {
		t.Errorf("Extent() after MoveTo = %v, want %v", d.Extent(), want)
	}

	d.Clear()
	if d.TileCount() != 0 {
		t.Errorf("TileCount() after Clear = %d", d.TileCount())
	}
}

func TestPaintDevice_ReadWriteBytes(t *testing.T) {
	d := New(colorspace.Alpha8())
	rect := image.Rect(60, 60, 70, 66)
	data := make([]byte, rect.Dx()*rect.Dy())
	for i := range data {
		data[i] = byte(i)
	}
	d.WriteBytes(rect, data)
	if got := d.ReadBytes(rect); !cmp.Equal(got, data) {
		t.Errorf("ReadBytes mismatch (-want +got):\n%s", cmp.Diff(data, got))
	}
	if d.TileCount() != 4 {
		t.Errorf("TileCount() = %d, want 4", d.TileCount())
	}

	d.WriteBytes(rect, data[:3]) // wrong length, ignored
	if got := d.Pixel(60, 60); got[0] != 0 {
		t.Errorf("short WriteBytes modified the device")
	}
}

func TestPaintDevice_Clone(t *testing.T) {
	d := New(colorspace.RGBA8(), WithOffset(image.Pt(3, 4)))
	d.Fill(image.Rect(0, 0, 5, 5), green)
	c := d.Clone()
	d.Fill(image.Rect(0, 0, 5, 5), red)

	if got := c.Pixel(1, 1); !cmp.Equal(got, green) {
		t.Errorf("clone shares storage: Pixel = %v", got)
	}
	if c.Offset() != image.Pt(3, 4) {
		t.Errorf("clone Offset() = %v", c.Offset())
	}
}

func TestPaintDevice_CreateCompositionSourceDevice(t *testing.T) {
	bounds := NewDefaultBounds(image.Rect(0, 0, 50, 50), true)
	d := New(colorspace.RGBA8(),
		WithDefaultPixel(red),
		WithDefaultBounds(bounds),
		WithOffset(image.Pt(7, 7)),
		WithCompositionColorSpace(colorspace.RGBA16()),
	)
	c := d.CreateCompositionSourceDevice()

	if !colorspace.Equal(c.ColorSpace(), colorspace.RGBA16()) {
		t.Errorf("ColorSpace() = %v, want RGBA16", c.ColorSpace())
	}
	if want := pixel16(0xffff, 0, 0, 0xffff); !cmp.Equal(c.DefaultPixel(), want) {
		t.Errorf("DefaultPixel() = %v, want %v", c.DefaultPixel(), want)
	}
	if c.DefaultBounds() != bounds || c.Offset() != image.Pt(7, 7) {
		t.Errorf("bounds or offset not inherited")
	}
}

// =============================================================================
// Accessors
// =============================================================================

func TestRandomAccessor_WrapAround(t *testing.T) {
	d := New(colorspace.RGBA8(),
		WithDefaultBounds(NewDefaultBounds(image.Rect(0, 0, 100, 100), true)))
	d.SetPixel(5, 5, red)

	for _, pt := range []image.Point{{5, 5}, {105, 5}, {-95, 5}, {5, 205}, {-195, -95}} {
		if got := d.Pixel(pt.X, pt.Y); !cmp.Equal(got, red) {
			t.Errorf("Pixel(%v) = %v, want red", pt, got)
		}
	}

	acc := d.NewRandomConstAccessor()
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"columns at tile start", acc.NumContiguousColumns(0), 64},
		{"columns mid tile", acc.NumContiguousColumns(60), 4},
		{"columns near wrap edge", acc.NumContiguousColumns(96), 4},
		{"columns wrapped", acc.NumContiguousColumns(100), 64},
		{"rows near wrap edge", acc.NumContiguousRows(-2), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestRandomAccessor_ConstNeverAllocates(t *testing.T) {
	d := New(colorspace.RGBA8())
	acc := d.NewRandomConstAccessor()
	acc.MoveTo(500, 500)
	if acc.RawData() != nil {
		t.Error("RawData() on const accessor returned memory")
	}
	if d.TileCount() != 0 {
		t.Errorf("const accessor allocated %d tiles", d.TileCount())
	}
}

// =============================================================================
// Walker
// =============================================================================

func TestProcessTwoDevicesStrided_BlocksCoverRect(t *testing.T) {
	src := New(colorspace.RGBA8())
	dst := New(colorspace.RGBA16(), WithOffset(image.Pt(10, 5)))
	rc := image.Rect(-20, 30, 150, 140)

	area := 0
	ProcessTwoDevicesStrided(rc, src.NewRandomConstAccessor(), dst.NewRandomAccessor(),
		func(_ []byte, ss int, _ []byte, ds int, rows, cols int) {
			if rows <= 0 || cols <= 0 || rows > TileSize || cols > TileSize {
				t.Errorf("bad block %dx%d", cols, rows)
			}
			if ss != TileSize*4 || ds != TileSize*8 {
				t.Errorf("strides = %d, %d", ss, ds)
			}
			area += rows * cols
		})
	if want := rc.Dx() * rc.Dy(); area != want {
		t.Errorf("blocks cover %d pixels, want %d", area, want)
	}
}

func TestProcessTwoDevices_PerPixel(t *testing.T) {
	src := New(colorspace.RGBA8())
	src.Fill(image.Rect(0, 0, 100, 100), red)
	src.Fill(image.Rect(50, 50, 100, 100), green)
	dst := New(colorspace.RGBA16(), WithOffset(image.Pt(-33, 17)))

	rc := image.Rect(40, 40, 90, 90)
	calls := 0
	ProcessTwoDevices(rc, src.NewRandomConstAccessor(), dst.NewRandomAccessor(), 4, 8,
		func(s, d []byte) {
			calls++
			colorspace.PromoteU8ToU16(s, d, 4, 1)
		})

	if want := rc.Dx() * rc.Dy(); calls != want {
		t.Errorf("calls = %d, want %d", calls, want)
	}
	if got, want := dst.Pixel(45, 45), pixel16(0xffff, 0, 0, 0xffff); !cmp.Equal(got, want) {
		t.Errorf("Pixel(45,45) = %v, want %v", got, want)
	}
	if got, want := dst.Pixel(89, 89), pixel16(0, 0xffff, 0, 0xffff); !cmp.Equal(got, want) {
		t.Errorf("Pixel(89,89) = %v, want %v", got, want)
	}
	if got := dst.Pixel(39, 39); !cmp.Equal(got, make([]byte, 8)) {
		t.Errorf("pixel outside rect written: %v", got)
	}
}

func TestProcessTwoDevices_EmptyAndNil(t *testing.T) {
	d := New(colorspace.RGBA8())
	called := false
	fn := func(_, _ []byte) { called = true }

	ProcessTwoDevices(image.Rectangle{}, d.NewRandomConstAccessor(), d.NewRandomAccessor(), 4, 4, fn)
	ProcessTwoDevices(image.Rect(0, 0, 4, 4), nil, d.NewRandomAccessor(), 4, 4, fn)
	if called {
		t.Error("walker invoked the transform")
	}
	if d.TileCount() != 0 {
		t.Errorf("walker allocated %d tiles", d.TileCount())
	}
}

// =============================================================================
// CopyAreaOptimized
// =============================================================================

func TestCopyAreaOptimized(t *testing.T) {
	src := New(colorspace.RGBA8())
	src.Fill(image.Rect(0, 0, 10, 10), red)

	t.Run("same color space", func(t *testing.T) {
		dst := New(colorspace.RGBA8())
		CopyAreaOptimized(image.Pt(100, 100), src, dst, image.Rect(0, 0, 10, 10))
		if got := dst.Pixel(105, 105); !cmp.Equal(got, red) {
			t.Errorf("Pixel = %v, want red", got)
		}
		if got := dst.Pixel(110, 105); !cmp.Equal(got, make([]byte, 4)) {
			t.Errorf("copy spilled outside target: %v", got)
		}
	})

	t.Run("converts", func(t *testing.T) {
		dst := New(colorspace.RGBA16())
		CopyAreaOptimized(image.Pt(0, 0), src, dst, image.Rect(0, 0, 10, 10))
		if got, want := dst.Pixel(9, 9), pixel16(0xffff, 0, 0, 0xffff); !cmp.Equal(got, want) {
			t.Errorf("Pixel = %v, want %v", got, want)
		}
	})

	t.Run("nil device", func(t *testing.T) {
		CopyAreaOptimized(image.Pt(0, 0), nil, src, image.Rect(0, 0, 10, 10))
	})
}

// =============================================================================
// Transactions
// =============================================================================

func TestTransaction_UndoRedo(t *testing.T) {
	d := New(colorspace.RGBA8())
	d.Fill(image.Rect(0, 0, 10, 10), red)

	d.BeginTransaction()
	if !d.HasTransaction() {
		t.Fatal("HasTransaction() = false after BeginTransaction")
	}
	d.Fill(image.Rect(0, 0, 70, 10), green)
	cmd := d.EndTransaction()
	if cmd == nil {
		t.Fatal("EndTransaction() = nil")
	}

	cmd.Undo()
	if got := d.Pixel(0, 0); !cmp.Equal(got, red) {
		t.Errorf("after Undo Pixel(0,0) = %v, want red", got)
	}
	if d.TileCount() != 1 {
		t.Errorf("after Undo TileCount() = %d, want 1", d.TileCount())
	}

	cmd.Redo()
	if got := d.Pixel(65, 0); !cmp.Equal(got, green) {
		t.Errorf("after Redo Pixel(65,0) = %v, want green", got)
	}
	if d.TileCount() != 2 {
		t.Errorf("after Redo TileCount() = %d, want 2", d.TileCount())
	}
}

func TestTransaction_WithStack(t *testing.T) {
	d := New(colorspace.RGBA8())
	st := undo.NewStack(0)

	d.BeginTransaction()
	d.SetPixel(1, 1, blue)
	st.Push(undo.NewSkipFirstRedo(d.EndTransaction(), nil))

	if got := d.Pixel(1, 1); !cmp.Equal(got, blue) {
		t.Fatalf("push reapplied or reverted the change: %v", got)
	}
	st.Undo()
	if d.TileCount() != 0 {
		t.Errorf("Undo left %d tiles", d.TileCount())
	}
	st.Redo()
	if got := d.Pixel(1, 1); !cmp.Equal(got, blue) {
		t.Errorf("Redo Pixel = %v, want blue", got)
	}
}

func TestTransaction_Misuse(t *testing.T) {
	d := New(colorspace.RGBA8())
	if cmd := d.EndTransaction(); cmd != nil {
		t.Error("EndTransaction without transaction returned a command")
	}

	d.BeginTransaction()
	d.BeginTransaction() // ignored
	d.SetPixel(0, 0, red)
	d.DiscardTransaction()
	if d.HasTransaction() {
		t.Error("transaction still open after DiscardTransaction")
	}
	if got := d.Pixel(0, 0); !cmp.Equal(got, red) {
		t.Errorf("DiscardTransaction reverted changes: %v", got)
	}
}

// =============================================================================
// Image import/export
// =============================================================================

func TestImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(-2, 3, 5, 7))
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 20), B: 77, A: 255})
		}
	}

	t.Run("8-bit", func(t *testing.T) {
		d, err := FromImage(img, colorspace.RGBA8())
		if err != nil {
			t.Fatal(err)
		}
		out, ok := ToImage(d, img.Rect).(*image.NRGBA)
		if !ok {
			t.Fatalf("ToImage returned %T", out)
		}
		if diff := cmp.Diff(img.Pix, out.Pix); diff != "" {
			t.Errorf("pixels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("16-bit", func(t *testing.T) {
		d, err := FromImage(img, colorspace.RGBA16())
		if err != nil {
			t.Fatal(err)
		}
		out, ok := ToImage(d, img.Rect).(*image.NRGBA64)
		if !ok {
			t.Fatalf("ToImage returned %T", out)
		}
		got := out.NRGBA64At(1, 4)
		want := color.NRGBA64{R: 30 * 257, G: 80 * 257, B: 77 * 257, A: 0xffff}
		if got != want {
			t.Errorf("NRGBA64At(1,4) = %v, want %v", got, want)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if _, err := FromImage(nil, colorspace.RGBA8()); err != ErrNilImage {
			t.Errorf("err = %v, want ErrNilImage", err)
		}
	})
}
