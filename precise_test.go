package paintdev

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/device"
	"github.com/gogpu/paintdev/region"
)

// =============================================================================
// Construction
// =============================================================================

func TestPreciseWrapper_Unwrapped(t *testing.T) {
	src := device.New(colorspace.RGBA16())
	src.Fill(image.Rect(0, 0, 10, 10), promote(red))
	w := NewPreciseWrapper(src)

	if w.PreciseDevice() != src || w.SourceDevice() != src {
		t.Fatal("precise source is wrapped")
	}
	if !colorspace.Equal(w.PreciseColorSpace(), colorspace.RGBA16()) {
		t.Errorf("PreciseColorSpace() = %v", w.PreciseColorSpace())
	}

	w.ReadRect(image.Rect(0, 0, 10, 10))
	if !w.CachedRegion().IsEmpty() {
		t.Error("unwrapped read recorded a cached region")
	}
	w.WriteRect(image.Rect(0, 0, 10, 10))
	if got := src.Pixel(5, 5); !cmp.Equal(got, promote(red)) {
		t.Errorf("unwrapped write changed the source: %v", got)
	}
}

func TestPreciseWrapper_Wrapped(t *testing.T) {
	bounds := device.NewDefaultBounds(image.Rect(0, 0, 300, 300), false)
	src := device.New(colorspace.RGBA8(),
		device.WithDefaultPixel(green),
		device.WithDefaultBounds(bounds),
		device.WithOffset(image.Pt(3, 5)))
	w := NewPreciseWrapper(src)

	prec := w.PreciseDevice()
	if prec == src {
		t.Fatal("8-bit source is not wrapped")
	}
	if !colorspace.Equal(prec.ColorSpace(), colorspace.RGBA16()) {
		t.Errorf("precise ColorSpace() = %v, want RGBA16", prec.ColorSpace())
	}
	if !cmp.Equal(prec.DefaultPixel(), promote(green)) {
		t.Errorf("precise DefaultPixel() = %v", prec.DefaultPixel())
	}
	if prec.DefaultBounds() != bounds || prec.Offset() != image.Pt(3, 5) {
		t.Error("precise device does not inherit bounds and offset")
	}
}

func TestPreciseWrapper_GenericChannels(t *testing.T) {
	graya8 := colorspace.MustLookup(colorspace.GRAYA, colorspace.U8, nil)
	src := device.New(graya8)
	src.Fill(image.Rect(0, 0, 8, 8), []byte{200, 100})
	w := NewPreciseWrapper(src)

	if w.PreciseColorSpace().ColorModelID() != colorspace.GRAYA ||
		w.PreciseColorSpace().ColorDepthID() != colorspace.U16 {
		t.Fatalf("PreciseColorSpace() = %v, want GRAYA/U16", w.PreciseColorSpace())
	}
	w.ReadRect(image.Rect(0, 0, 8, 8))
	if got, want := w.PreciseDevice().Pixel(3, 3), promote([]byte{200, 100}); !cmp.Equal(got, want) {
		t.Errorf("precise pixel = %v, want %v", got, want)
	}
}

func TestPreciseWrapper_NilDevice(t *testing.T) {
	w := NewPreciseWrapper(nil)
	w.ReadRect(image.Rect(0, 0, 10, 10))
	w.WriteRect(image.Rect(0, 0, 10, 10))
	if w.PreciseDevice() != nil || w.CreatePreciseCompositionSourceDevice() != nil {
		t.Error("nil wrapper produced devices")
	}
}

// =============================================================================
// Read / write
// =============================================================================

func TestPreciseWrapper_RoundTrip(t *testing.T) {
	rect := image.Rect(-30, 20, 90, 110)
	src := patternDevice(rect)
	orig := src.ReadBytes(rect)

	w := NewPreciseWrapper(src)
	w.ReadRect(rect)
	checkPromoted(t, src, w.PreciseDevice(), rect)

	w.WriteRect(rect)
	if diff := cmp.Diff(orig, src.ReadBytes(rect)); diff != "" {
		t.Errorf("round trip changed the source (-want +got):\n%s", diff)
	}
}

func TestPreciseWrapper_ReadIsCached(t *testing.T) {
	src := rgbDevice()
	w := NewPreciseWrapper(src)
	rc := image.Rect(10, 10, 25, 25)

	w.ReadRect(rc)
	src.Fill(rc, blue)
	w.ReadRect(rc)
	if got := w.PreciseDevice().Pixel(15, 15); !cmp.Equal(got, promote(red)) {
		t.Errorf("second read copied again: %v", got)
	}
	if !w.CachedRegion().ContainsRect(rc) {
		t.Errorf("CachedRegion() = %v does not contain %v", w.CachedRegion().Rects(), rc)
	}

	w.ResetCachedRegion()
	if !w.CachedRegion().IsEmpty() {
		t.Fatal("ResetCachedRegion left a region")
	}
	w.ReadRect(rc)
	if got := w.PreciseDevice().Pixel(15, 15); !cmp.Equal(got, promote(blue)) {
		t.Errorf("read after reset did not copy: %v", got)
	}
}

func TestPreciseWrapper_ReadCropsToExtent(t *testing.T) {
	src := device.New(colorspace.RGBA8())
	src.Fill(image.Rect(0, 0, 10, 10), red)
	w := NewPreciseWrapper(src)

	w.ReadRect(image.Rect(-100, -100, 500, 500))
	want := []image.Rectangle{image.Rect(0, 0, 64, 64)}
	if diff := cmp.Diff(want, w.CachedRegion().Rects()); diff != "" {
		t.Errorf("CachedRegion() mismatch (-want +got):\n%s", diff)
	}
	if w.PreciseDevice().TileCount() != 1 {
		t.Errorf("precise TileCount() = %d, want 1", w.PreciseDevice().TileCount())
	}
}

func TestPreciseWrapper_KeepRectsHistory(t *testing.T) {
	src := device.New(colorspace.RGBA8())
	src.Fill(image.Rect(0, 0, 1000, 64), red)
	w := NewPreciseWrapper(src, WithKeepRectsHistory(2))

	counts := []int{1, 2, 3, 1}
	for i, want := range counts {
		w.ReadRect(image.Rect(i*200, 0, i*200+10, 10))
		if got := w.CachedRegion().RectCount(); got != want {
			t.Errorf("after read %d RectCount() = %d, want %d", i, got, want)
		}
	}
}

func TestPreciseWrapper_ManyRectsApproximated(t *testing.T) {
	src := patternDevice(image.Rect(0, 0, 128, 128))
	w := NewPreciseWrapper(src, WithKeepRectsHistory(4))

	var rects []image.Rectangle
	for i := range 10 {
		rects = append(rects, image.Rect(i*12, i*12, i*12+5, i*12+5))
	}
	w.ReadRects(rects)

	for _, rc := range rects {
		if !w.CachedRegion().ContainsRect(rc) {
			t.Errorf("rect %v not cached", rc)
		}
		checkPromoted(t, src, w.PreciseDevice(), rc)
	}
}

func TestPreciseWrapper_WrapAround(t *testing.T) {
	border := image.Rect(0, 0, 100, 100)
	src := patternDevice(border, device.WithDefaultBounds(device.NewDefaultBounds(border, true)))
	w := NewPreciseWrapper(src)

	rc := image.Rect(90, 90, 115, 120)
	w.ReadRect(rc)
	checkPromoted(t, src, w.PreciseDevice(), rc)

	cached := w.CachedRegion()
	for _, piece := range region.SplitWrapped(rc, border) {
		if !cached.ContainsRect(piece) {
			t.Errorf("wrapped piece %v not cached", piece)
		}
	}
	if b := cached.BoundingRect(); !border.Union(b).Eq(border) {
		t.Errorf("cached region %v leaves the wrap border", b)
	}
}

func TestPreciseWrapper_WriteNotClipped(t *testing.T) {
	src := rgbDevice()
	w := NewPreciseWrapper(src)
	w.PreciseDevice().Fill(image.Rect(150, 150, 160, 160), promote(green))

	w.WriteRect(image.Rect(150, 150, 160, 160))
	if got := src.Pixel(155, 155); !cmp.Equal(got, green) {
		t.Errorf("write outside cached region not applied: %v", got)
	}
}

func TestPreciseWrapper_CreatePreciseCompositionSourceDevice(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		bounds := device.NewDefaultBounds(image.Rect(0, 0, 10, 10), true)
		src := device.New(colorspace.RGBA8(), device.WithDefaultBounds(bounds))
		d := NewPreciseWrapper(src).CreatePreciseCompositionSourceDevice()
		if !colorspace.Equal(d.ColorSpace(), colorspace.RGBA16()) {
			t.Errorf("ColorSpace() = %v, want RGBA16", d.ColorSpace())
		}
		if d.DefaultBounds() != bounds {
			t.Error("default bounds not inherited")
		}
	})

	t.Run("unwrapped delegates", func(t *testing.T) {
		graya16 := colorspace.MustLookup(colorspace.GRAYA, colorspace.U16, nil)
		src := device.New(colorspace.RGBA16(), device.WithCompositionColorSpace(graya16))
		d := NewPreciseWrapper(src).CreatePreciseCompositionSourceDevice()
		if !colorspace.Equal(d.ColorSpace(), graya16) {
			t.Errorf("ColorSpace() = %v, want %v", d.ColorSpace(), graya16)
		}
	})
}
