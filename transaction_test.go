package paintdev

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/paintdev/colorspace"
	"github.com/gogpu/paintdev/device"
	"github.com/gogpu/paintdev/undo"
)

// overlayState captures what a transaction must restore.
type overlayState struct {
	pixels [][]byte
	grid   []image.Rectangle
}

func captureState(w *OverlayWrapper, rect image.Rectangle) overlayState {
	var s overlayState
	for i := range w.NumOverlays() {
		s.pixels = append(s.pixels, w.Overlay(i).ReadBytes(rect))
	}
	s.grid = w.grid.CoveredRects()
	return s
}

func TestOverlayTransaction_Reversible(t *testing.T) {
	src := rgbDevice()
	w := NewOverlayWrapper(src, WithOverlays(2), WithMode(PreciseMode))
	area := image.Rect(0, 0, 256, 256)

	// Some state before the transaction.
	w.ReadRect(image.Rect(150, 150, 160, 160))
	w.BeginTransaction(nil)
	w.EndTransaction()
	beforeState := captureState(w, area)

	w.BeginTransaction(nil)
	w.ReadRects([]image.Rectangle{image.Rect(10, 10, 25, 25), image.Rect(70, 80, 90, 120)})
	w.Overlay(0).Fill(image.Rect(12, 12, 20, 20), promote(blue))
	w.Overlay(1).Fill(image.Rect(75, 85, 80, 90), promote(green))
	cmd := w.EndTransaction()
	if cmd == nil {
		t.Fatal("EndTransaction() = nil")
	}
	afterState := captureState(w, area)

	st := undo.NewStack(0)
	st.Push(cmd)
	if diff := cmp.Diff(afterState, captureState(w, area), cmp.AllowUnexported(overlayState{})); diff != "" {
		t.Fatalf("push changed the state (-want +got):\n%s", diff)
	}

	st.Undo()
	if diff := cmp.Diff(beforeState, captureState(w, area), cmp.AllowUnexported(overlayState{})); diff != "" {
		t.Errorf("undo mismatch (-want +got):\n%s", diff)
	}

	st.Redo()
	if diff := cmp.Diff(afterState, captureState(w, area), cmp.AllowUnexported(overlayState{})); diff != "" {
		t.Errorf("redo mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlayTransaction_UndoRereads(t *testing.T) {
	src := rgbDevice()
	w := NewOverlayWrapper(src, WithMode(PreciseMode))
	rc := image.Rect(10, 10, 25, 25)

	w.BeginTransaction(nil)
	w.ReadRect(rc)
	cmd := w.EndTransaction()
	cmd.Undo()

	// The read was undone, so a changed source is picked up again.
	src.Fill(rc, green)
	w.ReadRect(rc)
	if got := w.Overlay(0).Pixel(15, 15); !cmp.Equal(got, promote(green)) {
		t.Errorf("read after undo = %v, want green", got)
	}
}

func TestOverlayTransaction_Parent(t *testing.T) {
	w := NewOverlayWrapper(rgbDevice(), WithMode(PreciseMode))
	parent := undo.NewGroup("stroke", nil)

	w.BeginTransaction(parent)
	w.ReadRect(image.Rect(0, 0, 10, 10))
	root := w.EndTransaction()

	if parent.ChildCount() != 1 || parent.Child(0) != root {
		t.Errorf("transaction not attached to parent")
	}
	if root.ChildCount() != 1 {
		t.Fatalf("root ChildCount() = %d, want 1", root.ChildCount())
	}
	skip, ok := root.Child(0).(*undo.SkipFirstRedo)
	if !ok {
		t.Fatalf("root child is %T, want *undo.SkipFirstRedo", root.Child(0))
	}
	gc, ok := skip.Unwrap().(*gridChangeCommand)
	if !ok {
		t.Fatalf("wrapped command is %T", skip.Unwrap())
	}
	if len(gc.children) != 1 {
		t.Errorf("grid change has %d children, want 1 per overlay", len(gc.children))
	}
}

func TestOverlayTransaction_Misuse(t *testing.T) {
	w := NewOverlayWrapper(device.New(colorspace.RGBA8()), WithOverlays(2))

	if cmd := w.EndTransaction(); cmd != nil {
		t.Error("EndTransaction without transaction returned a command")
	}

	w.BeginTransaction(nil)
	w.BeginTransaction(nil) // discards the first one
	w.ReadRect(image.Rect(0, 0, 10, 10))
	if cmd := w.EndTransaction(); cmd == nil {
		t.Fatal("EndTransaction after double begin = nil")
	}
	for i := range w.NumOverlays() {
		if w.Overlay(i).HasTransaction() {
			t.Errorf("overlay %d transaction left open", i)
		}
	}
	if cmd := w.EndTransaction(); cmd != nil {
		t.Error("second EndTransaction returned a command")
	}
}

func TestOverlayTransaction_Elided(t *testing.T) {
	src := device.New(colorspace.RGBA16())
	w := NewOverlayWrapper(src, WithMode(LazyPreciseMode))

	w.BeginTransaction(nil)
	cmd := w.EndTransaction()
	if cmd == nil {
		t.Fatal("EndTransaction() = nil")
	}
	if src.HasTransaction() {
		t.Error("elided wrapper opened a transaction on the source")
	}
	cmd.Redo()
	cmd.Undo()
}
