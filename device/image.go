package device

import (
	"encoding/binary"
	"errors"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/paintdev/colorspace"
)

// ErrNilImage is returned by FromImage when the image is nil.
var ErrNilImage = errors.New("device: nil image")

// FromImage creates a device in color space cs holding the pixels of img.
// The image is normalized to 16-bit non-premultiplied RGBA first, so any
// image.Image is accepted. Device coordinates equal image coordinates.
func FromImage(img image.Image, cs colorspace.ColorSpace, opts ...Option) (*PaintDevice, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	d := New(cs, opts...)
	b := img.Bounds()
	if b.Empty() {
		return d, nil
	}

	src := image.NewNRGBA64(b)
	xdraw.Copy(src, b.Min, img, b, xdraw.Src, nil)

	rgba16 := colorspace.RGBA16()
	w := b.Dx()
	row := make([]byte, w*rgba16.PixelSize())
	out := make([]byte, w*b.Dy()*d.PixelSize())
	outStride := w * d.PixelSize()
	for y := range b.Dy() {
		pix := src.Pix[y*src.Stride : y*src.Stride+w*8]
		for i := 0; i < len(pix); i += 2 {
			binary.LittleEndian.PutUint16(row[i:], binary.BigEndian.Uint16(pix[i:]))
		}
		colorspace.Convert(row, rgba16, out[y*outStride:], d.ColorSpace(), w)
	}
	d.WriteBytes(b, out)
	return d, nil
}

// ToImage exports rect of d. 8-bit RGBA devices produce an *image.NRGBA
// sharing no memory with the device; every other color space produces an
// *image.NRGBA64.
func ToImage(d *PaintDevice, rect image.Rectangle) image.Image {
	cs := d.ColorSpace()
	if cs.ColorModelID() == colorspace.RGBA && cs.ColorDepthID() == colorspace.U8 {
		img := image.NewNRGBA(rect)
		if !rect.Empty() {
			copy(img.Pix, d.ReadBytes(rect))
		}
		return img
	}

	img := image.NewNRGBA64(rect)
	if rect.Empty() {
		return img
	}
	rgba16 := colorspace.RGBA16()
	raw := d.ReadBytes(rect)
	w := rect.Dx()
	row := make([]byte, w*rgba16.PixelSize())
	inStride := w * d.PixelSize()
	for y := range rect.Dy() {
		colorspace.Convert(raw[y*inStride:], cs, row, rgba16, w)
		pix := img.Pix[y*img.Stride : y*img.Stride+w*8]
		for i := 0; i < len(pix); i += 2 {
			binary.BigEndian.PutUint16(pix[i:], binary.LittleEndian.Uint16(row[i:]))
		}
	}
	return img
}
