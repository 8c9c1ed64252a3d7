package colorspace

import "encoding/binary"

// rgbaChannels is the channel count handled by RGBAScaler.
const rgbaChannels = 4

// RGBAScaler converts blocks of RGBA pixels between 8 and 16 bits per
// channel. It works on strided rows so that it can run directly on tile
// memory without intermediate buffers.
type RGBAScaler struct{}

// NewFastScaler returns a scaler for converting between src and dst, or nil
// when no fast path exists. The fast path requires src to be 8-bit RGBA and
// dst the 16-bit RGBA space with an identical profile.
func NewFastScaler(src, dst ColorSpace) *RGBAScaler {
	if src == nil || dst == nil {
		return nil
	}
	if src.ColorModelID() != RGBA || src.ColorDepthID() != U8 {
		return nil
	}
	if dst.ColorModelID() != RGBA || dst.ColorDepthID() != U16 {
		return nil
	}
	if !src.Profile().Equal(dst.Profile()) {
		return nil
	}
	return &RGBAScaler{}
}

// ConvertU8ToU16 widens rows×cols pixels from src into dst. Strides are in
// bytes and may differ between the two buffers.
func (*RGBAScaler) ConvertU8ToU16(src []byte, srcRowStride int, dst []byte, dstRowStride int, rows, cols int) {
	for r := range rows {
		s := src[r*srcRowStride:]
		d := dst[r*dstRowStride:]
		for i := range cols * rgbaChannels {
			binary.LittleEndian.PutUint16(d[2*i:], ScaleU8ToU16(s[i]))
		}
	}
}

// ConvertU16ToU8 narrows rows×cols pixels from src into dst. Strides are in
// bytes and may differ between the two buffers.
func (*RGBAScaler) ConvertU16ToU8(src []byte, srcRowStride int, dst []byte, dstRowStride int, rows, cols int) {
	for r := range rows {
		s := src[r*srcRowStride:]
		d := dst[r*dstRowStride:]
		for i := range cols * rgbaChannels {
			d[i] = ScaleU16ToU8(binary.LittleEndian.Uint16(s[2*i:]))
		}
	}
}
