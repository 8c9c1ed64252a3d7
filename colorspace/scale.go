package colorspace

import (
	"encoding/binary"
	"math"
)

// ScaleU8ToU16 widens an 8-bit channel value to the full 16-bit range.
// 0 maps to 0 and 255 maps to 65535.
func ScaleU8ToU16(v uint8) uint16 {
	return uint16(v)<<8 | uint16(v)
}

// ScaleU16ToU8 narrows a 16-bit channel value to 8 bits with rounding.
// It is the exact inverse of ScaleU8ToU16 for every 8-bit value.
func ScaleU16ToU8(v uint16) uint8 {
	return uint8((uint32(v)*255 + 32895) >> 16)
}

// ScaleF32ToU8 converts a normalized float to 8 bits, clamping to [0, 1].
func ScaleF32ToU8(v float32) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return math.MaxUint8
	}
	return uint8(v*math.MaxUint8 + 0.5)
}

// ScaleF32ToU16 converts a normalized float to 16 bits, clamping to [0, 1].
func ScaleF32ToU16(v float32) uint16 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return math.MaxUint16
	}
	return uint16(v*math.MaxUint16 + 0.5)
}

// readChannel decodes channel i of a pixel to [0, 1].
func readChannel(depth DepthID, pixel []byte, i int) float32 {
	switch depth {
	case U8:
		return float32(pixel[i]) / math.MaxUint8
	case U16:
		return float32(binary.LittleEndian.Uint16(pixel[2*i:])) / math.MaxUint16
	case F32:
		return math.Float32frombits(binary.LittleEndian.Uint32(pixel[4*i:]))
	}
	return 0
}

// writeChannel encodes v into channel i of a pixel.
func writeChannel(depth DepthID, pixel []byte, i int, v float32) {
	switch depth {
	case U8:
		pixel[i] = ScaleF32ToU8(v)
	case U16:
		binary.LittleEndian.PutUint16(pixel[2*i:], ScaleF32ToU16(v))
	case F32:
		binary.LittleEndian.PutUint32(pixel[4*i:], math.Float32bits(v))
	}
}

// PromoteU8ToU16 widens every 8-bit channel of src into the 16-bit channels
// of dst. channels is the number of channels per pixel; n the pixel count.
func PromoteU8ToU16(src, dst []byte, channels, n int) {
	total := channels * n
	for i := range total {
		binary.LittleEndian.PutUint16(dst[2*i:], ScaleU8ToU16(src[i]))
	}
}

// NarrowU16ToU8 narrows every 16-bit channel of src into the 8-bit channels
// of dst. channels is the number of channels per pixel; n the pixel count.
func NarrowU16ToU8(src, dst []byte, channels, n int) {
	total := channels * n
	for i := range total {
		dst[i] = ScaleU16ToU8(binary.LittleEndian.Uint16(src[2*i:]))
	}
}
