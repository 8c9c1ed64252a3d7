package colorspace

// maxChannels bounds the per-pixel scratch buffers used during conversion.
const maxChannels = 5

// Convert converts n pixels from src (in srcCS) into dst (in dstCS).
//
// Equal color spaces copy bytes. Spaces of the same model convert channel
// by channel, with exact integer paths for U8 <-> U16. Different models
// convert through normalized RGBA. Profiles only take part in identity;
// no color management transform is applied.
func Convert(src []byte, srcCS ColorSpace, dst []byte, dstCS ColorSpace, n int) {
	if n <= 0 {
		return
	}
	if Equal(srcCS, dstCS) {
		copy(dst[:n*dstCS.PixelSize()], src[:n*srcCS.PixelSize()])
		return
	}

	sm, dm := srcCS.ColorModelID(), dstCS.ColorModelID()
	sd, dd := srcCS.ColorDepthID(), dstCS.ColorDepthID()
	if sm == dm {
		switch {
		case sd == dd:
			copy(dst[:n*dstCS.PixelSize()], src[:n*srcCS.PixelSize()])
			return
		case sd == U8 && dd == U16:
			PromoteU8ToU16(src, dst, srcCS.ChannelCount(), n)
			return
		case sd == U16 && dd == U8:
			NarrowU16ToU8(src, dst, srcCS.ChannelCount(), n)
			return
		}
	}

	var sbuf, rgba, dbuf [maxChannels]float32
	sps, dps := srcCS.PixelSize(), dstCS.PixelSize()
	for i := range n {
		srcCS.Normalize(src[i*sps:], sbuf[:])
		if sm == dm {
			dstCS.Denormalize(sbuf[:], dst[i*dps:])
			continue
		}
		toRGBA(sm, sbuf[:], rgba[:4])
		fromRGBA(dm, rgba[:4], dbuf[:])
		dstCS.Denormalize(dbuf[:], dst[i*dps:])
	}
}

// ConvertPixel converts a single pixel and returns it as a new slice.
func ConvertPixel(pixel []byte, srcCS, dstCS ColorSpace) []byte {
	out := make([]byte, dstCS.PixelSize())
	Convert(pixel, srcCS, out, dstCS, 1)
	return out
}

// toRGBA maps normalized channels of model m to normalized RGBA.
func toRGBA(m ModelID, in, out []float32) {
	switch m {
	case RGBA:
		copy(out, in[:4])
	case GRAYA:
		out[0], out[1], out[2], out[3] = in[0], in[0], in[0], in[1]
	case CMYKA:
		k := 1 - in[3]
		out[0] = (1 - in[0]) * k
		out[1] = (1 - in[1]) * k
		out[2] = (1 - in[2]) * k
		out[3] = in[4]
	case ALPHA:
		out[0], out[1], out[2], out[3] = in[0], in[0], in[0], 1
	}
}

// fromRGBA maps normalized RGBA to normalized channels of model m.
func fromRGBA(m ModelID, in, out []float32) {
	switch m {
	case RGBA:
		copy(out, in)
	case GRAYA:
		out[0] = luminance(in)
		out[1] = in[3]
	case CMYKA:
		k := 1 - max(in[0], in[1], in[2])
		if k >= 1 {
			out[0], out[1], out[2] = 0, 0, 0
		} else {
			out[0] = (1 - in[0] - k) / (1 - k)
			out[1] = (1 - in[1] - k) / (1 - k)
			out[2] = (1 - in[2] - k) / (1 - k)
		}
		out[3] = k
		out[4] = in[3]
	case ALPHA:
		out[0] = luminance(in) * in[3]
	}
}

// luminance returns Rec. 709 luma of normalized RGB.
func luminance(c []float32) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}
