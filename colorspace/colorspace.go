// Package colorspace describes pixel layouts of paint devices.
//
// A color space is a (color model, channel depth, profile) triple. It fixes
// the number of channels, the byte size of each channel and therefore the
// pixel size of every device that uses it. Two color spaces are equal iff
// model, depth and profile match.
//
// Channels are stored in model order with alpha last, e.g. R, G, B, A for
// [RGBA]. Multi-byte channels are little-endian.
package colorspace

import (
	"errors"
	"fmt"
)

// Common errors for color space lookups.
var (
	// ErrUnknownModel is returned for a color model outside the known set.
	ErrUnknownModel = errors.New("colorspace: unknown color model")

	// ErrUnsupportedDepth is returned for a channel depth outside the known set.
	ErrUnsupportedDepth = errors.New("colorspace: unsupported channel depth")

	// ErrProfileMismatch is returned when a profile does not describe the model.
	ErrProfileMismatch = errors.New("colorspace: profile does not match color model")
)

// ModelID identifies a color model.
type ModelID uint8

const (
	// RGBA is red, green, blue and alpha.
	RGBA ModelID = iota

	// GRAYA is gray and alpha.
	GRAYA

	// CMYKA is cyan, magenta, yellow, key and alpha.
	CMYKA

	// ALPHA is a single coverage channel, used for masks and selections.
	ALPHA

	modelCount
)

// modelInfo describes the channel layout of a color model.
type modelInfo struct {
	name string

	// colorChannels excludes alpha.
	colorChannels int

	hasAlpha bool
}

var modelTable = [modelCount]modelInfo{
	RGBA:  {name: "RGBA", colorChannels: 3, hasAlpha: true},
	GRAYA: {name: "GRAYA", colorChannels: 1, hasAlpha: true},
	CMYKA: {name: "CMYKA", colorChannels: 4, hasAlpha: true},
	ALPHA: {name: "A", colorChannels: 1, hasAlpha: false},
}

// IsValid reports whether m is a known model.
func (m ModelID) IsValid() bool { return m < modelCount }

// ChannelCount returns the total number of channels including alpha.
func (m ModelID) ChannelCount() int {
	if !m.IsValid() {
		return 0
	}
	info := modelTable[m]
	if info.hasAlpha {
		return info.colorChannels + 1
	}
	return info.colorChannels
}

// ColorChannels returns the number of channels excluding alpha.
func (m ModelID) ColorChannels() int {
	if !m.IsValid() {
		return 0
	}
	return modelTable[m].colorChannels
}

func (m ModelID) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("ModelID(%d)", uint8(m))
	}
	return modelTable[m].name
}

// DepthID identifies the numeric type of a channel.
type DepthID uint8

const (
	// U8 is an 8-bit unsigned integer channel.
	U8 DepthID = iota

	// U16 is a 16-bit unsigned integer channel.
	U16

	// F32 is a 32-bit IEEE float channel with nominal range [0, 1].
	F32

	depthCount
)

// IsValid reports whether d is a known depth.
func (d DepthID) IsValid() bool { return d < depthCount }

// ChannelSize returns the number of bytes of one channel.
func (d DepthID) ChannelSize() int {
	switch d {
	case U8:
		return 1
	case U16:
		return 2
	case F32:
		return 4
	default:
		return 0
	}
}

// IsInteger reports whether the depth is an integer type.
func (d DepthID) IsInteger() bool { return d == U8 || d == U16 }

func (d DepthID) String() string {
	switch d {
	case U8:
		return "U8"
	case U16:
		return "U16"
	case F32:
		return "F32"
	default:
		return fmt.Sprintf("DepthID(%d)", uint8(d))
	}
}

// ColorSpace is the capability interface every pixel layout implements.
// Code that moves pixels between devices is written against this interface
// and never hard-codes a channel count.
type ColorSpace interface {
	// ID returns a stable identifier such as "RGBA/U8/sRGB".
	ID() string

	ColorModelID() ModelID
	ColorDepthID() DepthID

	// ChannelCount returns the number of channels including alpha.
	ChannelCount() int

	// ChannelSize returns the byte size of one channel.
	ChannelSize() int

	// PixelSize returns the byte size of one pixel.
	PixelSize() int

	// Profile returns the attached profile, or nil.
	Profile() *Profile

	// Equal reports whether model, depth and profile all match.
	Equal(other ColorSpace) bool

	// Normalize decodes one pixel into channel values in [0, 1].
	// out must hold ChannelCount values.
	Normalize(pixel []byte, out []float32)

	// Denormalize encodes normalized channel values into one pixel.
	Denormalize(in []float32, pixel []byte)
}

// Space is the built-in ColorSpace implementation. Obtain instances through
// Lookup so that equal triples share one value.
type Space struct {
	model   ModelID
	depth   DepthID
	profile *Profile
	id      string
}

func newSpace(model ModelID, depth DepthID, profile *Profile) *Space {
	id := model.String() + "/" + depth.String()
	if profile != nil {
		id += "/" + profile.Name()
	}
	return &Space{model: model, depth: depth, profile: profile, id: id}
}

// ID returns the identifier "MODEL/DEPTH[/profile]".
func (s *Space) ID() string { return s.id }

// ColorModelID returns the color model.
func (s *Space) ColorModelID() ModelID { return s.model }

// ColorDepthID returns the channel depth.
func (s *Space) ColorDepthID() DepthID { return s.depth }

// ChannelCount returns the number of channels including alpha.
func (s *Space) ChannelCount() int { return s.model.ChannelCount() }

// ChannelSize returns the byte size of one channel.
func (s *Space) ChannelSize() int { return s.depth.ChannelSize() }

// PixelSize returns the byte size of one pixel.
func (s *Space) PixelSize() int { return s.ChannelCount() * s.ChannelSize() }

// Profile returns the attached profile, or nil.
func (s *Space) Profile() *Profile { return s.profile }

// Equal reports whether other has the same model, depth and profile.
func (s *Space) Equal(other ColorSpace) bool {
	return Equal(s, other)
}

func (s *Space) String() string { return s.id }

// Normalize decodes one pixel into channel values in [0, 1].
func (s *Space) Normalize(pixel []byte, out []float32) {
	n := s.ChannelCount()
	for i := range n {
		out[i] = readChannel(s.depth, pixel, i)
	}
}

// Denormalize encodes normalized channel values into one pixel.
func (s *Space) Denormalize(in []float32, pixel []byte) {
	n := s.ChannelCount()
	for i := range n {
		writeChannel(s.depth, pixel, i, in[i])
	}
}

// Equal reports whether two color spaces have the same model, depth and
// profile. Two nil color spaces are equal.
func Equal(a, b ColorSpace) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ColorModelID() == b.ColorModelID() &&
		a.ColorDepthID() == b.ColorDepthID() &&
		a.Profile().Equal(b.Profile())
}

// IsInteger8 reports whether cs stores 8-bit integer channels.
func IsInteger8(cs ColorSpace) bool {
	return cs != nil && cs.ColorDepthID() == U8
}
