package colorspace

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sync"

	"seehuhn.de/go/icc"
)

// Profile is an ICC profile attached to a color space.
//
// Profiles are identified by content: two profiles are equal iff their raw
// ICC data is byte-identical. No color management is performed on the
// profile contents; the profile only takes part in color space identity.
type Profile struct {
	name       string
	data       []byte
	digest     [sha256.Size]byte
	components int
}

// NewProfile decodes ICC data and returns a profile with the given name.
func NewProfile(name string, data []byte) (*Profile, error) {
	p, err := icc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("colorspace: decode profile %q: %w", name, err)
	}
	return &Profile{
		name:       name,
		data:       bytes.Clone(data),
		digest:     sha256.Sum256(data),
		components: p.ColorSpace.NumComponents(),
	}, nil
}

var srgbProfile = sync.OnceValue(func() *Profile {
	p, err := NewProfile("sRGB", icc.SRGBv4Profile)
	if err != nil {
		panic(err) // built-in profile data
	}
	return p
})

// SRGB returns the built-in sRGB v4 profile.
func SRGB() *Profile {
	return srgbProfile()
}

// Name returns the profile name given at construction.
func (p *Profile) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Components returns the number of color components the profile describes.
func (p *Profile) Components() int {
	if p == nil {
		return 0
	}
	return p.components
}

// Data returns a copy of the raw ICC data.
func (p *Profile) Data() []byte {
	if p == nil {
		return nil
	}
	return bytes.Clone(p.data)
}

// Equal reports whether p and o hold identical ICC data.
// Two nil profiles are equal.
func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p == o || p.digest == o.digest
}

func (p *Profile) String() string {
	if p == nil {
		return "<no profile>"
	}
	return fmt.Sprintf("%s (%x)", p.name, p.digest[:4])
}
