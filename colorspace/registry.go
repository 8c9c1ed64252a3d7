package colorspace

import (
	"fmt"
	"sync"
)

type registryKey struct {
	model  ModelID
	depth  DepthID
	digest string
}

// registry holds one shared Space per (model, depth, profile) triple.
var registry = struct {
	mu     sync.Mutex
	spaces map[registryKey]*Space
}{spaces: make(map[registryKey]*Space)}

// Lookup returns the color space for the given triple, creating it on first
// use. profile may be nil. The profile must describe as many color
// components as the model has; ALPHA accepts no profile.
func Lookup(model ModelID, depth DepthID, profile *Profile) (ColorSpace, error) {
	if !model.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownModel, model)
	}
	if !depth.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDepth, depth)
	}
	if profile != nil && (model == ALPHA || profile.Components() != model.ColorChannels()) {
		return nil, fmt.Errorf("%w: %v with %d-component profile %q",
			ErrProfileMismatch, model, profile.Components(), profile.Name())
	}

	key := registryKey{model: model, depth: depth}
	if profile != nil {
		key.digest = string(profile.digest[:])
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if s, ok := registry.spaces[key]; ok {
		return s, nil
	}
	s := newSpace(model, depth, profile)
	registry.spaces[key] = s
	return s, nil
}

// MustLookup is like Lookup but panics on error. It is intended for
// package-level variables and tests with known-good arguments.
func MustLookup(model ModelID, depth DepthID, profile *Profile) ColorSpace {
	cs, err := Lookup(model, depth, profile)
	if err != nil {
		panic(err)
	}
	return cs
}

// WithDepth returns the color space with the same model and profile as cs
// but a different channel depth.
func WithDepth(cs ColorSpace, depth DepthID) (ColorSpace, error) {
	return Lookup(cs.ColorModelID(), depth, cs.Profile())
}

// RGBA8 returns the 8-bit sRGB RGBA color space.
func RGBA8() ColorSpace { return MustLookup(RGBA, U8, SRGB()) }

// RGBA16 returns the 16-bit sRGB RGBA color space.
func RGBA16() ColorSpace { return MustLookup(RGBA, U16, SRGB()) }

// Alpha8 returns the 8-bit alpha color space.
func Alpha8() ColorSpace { return MustLookup(ALPHA, U8, nil) }
