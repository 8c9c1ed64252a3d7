// Package paintdev provides precision and overlay wrappers for tiled paint
// devices.
//
// # Overview
//
// Painting and filtering on an 8-bit device accumulates rounding error when
// an operation runs in several passes. paintdev lets such operations work
// at 16 bits per channel without converting the device permanently, and
// lets several passes share one consistent cached copy of a source device.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/paintdev"
//	    "github.com/gogpu/paintdev/colorspace"
//	    "github.com/gogpu/paintdev/device"
//	)
//
//	dev := device.New(colorspace.RGBA8())
//	w := paintdev.NewPreciseWrapper(dev)
//	w.ReadRect(rc)
//	// work on w.PreciseDevice() ...
//	w.WriteRect(rc)
//
// # Wrappers
//
// [PreciseWrapper] keeps a 16-bit shadow of an 8-bit device and tracks the
// region already mirrored into it.
//
// [OverlayWrapper] keeps N overlay devices in one color space. Reads are
// deduplicated on a 64x64 tile grid, writes go back to the source or to an
// external destination, and [OverlayWrapper.BeginTransaction] /
// [OverlayWrapper.EndTransaction] produce one undo command covering the
// overlays and the read grid.
//
// # Architecture
//
// The library is organized into:
//   - Public API: PreciseWrapper, OverlayWrapper, ProcessPartitioned
//   - colorspace: color models, depths, ICC profiles, conversion
//   - device: tiled paint device, accessors, pixel walker, block copy
//   - region: rectangle sets and the tile-merge grid
//   - undo: commands, groups and the undo stack
//
// # Coordinate System
//
// Devices use image coordinates with the origin at the top-left, X
// increasing right and Y increasing down. Rectangles are half-open, as in
// package image.
//
// # Concurrency
//
// Wrappers are single threaded. [ProcessPartitioned] runs independent
// wrappers on disjoint tile rows of one device.
package paintdev

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
