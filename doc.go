// Package cpurender is a CPU 2D raster engine for frame-by-frame rendering.
//
// # Overview
//
// A RenderContext is a float RGB or RGBA canvas with an affine transform, a
// per-channel color transform (tint) and a save/restore stack. Drawing calls
// map every device pixel of a clipped bounding box back into local space,
// test containment and composite the result with a straight-alpha "over"
// blend. There is no anti-aliasing.
//
// # Quick Start
//
//	ctx, err := cpurender.NewRenderContext(640, 360, true)
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	ctx.SetColor(cpurender.Black)
//	ctx.Save()
//	ctx.Translate(320, 180)
//	ctx.Rotate(math.Pi / 6)
//	ctx.DrawRect(-50, -50, 100, 100, cpurender.RGB(1, 0.5, 0))
//	ctx.Restore()
//	ctx.DrawCircle(100, 100, 40, cpurender.RGBA2(0, 0.6, 1, 0.5))
//
//	frame := ctx.BufferUint8()
//
// # Coordinate System
//
//   - Origin (0,0) at top-left, X right, Y down
//   - A Matrix (a, b, c, d, e, f) maps x' = a*x + c*y + e, y' = b*x + d*y + f
//   - Transform calls pre-multiply: the newest transform is applied to
//     points first
//
// # Textures
//
// Textures are read-only pixel sources. They are created from float or
// byte data, decoded images, or a RenderContext. A texture made with
// RenderContext.SharedTexture aliases the context buffer instead of copying
// it and goes stale when the context is resized or closed.
//
// # Errors
//
// Drawing never fails: out-of-canvas writes report false, empty shapes are
// no-ops and a singular transform inverts with [DegenerateInverseScale].
// Constructors return sentinel errors such as [ErrInvalidDimensions].
//
// # Concurrency
//
// Everything is synchronous. A RenderContext must be used by one goroutine
// at a time, and a shared texture must not be read while its context is
// being drawn on from another goroutine.
package cpurender

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
