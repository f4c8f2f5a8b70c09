package cpurender

import (
	"io"
	"log/slog"
	"math"
)

// contextState is one saved (transform, color transform) pair.
type contextState struct {
	matrix Matrix
	tint   ColorTransform
}

// RenderContext is a mutable float pixel canvas with an affine transform,
// a color transform and a save/restore stack.
//
// The buffer is row-major, width*height*stride values, where stride is 4 for
// RGBA canvases and 3 for RGB ones. Values are nominally in [0, 1] but are
// never clamped.
//
// A RenderContext is not safe for concurrent use. Independent contexts may be
// driven from different goroutines.
// RenderContext implements io.Closer.
type RenderContext struct {
	width    int
	height   int
	hasAlpha bool
	buffer   []float64

	// Current state
	matrix Matrix
	tint   ColorTransform
	stack  []contextState

	// generation changes whenever buffer is replaced or released,
	// so shared textures can tell that their view is gone.
	generation uint64
	closed     bool
}

// Ensure RenderContext implements io.Closer
var _ io.Closer = (*RenderContext)(nil)

// NewRenderContext creates a canvas of the given size with an identity
// transform, an identity color transform and an empty state stack.
// The buffer starts zeroed unless WithBuffer supplies one.
func NewRenderContext(width, height int, hasAlpha bool, opts ...ContextOption) (*RenderContext, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	size := width * height * channelStride(hasAlpha)
	buffer := options.buffer
	if buffer == nil {
		buffer = make([]float64, size)
	} else if len(buffer) != size {
		return nil, ErrBufferSize
	}

	Logger().Debug("cpurender: context created",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Bool("alpha", hasAlpha))

	return &RenderContext{
		width:    width,
		height:   height,
		hasAlpha: hasAlpha,
		buffer:   buffer,
		matrix:   Identity(),
		tint:     IdentityColorTransform(),
		stack:    make([]contextState, 0, options.stackCapacity),
	}, nil
}

// channelStride returns the number of floats per pixel.
func channelStride(hasAlpha bool) int {
	if hasAlpha {
		return 4
	}
	return 3
}

// Close releases the pixel buffer. Shared textures created from this
// context become stale. After Close, drawing calls are no-ops and pixel
// accessors report failure.
// Close is idempotent.
func (c *RenderContext) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.buffer = nil
	c.stack = nil
	c.generation++

	Logger().Debug("cpurender: context closed")
	return nil
}

// Closed reports whether Close has been called.
func (c *RenderContext) Closed() bool {
	return c.closed
}

// Resize reallocates the buffer for the new dimensions. Previous contents
// are discarded (the new buffer is zeroed) and every shared texture of this
// context becomes stale. Transform, color transform and the state stack are
// kept.
func (c *RenderContext) Resize(width, height int) error {
	if c.closed {
		return ErrContextClosed
	}
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}

	c.buffer = make([]float64, width*height*c.Stride())
	c.width = width
	c.height = height
	c.generation++

	Logger().Debug("cpurender: context resized",
		slog.Int("width", width),
		slog.Int("height", height))
	return nil
}

// Width returns the canvas width in pixels.
func (c *RenderContext) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *RenderContext) Height() int {
	return c.height
}

// HasAlpha reports whether the buffer stores an alpha channel.
func (c *RenderContext) HasAlpha() bool {
	return c.hasAlpha
}

// Stride returns the number of floats per pixel (3 or 4).
func (c *RenderContext) Stride() int {
	return channelStride(c.hasAlpha)
}

// BufferSize returns width*height*stride.
func (c *RenderContext) BufferSize() int {
	return c.width * c.height * c.Stride()
}

// Save pushes the current transform and color transform onto the stack.
func (c *RenderContext) Save() {
	c.stack = append(c.stack, contextState{matrix: c.matrix, tint: c.tint})
}

// Restore pops the most recently saved state and makes it current.
// It returns false, leaving the state unchanged, when the stack is empty.
func (c *RenderContext) Restore() bool {
	n := len(c.stack)
	if n == 0 {
		return false
	}
	s := c.stack[n-1]
	c.stack = c.stack[:n-1]
	c.matrix = s.matrix
	c.tint = s.tint
	return true
}

// StackDepth returns the number of saved states.
func (c *RenderContext) StackDepth() int {
	return len(c.stack)
}

// SetTransform replaces the current transform.
func (c *RenderContext) SetTransform(a, b, cc, d, e, f float64) {
	c.matrix = Matrix{A: a, B: b, C: cc, D: d, E: e, F: f}
}

// SetMatrix replaces the current transform.
func (c *RenderContext) SetMatrix(m Matrix) {
	c.matrix = m
}

// ApplyTransform pre-multiplies the current transform by the given one:
// points are mapped by (a..f) first and then by the existing transform.
func (c *RenderContext) ApplyTransform(a, b, cc, d, e, f float64) {
	c.ApplyMatrix(Matrix{A: a, B: b, C: cc, D: d, E: e, F: f})
}

// ApplyMatrix is ApplyTransform taking a Matrix.
func (c *RenderContext) ApplyMatrix(m Matrix) {
	c.matrix = c.matrix.Multiply(m)
}

// Scale applies a scaling transform.
func (c *RenderContext) Scale(sx, sy float64) {
	c.ApplyMatrix(Scale(sx, sy))
}

// Translate applies a translation transform.
func (c *RenderContext) Translate(tx, ty float64) {
	c.ApplyMatrix(Translate(tx, ty))
}

// Rotate applies a rotation transform (angle in radians).
func (c *RenderContext) Rotate(angle float64) {
	c.ApplyMatrix(Rotate(angle))
}

// RotateDegrees is Rotate with the angle in degrees.
func (c *RenderContext) RotateDegrees(deg float64) {
	c.Rotate(deg * math.Pi / 180)
}

// Transform returns the current local-to-device transform.
func (c *RenderContext) Transform() Matrix {
	return c.matrix
}

// InverseTransform returns the device-to-local transform.
// See Matrix.Invert for the singular case.
func (c *RenderContext) InverseTransform() Matrix {
	return c.matrix.Invert()
}

// TransformPoint maps a local point to device space.
func (c *RenderContext) TransformPoint(x, y float64) (float64, float64) {
	return c.matrix.TransformPoint(x, y)
}

// SetColorTransform replaces the current color transform.
func (c *RenderContext) SetColorTransform(r, g, b, a float64) {
	c.tint = ColorTransform{R: r, G: g, B: b, A: a}
}

// ApplyColorTransform multiplies the current color transform channel-wise.
func (c *RenderContext) ApplyColorTransform(r, g, b, a float64) {
	c.tint = c.tint.Concat(ColorTransform{R: r, G: g, B: b, A: a})
}

// ColorTransform returns the current color transform.
func (c *RenderContext) ColorTransform() ColorTransform {
	return c.tint
}
