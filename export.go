package cpurender

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
)

// Buffer returns a copy of the float pixel buffer. A closed context has no
// buffer and returns an empty slice.
func (c *RenderContext) Buffer() []float64 {
	out := make([]float64, len(c.buffer))
	copy(out, c.buffer)
	return out
}

// CopyBuffer copies the float buffer into dst and returns the number of
// values copied, which is 0 for a closed context.
func (c *RenderContext) CopyBuffer(dst []float64) int {
	return copy(dst, c.buffer)
}

// BufferUint8 returns the buffer converted to bytes, empty for a closed
// context. See CopyBufferUint8 for the conversion rule.
func (c *RenderContext) BufferUint8() []uint8 {
	out := make([]uint8, len(c.buffer))
	c.CopyBufferUint8(out)
	return out
}

// CopyBufferUint8 writes v*255 truncated to a byte for every buffer value
// and returns the number of values written. Nothing is clamped: values
// outside [0, 1] wrap at the byte level.
func (c *RenderContext) CopyBufferUint8(dst []uint8) int {
	n := min(len(dst), len(c.buffer))
	for i := 0; i < n; i++ {
		dst[i] = toByte(c.buffer[i])
	}
	return n
}

// toByte converts one channel with wrapping semantics.
// Values beyond the int64 range saturate there before wrapping.
func toByte(v float64) uint8 {
	const limit = 9.2e18
	s := v * 255
	switch {
	case math.IsNaN(s):
		return 0
	case s > limit:
		s = limit
	case s < -limit:
		s = -limit
	}
	return uint8(int64(s))
}

// Image returns the canvas as an *image.NRGBA using the byte conversion of
// CopyBufferUint8. RGB canvases are exported fully opaque. A closed
// context exports a transparent image of its last size.
func (c *RenderContext) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	if c.closed {
		return img
	}
	stride := c.Stride()
	for p, q := 0, 0; p < len(c.buffer); p, q = p+stride, q+4 {
		img.Pix[q+0] = toByte(c.buffer[p+0])
		img.Pix[q+1] = toByte(c.buffer[p+1])
		img.Pix[q+2] = toByte(c.buffer[p+2])
		if c.hasAlpha {
			img.Pix[q+3] = toByte(c.buffer[p+3])
		} else {
			img.Pix[q+3] = 255
		}
	}
	return img
}

// SavePNG saves the canvas to a PNG file.
func (c *RenderContext) SavePNG(path string) error {
	if c.closed {
		return ErrContextClosed
	}
	if err := imgio.Save(filepath.Clean(path), c.Image(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("cpurender: save png: %w", err)
	}
	return nil
}
