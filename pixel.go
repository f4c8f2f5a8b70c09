package cpurender

import "math"

// index returns the buffer offset of pixel (x, y) and whether it is inside
// the canvas.
func (c *RenderContext) index(x, y int) (int, bool) {
	if c.closed || x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0, false
	}
	stride := c.Stride()
	return y*c.width*stride + x*stride, true
}

// SetPixel overwrites the pixel at (x, y). No color transform and no
// blending are applied; RGB canvases ignore c.A.
// It returns false for coordinates outside the canvas.
func (c *RenderContext) SetPixel(x, y int, col RGBA) bool {
	i, ok := c.index(x, y)
	if !ok {
		return false
	}
	c.buffer[i+0] = col.R
	c.buffer[i+1] = col.G
	c.buffer[i+2] = col.B
	if c.hasAlpha {
		c.buffer[i+3] = col.A
	}
	return true
}

// ApplyPixel composites col over the pixel at (x, y).
//
// The color transform is applied first, then each of r, g, b becomes
// stored*(1-a) + new*a with the tinted alpha a. RGBA canvases blend their
// alpha channel with the same weighting; RGB canvases use alpha only as the
// blend weight. It returns false for coordinates outside the canvas.
func (c *RenderContext) ApplyPixel(x, y int, col RGBA) bool {
	i, ok := c.index(x, y)
	if !ok {
		return false
	}
	col = c.tint.Apply(col)
	c.blendAt(i, col)
	return true
}

// blendAt performs the over blend of an already tinted color at offset i.
func (c *RenderContext) blendAt(i int, col RGBA) {
	a := col.A
	buf := c.buffer[i : i+c.Stride() : i+c.Stride()]
	buf[0] = buf[0]*(1-a) + col.R*a
	buf[1] = buf[1]*(1-a) + col.G*a
	buf[2] = buf[2]*(1-a) + col.B*a
	if c.hasAlpha {
		buf[3] = buf[3]*(1-a) + a*a
	}
}

// SetColor overwrites every pixel with col, ignoring transform and color
// transform. When all four components are equal the buffer is filled in a
// single pass.
func (c *RenderContext) SetColor(col RGBA) {
	if c.closed {
		return
	}
	if col.uniform() {
		v := col.R
		for i := range c.buffer {
			c.buffer[i] = v
		}
		return
	}

	stride := c.Stride()
	for i := 0; i < len(c.buffer); i += stride {
		c.buffer[i+0] = col.R
		c.buffer[i+1] = col.G
		c.buffer[i+2] = col.B
		if c.hasAlpha {
			c.buffer[i+3] = col.A
		}
	}
}

// FillColor composites col over every pixel of the canvas using the color
// transform. The transform is ignored.
func (c *RenderContext) FillColor(col RGBA) {
	if c.closed {
		return
	}
	col = c.tint.Apply(col)
	stride := c.Stride()
	for i := 0; i < len(c.buffer); i += stride {
		c.blendAt(i, col)
	}
}

// GetColor returns the pixel nearest to (x, y), with coordinates clamped
// into the canvas. RGB canvases report alpha 1. A closed context returns
// Transparent.
func (c *RenderContext) GetColor(x, y float64) RGBA {
	if c.closed {
		return Transparent
	}
	ix := clampIndex(x, c.width-1)
	iy := clampIndex(y, c.height-1)
	i, _ := c.index(ix, iy)

	col := RGBA{R: c.buffer[i], G: c.buffer[i+1], B: c.buffer[i+2], A: 1}
	if c.hasAlpha {
		col.A = c.buffer[i+3]
	}
	return col
}

// clampIndex clamps v into [0, maxIndex] and truncates it.
// NaN maps to 0.
func clampIndex(v float64, maxIndex int) int {
	if !(v >= 0) {
		return 0
	}
	if v >= float64(maxIndex) {
		return maxIndex
	}
	return int(math.Trunc(v))
}
