package cpurender

import "math"

// scan visits every device pixel of box, maps it to local space through inv
// and calls fn with both coordinates. Drawing on a closed context is a no-op.
func (c *RenderContext) scan(box Bounds, inv Matrix, fn func(px, py int, lx, ly float64)) {
	if c.closed {
		Logger().Warn("cpurender: draw on closed context")
		return
	}
	for py := box.Top; py < box.Bottom; py++ {
		for px := box.Left; px < box.Right; px++ {
			lx, ly := inv.TransformPoint(float64(px), float64(py))
			fn(px, py, lx, ly)
		}
	}
}

// inRect is the inclusive local rectangle test shared by the rectangle,
// gradient and texture primitives.
func inRect(lx, ly, x, y, w, h float64) bool {
	return lx >= x && lx <= x+w && ly >= y && ly <= y+h
}

// DrawRect fills the local rectangle (x, y, w, h) with col.
// Non-positive width or height draws nothing.
func (c *RenderContext) DrawRect(x, y, w, h float64, col RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	inv := c.InverseTransform()
	box := c.ComputeBounds(x, y, w, h)
	c.scan(box, inv, func(px, py int, lx, ly float64) {
		if inRect(lx, ly, x, y, w, h) {
			c.ApplyPixel(px, py, col)
		}
	})
}

// DrawVerticalGradient fills the local rectangle (x, y, w, h) with a color
// interpolated from top at y to bottom at y+h.
// Non-positive width or height draws nothing.
func (c *RenderContext) DrawVerticalGradient(x, y, w, h float64, top, bottom RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	inv := c.InverseTransform()
	box := c.ComputeBounds(x, y, w, h)
	c.scan(box, inv, func(px, py int, lx, ly float64) {
		if !inRect(lx, ly, x, y, w, h) {
			return
		}
		p := (ly - y) / h
		c.ApplyPixel(px, py, RGBA{
			R: top.R + (bottom.R-top.R)*p,
			G: top.G + (bottom.G-top.G)*p,
			B: top.B + (bottom.B-top.B)*p,
			A: top.A + (bottom.A-top.A)*p,
		})
	})
}

// GradientStop is a color at a relative position, 0 at the top of a
// gradient and 1 at the bottom.
type GradientStop struct {
	Pos   float64
	Color RGBA
}

// DrawVerticalGradientStops fills the local rectangle (x, y, w, h) with a
// multi-color vertical gradient. Each pair of consecutive stops is drawn
// as a two-color gradient over its span, in the given order; spans of zero
// or negative height draw nothing. Fewer than two stops draw nothing.
func (c *RenderContext) DrawVerticalGradientStops(x, y, w, h float64, stops []GradientStop) {
	for i := 0; i+1 < len(stops); i++ {
		from, to := stops[i], stops[i+1]
		c.DrawVerticalGradient(x, y+h*from.Pos, w, h*(to.Pos-from.Pos), from.Color, to.Color)
	}
}

// DrawCircle fills the disc of the given radius centred at (cx, cy).
// Non-positive radius draws nothing.
func (c *RenderContext) DrawCircle(cx, cy, radius float64, col RGBA) {
	if radius <= 0 {
		return
	}
	inv := c.InverseTransform()
	box := c.ComputeBounds(cx-radius, cy-radius, 2*radius, 2*radius)
	c.scan(box, inv, func(px, py int, lx, ly float64) {
		dx := lx - cx
		dy := ly - cy
		if math.Sqrt(dx*dx+dy*dy) <= radius {
			c.ApplyPixel(px, py, col)
		}
	})
}

// DrawLine fills a segment of the given stroke width, as the rectangle
// obtained by offsetting (x1, y1)-(x2, y2) half the width to each side.
// Zero-length segments and non-positive widths draw nothing.
func (c *RenderContext) DrawLine(x1, y1, x2, y2, width float64, col RGBA) {
	if width <= 0 {
		return
	}
	quad, ok := lineQuad(x1, y1, x2, y2, width)
	if !ok {
		return
	}
	c.DrawPolygon(quad, col)
}

// DrawPolygon fills pts with the even-odd rule. Fewer than three points
// draw nothing.
func (c *RenderContext) DrawPolygon(pts []Point, col RGBA) {
	if len(pts) < 3 {
		return
	}
	inv := c.InverseTransform()
	box := c.polygonBounds(pts)
	c.scan(box, inv, func(px, py int, lx, ly float64) {
		if PointInPolygon(lx, ly, pts) {
			c.ApplyPixel(px, py, col)
		}
	})
}

// polygonBounds is ComputeBounds of the polygon's local box, widened by one
// pixel on the far edges. ComputeBounds truncates the right and bottom
// edges, which would drop the last column or row a polygon touches; the
// widened box visits every pixel a whole-canvas scan would fill.
// A singular transform maps the corners onto a line or a point while the
// fallback inverse can still land pixels inside the polygon, so it scans
// the whole canvas.
func (c *RenderContext) polygonBounds(pts []Point) Bounds {
	if c.matrix.Determinant() == 0 {
		return Bounds{Left: 0, Right: c.width, Top: 0, Bottom: c.height}
	}
	x, y, w, h := polygonBox(pts)
	box := c.ComputeBounds(x, y, w, h)
	box.Right = min(box.Right+1, c.width)
	box.Bottom = min(box.Bottom+1, c.height)
	return box
}

// DrawTexture draws the whole texture stretched over the local rectangle
// (x, y, w, h). Zero width or height, or a nil or unreadable texture,
// draws nothing. Textures without alpha are drawn with alpha 1.
func (c *RenderContext) DrawTexture(tex *Texture, x, y, w, h float64) {
	c.drawTexture(tex, x, y, w, h, nil)
}

// DrawSplitTexture draws the sub-rectangle [uStart, uEnd] x [vStart, vEnd]
// of the texture, in normalized texture coordinates, stretched over the
// local rectangle (x, y, w, h).
func (c *RenderContext) DrawSplitTexture(tex *Texture, x, y, w, h, uStart, uEnd, vStart, vEnd float64) {
	if tex == nil {
		return
	}
	tw := float64(tex.width)
	th := float64(tex.height)
	c.drawTexture(tex, x, y, w, h, func(u, v float64) (float64, float64) {
		u = (uStart + (uEnd-uStart)*u/tw) * tw
		v = (vStart + (vEnd-vStart)*v/th) * th
		return u, v
	})
}

// drawTexture is the shared blit loop. remap, when set, adjusts the texel
// coordinate before sampling.
func (c *RenderContext) drawTexture(tex *Texture, x, y, w, h float64, remap func(u, v float64) (float64, float64)) {
	if w == 0 || h == 0 {
		return
	}
	src, ok := tex.readable()
	if !ok {
		return
	}

	inv := c.InverseTransform()
	scaleX := float64(tex.width) / w
	scaleY := float64(tex.height) / h
	box := c.ComputeBounds(x, y, w, h)

	c.scan(box, inv, func(px, py int, lx, ly float64) {
		if !inRect(lx, ly, x, y, w, h) {
			return
		}
		u := (lx - x) * scaleX
		v := (ly - y) * scaleY
		if remap != nil {
			u, v = remap(u, v)
		}
		c.ApplyPixel(px, py, Sample(src, tex.width, tex.height, tex.hasAlpha, u, v, White))
	})
}
