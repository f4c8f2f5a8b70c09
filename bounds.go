package cpurender

import "math"

// Bounds is an integer device-space scan range. Rasterizers visit the
// half-open box [Left, Right) x [Top, Bottom).
type Bounds struct {
	Left, Right, Top, Bottom int
}

// Empty reports whether the box contains no pixels.
func (b Bounds) Empty() bool {
	return b.Right <= b.Left || b.Bottom <= b.Top
}

// Area returns the number of pixels in the box.
func (b Bounds) Area() int {
	if b.Empty() {
		return 0
	}
	return (b.Right - b.Left) * (b.Bottom - b.Top)
}

// ComputeBounds maps the local rectangle (x, y, width, height) through the
// current transform and returns the axis-aligned box of the four corners,
// truncated toward zero and clamped into [0, Width()] x [0, Height()].
func (c *RenderContext) ComputeBounds(x, y, width, height float64) Bounds {
	return computeBounds(c.matrix, x, y, width, height, c.width, c.height)
}

func computeBounds(m Matrix, x, y, width, height float64, maxWidth, maxHeight int) Bounds {
	ltx, lty := m.TransformPoint(x, y)
	rtx, rty := m.TransformPoint(x+width, y)
	lbx, lby := m.TransformPoint(x, y+height)
	rbx, rby := m.TransformPoint(x+width, y+height)

	return Bounds{
		Left:   clampEdge(min(ltx, rtx, lbx, rbx), maxWidth),
		Right:  clampEdge(max(ltx, rtx, lbx, rbx), maxWidth),
		Top:    clampEdge(min(lty, rty, lby, rby), maxHeight),
		Bottom: clampEdge(max(lty, rty, lby, rby), maxHeight),
	}
}

// clampEdge truncates v toward zero and clamps it into [0, limit].
// Clamping happens before the integer conversion so huge coordinates from a
// degenerate inverse cannot overflow. NaN maps to 0.
func clampEdge(v float64, limit int) int {
	if !(v > 0) {
		return 0
	}
	if v >= float64(limit) {
		return limit
	}
	return int(math.Trunc(v))
}
