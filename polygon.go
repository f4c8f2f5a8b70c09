package cpurender

// PointInPolygon reports whether (x, y) lies inside the polygon using the
// even-odd rule (horizontal ray casting). Points exactly on an edge may fall
// either way.
func PointInPolygon(x, y float64, pts []Point) bool {
	inside := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// polygonBox returns the local-space bounding rectangle of pts.
func polygonBox(pts []Point) (x, y, w, h float64) {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// lineQuad returns the rectangle of the given width centred on the segment
// (x1, y1)-(x2, y2), or false for a zero-length segment.
func lineQuad(x1, y1, x2, y2, width float64) ([]Point, bool) {
	d := Pt(x2-x1, y2-y1)
	length := d.Length()
	if length == 0 {
		return nil, false
	}
	// unit normal scaled to half the stroke width
	n := Pt(d.X/length, d.Y/length).Perp().Mul(width / 2)

	return []Point{
		{X: x1 - n.X, Y: y1 - n.Y},
		{X: x1 + n.X, Y: y1 + n.Y},
		{X: x2 + n.X, Y: y2 + n.Y},
		{X: x2 - n.X, Y: y2 - n.Y},
	}, true
}
