package cpurender

import "math"

// Sample reads the pixel of buf (a width x height buffer with 3 or 4
// channels) addressed by (x, y).
//
// x is clamped to [0, width-2] and y to [0, height-2], leaving room for a
// bilinear neighbour, and the clamped coordinate is floored. The lookup
// itself is nearest-neighbour. Sources one pixel wide or tall clamp to 0.
// For sources without alpha the result keeps def.A.
func Sample(buf []float64, width, height int, hasAlpha bool, x, y float64, def RGBA) RGBA {
	ix := sampleIndex(x, width)
	iy := sampleIndex(y, height)

	stride := channelStride(hasAlpha)
	i := iy*width*stride + ix*stride

	out := RGBA{R: buf[i], G: buf[i+1], B: buf[i+2], A: def.A}
	if hasAlpha {
		out.A = buf[i+3]
	}
	return out
}

// sampleIndex applies the sampler addressing rule to one axis.
func sampleIndex(v float64, size int) int {
	if !(v >= 0) {
		v = 0
	}
	if v >= float64(size-1) {
		v = float64(size - 2)
	}
	if v < 0 {
		return 0
	}
	return int(math.Floor(v))
}
