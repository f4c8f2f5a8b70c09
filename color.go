package cpurender

import (
	"image/color"
	"strconv"
	"strings"
)

// RGBA represents a straight (non-premultiplied) color.
// Components are nominally in [0, 1] but are never clamped by the engine.
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA2 creates a color from RGBA components.
func RGBA2(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// Color converts RGBA to the standard color.Color interface.
// Components are clamped to the byte range, unlike the buffer export.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to a straight RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// Hex parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa" (the '#' is
// optional). Anything else yields opaque black.
func Hex(s string) RGBA {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3, 4:
		long := make([]byte, 0, 2*len(s))
		for i := 0; i < len(s); i++ {
			long = append(long, s[i], s[i])
		}
		s = string(long)
	}
	switch len(s) {
	case 6:
		s += "ff"
	case 8:
	default:
		return Black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black
	}
	return RGBA{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// uniform reports whether all four components are numerically equal.
func (c RGBA) uniform() bool {
	return c.R == c.G && c.G == c.B && c.B == c.A
}

// ColorTransform is a per-channel multiplicative tint applied to every
// composited color before blending.
type ColorTransform struct {
	R, G, B, A float64
}

// IdentityColorTransform returns the tint that leaves colors unchanged.
func IdentityColorTransform() ColorTransform {
	return ColorTransform{R: 1, G: 1, B: 1, A: 1}
}

// Apply multiplies each channel of c by the tint.
func (t ColorTransform) Apply(c RGBA) RGBA {
	return RGBA{R: c.R * t.R, G: c.G * t.G, B: c.B * t.B, A: c.A * t.A}
}

// Concat returns the tint equivalent to applying t and then other.
func (t ColorTransform) Concat(other ColorTransform) ColorTransform {
	return ColorTransform{R: t.R * other.R, G: t.G * other.G, B: t.B * other.B, A: t.A * other.A}
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA2(0, 0, 0, 0)
)

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
