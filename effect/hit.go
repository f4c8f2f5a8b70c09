// Package effect generates procedural textures on top of the raster engine.
package effect

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/cpurender"
	"github.com/gogpu/cpurender/internal/parallel"
)

// ErrFrameCount is returned by HitEffectFrames for n < 1.
var ErrFrameCount = errors.New("effect: frame count must be at least 1")

// DefaultTint is the lavender used for hit bursts.
var DefaultTint = cpurender.RGBA{R: 0x96 / 255.0, G: 0x90 / 255.0, B: 0xfd / 255.0, A: 1}

const noiseDensity = 50.0

// HitEffect dissolves mask with a radial value-noise pattern. Pixels whose
// noise value is below t become transparent; the rest take the tint with
// alpha equal to the mask alpha times tint.A. As t grows from 0 to 1 the
// burst eats itself from the noise troughs outward.
//
// The mask must have an alpha channel; otherwise ErrNoAlpha is returned.
// The same seed always yields the same pattern.
func HitEffect(mask *cpurender.Texture, seed, t float64, tint cpurender.RGBA) (*cpurender.Texture, error) {
	if !mask.HasAlpha() {
		return nil, cpurender.ErrNoAlpha
	}
	if err := mask.Err(); err != nil {
		return nil, err
	}
	w, h := mask.Width(), mask.Height()
	buf := make([]float64, w*h*4)

	bands := parallel.Bands(h, 0)
	err := parallel.For(context.Background(), 0, len(bands), func(_ context.Context, b int) error {
		for y := bands[b][0]; y < bands[b][1]; y++ {
			for x := 0; x < w; x++ {
				ma, ok := mask.Channel(x, y, cpurender.ChannelA)
				if !ok {
					return cpurender.ErrStaleTexture
				}
				a := 1.0
				if circularNoise(float64(x)/float64(w), float64(y)/float64(h), seed) < t {
					a = 0
				}
				i := (y*w + x) * 4
				buf[i+0] = tint.R
				buf[i+1] = tint.G
				buf[i+2] = tint.B
				buf[i+3] = a * ma * tint.A
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("effect: read mask: %w", err)
	}
	return cpurender.NewTexture(w, h, true, buf)
}

// HitEffectFrames renders n frames of the dissolve with t = i/(n-1),
// so the first frame is the full mask and the last is fully dissolved.
// A single frame uses t = 0.
func HitEffectFrames(mask *cpurender.Texture, seed float64, n int, tint cpurender.RGBA) ([]*cpurender.Texture, error) {
	if n < 1 {
		return nil, ErrFrameCount
	}
	frames := make([]*cpurender.Texture, n)
	for i := range frames {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		tex, err := HitEffect(mask, seed, t, tint)
		if err != nil {
			return nil, err
		}
		frames[i] = tex
	}
	return frames, nil
}

// circularNoise samples three octaves of value noise in polar coordinates
// around the texture centre. The angle is folded with abs so the pattern
// is mirrored about the horizontal axis, then warped on the lower half.
func circularNoise(u, v, seed float64) float64 {
	cx, cy := u-0.5, v-0.5
	radius := math.Sqrt(cx*cx+cy*cy) * noiseDensity
	angle := math.Abs(math.Atan2(cy, cx))
	if v > 0.5 {
		angle += math.Sin(angle) * 2
	}

	px := radius + seed*100
	py := angle + seed*100
	return valueNoise(px, py)*0.7 +
		valueNoise(px*2, py*2)*0.3 +
		valueNoise(px*4, py*4)*0.1
}

// valueNoise is smoothstep-interpolated lattice noise.
func valueNoise(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy

	a := hash(ix, iy)
	b := hash(ix+1, iy)
	c := hash(ix, iy+1)
	d := hash(ix+1, iy+1)

	sx := fx * fx * (3 - 2*fx)
	sy := fy * fy * (3 - 2*fy)
	top := a + (b-a)*sx
	bottom := c + (d-c)*sx
	return top + (bottom-top)*sy
}

// hash is the classic sin-fract pseudo random lattice value in [0, 1).
func hash(x, y float64) float64 {
	return fract(math.Sin(x*12.9898+y*78.233) * 43758.5453)
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}
