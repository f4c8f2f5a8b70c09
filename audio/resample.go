package audio

import "math"

// Resample converts c in place to the given rate and channel count using
// linear interpolation between neighbouring source frames. The length in
// seconds is kept, truncated to whole output frames.
//
// When the channel count changes, each output frame is the mean of the
// source channels, copied to every output channel.
func (c *Clip) Resample(sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return ErrInvalidFormat
	}
	if sampleRate == c.SampleRate && channels == c.Channels {
		return nil
	}

	frames := int(c.Duration() * float64(sampleRate))
	out := make([]float64, frames*channels)
	if c.Frames > 0 {
		for i := 0; i < frames; i++ {
			pos := float64(i) / float64(sampleRate) * float64(c.SampleRate)
			lo := c.clampFrame(math.Floor(pos))
			hi := c.clampFrame(math.Ceil(pos))
			frac := pos - math.Floor(pos)

			dst := out[i*channels : (i+1)*channels]
			if channels == c.Channels {
				for k := range dst {
					a := c.Samples[lo*c.Channels+k]
					b := c.Samples[hi*c.Channels+k]
					dst[k] = a + (b-a)*frac
				}
				continue
			}
			a := c.mean(lo)
			b := c.mean(hi)
			v := a + (b-a)*frac
			for k := range dst {
				dst[k] = v
			}
		}
	}

	c.Samples = out
	c.SampleRate = sampleRate
	c.Channels = channels
	c.Frames = frames
	return nil
}

// ResampleLike resamples c to the rate and channel count of other.
func (c *Clip) ResampleLike(other *Clip) error {
	return c.Resample(other.SampleRate, other.Channels)
}

func (c *Clip) clampFrame(f float64) int {
	return int(min(max(f, 0), float64(c.Frames-1)))
}

// mean averages the channels of one frame.
func (c *Clip) mean(frame int) float64 {
	sum := 0.0
	for _, v := range c.Samples[frame*c.Channels : (frame+1)*c.Channels] {
		sum += v
	}
	return sum / float64(c.Channels)
}
