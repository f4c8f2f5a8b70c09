// Package audio holds interleaved float PCM clips that travel alongside
// rendered frames: construction, resampling, mixing, trimming and WAV I/O.
package audio

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors.
var (
	ErrInvalidFormat       = errors.New("audio: sample rate and channels must be positive")
	ErrSampleCount         = errors.New("audio: sample count does not match frames*channels")
	ErrSampleRateMismatch  = errors.New("audio: sample rate mismatch")
	ErrChannelMismatch     = errors.New("audio: channel count mismatch")
	ErrInvalidRange        = errors.New("audio: invalid frame range")
	ErrUnsupportedChannels = errors.New("audio: WAV output supports 1 or 2 channels")
)

// Clip is a block of interleaved samples. Sample k of frame i lives at
// Samples[i*Channels+k]. Values are nominally in [-1, 1].
type Clip struct {
	SampleRate int
	Channels   int
	Frames     int
	Samples    []float64
}

// NewClip creates a clip holding a copy of samples.
func NewClip(sampleRate, channels, frames int, samples []float64) (*Clip, error) {
	if sampleRate <= 0 || channels <= 0 || frames < 0 {
		return nil, ErrInvalidFormat
	}
	if len(samples) != frames*channels {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSampleCount, len(samples), frames*channels)
	}
	buf := make([]float64, len(samples))
	copy(buf, samples)
	return &Clip{SampleRate: sampleRate, Channels: channels, Frames: frames, Samples: buf}, nil
}

// NewClipInt16 creates a clip from signed 16-bit samples, dividing each by
// 32768.
func NewClipInt16(sampleRate, channels, frames int, samples []int16) (*Clip, error) {
	if sampleRate <= 0 || channels <= 0 || frames < 0 {
		return nil, ErrInvalidFormat
	}
	if len(samples) != frames*channels {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSampleCount, len(samples), frames*channels)
	}
	buf := make([]float64, len(samples))
	for i, v := range samples {
		buf[i] = float64(v) / 32768.0
	}
	return &Clip{SampleRate: sampleRate, Channels: channels, Frames: frames, Samples: buf}, nil
}

// Silent creates a zeroed clip.
func Silent(sampleRate, channels, frames int) (*Clip, error) {
	if sampleRate <= 0 || channels <= 0 || frames < 0 {
		return nil, ErrInvalidFormat
	}
	return &Clip{
		SampleRate: sampleRate,
		Channels:   channels,
		Frames:     frames,
		Samples:    make([]float64, frames*channels),
	}, nil
}

// Clone returns a deep copy of c.
func (c *Clip) Clone() *Clip {
	buf := make([]float64, len(c.Samples))
	copy(buf, c.Samples)
	return &Clip{SampleRate: c.SampleRate, Channels: c.Channels, Frames: c.Frames, Samples: buf}
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	return float64(c.Frames) / float64(c.SampleRate)
}

// FrameAt returns the frame index of a time in seconds, truncated.
func (c *Clip) FrameAt(seconds float64) int {
	return int(seconds * float64(c.SampleRate))
}

// Overlay mixes src into c starting at startFrame by adding samples.
// Frames of src that fall outside c are dropped; c never grows.
//
// With autoResample, a src whose rate or channel count differs from c is
// resampled on a copy first. Otherwise a mismatch returns
// ErrSampleRateMismatch or ErrChannelMismatch and leaves c untouched.
func (c *Clip) Overlay(src *Clip, startFrame int, autoResample bool) error {
	if autoResample && (src.SampleRate != c.SampleRate || src.Channels != c.Channels) {
		src = src.Clone()
		if err := src.ResampleLike(c); err != nil {
			return err
		}
	}
	if src.SampleRate != c.SampleRate {
		return fmt.Errorf("%w: %d Hz into %d Hz", ErrSampleRateMismatch, src.SampleRate, c.SampleRate)
	}
	if src.Channels != c.Channels {
		return fmt.Errorf("%w: %d into %d", ErrChannelMismatch, src.Channels, c.Channels)
	}

	ch := c.Channels
	for i := 0; i < src.Frames; i++ {
		t := startFrame + i
		if t >= c.Frames {
			break
		}
		if t < 0 {
			continue
		}
		for k := 0; k < ch; k++ {
			c.Samples[t*ch+k] += src.Samples[i*ch+k]
		}
	}
	return nil
}

// OverlaySeconds is Overlay with the start given in seconds of c.
func (c *Clip) OverlaySeconds(src *Clip, start float64, autoResample bool) error {
	return c.Overlay(src, c.FrameAt(start), autoResample)
}

// Cut keeps frames [start, end). Frames past the end of the clip are
// silent, so Cut can also pad.
func (c *Clip) Cut(start, end int) error {
	if start < 0 || end < start {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	ch := c.Channels
	buf := make([]float64, (end-start)*ch)
	if start < c.Frames {
		copy(buf, c.Samples[start*ch:min(end, c.Frames)*ch])
	}
	c.Samples = buf
	c.Frames = end - start
	return nil
}

// CutSeconds is Cut with the range given in seconds.
func (c *Clip) CutSeconds(start, end float64) error {
	return c.Cut(c.FrameAt(start), c.FrameAt(end))
}

// Gain multiplies every sample by g.
func (c *Clip) Gain(g float64) {
	for i := range c.Samples {
		c.Samples[i] *= g
	}
}

// Speed changes playback speed by relabelling the sample rate. The
// samples are untouched, so pitch shifts with speed.
func (c *Clip) Speed(s float64) error {
	rate := int(float64(c.SampleRate) * s)
	if rate <= 0 || math.IsNaN(s) {
		return fmt.Errorf("%w: speed %v gives %d Hz", ErrInvalidFormat, s, rate)
	}
	c.SampleRate = rate
	return nil
}

// Peak returns the largest absolute sample value.
func (c *Clip) Peak() float64 {
	peak := 0.0
	for _, v := range c.Samples {
		peak = max(peak, math.Abs(v))
	}
	return peak
}
