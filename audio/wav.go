package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// wavPrecision is the byte width of WAV samples (16-bit PCM).
const wavPrecision = 2

// pcm16Scale undoes beep's 16-bit decoder dividing by 65535 where the
// encoder multiplies by 32767.
const pcm16Scale = 65535.0 / 32767

// Format returns the beep format used when encoding c.
func (c *Clip) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(c.SampleRate),
		NumChannels: c.Channels,
		Precision:   wavPrecision,
	}
}

// Streamer returns a beep streamer that plays c from the start. Mono clips
// feed the same sample to both stereo slots.
func (c *Clip) Streamer() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for n < len(samples) && pos < c.Frames {
			i := pos * c.Channels
			l := c.Samples[i]
			r := l
			if c.Channels > 1 {
				r = c.Samples[i+1]
			}
			samples[n] = [2]float64{l, r}
			n++
			pos++
		}
		return n, n > 0
	})
}

// WriteWAV encodes c as 16-bit PCM WAV. Samples are clamped to [-1, 1]
// and scaled by 32767. Only mono and stereo clips are supported.
func (c *Clip) WriteWAV(w io.WriteSeeker) error {
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("%w: got %d", ErrUnsupportedChannels, c.Channels)
	}
	if err := wav.Encode(w, c.Streamer(), c.Format()); err != nil {
		return fmt.Errorf("audio: encode wav: %w", err)
	}
	return nil
}

// EncodeWAV returns the WAV encoding of c as a byte slice.
func (c *Clip) EncodeWAV() ([]byte, error) {
	var buf seekBuffer
	if err := c.WriteWAV(&buf); err != nil {
		return nil, err
	}
	return buf.data, nil
}

// ReadWAV decodes a PCM WAV stream into a clip.
func ReadWAV(r io.Reader) (*Clip, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("audio: decode wav: %w", err)
	}
	defer s.Close()

	ch := min(format.NumChannels, 2)
	if ch < 1 {
		return nil, ErrInvalidFormat
	}
	scale := 1.0
	if format.Precision == 2 {
		scale = pcm16Scale
	}
	samples := make([]float64, 0, s.Len()*ch)
	block := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(block)
		for _, v := range block[:n] {
			for c := 0; c < ch; c++ {
				samples = append(samples, v[c]*scale)
			}
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("audio: decode wav: %w", err)
	}
	return &Clip{
		SampleRate: int(format.SampleRate),
		Channels:   ch,
		Frames:     len(samples) / ch,
		Samples:    samples,
	}, nil
}

// PCMFloat32LE returns the samples as interleaved little-endian float32,
// the layout audio devices usually accept directly.
func (c *Clip) PCMFloat32LE() []byte {
	out := make([]byte, 4*len(c.Samples))
	for i, v := range c.Samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(float32(v)))
	}
	return out
}

// seekBuffer is an in-memory io.WriteSeeker. wav.Encode seeks back to
// patch the RIFF sizes once the data length is known.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		b.data = append(b.data, make([]byte, need-len(b.data))...)
	}
	n := copy(b.data[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(b.pos)
	case io.SeekEnd:
		base = int64(len(b.data))
	default:
		return 0, fmt.Errorf("audio: invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, fmt.Errorf("audio: negative seek position %d", pos)
	}
	b.pos = int(pos)
	return pos, nil
}
