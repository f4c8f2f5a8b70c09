package cpurender

import (
	"log/slog"
)

// Texture channel indices for Texture.Channel.
const (
	ChannelR = 0
	ChannelG = 1
	ChannelB = 2
	ChannelA = 3
)

// textureStorage is where a texture's pixels live.
// It is either an ownedBuffer or a borrowedBuffer.
type textureStorage interface {
	// pixels returns the current pixel slice, or an error when the
	// storage is no longer usable.
	pixels() ([]float64, error)
	release()
}

// ownedBuffer is a private pixel copy released by Texture.Close.
type ownedBuffer struct {
	data []float64
}

func (o *ownedBuffer) pixels() ([]float64, error) {
	if o.data == nil {
		return nil, ErrTextureClosed
	}
	return o.data, nil
}

func (o *ownedBuffer) release() {
	o.data = nil
}

// borrowedBuffer aliases a RenderContext buffer. It never frees the memory
// and is valid only while the owner keeps the generation it was made at.
type borrowedBuffer struct {
	owner      *RenderContext
	generation uint64
	detached   bool
}

func (b *borrowedBuffer) pixels() ([]float64, error) {
	if b.detached {
		return nil, ErrTextureClosed
	}
	if b.owner.closed || b.owner.generation != b.generation {
		return nil, ErrStaleTexture
	}
	return b.owner.buffer, nil
}

func (b *borrowedBuffer) release() {
	b.detached = true
}

// Texture is a read-only pixel source for DrawTexture and friends.
// Its buffer has the same layout as a RenderContext buffer.
//
// A texture either owns a private copy of its pixels or is a shared view of
// a RenderContext buffer (see RenderContext.SharedTexture). A shared view
// sees later drawing on its context and goes stale when the context is
// resized or closed.
type Texture struct {
	width    int
	height   int
	hasAlpha bool
	storage  textureStorage
}

// NewTexture creates a texture owning a copy of data, which must hold
// exactly width*height*stride floats.
func NewTexture(width, height int, hasAlpha bool, data []float64) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != width*height*channelStride(hasAlpha) {
		return nil, ErrBufferSize
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return newOwnedTexture(width, height, hasAlpha, buf), nil
}

// NewTextureUint8 creates a texture from 8-bit data, dividing each value
// by 255.
func NewTextureUint8(width, height int, hasAlpha bool, data []uint8) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != width*height*channelStride(hasAlpha) {
		return nil, ErrBufferSize
	}
	buf := make([]float64, len(data))
	for i, v := range data {
		buf[i] = float64(v) / 255.0
	}
	return newOwnedTexture(width, height, hasAlpha, buf), nil
}

func newOwnedTexture(width, height int, hasAlpha bool, buf []float64) *Texture {
	return &Texture{
		width:    width,
		height:   height,
		hasAlpha: hasAlpha,
		storage:  &ownedBuffer{data: buf},
	}
}

// Texture returns a texture owning a copy of the current buffer.
func (c *RenderContext) Texture() (*Texture, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	buf := make([]float64, len(c.buffer))
	copy(buf, c.buffer)
	return newOwnedTexture(c.width, c.height, c.hasAlpha, buf), nil
}

// SharedTexture returns a texture that aliases the context buffer without
// copying. The view is invalidated by Resize and Close.
func (c *RenderContext) SharedTexture() (*Texture, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	return &Texture{
		width:    c.width,
		height:   c.height,
		hasAlpha: c.hasAlpha,
		storage:  &borrowedBuffer{owner: c, generation: c.generation},
	}, nil
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.height
}

// HasAlpha reports whether the texture stores an alpha channel.
func (t *Texture) HasAlpha() bool {
	return t.hasAlpha
}

// Stride returns the number of floats per pixel (3 or 4).
func (t *Texture) Stride() int {
	return channelStride(t.hasAlpha)
}

// Shared reports whether the texture is a view of a RenderContext buffer.
func (t *Texture) Shared() bool {
	_, ok := t.storage.(*borrowedBuffer)
	return ok
}

// Valid reports whether the texture can still be read.
func (t *Texture) Valid() bool {
	_, err := t.storage.pixels()
	return err == nil
}

// Err returns why the texture cannot be read, or nil.
func (t *Texture) Err() error {
	_, err := t.storage.pixels()
	return err
}

// Data returns a copy of the texture pixels.
func (t *Texture) Data() ([]float64, error) {
	buf, err := t.storage.pixels()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(buf))
	copy(out, buf)
	return out, nil
}

// Close releases an owned buffer, or detaches a shared view without
// touching the context it aliases. Close is idempotent.
func (t *Texture) Close() error {
	t.storage.release()
	return nil
}

// At returns the color at texture coordinate (x, y) using the engine's
// sampling rule. Textures without alpha report alpha 1. Unreadable
// textures return Transparent.
func (t *Texture) At(x, y float64) RGBA {
	buf, err := t.storage.pixels()
	if err != nil {
		return Transparent
	}
	return Sample(buf, t.width, t.height, t.hasAlpha, x, y, White)
}

// Channel returns a single channel of pixel (x, y). Use the Channel*
// constants. It reports false for out-of-range coordinates or channels,
// for the alpha channel of an RGB texture, and for unreadable textures.
func (t *Texture) Channel(x, y, ch int) (float64, bool) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height || ch < 0 || ch >= t.Stride() {
		return 0, false
	}
	buf, err := t.storage.pixels()
	if err != nil {
		return 0, false
	}
	return buf[(y*t.width+x)*t.Stride()+ch], true
}

// Resample returns a new owned texture of the given size. Pixel (i, j)
// samples the source at (i/width*srcWidth, j/height*srcHeight).
func (t *Texture) Resample(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	src, err := t.storage.pixels()
	if err != nil {
		return nil, err
	}

	stride := t.Stride()
	buf := make([]float64, width*height*stride)
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			sx := float64(i) / float64(width) * float64(t.width)
			sy := float64(j) / float64(height) * float64(t.height)
			c := Sample(src, t.width, t.height, t.hasAlpha, sx, sy, Transparent)
			k := (j*width + i) * stride
			buf[k+0] = c.R
			buf[k+1] = c.G
			buf[k+2] = c.B
			if t.hasAlpha {
				buf[k+3] = c.A
			}
		}
	}
	return newOwnedTexture(width, height, t.hasAlpha, buf), nil
}

// readable returns the texture pixels for drawing, logging when a shared
// view has gone stale.
func (t *Texture) readable() ([]float64, bool) {
	if t == nil {
		return nil, false
	}
	buf, err := t.storage.pixels()
	if err != nil {
		Logger().Warn("cpurender: skipping unreadable texture",
			slog.Int("width", t.width),
			slog.Int("height", t.height),
			slog.String("err", err.Error()))
		return nil, false
	}
	return buf, true
}
