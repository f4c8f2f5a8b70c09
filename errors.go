package cpurender

import "errors"

// Sentinel errors for cpurender.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("cpurender: invalid dimensions")

	// ErrBufferSize is returned when a pixel buffer does not hold exactly
	// width*height*stride values.
	ErrBufferSize = errors.New("cpurender: buffer size does not match dimensions")

	// ErrContextClosed is returned by operations on a closed RenderContext.
	ErrContextClosed = errors.New("cpurender: render context closed")

	// ErrTextureClosed is returned by operations on a closed Texture.
	ErrTextureClosed = errors.New("cpurender: texture closed")

	// ErrStaleTexture is returned when a shared texture outlived the buffer
	// it aliases (the owning context was resized or closed).
	ErrStaleTexture = errors.New("cpurender: shared texture is stale")

	// ErrNoAlpha is returned by operations that need an alpha channel.
	ErrNoAlpha = errors.New("cpurender: texture has no alpha channel")
)
