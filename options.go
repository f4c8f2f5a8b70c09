package cpurender

// ContextOption configures a RenderContext during creation.
//
// Example:
//
//	// Default zeroed buffer
//	ctx, err := cpurender.NewRenderContext(800, 600, true)
//
//	// Adopt an existing buffer (no copy)
//	ctx, err := cpurender.NewRenderContext(800, 600, true, cpurender.WithBuffer(pixels))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for RenderContext creation.
type contextOptions struct {
	buffer        []float64
	stackCapacity int
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		buffer:        nil, // Will be allocated if nil
		stackCapacity: 8,
	}
}

// WithBuffer makes the context adopt buf as its pixel storage instead of
// allocating one. The slice must hold exactly width*height*stride values;
// NewRenderContext reports ErrBufferSize otherwise. The context owns buf
// from then on.
func WithBuffer(buf []float64) ContextOption {
	return func(o *contextOptions) {
		o.buffer = buf
	}
}

// WithStackCapacity preallocates room for n saved states.
func WithStackCapacity(n int) ContextOption {
	return func(o *contextOptions) {
		if n >= 0 {
			o.stackCapacity = n
		}
	}
}
