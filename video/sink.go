// Package video writes rendered frames to files: raw YUV4MPEG2 streams
// for piping into an encoder, or numbered image sequences.
package video

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/cpurender"
)

// Sentinel errors.
var (
	ErrFrameSize     = errors.New("video: frame size does not match sink")
	ErrClosed        = errors.New("video: sink closed")
	ErrUnknownFormat = errors.New("video: unknown output format")
)

// Sink receives frames in call order. Each frame is snapshotted as 8-bit
// pixels during WriteFrame, so the context may be redrawn right after.
type Sink interface {
	WriteFrame(ctx *cpurender.RenderContext) error
	Close() error
}

// Open picks a sink for path by extension.
//
//   - ".y4m" writes a YUV4MPEG2 stream to the file.
//   - ".png", ".jpg" or ".jpeg" with a printf verb in the file name (for
//     example "out/frame_%05d.png") writes one image per frame.
func Open(path string, width, height int, fps float64) (Sink, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dir, name := filepath.Split(path)
	switch {
	case ext == ".y4m":
		f, err := os.Create(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("video: %w", err)
		}
		w, err := NewY4MWriter(f, width, height, fps)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		w.closer = f
		cpurender.Logger().Debug("video: opened y4m sink", slog.String("path", path))
		return w, nil
	case ext == ".png" && strings.Contains(name, "%"):
		return NewPNGSequence(dir, name)
	case (ext == ".jpg" || ext == ".jpeg") && strings.Contains(name, "%"):
		return NewJPEGSequence(dir, name, defaultJPEGQuality)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

func checkSize(ctx *cpurender.RenderContext, width, height int) error {
	if ctx.Width() != width || ctx.Height() != height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrFrameSize, ctx.Width(), ctx.Height(), width, height)
	}
	return nil
}
