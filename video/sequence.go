package video

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/gogpu/cpurender"
)

const defaultJPEGQuality = 95

// Sequence writes each frame to its own image file. File names come from
// a printf pattern applied to the zero-based frame index.
type Sequence struct {
	dir     string
	pattern string
	encoder imgio.Encoder
	width   int
	height  int
	frames  int
	closed  bool
}

// NewPNGSequence writes frames as PNG files named by pattern inside dir,
// creating dir if needed. The first frame fixes the frame size.
func NewPNGSequence(dir, pattern string) (*Sequence, error) {
	return newSequence(dir, pattern, imgio.PNGEncoder())
}

// NewJPEGSequence is NewPNGSequence with JPEG output at the given quality.
func NewJPEGSequence(dir, pattern string, quality int) (*Sequence, error) {
	return newSequence(dir, pattern, imgio.JPEGEncoder(quality))
}

func newSequence(dir, pattern string, enc imgio.Encoder) (*Sequence, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	cpurender.Logger().Debug("video: opened image sequence",
		slog.String("dir", dir),
		slog.String("pattern", pattern))
	return &Sequence{dir: dir, pattern: pattern, encoder: enc}, nil
}

// Path returns the file name used for frame i.
func (s *Sequence) Path(i int) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.pattern, i))
}

// Frames returns how many frames have been written.
func (s *Sequence) Frames() int {
	return s.frames
}

// WriteFrame encodes the context to the next file.
func (s *Sequence) WriteFrame(ctx *cpurender.RenderContext) error {
	if s.closed {
		return ErrClosed
	}
	if s.frames == 0 {
		s.width, s.height = ctx.Width(), ctx.Height()
	} else if err := checkSize(ctx, s.width, s.height); err != nil {
		return err
	}
	path := s.Path(s.frames)
	if err := imgio.Save(path, ctx.Image(), s.encoder); err != nil {
		return fmt.Errorf("video: write %s: %w", path, err)
	}
	s.frames++
	return nil
}

// Close marks the sequence finished. Files are complete once WriteFrame
// returns, so Close only stops further writes.
func (s *Sequence) Close() error {
	s.closed = true
	return nil
}
