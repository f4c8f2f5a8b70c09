package video

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/cpurender"
)

// Y4MWriter streams frames as YUV4MPEG2 with full-range BT.601 4:2:0
// chroma (C420jpeg). Chroma samples average each 2x2 block. Alpha is
// ignored.
type Y4MWriter struct {
	w       *bufio.Writer
	closer  io.Closer
	width   int
	height  int
	frames  int
	closed  bool
	y, u, v []byte
}

// NewY4MWriter writes the stream header to w and returns the writer.
// fps must be positive.
func NewY4MWriter(w io.Writer, width, height int, fps float64) (*Y4MWriter, error) {
	if width <= 0 || height <= 0 {
		return nil, cpurender.ErrInvalidDimensions
	}
	if !(fps > 0) || math.IsInf(fps, 0) {
		return nil, fmt.Errorf("video: invalid frame rate %v", fps)
	}
	cw, ch := (width+1)/2, (height+1)/2
	y := &Y4MWriter{
		w:      bufio.NewWriter(w),
		width:  width,
		height: height,
		y:      make([]byte, width*height),
		u:      make([]byte, cw*ch),
		v:      make([]byte, cw*ch),
	}
	num, den := frameRate(fps)
	if _, err := fmt.Fprintf(y.w, "YUV4MPEG2 W%d H%d F%d:%d Ip A1:1 C420jpeg\n",
		width, height, num, den); err != nil {
		return nil, fmt.Errorf("video: write header: %w", err)
	}
	return y, nil
}

// Frames returns how many frames have been written.
func (y *Y4MWriter) Frames() int {
	return y.frames
}

// WriteFrame converts the context to YUV and appends it to the stream.
func (y *Y4MWriter) WriteFrame(ctx *cpurender.RenderContext) error {
	if y.closed {
		return ErrClosed
	}
	if err := checkSize(ctx, y.width, y.height); err != nil {
		return err
	}
	y.convert(ctx)

	if _, err := io.WriteString(y.w, "FRAME\n"); err != nil {
		return fmt.Errorf("video: write frame: %w", err)
	}
	for _, plane := range [][]byte{y.y, y.u, y.v} {
		if _, err := y.w.Write(plane); err != nil {
			return fmt.Errorf("video: write frame: %w", err)
		}
	}
	y.frames++
	return nil
}

// convert fills the Y, U and V planes from the context.
func (y *Y4MWriter) convert(ctx *cpurender.RenderContext) {
	img := ctx.Image()
	cw := (y.width + 1) / 2

	cb := make([]int, len(y.u))
	cr := make([]int, len(y.v))
	n := make([]int, len(y.u))

	for py := 0; py < y.height; py++ {
		row := img.Pix[py*img.Stride:]
		for px := 0; px < y.width; px++ {
			p := row[px*4:]
			yy, u, v := color.RGBToYCbCr(p[0], p[1], p[2])
			y.y[py*y.width+px] = yy
			k := (py/2)*cw + px/2
			cb[k] += int(u)
			cr[k] += int(v)
			n[k]++
		}
	}
	for k := range cb {
		y.u[k] = byte((cb[k] + n[k]/2) / n[k])
		y.v[k] = byte((cr[k] + n[k]/2) / n[k])
	}
}

// Close flushes buffered output and closes the underlying file when the
// writer was created by Open. Close is idempotent.
func (y *Y4MWriter) Close() error {
	if y.closed {
		return nil
	}
	y.closed = true
	err := y.w.Flush()
	if y.closer != nil {
		if cerr := y.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("video: close: %w", err)
	}
	return nil
}

// frameRate expresses fps as a reduced fraction with millihertz precision.
func frameRate(fps float64) (num, den int) {
	num = int(math.Round(fps * 1000))
	den = 1000
	a, b := num, den
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 0, 1
	}
	return num / a, den / a
}
