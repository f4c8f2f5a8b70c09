package video

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/cpurender"
)

func newFrame(t *testing.T, w, h int, col cpurender.RGBA) *cpurender.RenderContext {
	t.Helper()
	ctx, err := cpurender.NewRenderContext(w, h, true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ctx.Close() })
	ctx.SetColor(col)
	return ctx
}

func TestY4MHeaderAndFrame(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewY4MWriter(&buf, 2, 2, 30)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFrame(newFrame(t, 2, 2, cpurender.Red)); err != nil {
		t.Fatalf("WriteFrame() = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	const header = "YUV4MPEG2 W2 H2 F30:1 Ip A1:1 C420jpeg\n"
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte(header)) {
		t.Fatalf("header = %q, want %q", out[:min(len(out), len(header))], header)
	}
	frame := out[len(header):]
	if !bytes.HasPrefix(frame, []byte("FRAME\n")) {
		t.Fatalf("missing FRAME marker: %q", frame)
	}
	planes := frame[len("FRAME\n"):]
	if len(planes) != 4+1+1 {
		t.Fatalf("frame payload = %d bytes, want 6", len(planes))
	}
	yy, cb, cr := color.RGBToYCbCr(255, 0, 0)
	want := []byte{yy, yy, yy, yy, cb, cr}
	if !bytes.Equal(planes, want) {
		t.Errorf("planes = %v, want %v", planes, want)
	}
	if w.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", w.Frames())
	}
}

func TestY4MChromaAveraging(t *testing.T) {
	ctx := newFrame(t, 3, 1, cpurender.Black)
	ctx.SetPixel(0, 0, cpurender.RGBA{R: 1, A: 1})
	ctx.SetPixel(1, 0, cpurender.RGBA{B: 1, A: 1})

	var buf bytes.Buffer
	w, err := NewY4MWriter(&buf, 3, 1, 25)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFrame(ctx); err != nil {
		t.Fatal(err)
	}
	_ = w.Close()

	// 3 luma + 2 cb + 2 cr for a 3x1 frame.
	planes := buf.Bytes()[bytes.Index(buf.Bytes(), []byte("FRAME\n"))+6:]
	if len(planes) != 7 {
		t.Fatalf("payload = %d bytes, want 7", len(planes))
	}
	_, cb0, cr0 := color.RGBToYCbCr(255, 0, 0)
	_, cb1, cr1 := color.RGBToYCbCr(0, 0, 255)
	_, cb2, _ := color.RGBToYCbCr(0, 0, 0)
	wantCb := byte((int(cb0) + int(cb1) + 1) / 2)
	wantCr := byte((int(cr0) + int(cr1) + 1) / 2)
	if planes[3] != wantCb || planes[5] != wantCr {
		t.Errorf("first chroma pair = (%d, %d), want (%d, %d)", planes[3], planes[5], wantCb, wantCr)
	}
	if planes[4] != cb2 {
		t.Errorf("edge chroma = %d, want %d", planes[4], cb2)
	}
}

func TestY4MErrors(t *testing.T) {
	if _, err := NewY4MWriter(&bytes.Buffer{}, 0, 2, 30); !errors.Is(err, cpurender.ErrInvalidDimensions) {
		t.Errorf("zero width = %v", err)
	}
	if _, err := NewY4MWriter(&bytes.Buffer{}, 2, 2, 0); err == nil {
		t.Error("zero fps accepted")
	}

	w, _ := NewY4MWriter(&bytes.Buffer{}, 4, 4, 30)
	if err := w.WriteFrame(newFrame(t, 2, 2, cpurender.White)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("mismatched frame = %v, want ErrFrameSize", err)
	}
	_ = w.Close()
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := w.WriteFrame(newFrame(t, 4, 4, cpurender.White)); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close = %v, want ErrClosed", err)
	}
}

func TestFrameRate(t *testing.T) {
	tests := []struct {
		fps      float64
		num, den int
	}{
		{30, 30, 1},
		{25, 25, 1},
		{29.97, 2997, 100},
		{0.5, 1, 2},
	}
	for _, tt := range tests {
		num, den := frameRate(tt.fps)
		if num != tt.num || den != tt.den {
			t.Errorf("frameRate(%v) = %d:%d, want %d:%d", tt.fps, num, den, tt.num, tt.den)
		}
	}
}

func TestPNGSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	seq, err := NewPNGSequence(dir, "f_%03d.png")
	if err != nil {
		t.Fatal(err)
	}
	for _, col := range []cpurender.RGBA{cpurender.Red, cpurender.Green} {
		if err := seq.WriteFrame(newFrame(t, 3, 2, col)); err != nil {
			t.Fatalf("WriteFrame() = %v", err)
		}
	}
	if err := seq.WriteFrame(newFrame(t, 2, 2, cpurender.Blue)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("resized frame = %v, want ErrFrameSize", err)
	}
	_ = seq.Close()

	tex, err := cpurender.LoadTexture(filepath.Join(dir, "f_001.png"))
	if err != nil {
		t.Fatalf("LoadTexture() = %v", err)
	}
	if g, _ := tex.Channel(0, 0, cpurender.ChannelG); g != 1 {
		t.Errorf("second frame green = %v, want 1", g)
	}
	if _, err := os.Stat(seq.Path(2)); !os.IsNotExist(err) {
		t.Error("rejected frame was written")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	sink, err := Open(filepath.Join(dir, "out.y4m"), 2, 2, 24)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteFrame(newFrame(t, 2, 2, cpurender.White)); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.y4m"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "YUV4MPEG2 W2 H2 F24:1") {
		t.Errorf("file header = %q", data[:20])
	}

	if s, err := Open(filepath.Join(dir, "seq", "x_%d.jpg"), 2, 2, 24); err != nil {
		t.Errorf("Open(jpg pattern) = %v", err)
	} else if _, ok := s.(*Sequence); !ok {
		t.Errorf("Open(jpg pattern) = %T, want *Sequence", s)
	}

	for _, bad := range []string{"out.mp4", "single.png"} {
		if _, err := Open(filepath.Join(dir, bad), 2, 2, 24); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Open(%q) = %v, want ErrUnknownFormat", bad, err)
		}
	}
}
