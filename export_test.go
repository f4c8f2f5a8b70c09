package cpurender

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestToByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 127},
		{1.5, 126},  // 382 wraps
		{-0.1, 231}, // -25 wraps
		{2, 254},    // 510 wraps
		{math.NaN(), 0},
		{math.Inf(1), uint8(int64(9.2e18) & 0xff)},
	}
	for _, tt := range tests {
		if got := toByte(tt.in); got != tt.want {
			t.Errorf("toByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBufferUint8(t *testing.T) {
	ctx := newTestContext(t, 2, 1, true)
	ctx.SetPixel(0, 0, RGBA{1, 0, 0.5, 1})
	ctx.SetPixel(1, 0, RGBA{1.5, -0.1, 0, 0})

	want := []uint8{255, 0, 127, 255, 126, 231, 0, 0}
	got := ctx.BufferUint8()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("BufferUint8()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	short := make([]uint8, 3)
	if n := ctx.CopyBufferUint8(short); n != 3 || short[2] != 127 {
		t.Errorf("CopyBufferUint8 into short slice = %d, %v", n, short)
	}
}

func TestBufferIsCopy(t *testing.T) {
	ctx := newTestContext(t, 1, 1, false)
	buf := ctx.Buffer()
	buf[0] = 1
	if ctx.GetColor(0, 0).R != 0 {
		t.Error("Buffer() aliases the context buffer")
	}

	dst := make([]float64, 10)
	if n := ctx.CopyBuffer(dst); n != 3 {
		t.Errorf("CopyBuffer = %d, want 3", n)
	}
}

func TestImageRGBIsOpaque(t *testing.T) {
	ctx := newTestContext(t, 2, 2, false)
	ctx.SetColor(RGBA{1, 0.5, 0, 0})
	img := ctx.Image()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("image bounds = %v", img.Bounds())
	}
	c := img.NRGBAAt(1, 1)
	if c.R != 255 || c.G != 127 || c.B != 0 || c.A != 255 {
		t.Errorf("pixel = %+v, want {255 127 0 255}", c)
	}
}

func TestSavePNGRoundTrip(t *testing.T) {
	ctx := newTestContext(t, 3, 2, true)
	ctx.SetColor(RGBA{0, 0, 0, 1})
	ctx.SetPixel(2, 1, RGBA{1, 0.5, 0, 1})

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := ctx.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() = %v", err)
	}
	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture() = %v", err)
	}
	if tex.Width() != 3 || tex.Height() != 2 {
		t.Fatalf("loaded %dx%d, want 3x2", tex.Width(), tex.Height())
	}
	r, _ := tex.Channel(2, 1, ChannelR)
	g, _ := tex.Channel(2, 1, ChannelG)
	if r != 1 || g != 127.0/255 {
		t.Errorf("loaded pixel R=%v G=%v, want 1 and %v", r, g, 127.0/255)
	}

	_ = ctx.Close()
	if err := ctx.SavePNG(path); !errors.Is(err, ErrContextClosed) {
		t.Errorf("SavePNG on closed context = %v, want ErrContextClosed", err)
	}
}

func TestLoadTextureMissing(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("LoadTexture of missing file succeeded")
	}
}

func TestExportsAfterClose(t *testing.T) {
	ctx := newTestContext(t, 3, 2, true)
	ctx.SetColor(Red)
	if err := ctx.Close(); err != nil {
		t.Fatal(err)
	}

	if got := ctx.Buffer(); len(got) != 0 {
		t.Errorf("Buffer() len = %d, want 0", len(got))
	}
	if got := ctx.BufferUint8(); len(got) != 0 {
		t.Errorf("BufferUint8() len = %d, want 0", len(got))
	}
	if n := ctx.CopyBuffer(make([]float64, 24)); n != 0 {
		t.Errorf("CopyBuffer() = %d, want 0", n)
	}
	if n := ctx.CopyBufferUint8(make([]uint8, 24)); n != 0 {
		t.Errorf("CopyBufferUint8() = %d, want 0", n)
	}
	img := ctx.Image()
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("Image() bounds = %v, want 3x2", b)
	}
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("Image().Pix[%d] = %d, want 0", i, v)
		}
	}

	if err := ctx.SavePNG(filepath.Join(t.TempDir(), "x.png")); !errors.Is(err, ErrContextClosed) {
		t.Errorf("SavePNG() = %v, want ErrContextClosed", err)
	}
	if _, err := ctx.Texture(); !errors.Is(err, ErrContextClosed) {
		t.Errorf("Texture() = %v, want ErrContextClosed", err)
	}
	if _, err := ctx.SharedTexture(); !errors.Is(err, ErrContextClosed) {
		t.Errorf("SharedTexture() = %v, want ErrContextClosed", err)
	}
}
