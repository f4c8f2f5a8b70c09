package cpurender

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.buffer != nil {
		t.Error("default options carry a buffer")
	}
	if o.stackCapacity != 8 {
		t.Errorf("stackCapacity = %d, want 8", o.stackCapacity)
	}
}

func TestWithStackCapacity(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{32, 32},
		{-1, 8},
	}
	for _, tt := range tests {
		o := defaultOptions()
		WithStackCapacity(tt.n)(&o)
		if o.stackCapacity != tt.want {
			t.Errorf("WithStackCapacity(%d) = %d, want %d", tt.n, o.stackCapacity, tt.want)
		}
	}

	ctx, err := NewRenderContext(2, 2, true, WithStackCapacity(0))
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()
	for i := 0; i < 3; i++ {
		ctx.Save()
	}
	if ctx.StackDepth() != 3 {
		t.Errorf("StackDepth() = %d, want 3", ctx.StackDepth())
	}
}
