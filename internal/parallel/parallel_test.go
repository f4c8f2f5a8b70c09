package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestWorkers(t *testing.T) {
	if got := Workers(3); got != 3 {
		t.Errorf("Workers(3) = %d", got)
	}
	if got := Workers(0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers(0) = %d, want GOMAXPROCS", got)
	}
}

func TestForVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 3, 0} {
		const n = 100
		var seen [n]atomic.Int32
		err := For(context.Background(), workers, n, func(_ context.Context, i int) error {
			seen[i].Add(1)
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: For() = %v", workers, err)
		}
		for i := range seen {
			if got := seen[i].Load(); got != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, got)
			}
		}
	}
}

func TestForStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32
	err := For(context.Background(), 1, 50, func(_ context.Context, i int) error {
		ran.Add(1)
		if i == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("For() = %v, want boom", err)
	}
	if ran.Load() == 50 {
		t.Error("all jobs ran after a failure")
	}
}

func TestForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Int32
	err := For(ctx, 2, 10, func(context.Context, int) error {
		ran.Add(1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("For() = %v, want context.Canceled", err)
	}
	if ran.Load() != 0 {
		t.Errorf("%d jobs ran on a cancelled context", ran.Load())
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		n, parts int
		want     [][2]int
	}{
		{10, 3, [][2]int{{0, 4}, {4, 7}, {7, 10}}},
		{2, 4, [][2]int{{0, 1}, {1, 2}}},
		{6, 2, [][2]int{{0, 3}, {3, 6}}},
		{0, 4, nil},
	}
	for _, tt := range tests {
		got := Bands(tt.n, tt.parts)
		if len(got) != len(tt.want) {
			t.Errorf("Bands(%d, %d) = %v, want %v", tt.n, tt.parts, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Bands(%d, %d) = %v, want %v", tt.n, tt.parts, got, tt.want)
				break
			}
		}
	}
}
