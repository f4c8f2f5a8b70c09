// Package parallel runs independent, indexed jobs on a bounded number of
// goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a requested worker count. Zero or negative means
// GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For calls fn(ctx, i) for every i in [0, n) using at most workers
// goroutines and returns the first error. Once a job fails or ctx is
// cancelled, jobs that have not started are skipped.
func For(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Bands splits [0, n) into at most parts contiguous ranges of near-equal
// size, each as a [start, end) pair.
func Bands(n, parts int) [][2]int {
	parts = min(Workers(parts), n)
	if parts <= 0 {
		return nil
	}
	out := make([][2]int, 0, parts)
	size, rem := n/parts, n%parts
	start := 0
	for p := 0; p < parts; p++ {
		end := start + size
		if p < rem {
			end++
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}
