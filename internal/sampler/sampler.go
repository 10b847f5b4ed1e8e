package sampler

import (
	"context"
	"math"
	"sync"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Trajectory is the point cloud visited by every seed across all iterations.
// Entry it*Seeds+s holds seed s after it+1 updates; initial states are not
// recorded.
type Trajectory struct {
	X, Y       []float64
	Seeds      int
	Iterations int
}

func (t *Trajectory) Len() int { return len(t.X) }

// Options tunes Sample.
type Options struct {
	// Workers bounds the goroutines used across seeds. Zero means one per CPU.
	Workers int
	// Frame is reported in errors.
	Frame int
}

// minChunk keeps tiny batches on a single goroutine.
const minChunk = 256

// Sample iterates m nIter times over seeds and records every post-update
// state. Seeds are independent, so each worker advances a contiguous slice of
// seeds through all iterations and writes disjoint entries.
func Sample(ctx context.Context, m dynamo.Map, seeds dynamo.Batch, nIter int, opts Options) (*Trajectory, error) {
	n := seeds.Len()
	if n == 0 {
		return nil, &dynamo.ConfigError{Field: "seeds", Value: n, Reason: "seed batch must not be empty"}
	}
	if len(seeds.Y) != n {
		return nil, &dynamo.ConfigError{Field: "seeds", Value: len(seeds.Y), Reason: "x and y lengths differ"}
	}
	if nIter <= 0 {
		return nil, &dynamo.ConfigError{Field: "iterations", Value: nIter, Reason: "must be positive"}
	}
	if err := ctx.Err(); err != nil {
		return nil, dynamo.Canceled(err)
	}

	tr := &Trajectory{
		X:          make([]float64, n*nIter),
		Y:          make([]float64, n*nIter),
		Seeds:      n,
		Iterations: nIter,
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	dynamo.ParallelFor(n, minChunk, dynamo.Workers(opts.Workers), func(_, start, end int) {
		xs := make([]float64, end-start)
		ys := make([]float64, end-start)
		copy(xs, seeds.X[start:end])
		copy(ys, seeds.Y[start:end])

		for it := 0; it < nIter; it++ {
			if err := ctx.Err(); err != nil {
				fail(dynamo.Canceled(err))
				return
			}
			base := it * n
			for k := range xs {
				x, y := m.Step(xs[k], ys[k])
				if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
					fail(&dynamo.ComputeError{
						Frame:     opts.Frame,
						Iteration: it,
						Seed:      start + k,
						X:         x,
						Y:         y,
						Wrapped:   dynamo.ErrNonFinite,
					})
					return
				}
				xs[k], ys[k] = x, y
				tr.X[base+start+k] = x
				tr.Y[base+start+k] = y
			}
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return tr, nil
}
