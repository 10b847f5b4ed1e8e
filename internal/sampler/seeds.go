package sampler

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/attractor/internal/dynamo"
)

// UniformSeeds draws n states with x ~ U[XMin, XMax) and y ~ U[YMin, YMax)
// from rng. Passing a seeded generator makes the batch reproducible.
func UniformSeeds(n int, r dynamo.Range, rng *rand.Rand) dynamo.Batch {
	b := dynamo.NewBatch(n)
	w, h := r.XMax-r.XMin, r.YMax-r.YMin
	for i := 0; i < n; i++ {
		b.X[i] = r.XMin + w*rng.Float64()
	}
	for i := 0; i < n; i++ {
		b.Y[i] = r.YMin + h*rng.Float64()
	}
	return b
}

// GridSeeds lays n*n states on a regular grid over r. Seed j*n+k sits at
// (x[k], y[j]) where x and y are n evenly spaced points including both ends.
func GridSeeds(n int, r dynamo.Range) dynamo.Batch {
	xs := linspace(r.XMin, r.XMax, n)
	ys := linspace(r.YMin, r.YMax, n)

	b := dynamo.NewBatch(n * n)
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			b.X[j*n+k] = xs[k]
			b.Y[j*n+k] = ys[j]
		}
	}
	return b
}

// Seeds builds the initial batch for the chosen layout. Grid layouts use n
// points per axis.
func Seeds(s dynamo.Seeding, n int, r dynamo.Range, rng *rand.Rand) dynamo.Batch {
	if s == dynamo.SeedGrid {
		return GridSeeds(n, r)
	}
	return UniformSeeds(n, r, rng)
}

// SeedCount returns the batch size Seeds produces.
func SeedCount(s dynamo.Seeding, n int) int {
	if s == dynamo.SeedGrid {
		return n * n
	}
	return n
}

func linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
