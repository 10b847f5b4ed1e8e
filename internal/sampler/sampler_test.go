package sampler

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/maps"
)

type divergingMap struct {
	after int
	calls int
}

func (d *divergingMap) Kind() dynamo.Kind     { return dynamo.Clifford }
func (d *divergingMap) Params() dynamo.Params { return dynamo.Params{} }

func (d *divergingMap) Step(x, y float64) (float64, float64) {
	d.calls++
	if d.calls > d.after {
		return math.Inf(1), y
	}
	return x, y
}

func TestUniformSeedsInRange(t *testing.T) {
	r := dynamo.Square(0.5)
	b := UniformSeeds(1000, r, rand.New(rand.NewSource(1)))
	if b.Len() != 1000 {
		t.Fatalf("expected 1000 seeds, got %d", b.Len())
	}
	for i := range b.X {
		if b.X[i] < -0.5 || b.X[i] >= 0.5 || b.Y[i] < -0.5 || b.Y[i] >= 0.5 {
			t.Fatalf("seed %d (%f,%f) outside %v", i, b.X[i], b.Y[i], r)
		}
	}
}

func TestUniformSeedsDeterministic(t *testing.T) {
	r := dynamo.Square(0.5)
	a := UniformSeeds(64, r, rand.New(rand.NewSource(42)))
	b := UniformSeeds(64, r, rand.New(rand.NewSource(42)))
	for i := range a.X {
		if a.X[i] != b.X[i] || a.Y[i] != b.Y[i] {
			t.Fatalf("seed %d differs for identical generators", i)
		}
	}
}

func TestGridSeedsLayout(t *testing.T) {
	r := dynamo.Range{XMin: -2, XMax: 2, YMin: -1, YMax: 1}
	b := GridSeeds(3, r)
	if b.Len() != 9 {
		t.Fatalf("expected 9 seeds, got %d", b.Len())
	}

	xs := []float64{-2, 0, 2}
	ys := []float64{-1, 0, 1}
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			i := j*3 + k
			if b.X[i] != xs[k] || b.Y[i] != ys[j] {
				t.Errorf("seed %d: expected (%f,%f), got (%f,%f)", i, xs[k], ys[j], b.X[i], b.Y[i])
			}
		}
	}
}

func TestGridSeedsSingle(t *testing.T) {
	b := GridSeeds(1, dynamo.Square(2))
	if b.Len() != 1 || b.X[0] != -2 || b.Y[0] != -2 {
		t.Errorf("expected single seed at lower corner, got %v", b)
	}
}

func TestSeedCount(t *testing.T) {
	if n := SeedCount(dynamo.SeedGrid, 10); n != 100 {
		t.Errorf("expected 100 grid seeds, got %d", n)
	}
	if n := SeedCount(dynamo.SeedUniform, 10); n != 10 {
		t.Errorf("expected 10 uniform seeds, got %d", n)
	}
}

func TestSampleLength(t *testing.T) {
	m := maps.NewClifford(dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7})
	seeds := UniformSeeds(5000, dynamo.Square(0.5), rand.New(rand.NewSource(3)))

	tr, err := Sample(context.Background(), m, seeds, 100, Options{})
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if tr.Len() != 500000 {
		t.Errorf("expected 500000 points, got %d", tr.Len())
	}
	if tr.Seeds != 5000 || tr.Iterations != 100 {
		t.Errorf("expected 5000 seeds x 100 iterations, got %d x %d", tr.Seeds, tr.Iterations)
	}
}

func TestSampleOrdering(t *testing.T) {
	m := maps.NewIkedaLike(dynamo.Params{A: 3.4415, B: 2.7282})
	seeds := GridSeeds(4, dynamo.Square(2))

	tr, err := Sample(context.Background(), m, seeds, 3, Options{Workers: 1})
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	cur := seeds.Clone()
	for it := 0; it < 3; it++ {
		cur = maps.Apply(m, cur)
		for s := 0; s < seeds.Len(); s++ {
			k := it*seeds.Len() + s
			if tr.X[k] != cur.X[s] || tr.Y[k] != cur.Y[s] {
				t.Fatalf("entry %d: expected (%f,%f), got (%f,%f)", k, cur.X[s], cur.Y[s], tr.X[k], tr.Y[k])
			}
		}
	}
}

func TestSampleParallelMatchesSerial(t *testing.T) {
	m := maps.NewClifford(dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7})
	seeds := UniformSeeds(3000, dynamo.Square(0.5), rand.New(rand.NewSource(9)))

	serial, err := Sample(context.Background(), m, seeds, 20, Options{Workers: 1})
	if err != nil {
		t.Fatalf("serial sample failed: %v", err)
	}
	parallel, err := Sample(context.Background(), m, seeds, 20, Options{Workers: 8})
	if err != nil {
		t.Fatalf("parallel sample failed: %v", err)
	}
	for i := range serial.X {
		if serial.X[i] != parallel.X[i] || serial.Y[i] != parallel.Y[i] {
			t.Fatalf("entry %d differs between serial and parallel runs", i)
		}
	}
}

func TestSampleNonFinite(t *testing.T) {
	m := &divergingMap{after: 5}
	seeds := dynamo.NewBatch(2)

	_, err := Sample(context.Background(), m, seeds, 10, Options{Workers: 1, Frame: 4})
	if !errors.Is(err, dynamo.ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	var ce *dynamo.ComputeError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ComputeError, got %T", err)
	}
	if ce.Frame != 4 || ce.Iteration != 2 || ce.Seed != 1 {
		t.Errorf("expected frame 4, iteration 2, seed 1, got %d, %d, %d", ce.Frame, ce.Iteration, ce.Seed)
	}
}

func TestSampleInvalid(t *testing.T) {
	m := maps.NewClifford(dynamo.Params{})
	ctx := context.Background()

	if _, err := Sample(ctx, m, dynamo.NewBatch(0), 10, Options{}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty seeds, got %v", err)
	}
	if _, err := Sample(ctx, m, dynamo.NewBatch(4), 0, Options{}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero iterations, got %v", err)
	}
}

func TestSampleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := maps.NewClifford(dynamo.Params{A: 1})
	_, err := Sample(ctx, m, dynamo.NewBatch(10), 10, Options{})
	if !errors.Is(err, dynamo.ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation error, got %v", err)
	}
}

func BenchmarkSample(b *testing.B) {
	m := maps.NewClifford(dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7})
	seeds := UniformSeeds(5000, dynamo.Square(0.5), rand.New(rand.NewSource(1)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Sample(context.Background(), m, seeds, 100, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
