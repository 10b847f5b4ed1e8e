package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/field"
	"github.com/san-kum/attractor/internal/sweep"
)

func cliffordConfig() Config {
	return Config{
		Kind:       dynamo.Clifford,
		Params:     dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7},
		Points:     500,
		Iterations: 20,
		Bins:       64,
		Range:      dynamo.Square(3),
		SeedRange:  dynamo.Square(0.5),
		Ceiling:    field.Ceiling{Mode: field.PerFrame},
		Seed:       1,
		Workers:    4,
	}
}

func TestIkedaLikeEndToEnd(t *testing.T) {
	cfg := Config{
		Kind:       dynamo.IkedaLike,
		Params:     dynamo.Params{A: 3.4415, B: 2.7282},
		Points:     10,
		Iterations: 5,
		Bins:       50,
		Range:      dynamo.Square(2),
		SeedRange:  dynamo.Square(2),
	}
	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if exp.Config().Seeding != dynamo.SeedGrid {
		t.Errorf("expected grid seeding for ikeda, got %q", exp.Config().Seeding)
	}

	f, err := exp.Render(context.Background())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if f.Stats.Points != 500 {
		t.Errorf("expected 500 points, got %d", f.Stats.Points)
	}
	if f.Stats.Binned > 500 {
		t.Errorf("binned %d exceeds trajectory length", f.Stats.Binned)
	}
	if f.Stats.Binned+uint64(f.Stats.Dropped) != 500 {
		t.Errorf("binned + dropped = %d, want 500", f.Stats.Binned+uint64(f.Stats.Dropped))
	}
	for k, c := range f.Density.Counts {
		if (c == 0) != (f.Field.Values[k] == 0) {
			t.Fatalf("cell %d: count %d but compressed %f", k, c, f.Field.Values[k])
		}
	}
	if math.Abs(f.Field.Max-math.Log1p(float64(f.Stats.MaxCount))) > 1e-12 {
		t.Errorf("expected per-frame ceiling log1p(%d), got %f", f.Stats.MaxCount, f.Field.Max)
	}
}

func TestFrameDeterministic(t *testing.T) {
	exp, err := New(cliffordConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	p := exp.Config().Params

	a, err := exp.Frame(context.Background(), 3, p)
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	b, err := exp.Frame(context.Background(), 3, p)
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	for k := range a.Density.Counts {
		if a.Density.Counts[k] != b.Density.Counts[k] {
			t.Fatalf("cell %d differs between identical frames", k)
		}
	}
}

func TestFixedCeiling(t *testing.T) {
	cfg := cliffordConfig()
	cfg.Ceiling = field.Ceiling{Mode: field.Fixed, Value: 7}
	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	f, err := exp.Render(context.Background())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if f.Stats.Ceiling != 7 || f.Field.Max != 7 {
		t.Errorf("expected fixed ceiling 7, got %f", f.Field.Max)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero points", func(c *Config) { c.Points = 0 }},
		{"negative iterations", func(c *Config) { c.Iterations = -1 }},
		{"zero bins", func(c *Config) { c.Bins = 0 }},
		{"inverted range", func(c *Config) { c.Range = dynamo.Range{XMin: 3, XMax: -3, YMin: -3, YMax: 3} }},
		{"degenerate seed range", func(c *Config) { c.SeedRange = dynamo.Range{XMin: 0, XMax: 0, YMin: 0, YMax: 1} }},
		{"unknown kind", func(c *Config) { c.Kind = dynamo.Kind(9) }},
		{"bad seeding", func(c *Config) { c.Seeding = "spiral" }},
		{"bad ceiling", func(c *Config) { c.Ceiling = field.Ceiling{Mode: field.Fixed, Value: -1} }},
		{"nan param", func(c *Config) { c.Params.C = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cliffordConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func buildSchedule(t *testing.T, frames int) sweep.Schedule {
	t.Helper()
	s, err := sweep.Build(sweep.Descriptor{
		Kind:      dynamo.Clifford,
		Frames:    frames,
		Base:      dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7},
		Param:     "a",
		Amplitude: 0.8,
		Cycles:    1,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return s
}

func TestSweepOrdered(t *testing.T) {
	exp, err := New(cliffordConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	s := buildSchedule(t, 12)

	var got Collector
	if err := exp.Sweep(context.Background(), s, &got); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(got.Frames) != 12 {
		t.Fatalf("expected 12 frames, got %d", len(got.Frames))
	}
	for i, f := range got.Frames {
		if f.Index != i {
			t.Errorf("position %d holds frame %d", i, f.Index)
		}
		if f.Params != s.At(i) {
			t.Errorf("frame %d params %v, want %v", i, f.Params, s.At(i))
		}
	}
}

func TestSweepMatchesFrame(t *testing.T) {
	exp, err := New(cliffordConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	s := buildSchedule(t, 4)

	var got Collector
	if err := exp.Sweep(context.Background(), s, &got); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	single, err := exp.Frame(context.Background(), 2, s.At(2))
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	for k, c := range single.Density.Counts {
		if got.Frames[2].Density.Counts[k] != c {
			t.Fatalf("cell %d differs between sweep and single frame", k)
		}
	}
}

func TestSweepDeliveryError(t *testing.T) {
	exp, err := New(cliffordConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	boom := errors.New("disk full")
	var seen []int
	sink := SinkFunc(func(f *Frame) error {
		seen = append(seen, f.Index)
		if f.Index == 3 {
			return boom
		}
		return nil
	})

	err = exp.Sweep(context.Background(), buildSchedule(t, 20), sink)
	if !errors.Is(err, dynamo.ErrDelivery) || !errors.Is(err, boom) {
		t.Fatalf("expected delivery error wrapping cause, got %v", err)
	}
	var de *dynamo.DeliveryError
	if !errors.As(err, &de) || de.Frame != 3 {
		t.Errorf("expected failure at frame 3, got %v", err)
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 delivery attempts, got %v", seen)
	}
}

func TestSweepCanceled(t *testing.T) {
	exp, err := New(cliffordConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = exp.Sweep(ctx, buildSchedule(t, 8), &Collector{})
	if !errors.Is(err, dynamo.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestSweepKindMismatch(t *testing.T) {
	exp, err := New(cliffordConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	s := sweep.Single(dynamo.IkedaLike, dynamo.Params{A: 1, B: 2})
	if err := exp.Sweep(context.Background(), s, &Collector{}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestTee(t *testing.T) {
	var a, b Collector
	fail := SinkFunc(func(*Frame) error { return errors.New("nope") })

	err := Tee(&a, fail, &b).Consume(&Frame{Index: 1})
	if err == nil {
		t.Error("expected joined error")
	}
	if len(a.Frames) != 1 || len(b.Frames) != 1 {
		t.Errorf("expected both collectors to receive the frame, got %d and %d", len(a.Frames), len(b.Frames))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.ListMaps(); len(got) != 2 || got[0] != "clifford" || got[1] != "ikeda" {
		t.Errorf("unexpected maps %v", got)
	}
	m, err := r.GetMap("ikeda_like", dynamo.Params{A: 1, B: 2})
	if err != nil || m.Kind() != dynamo.IkedaLike {
		t.Errorf("GetMap(ikeda_like) = %v, %v", m, err)
	}
	if _, err := r.GetCeiling("auto"); err == nil {
		t.Error("expected error for unknown ceiling")
	}
	if len(r.ListWaves()) != 5 {
		t.Errorf("expected 5 waves, got %v", r.ListWaves())
	}
}
