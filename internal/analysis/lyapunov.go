package analysis

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/maps"
	"github.com/san-kum/attractor/internal/sweep"
)

// LyapunovConfig controls the two-orbit separation estimate.
type LyapunovConfig struct {
	X0, Y0       float64
	Transient    int
	Steps        int
	Perturbation float64
}

// DefaultLyapunov starts near the origin, discards 1000 iterations and
// averages over 10000.
func DefaultLyapunov() LyapunovConfig {
	return LyapunovConfig{X0: 0.1, Y0: 0.1, Transient: 1000, Steps: 10000, Perturbation: 1e-9}
}

// LyapunovExponent estimates the largest Lyapunov exponent of m, per
// iteration, by following two nearby orbits. A positive value indicates chaos.
//
// Algorithm:
// 1. Iterate past the transient
// 2. Step the orbit and its perturbed twin
// 3. Accumulate ln(|d|/d0), then pull the twin back to distance d0
//
// The result is -Inf when the orbits merge exactly and NaN when they leave
// the finite numbers.
func LyapunovExponent(m dynamo.Map, cfg LyapunovConfig) float64 {
	if cfg.Steps <= 0 || cfg.Perturbation <= 0 {
		return 0
	}

	x, y := cfg.X0, cfg.Y0
	for i := 0; i < cfg.Transient; i++ {
		x, y = m.Step(x, y)
	}

	d0 := cfg.Perturbation
	xp, yp := x+d0, y
	sumLog := 0.0

	for i := 0; i < cfg.Steps; i++ {
		x, y = m.Step(x, y)
		xp, yp = m.Step(xp, yp)

		dx, dy := xp-x, yp-y
		sep := math.Hypot(dx, dy)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return math.NaN()
		}
		if sep == 0 {
			return math.Inf(-1)
		}
		sumLog += math.Log(sep / d0)

		// Renormalize
		scale := d0 / sep
		xp = x + dx*scale
		yp = y + dy*scale
	}

	return sumLog / float64(cfg.Steps)
}

// LyapunovSweep estimates the exponent of every frame of s in parallel.
func LyapunovSweep(s sweep.Schedule, cfg LyapunovConfig, workers int) ([]float64, error) {
	ms := make([]dynamo.Map, s.Len())
	for i, p := range s.Frames {
		m, err := maps.New(s.Kind, p)
		if err != nil {
			return nil, err
		}
		ms[i] = m
	}

	out := make([]float64, len(ms))
	dynamo.ParallelFor(len(ms), 1, dynamo.Workers(workers), func(_, start, end int) {
		for i := start; i < end; i++ {
			out[i] = LyapunovExponent(ms[i], cfg)
		}
	})
	return out, nil
}

// Chaotic reports whether lambda is a positive finite exponent.
func Chaotic(lambda float64) bool {
	return lambda > 0 && !math.IsInf(lambda, 1)
}
