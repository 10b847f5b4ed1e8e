package histogram

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sampler"
)

// Density is a Bins x Bins grid of point counts over Range. Cell (i, j)
// counts points in the i-th x interval and the j-th y interval.
type Density struct {
	Bins   int
	Range  dynamo.Range
	Counts []uint32
}

// NewDensity allocates an all-zero grid.
func NewDensity(bins int, r dynamo.Range) *Density {
	return &Density{Bins: bins, Range: r, Counts: make([]uint32, bins*bins)}
}

func (d *Density) At(i, j int) uint32 {
	return d.Counts[i*d.Bins+j]
}

// Total is the number of binned points.
func (d *Density) Total() uint64 {
	var sum uint64
	for _, c := range d.Counts {
		sum += uint64(c)
	}
	return sum
}

func (d *Density) Max() uint32 {
	var m uint32
	for _, c := range d.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// NonZero counts occupied cells.
func (d *Density) NonZero() int {
	n := 0
	for _, c := range d.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Options tunes Bin.
type Options struct {
	Workers int
}

const minChunk = 1 << 14

// Validate checks a bin count and range pair.
func Validate(bins int, r dynamo.Range) error {
	if bins <= 0 {
		return &dynamo.ConfigError{Field: "bins", Value: bins, Reason: "must be positive"}
	}
	return r.Validate("range")
}

// Bin counts the trajectory points into a bins x bins grid over r. Intervals
// are half-open except the last one on each axis, which also includes the
// upper bound. Points outside r and NaN coordinates are dropped.
func Bin(tr *sampler.Trajectory, bins int, r dynamo.Range, opts Options) (*Density, error) {
	if err := Validate(bins, r); err != nil {
		return nil, err
	}
	d := NewDensity(bins, r)
	if tr == nil || tr.Len() == 0 {
		return d, nil
	}
	if len(tr.Y) != len(tr.X) {
		return nil, &dynamo.ConfigError{Field: "trajectory", Value: len(tr.Y), Reason: "x and y lengths differ"}
	}

	xa := newAxis(r.XMin, r.XMax, bins)
	ya := newAxis(r.YMin, r.YMax, bins)

	n := tr.Len()
	workers := dynamo.Workers(opts.Workers)
	slots := dynamo.Chunks(n, minChunk, workers)
	if slots == 1 {
		accumulate(d.Counts, tr, xa, ya, 0, n)
		return d, nil
	}

	local := make([][]uint32, slots)
	dynamo.ParallelFor(n, minChunk, workers, func(w, start, end int) {
		counts := make([]uint32, bins*bins)
		accumulate(counts, tr, xa, ya, start, end)
		local[w] = counts
	})

	for _, counts := range local {
		if counts == nil {
			continue
		}
		for k, c := range counts {
			d.Counts[k] += c
		}
	}
	return d, nil
}

func accumulate(counts []uint32, tr *sampler.Trajectory, xa, ya axis, start, end int) {
	bins := xa.bins
	for k := start; k < end; k++ {
		i := xa.index(tr.X[k])
		if i < 0 {
			continue
		}
		j := ya.index(tr.Y[k])
		if j < 0 {
			continue
		}
		counts[i*bins+j]++
	}
}

// axis maps coordinates to bin indices consistent with a right-sided edge
// search over linspace(lo, hi, bins+1).
type axis struct {
	lo, hi float64
	scale  float64
	bins   int
	edges  []float64
}

func newAxis(lo, hi float64, bins int) axis {
	return axis{
		lo:    lo,
		hi:    hi,
		scale: float64(bins) / (hi - lo),
		bins:  bins,
		edges: floats.Span(make([]float64, bins+1), lo, hi),
	}
}

// index returns the bin of v or -1 when v is outside [lo, hi] or NaN.
func (a axis) index(v float64) int {
	if !(v >= a.lo && v <= a.hi) {
		return -1
	}
	if v == a.hi {
		return a.bins - 1
	}
	i := int(math.Floor((v - a.lo) * a.scale))
	if i >= a.bins {
		i = a.bins - 1
	}
	if i < 0 {
		i = 0
	}
	// the scaled guess can land one bin off near an edge
	if v < a.edges[i] {
		i--
	} else if v >= a.edges[i+1] {
		i++
	}
	if i >= a.bins {
		return a.bins - 1
	}
	return i
}
