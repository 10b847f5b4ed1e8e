package histogram_test

import (
	"context"
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/histogram"
	"github.com/san-kum/attractor/internal/maps"
	"github.com/san-kum/attractor/internal/sampler"
)

func trajectory(xs, ys []float64) *sampler.Trajectory {
	return &sampler.Trajectory{X: xs, Y: ys, Seeds: len(xs), Iterations: 1}
}

var _ = Describe("Bin", func() {
	unit := dynamo.Range{XMin: 0, XMax: 1, YMin: 0, YMax: 1}

	It("puts x in the first index and y in the second", func() {
		d, err := histogram.Bin(trajectory([]float64{0.1}, []float64{0.9}), 2, unit, histogram.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.At(0, 1)).To(Equal(uint32(1)))
		Expect(d.At(1, 0)).To(Equal(uint32(0)))
	})

	It("closes the last interval and leaves the others half-open", func() {
		xs := []float64{0, 0.5, 1}
		ys := []float64{0, 0.5, 1}
		d, err := histogram.Bin(trajectory(xs, ys), 2, unit, histogram.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.At(0, 0)).To(Equal(uint32(1)))
		Expect(d.At(1, 1)).To(Equal(uint32(2)))
		Expect(d.Total()).To(Equal(uint64(3)))
	})

	It("drops points outside the range and NaN coordinates", func() {
		xs := []float64{-0.01, 1.01, 0.5, math.NaN(), 0.5}
		ys := []float64{0.5, 0.5, 2, 0.5, 0.5}
		d, err := histogram.Bin(trajectory(xs, ys), 4, unit, histogram.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Total()).To(Equal(uint64(1)))
		Expect(d.At(2, 2)).To(Equal(uint32(1)))
	})

	It("returns an all-zero grid for an empty trajectory", func() {
		d, err := histogram.Bin(trajectory(nil, nil), 8, unit, histogram.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Counts).To(HaveLen(64))
		Expect(d.Total()).To(BeZero())
		Expect(d.NonZero()).To(BeZero())
	})

	It("rejects bad grids", func() {
		_, err := histogram.Bin(nil, 0, unit, histogram.Options{})
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())

		_, err = histogram.Bin(nil, 10, dynamo.Range{XMin: 1, XMax: 1, YMin: 0, YMax: 1}, histogram.Options{})
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})

	It("matches an edge search on linspace edges", func() {
		r := dynamo.Square(3)
		bins := 7
		rng := rand.New(rand.NewSource(11))
		xs := make([]float64, 5000)
		ys := make([]float64, 5000)
		for i := range xs {
			xs[i] = (rng.Float64() - 0.5) * 6.2
			ys[i] = (rng.Float64() - 0.5) * 6.2
		}
		edges := floats.Span(make([]float64, bins+1), -3, 3)
		// exact edge values
		for k := 0; k <= bins; k++ {
			xs[k] = edges[k]
			ys[k] = edges[bins-k]
		}

		search := func(v float64) int {
			if v < edges[0] || v > edges[bins] {
				return -1
			}
			if v == edges[bins] {
				return bins - 1
			}
			for k := 0; k < bins; k++ {
				if v >= edges[k] && v < edges[k+1] {
					return k
				}
			}
			return -1
		}

		want := make([]uint32, bins*bins)
		for k := range xs {
			i, j := search(xs[k]), search(ys[k])
			if i >= 0 && j >= 0 {
				want[i*bins+j]++
			}
		}

		d, err := histogram.Bin(trajectory(xs, ys), bins, r, histogram.Options{Workers: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Counts).To(Equal(want))
	})

	Context("with a sampled attractor", func() {
		var tr *sampler.Trajectory

		BeforeEach(func() {
			m := maps.NewClifford(dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7})
			seeds := sampler.UniformSeeds(2000, dynamo.Square(0.5), rand.New(rand.NewSource(5)))
			var err error
			tr, err = sampler.Sample(context.Background(), m, seeds, 50, sampler.Options{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("gives the same grid serially and in parallel", func() {
			serial, err := histogram.Bin(tr, 64, dynamo.Square(3), histogram.Options{Workers: 1})
			Expect(err).NotTo(HaveOccurred())
			parallel, err := histogram.Bin(tr, 64, dynamo.Square(3), histogram.Options{Workers: 8})
			Expect(err).NotTo(HaveOccurred())
			Expect(parallel.Counts).To(Equal(serial.Counts))
		})

		It("keeps every point when the range covers the attractor", func() {
			d, err := histogram.Bin(tr, 100, dynamo.Square(3), histogram.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Total()).To(Equal(uint64(tr.Len())))
		})

		It("never counts more points than it was given", func() {
			d, err := histogram.Bin(tr, 100, dynamo.Square(1), histogram.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Total()).To(BeNumerically("<", uint64(tr.Len())))
		})
	})

	It("counts every point of the all-zero map at the origin", func() {
		m := maps.NewClifford(dynamo.Params{})
		seeds := sampler.UniformSeeds(100, dynamo.Square(0.5), rand.New(rand.NewSource(1)))
		tr, err := sampler.Sample(context.Background(), m, seeds, 10, sampler.Options{})
		Expect(err).NotTo(HaveOccurred())

		d, err := histogram.Bin(tr, 10, dynamo.Square(1), histogram.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Total()).To(Equal(uint64(1000)))
		Expect(d.At(5, 5)).To(Equal(uint32(1000)))
		Expect(d.Max()).To(Equal(uint32(1000)))
	})
})
