package sweep_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sweep"
)

var _ = Describe("Build", func() {
	var desc sweep.Descriptor

	BeforeEach(func() {
		desc = sweep.Descriptor{
			Kind:      dynamo.Clifford,
			Frames:    24,
			Base:      dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7},
			Param:     "a",
			Amplitude: 0.8,
			Cycles:    1,
			Wave:      "sine",
		}
	})

	It("starts at the base value and peaks a quarter period in", func() {
		s, err := sweep.Build(desc)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(Equal(24))
		Expect(s.At(0).A).To(Equal(-1.4))
		Expect(s.At(6).A).To(BeNumerically("~", -0.6, 1e-12))
		Expect(s.At(18).A).To(BeNumerically("~", -2.2, 1e-12))
	})

	It("holds the other parameters at their base value", func() {
		s, err := sweep.Build(desc)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range s.Frames {
			Expect(p.B).To(Equal(1.6))
			Expect(p.C).To(Equal(1.0))
			Expect(p.D).To(Equal(0.7))
		}
	})

	It("is bit-identical across builds", func() {
		a, err := sweep.Build(desc)
		Expect(err).NotTo(HaveOccurred())
		b, err := sweep.Build(desc)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Frames).To(Equal(b.Frames))
	})

	It("sweeps the requested parameter", func() {
		desc.Param = "d"
		s, err := sweep.Build(desc)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Values()[6]).To(BeNumerically("~", 1.5, 1e-12))
		Expect(s.At(6).A).To(Equal(-1.4))
	})

	It("stays within base +/- amplitude for every wave", func() {
		desc.Frames = 97
		desc.Cycles = 3
		for _, name := range sweep.WaveNames() {
			desc.Wave = name
			s, err := sweep.Build(desc)
			Expect(err).NotTo(HaveOccurred())
			for _, v := range s.Values() {
				Expect(v).To(BeNumerically(">=", -2.2-1e-12), name)
				Expect(v).To(BeNumerically("<=", -0.6+1e-12), name)
			}
		}
	})

	DescribeTable("rejects invalid descriptors",
		func(mutate func(*sweep.Descriptor)) {
			mutate(&desc)
			_, err := sweep.Build(desc)
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		},
		Entry("zero frames", func(d *sweep.Descriptor) { d.Frames = 0 }),
		Entry("unknown parameter", func(d *sweep.Descriptor) { d.Param = "e" }),
		Entry("parameter unused by ikeda", func(d *sweep.Descriptor) { d.Kind = dynamo.IkedaLike; d.Param = "c" }),
		Entry("unknown wave", func(d *sweep.Descriptor) { d.Wave = "noise" }),
		Entry("infinite amplitude", func(d *sweep.Descriptor) { d.Amplitude = math.Inf(1) }),
		Entry("NaN base", func(d *sweep.Descriptor) { d.Base.B = math.NaN() }),
	)
})

var _ = Describe("Waves", func() {
	DescribeTable("quarter period values",
		func(name string, zero, quarter, half float64) {
			w, err := sweep.LookupWave(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(w(0)).To(BeNumerically("~", zero, 1e-12))
			Expect(w(math.Pi / 2)).To(BeNumerically("~", quarter, 1e-12))
			Expect(w(3 * math.Pi / 2)).To(BeNumerically("~", -quarter, 1e-12))
			Expect(w(math.Pi)).To(BeNumerically("~", half, 1e-12))
		},
		Entry("sine", "sine", 0.0, 1.0, 0.0),
		Entry("triangle", "triangle", 0.0, 1.0, 0.0),
		Entry("sawtooth", "sawtooth", 0.0, 0.5, -1.0),
	)

	It("treats square as the sign of sine", func() {
		w, err := sweep.LookupWave("Square")
		Expect(err).NotTo(HaveOccurred())
		Expect(w(0.1)).To(Equal(1.0))
		Expect(w(math.Pi + 0.1)).To(Equal(-1.0))
		Expect(w(-0.1)).To(Equal(-1.0))
	})
})

var _ = Describe("FramesFor", func() {
	It("multiplies duration by frame rate", func() {
		Expect(sweep.FramesFor(60, 24)).To(Equal(1440))
		Expect(sweep.FramesFor(10, 20)).To(Equal(200))
		Expect(sweep.FramesFor(0, 24)).To(Equal(0))
	})
})
