package sweep

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Descriptor describes a one-parameter sweep.
type Descriptor struct {
	Kind      dynamo.Kind
	Frames    int
	Base      dynamo.Params
	Param     string
	Amplitude float64
	Cycles    float64
	Wave      string
}

// Validate rejects descriptors Build cannot turn into a schedule.
func (d Descriptor) Validate() error {
	if !d.Kind.Valid() {
		return &dynamo.ConfigError{Field: "kind", Value: d.Kind, Reason: "unknown map kind"}
	}
	if d.Frames <= 0 {
		return &dynamo.ConfigError{Field: "sweep.frames", Value: d.Frames, Reason: "must be positive"}
	}
	if !d.Kind.HasParam(d.Param) {
		return &dynamo.ConfigError{Field: "sweep.param", Value: d.Param, Reason: "not a parameter of " + d.Kind.String()}
	}
	if !d.Base.IsFinite() {
		return &dynamo.ConfigError{Field: "params", Value: d.Base, Reason: "must be finite"}
	}
	if !finite(d.Amplitude) {
		return &dynamo.ConfigError{Field: "sweep.amplitude", Value: d.Amplitude, Reason: "must be finite"}
	}
	if !finite(d.Cycles) {
		return &dynamo.ConfigError{Field: "sweep.cycles", Value: d.Cycles, Reason: "must be finite"}
	}
	_, err := LookupWave(d.waveName())
	return err
}

func (d Descriptor) waveName() string {
	if d.Wave == "" {
		return "sine"
	}
	return d.Wave
}

// Schedule is the ordered parameter set of every frame.
type Schedule struct {
	Kind   dynamo.Kind
	Param  string
	Frames []dynamo.Params
}

// Build evaluates frame i as base + amplitude*wave(2*pi*cycles*i/frames) for
// the swept parameter and keeps the rest at their base value. The result
// depends only on d.
func Build(d Descriptor) (Schedule, error) {
	if err := d.Validate(); err != nil {
		return Schedule{}, err
	}
	wave, _ := LookupWave(d.waveName())
	base, _ := d.Base.Get(d.Param)

	s := Schedule{Kind: d.Kind, Param: d.Param, Frames: make([]dynamo.Params, d.Frames)}
	for i := range s.Frames {
		phase := 2 * math.Pi * d.Cycles * float64(i) / float64(d.Frames)
		s.Frames[i], _ = d.Base.With(d.Param, base+d.Amplitude*wave(phase))
	}
	return s, nil
}

// Single wraps one parameter set as a one-frame schedule.
func Single(k dynamo.Kind, p dynamo.Params) Schedule {
	return Schedule{Kind: k, Param: k.ParamNames()[0], Frames: []dynamo.Params{p}}
}

func (s Schedule) Len() int { return len(s.Frames) }

func (s Schedule) At(i int) dynamo.Params { return s.Frames[i] }

// Values returns the swept parameter of every frame.
func (s Schedule) Values() []float64 {
	out := make([]float64, len(s.Frames))
	for i, p := range s.Frames {
		out[i], _ = p.Get(s.Param)
	}
	return out
}

// FramesFor maps a duration in seconds and a frame rate onto a frame count.
func FramesFor(seconds, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	return seconds * fps
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
