package field

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/histogram"
)

// CeilingMode selects where the display maximum comes from.
type CeilingMode string

const (
	// PerFrame uses log1p of the frame's largest count.
	PerFrame CeilingMode = "per_frame"
	// Fixed uses a caller supplied constant for every frame of a sweep.
	Fixed CeilingMode = "fixed"
)

// ParseCeilingMode accepts per_frame, per-frame, frame, fixed and the empty
// string (per_frame).
func ParseCeilingMode(s string) (CeilingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per_frame", "per-frame", "frame":
		return PerFrame, nil
	case "fixed":
		return Fixed, nil
	}
	return "", &dynamo.ConfigError{Field: "ceiling.mode", Value: s, Reason: "expected per_frame or fixed"}
}

// Ceiling is the display maximum policy of a run.
type Ceiling struct {
	Mode  CeilingMode
	Value float64
}

func (c Ceiling) Validate() error {
	switch c.Mode {
	case PerFrame, "":
		return nil
	case Fixed:
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) || c.Value <= 0 {
			return &dynamo.ConfigError{Field: "ceiling.value", Value: c.Value, Reason: "fixed ceiling must be a positive finite number"}
		}
		return nil
	}
	return &dynamo.ConfigError{Field: "ceiling.mode", Value: c.Mode, Reason: "expected per_frame or fixed"}
}

func (c Ceiling) String() string {
	if c.Mode == Fixed {
		return fmt.Sprintf("fixed(%g)", c.Value)
	}
	return string(PerFrame)
}

// Field is a log-compressed density grid with its display range. Values uses
// the Density layout: index i*Bins+j is x bin i and y bin j.
type Field struct {
	Bins   int
	Range  dynamo.Range
	Values []float64
	Min    float64
	Max    float64
}

// Compress applies log(1+count) to every cell and attaches the display
// range [0, ceiling].
func Compress(d *histogram.Density, c Ceiling) *Field {
	f := &Field{
		Bins:   d.Bins,
		Range:  d.Range,
		Values: make([]float64, len(d.Counts)),
	}
	for k, n := range d.Counts {
		if n > 0 {
			f.Values[k] = math.Log1p(float64(n))
		}
	}
	if c.Mode == Fixed {
		f.Max = c.Value
	} else {
		f.Max = math.Log1p(float64(d.Max()))
	}
	return f
}

func (f *Field) At(i, j int) float64 {
	return f.Values[i*f.Bins+j]
}

// Normalized maps cell (i, j) into [0, 1] against the display range.
// Values above a fixed ceiling saturate at 1.
func (f *Field) Normalized(i, j int) float64 {
	return f.Scale(f.At(i, j))
}

// Scale maps v into [0, 1] against the display range.
func (f *Field) Scale(v float64) float64 {
	if f.Max <= f.Min {
		return 0
	}
	t := (v - f.Min) / (f.Max - f.Min)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Peak is the largest compressed value, independent of the ceiling.
func (f *Field) Peak() float64 {
	var m float64
	for _, v := range f.Values {
		if v > m {
			m = v
		}
	}
	return m
}
