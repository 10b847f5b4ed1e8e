package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects a map family.
type Kind int

const (
	Clifford Kind = iota
	IkedaLike
)

func (k Kind) String() string {
	switch k {
	case Clifford:
		return "clifford"
	case IkedaLike:
		return "ikeda"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a user supplied name onto a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "clifford":
		return Clifford, nil
	case "ikeda", "ikeda_like", "ikedalike", "ikeda-like":
		return IkedaLike, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Valid reports whether k is one of the known families.
func (k Kind) Valid() bool {
	return k == Clifford || k == IkedaLike
}

// ParamNames lists the parameters the family reads, in order.
func (k Kind) ParamNames() []string {
	switch k {
	case Clifford:
		return []string{"a", "b", "c", "d"}
	case IkedaLike:
		return []string{"a", "b"}
	default:
		return nil
	}
}

// HasParam reports whether name is used by the family.
func (k Kind) HasParam(name string) bool {
	for _, n := range k.ParamNames() {
		if n == name {
			return true
		}
	}
	return false
}

// DefaultSeeding is uniform random for Clifford and a regular grid for IkedaLike.
func (k Kind) DefaultSeeding() Seeding {
	if k == IkedaLike {
		return SeedGrid
	}
	return SeedUniform
}

// Seeding selects how the initial batch is laid out.
type Seeding string

const (
	SeedAuto    Seeding = ""
	SeedUniform Seeding = "uniform"
	SeedGrid    Seeding = "grid"
)

// Resolve replaces SeedAuto with the family default.
func (s Seeding) Resolve(k Kind) Seeding {
	if s == SeedAuto {
		return k.DefaultSeeding()
	}
	return s
}

func (s Seeding) Valid() bool {
	return s == SeedAuto || s == SeedUniform || s == SeedGrid
}

// Params is the a, b, c, d tuple of one map variant. IkedaLike ignores C and D.
type Params struct {
	A, B, C, D float64
}

// Get returns the named parameter.
func (p Params) Get(name string) (float64, error) {
	switch name {
	case "a":
		return p.A, nil
	case "b":
		return p.B, nil
	case "c":
		return p.C, nil
	case "d":
		return p.D, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// With returns a copy of p with the named parameter replaced.
func (p Params) With(name string, v float64) (Params, error) {
	switch name {
	case "a":
		p.A = v
	case "b":
		p.B = v
	case "c":
		p.C = v
	case "d":
		p.D = v
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return p, nil
}

// Map returns the parameters the family uses keyed by name.
func (p Params) Map(k Kind) map[string]float64 {
	out := make(map[string]float64, 4)
	for _, n := range k.ParamNames() {
		v, _ := p.Get(n)
		out[n] = v
	}
	return out
}

func (p Params) IsFinite() bool {
	for _, v := range [...]float64{p.A, p.B, p.C, p.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Range is the rectangle [XMin,XMax] x [YMin,YMax].
type Range struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Square returns [-r,r] x [-r,r].
func Square(r float64) Range {
	return Range{XMin: -r, XMax: r, YMin: -r, YMax: r}
}

// Validate rejects inverted, degenerate or non-finite ranges. field names the
// range in the returned error.
func (r Range) Validate(field string) error {
	for _, v := range [...]float64{r.XMin, r.XMax, r.YMin, r.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigError{Field: field, Value: r, Reason: "bounds must be finite"}
		}
	}
	if r.XMax <= r.XMin {
		return &ConfigError{Field: field, Value: r, Reason: "x_max must be greater than x_min"}
	}
	if r.YMax <= r.YMin {
		return &ConfigError{Field: field, Value: r, Reason: "y_max must be greater than y_min"}
	}
	return nil
}

// Contains reports whether (x, y) lies inside the closed rectangle.
func (r Range) Contains(x, y float64) bool {
	return x >= r.XMin && x <= r.XMax && y >= r.YMin && y <= r.YMax
}

func (r Range) String() string {
	return fmt.Sprintf("[[%g,%g],[%g,%g]]", r.XMin, r.XMax, r.YMin, r.YMax)
}

// Batch holds paired x and y coordinates.
type Batch struct {
	X, Y []float64
}

// NewBatch allocates a zeroed batch of n states.
func NewBatch(n int) Batch {
	return Batch{X: make([]float64, n), Y: make([]float64, n)}
}

func (b Batch) Len() int { return len(b.X) }

func (b Batch) Clone() Batch {
	c := NewBatch(b.Len())
	copy(c.X, b.X)
	copy(c.Y, b.Y)
	return c
}

// IsValid reports whether every coordinate is finite.
func (b Batch) IsValid() bool {
	for i := range b.X {
		if math.IsNaN(b.X[i]) || math.IsInf(b.X[i], 0) || math.IsNaN(b.Y[i]) || math.IsInf(b.Y[i], 0) {
			return false
		}
	}
	return true
}

// Map advances a single state by one discrete time step.
type Map interface {
	Kind() Kind
	Params() Params
	Step(x, y float64) (float64, float64)
}
