package maps

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Option adjusts how a map evaluates its step.
type Option func(*options)

type options struct {
	table *dynamo.TrigTable
}

// WithTrigTable evaluates sin/cos through an interpolated lookup table.
func WithTrigTable(t *dynamo.TrigTable) Option {
	return func(o *options) { o.table = t }
}

// New builds the map for kind with parameters p.
func New(kind dynamo.Kind, p dynamo.Params, opts ...Option) (dynamo.Map, error) {
	if !p.IsFinite() {
		return nil, &dynamo.ConfigError{Field: "params", Value: p, Reason: "parameters must be finite"}
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch kind {
	case dynamo.Clifford:
		c := NewClifford(p)
		c.table = o.table
		return c, nil
	case dynamo.IkedaLike:
		k := NewIkedaLike(p)
		k.table = o.table
		return k, nil
	}
	return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownKind, kind)
}

// Apply advances every state of b by one step of m. The result has the same
// length and ordering as b; b is not modified.
func Apply(m dynamo.Map, b dynamo.Batch) dynamo.Batch {
	out := dynamo.NewBatch(b.Len())
	for i := range b.X {
		out.X[i], out.Y[i] = m.Step(b.X[i], b.Y[i])
	}
	return out
}

func sin(t *dynamo.TrigTable, v float64) float64 {
	if t != nil {
		return t.Sin(v)
	}
	return math.Sin(v)
}

func cos(t *dynamo.TrigTable, v float64) float64 {
	if t != nil {
		return t.Cos(v)
	}
	return math.Cos(v)
}
