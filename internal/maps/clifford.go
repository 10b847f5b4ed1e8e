package maps

import "github.com/san-kum/attractor/internal/dynamo"

// Clifford is the map
//
//	x' = sin(a*y) + c*cos(a*x)
//	y' = sin(b*x) + d*cos(b*y)
//
// Outputs satisfy |x'| <= 1+|c| and |y'| <= 1+|d| for every finite input.
type Clifford struct {
	a, b, c, d float64
	table      *dynamo.TrigTable
}

func NewClifford(p dynamo.Params) *Clifford {
	return &Clifford{a: p.A, b: p.B, c: p.C, d: p.D}
}

func (m *Clifford) Kind() dynamo.Kind { return dynamo.Clifford }

func (m *Clifford) Params() dynamo.Params {
	return dynamo.Params{A: m.a, B: m.b, C: m.c, D: m.d}
}

func (m *Clifford) Step(x, y float64) (float64, float64) {
	return sin(m.table, m.a*y) + m.c*cos(m.table, m.a*x),
		sin(m.table, m.b*x) + m.d*cos(m.table, m.b*y)
}
