package maps

import "github.com/san-kum/attractor/internal/dynamo"

// IkedaLike is the quadratic-phase map
//
//	x' = 2*sin(x^2 - y^2 + a)
//	y' = 2*cos(2*x*y + b)
//
// It is not the textbook Ikeda map. Outputs always lie in [-2, 2]^2.
type IkedaLike struct {
	a, b  float64
	table *dynamo.TrigTable
}

func NewIkedaLike(p dynamo.Params) *IkedaLike {
	return &IkedaLike{a: p.A, b: p.B}
}

func (m *IkedaLike) Kind() dynamo.Kind { return dynamo.IkedaLike }

func (m *IkedaLike) Params() dynamo.Params {
	return dynamo.Params{A: m.a, B: m.b}
}

func (m *IkedaLike) Step(x, y float64) (float64, float64) {
	return 2 * sin(m.table, x*x-y*y+m.a), 2 * cos(m.table, 2*x*y+m.b)
}
