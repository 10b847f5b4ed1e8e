// Package maps provides the two-dimensional map families rendered by the engine.
//
// Each map implements [dynamo.Map] and is a pure function of its state and
// fixed parameters:
//
//   - [Clifford]: sin/cos map with parameters a, b, c, d
//   - [IkedaLike]: quadratic-phase map with parameters a, b
//
// Maps are immutable once built; a sweep constructs a fresh map per frame.
//
//	m, _ := maps.New(dynamo.Clifford, dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7})
//	next := maps.Apply(m, batch)
package maps
