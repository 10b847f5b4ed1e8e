// Package analysis provides chaos checks for the attractor maps.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via orbit separation
//   - [LyapunovSweep]: the exponent of every frame of a sweep schedule
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics, which is
// when the density field shows a strange attractor rather than a few points:
//
//	lambda := analysis.LyapunovExponent(m, analysis.DefaultLyapunov())
//	if analysis.Chaotic(lambda) {
//	    // worth rendering
//	}
package analysis
