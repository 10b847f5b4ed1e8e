// Package dynamo provides the core primitives shared by the attractor engine.
//
// The package defines the value types that flow through the density pipeline:
//
//   - [Kind]: the closed set of map families (Clifford, IkedaLike)
//   - [Params]: immutable a, b, c, d parameter tuple
//   - [Range]: rectangular coordinate window used for seeding and binning
//   - [Batch]: a set of (x, y) states advanced together
//   - [Map]: one iteration step of a two-dimensional map
//
// # Errors
//
// Configuration problems are reported as [*ConfigError] (errors.Is
// [ErrInvalidConfig]) before any computation starts. Non-finite values
// produced mid-computation surface as [*ComputeError] wrapping
// [ErrNonFinite]. Frames the consumer refuses are reported as
// [*DeliveryError].
//
// # Parallelism
//
// [ParallelFor] splits an index range across goroutines. Callers must only
// write to disjoint indices or keep per-worker accumulators.
package dynamo
