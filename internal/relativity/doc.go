// Package relativity implements one-dimensional relativistic two-body
// collisions.
//
// The package is organised leaf first:
//
//   - [Units]: the unit context (speed of light and working precision)
//   - kinematics primitives: [Units.Gamma], [Units.Momentum], [Units.Energy]
//   - the conservation aggregator: [Units.Aggregate]
//   - the resolvers: perfectly inelastic (closed form) and elastic
//     (Newton root finding over rapidities, or CoM reflection)
//   - [Collide]: validation, aggregation and resolution in one call
//
// # Example
//
//	u := relativity.Natural()
//	out, err := relativity.Collide(u, relativity.DefaultOptions(), relativity.Input{
//	    Particles: [2]relativity.Particle{{Mass: 1, Velocity: 0.6}, {Mass: 1, Velocity: -0.3}},
//	    Mode:      relativity.Elastic,
//	})
//
// # Errors
//
// Invalid inputs fail with [ErrDomain] before any computation. A solver
// that does not meet tolerance fails with [ErrConvergence]. A broken
// internal invariant (negative invariant-mass radicand, unconserved
// result) fails with [ErrInvariant]. An outgoing speed that rounds to c in
// float64 fails with [ErrPrecision]. No partial result is returned in any
// of these cases.
//
// # Thread Safety
//
// Every function is a pure function of its arguments. Concurrent calls
// need no locking.
package relativity
