// Package physics implements the ballistics core.
//
//   - [Simulate]: fixed-step trajectory of a projectile under gravity,
//     quadratic drag and wind, returning a time series of [Sample]
//   - [EstimateImpact]: impact speed, energy, force and contact time
//   - [ResolveCollision]: post-collision velocities of two point masses
//   - [ComposeForces]: gravity, drag and buoyancy acting on one object
//
// Every function is pure. Inputs are expected to be validated by the
// caller ([Params.Validate], [Body.Validate], [ValidateRestitution]);
// the core itself never fails and always terminates. Results are kept
// at full precision; rounding for display belongs to the caller.
//
// # Example
//
//	p := physics.DefaultParams(env)
//	p.InitialVelocity = 30
//	samples := physics.Simulate(p, env)
//	summary := physics.Summarize(samples)
package physics
