// Package dynamo provides the numeric primitives shared by the physics core.
//
// The package defines:
//
//   - [Vec2]: 2D vector used for positions, velocities and forces
//   - [State]: flat state vector stepped by an integrator
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Hamiltonian]: a System that reports its mechanical energy
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Metric]: observer accumulating a scalar over a run
//
// # Example
//
//	proj := physics.NewProjectile(params)
//	integ := integrators.NewSemiImplicitEuler()
//	x := proj.InitialState()
//	x = integ.Step(proj, x, 0, 0.01)
//
// # Thread Safety
//
// Vec2 and State values are plain data. Integrators may keep scratch
// buffers and must not be shared between goroutines.
package dynamo
