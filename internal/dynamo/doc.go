// Package dynamo provides the shared primitives of the pendulum lab.
//
// The package defines the small vocabulary the rest of the module speaks:
//
//   - [State] and [Control]: flat vectors, positions first then velocities
//   - [System]: an ODE right-hand side (dX/dt = f(X, u, t))
//   - [Integrator]: a fixed-step scheme that also applies per-step damping
//   - [Metric]: a scalar observer fed once per simulated frame
//   - [Vec2] and [Rect]: screen-space geometry used by the interaction layer
//
// # Example
//
//	dyn := physics.NewPendulum()
//	integ := integrators.NewSymplecticEuler()
//	x := dynamo.State{theta, omega}
//	x = integ.Step(dyn, x, dynamo.Control{0}, t, dt, 0.999)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A simulation is
// owned by a single frame loop.
package dynamo
