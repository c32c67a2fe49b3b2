// Package physics provides the dynamical model behind the pendulum lab.
//
// [Pendulum] implements [dynamo.System] for a rigid, massless rod with a point
// bob hanging from a pivot that may itself accelerate horizontally. The pivot
// acceleration enters as the single control input and produces the
// fictitious-force term of the non-inertial frame:
//
//	alpha = -(g/L)·sin(theta) - (a_pivot/L)·cos(theta)
//
// It also implements [dynamo.Configurable] for runtime parameter adjustment
// and [dynamo.Hamiltonian] for energy calculation:
//
//	var h dynamo.Hamiltonian = physics.NewPendulum()
//	energy := h.Energy(dynamo.State{theta, omega})
package physics
