package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// Euler is the explicit scheme. Positions move with the old velocities, so an
// undamped oscillator gains energy every step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt, damping float64) dynamo.State {
	n := len(x)
	half := n / 2

	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, n)
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	for i := half; i < n; i++ {
		result[i] *= damping
	}
	return result
}
