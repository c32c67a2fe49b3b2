package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// SymplecticEuler is semi-implicit Euler: velocities are advanced (and damped)
// first, then positions move with the new velocities. For a fixed small dt it
// keeps oscillator energy bounded instead of pumping it up.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

func (s *SymplecticEuler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt, damping float64) dynamo.State {
	n := len(x)
	half := n / 2

	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, n)

	for i := 0; i < half; i++ {
		v := x[half+i] + dx[half+i]*dt
		v *= damping
		result[half+i] = v
		result[i] = x[i] + v*dt
	}

	return result
}
