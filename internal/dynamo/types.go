package dynamo

import "math"

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Integrator advances x by one step of dt. The velocity half of the state is
// multiplied by damping once per step; 1 disables damping.
type Integrator interface {
	Name() string
	Step(dyn System, x State, u Control, t, dt, damping float64) State
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

// Configurable models expose named physical parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
