package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

const StandardGravity = 9.81

// Pendulum is a point-mass pendulum. Length is in meters. State is
// {theta, omega}; control is {pivot horizontal acceleration in m/s²}.
type Pendulum struct {
	Mass    float64
	Length  float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Gravity: StandardGravity,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) ControlDim() int {
	return 1
}

func (p *Pendulum) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	pivotAccel := 0.0
	if len(u) > 0 {
		pivotAccel = u[0]
	}

	return dynamo.State{omega, p.AngularAccel(theta, pivotAccel)}
}

// AngularAccel returns alpha for the given angle and pivot acceleration.
func (p *Pendulum) AngularAccel(theta, pivotAccel float64) float64 {
	alpha := -(p.Gravity / p.Length) * math.Sin(theta)
	if pivotAccel != 0 {
		alpha -= (pivotAccel / p.Length) * math.Cos(theta)
	}
	return alpha
}

func (p *Pendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * m * (L*omega)^2
	// PE = m * g * L * (1 - cos(theta))
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

// SmallAnglePeriod is 2π·sqrt(L/g).
func (p *Pendulum) SmallAnglePeriod() float64 {
	return 2 * math.Pi * math.Sqrt(p.Length/p.Gravity)
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass", "length":
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %g: %w", name, value, dynamo.ErrParameterBounds)
		}
		if name == "mass" {
			p.Mass = value
		} else {
			p.Length = value
		}
	case "gravity":
		p.Gravity = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
