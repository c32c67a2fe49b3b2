package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Energy is the mean mechanical energy per observed frame.
type Energy struct {
	name        string
	dyn         dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(dyn dynamo.Hamiltonian) *Energy {
	return &Energy{
		name: "energy",
		dyn:  dyn,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < 2 {
		return
	}
	e.totalEnergy += e.dyn.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// baselineFloor is the smallest energy accepted as a drift baseline. A bob
// resting at the bottom has zero energy and no relative drift to speak of.
const baselineFloor = 1e-12

// EnergyDrift is the largest relative departure from the first observed
// non-zero energy. Frames before that baseline arrives report zero drift.
// The baseline spans the whole run: a simulator reset does not clear it, so
// drift after a reset is still measured against the first swing.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	baselined     bool
	dyn           dynamo.Hamiltonian
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	energy := e.dyn.Energy(x)
	e.currentEnergy = energy

	if !e.baselined {
		if math.Abs(energy) < baselineFloor {
			return
		}
		e.initialEnergy = energy
		e.baselined = true
	}

	drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.baselined = false
}
