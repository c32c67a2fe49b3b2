package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/physics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["symplectic"] = func() dynamo.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(dyn *physics.Pendulum) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(dyn),
		metrics.NewEnergyDrift(dyn),
		metrics.NewPeakOmega(),
		metrics.NewPivotEffort(),
	}
}
