package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

type Config struct {
	Params     sim.Params
	Integrator string
	Frames     int

	// PhysParams override the pendulum model after construction
	// (mass, length, gravity).
	PhysParams map[string]float64
}

// InputFunc supplies the host input for a frame.
type InputFunc func(frame int) sim.Input

// Idle leaves the pointer parked off screen and released.
func Idle(frame int) sim.Input {
	return sim.Input{Pointer: dynamo.Vec2{X: -1e4, Y: -1e4}}
}

type Result struct {
	Frames     []sim.RenderState
	Metrics    map[string]float64
	Integrator string
	Dt         float64

	// Model holds the pendulum parameters the run used.
	Model map[string]float64
}

// Thetas returns the theta trace.
func (r *Result) Thetas() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Theta
	}
	return out
}

// Energies returns the energy trace.
func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Energy
	}
	return out
}

type recorder struct {
	frames []sim.RenderState
}

func (r *recorder) OnStep(rs sim.RenderState) {
	r.frames = append(r.frames, rs)
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	rec       *recorder
}

// New builds a headless simulator with the registry's default metrics.
func New(cfg Config, registry *Registry) (*Experiment, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d: %w", cfg.Frames, dynamo.ErrParameterBounds)
	}

	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s := sim.New(cfg.Params, integ)
	if err := applyParams(s.Dynamics(), cfg.PhysParams); err != nil {
		return nil, err
	}
	for _, m := range registry.DefaultMetrics(s.Dynamics()) {
		s.AddMetric(m)
	}

	rec := &recorder{frames: make([]sim.RenderState, 0, cfg.Frames)}
	s.AddObserver(rec)

	return &Experiment{cfg: cfg, simulator: s, rec: rec}, nil
}

// Run steps the simulator for the configured number of frames. A nil input
// function runs idle.
func (e *Experiment) Run(ctx context.Context, input InputFunc) (*Result, error) {
	if input == nil {
		input = Idle
	}

	for i := 0; i < e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return e.result(), ctx.Err()
		default:
		}

		rs := e.simulator.Step(input(i))

		x := dynamo.State{rs.Theta, rs.Omega}
		if !x.IsValid() {
			return e.result(), &dynamo.SimulationError{
				Frame: rs.Frame, Time: rs.Time, State: x, Wrapped: dynamo.ErrInvalidState,
			}
		}
	}

	return e.result(), nil
}

func (e *Experiment) result() *Result {
	return &Result{
		Frames:     e.rec.frames,
		Metrics:    e.simulator.Metrics(),
		Integrator: e.simulator.Integrator().Name(),
		Dt:         e.simulator.Params().Dt(),
		Model:      e.simulator.Dynamics().GetParams(),
	}
}

func applyParams(target dynamo.Configurable, params map[string]float64) error {
	for name, v := range params {
		if err := target.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}
