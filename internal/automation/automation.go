package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/experiment"
	"github.com/san-kum/pendulab/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted pointer session replayed headlessly.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Preset      string             `yaml:"preset"`
	Integrator  string             `yaml:"integrator"`
	Params      map[string]float64 `yaml:"params"`
	Segments    []Segment          `yaml:"segments"`
}

// Segment holds the pointer for Frames frames. When ToX/ToY are set the
// pointer moves linearly from (X, Y) to (ToX, ToY) across the segment.
type Segment struct {
	Frames  int      `yaml:"frames"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
	ToX     *float64 `yaml:"to_x"`
	ToY     *float64 `yaml:"to_y"`
	Pressed bool     `yaml:"pressed"`
	Reset   bool     `yaml:"reset"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &scenario, nil
}

// Frames is the total number of frames across all segments.
func (s *Scenario) Frames() int {
	n := 0
	for _, seg := range s.Segments {
		if seg.Frames > 0 {
			n += seg.Frames
		}
	}
	return n
}

// Inputs expands the segments into one input per frame. A reset fires on the
// first frame of its segment only.
func (s *Scenario) Inputs() []sim.Input {
	inputs := make([]sim.Input, 0, s.Frames())

	for _, seg := range s.Segments {
		from := dynamo.Vec2{X: seg.X, Y: seg.Y}
		to := from
		if seg.ToX != nil {
			to.X = *seg.ToX
		}
		if seg.ToY != nil {
			to.Y = *seg.ToY
		}

		for k := 0; k < seg.Frames; k++ {
			frac := 1.0
			if seg.Frames > 1 {
				frac = float64(k) / float64(seg.Frames-1)
			}
			in := sim.Input{
				Pointer: from.Add(to.Sub(from).Scale(frac)),
				Pressed: seg.Pressed,
			}
			if seg.Reset && k == 0 {
				in.Command = sim.CommandReset
			}
			inputs = append(inputs, in)
		}
	}

	return inputs
}

// Config layers the scenario over base. A scenario preset other than base's
// replaces it, the scenario integrator comes next and overrides are applied
// last, so a caller's explicit settings win over the script. The result is
// validated.
func (s *Scenario) Config(base *config.Config, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" && s.Preset != base.Preset {
		preset := config.GetPreset(s.Preset)
		if preset == nil {
			return nil, fmt.Errorf("scenario %s: unknown preset %q", s.Name, s.Preset)
		}
		cfg = *preset
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}

	for _, apply := range overrides {
		apply(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return &cfg, nil
}

// RunScenario replays the scenario against a fresh simulator built from cfg,
// normally the result of Config.
func RunScenario(ctx context.Context, scenario *Scenario, cfg *config.Config, registry *experiment.Registry) (*experiment.Result, error) {
	frames := scenario.Frames()
	if frames == 0 {
		return nil, fmt.Errorf("scenario %s has no frames: %w", scenario.Name, dynamo.ErrParameterBounds)
	}

	exp, err := experiment.New(experiment.Config{
		Params:     cfg.SimParams(),
		Integrator: cfg.Integrator,
		Frames:     frames,
		PhysParams: scenario.Params,
	}, registry)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	inputs := scenario.Inputs()
	return exp.Run(ctx, func(frame int) sim.Input { return inputs[frame] })
}

// ParameterSweep runs free swings across a range of one pendulum parameter.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalTheta float64
	MaxEnergy  float64
	MinEnergy  float64
	PeakOmega  float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, cfg *config.Config, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d: %w", sweep.NumSteps, dynamo.ErrParameterBounds)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		exp, err := experiment.New(experiment.Config{
			Params:     cfg.SimParams(),
			Integrator: cfg.Integrator,
			Frames:     sweep.Frames,
			PhysParams: map[string]float64{sweep.ParamName: paramVal},
		}, registry)
		if err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx, nil)
		if err != nil {
			return nil, err
		}

		energies := result.Energies()
		minE, maxE := energies[0], energies[0]
		for _, e := range energies {
			if e > maxE {
				maxE = e
			}
			if e < minE {
				minE = e
			}
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			FinalTheta: result.Frames[len(result.Frames)-1].Theta,
			MaxEnergy:  maxE,
			MinEnergy:  minE,
			PeakOmega:  result.Metrics["peak_omega"],
		})
	}

	return results, nil
}
