package config

import (
	"fmt"
	"os"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPreset     = "rail"
	DefaultIntegrator = "symplectic"
	DefaultFrameRate  = 60
	DefaultGravity    = 9.81
	DefaultDamping    = 0.999
	DefaultTitle      = "Interactive Pendulum"
)

type Config struct {
	Preset     string         `yaml:"preset"`
	Integrator string         `yaml:"integrator"`
	Window     WindowConfig   `yaml:"window"`
	Pendulum   PendulumConfig `yaml:"pendulum"`
	Rail       RailConfig     `yaml:"rail"`
	Controls   ControlsConfig `yaml:"controls"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	FrameRate int    `yaml:"frame_rate"`
	Title     string `yaml:"title"`
}

type PendulumConfig struct {
	LengthPx        float64 `yaml:"length_px"`
	LengthScale     float64 `yaml:"length_scale"`
	Gravity         float64 `yaml:"gravity"`
	Damping         float64 `yaml:"damping"`
	InitialAngleDeg float64 `yaml:"initial_angle_deg"`
	PivotCoupling   bool    `yaml:"pivot_coupling"`
}

type RailConfig struct {
	StartX float64 `yaml:"start_x"`
	EndX   float64 `yaml:"end_x"`
	Y      float64 `yaml:"y"`
}

type ControlsConfig struct {
	ResetButton   bool    `yaml:"reset_button"`
	DampingSlider bool    `yaml:"damping_slider"`
	DampingMin    float64 `yaml:"damping_min"`
	DampingMax    float64 `yaml:"damping_max"`
}

// DefaultConfig returns a copy of the rail preset.
func DefaultConfig() *Config {
	return GetPreset(DefaultPreset)
}

// Load reads a YAML file. Keys absent from the file keep the values of the
// preset the file names, or of the default preset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if probe.Preset != "" {
		cfg = GetPreset(probe.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%s: unknown preset %q", path, probe.Preset)
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first out-of-range value, wrapping
// dynamo.ErrParameterBounds.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("config: "+format+": %w", append(args, dynamo.ErrParameterBounds)...)
	}

	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return bad("window must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.FrameRate <= 0:
		return bad("frame_rate must be positive, got %d", c.Window.FrameRate)
	case c.Pendulum.LengthPx <= 0:
		return bad("length_px must be positive, got %g", c.Pendulum.LengthPx)
	case c.Pendulum.LengthScale <= 0:
		return bad("length_scale must be positive, got %g", c.Pendulum.LengthScale)
	case c.Pendulum.Damping <= 0 || c.Pendulum.Damping > 1:
		return bad("damping must be in (0, 1], got %g", c.Pendulum.Damping)
	case c.Rail.StartX > c.Rail.EndX:
		return bad("rail start_x %g is right of end_x %g", c.Rail.StartX, c.Rail.EndX)
	}

	if c.Controls.DampingSlider {
		lo, hi := c.Controls.DampingMin, c.Controls.DampingMax
		if lo <= 0 || hi > 1 || lo >= hi {
			return bad("damping range must satisfy 0 < min < max <= 1, got [%g, %g]", lo, hi)
		}
		if c.Pendulum.Damping < lo || c.Pendulum.Damping > hi {
			return bad("damping %g outside slider range [%g, %g]", c.Pendulum.Damping, lo, hi)
		}
	}
	return nil
}

// SimParams converts the configuration into simulator construction constants.
func (c *Config) SimParams() sim.Params {
	return sim.Params{
		Width:           float64(c.Window.Width),
		Height:          float64(c.Window.Height),
		LengthPx:        c.Pendulum.LengthPx,
		LengthScale:     c.Pendulum.LengthScale,
		Gravity:         c.Pendulum.Gravity,
		Damping:         c.Pendulum.Damping,
		InitialAngleDeg: c.Pendulum.InitialAngleDeg,
		RailStartX:      c.Rail.StartX,
		RailEndX:        c.Rail.EndX,
		RailY:           c.Rail.Y,
		FrameRate:       c.Window.FrameRate,
		PivotCoupling:   c.Pendulum.PivotCoupling,
		ResetButton:     c.Controls.ResetButton,
		DampingSlider:   c.Controls.DampingSlider,
		DampingMin:      c.Controls.DampingMin,
		DampingMax:      c.Controls.DampingMax,
	}
}
