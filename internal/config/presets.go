package config

import "sort"

// Presets reproduce the two variants of the toy. The rail preset hangs the
// pendulum from a high rail; the lab preset centres the pivot and adds the
// reset button, damping slider and pivot-acceleration coupling.
var Presets = map[string]*Config{
	"rail": {
		Preset: "rail", Integrator: DefaultIntegrator,
		Window: WindowConfig{Width: 1000, Height: 600, FrameRate: DefaultFrameRate, Title: DefaultTitle},
		Pendulum: PendulumConfig{
			LengthPx: 400, LengthScale: 0.0025, Gravity: DefaultGravity,
			Damping: DefaultDamping, InitialAngleDeg: 45,
		},
		Rail: RailConfig{StartX: 100, EndX: 900, Y: 100},
	},
	"lab": {
		Preset: "lab", Integrator: DefaultIntegrator,
		Window: WindowConfig{Width: 1000, Height: 1000, FrameRate: DefaultFrameRate, Title: DefaultTitle},
		Pendulum: PendulumConfig{
			LengthPx: 400, LengthScale: 0.01, Gravity: DefaultGravity,
			Damping: DefaultDamping, InitialAngleDeg: 0, PivotCoupling: true,
		},
		Rail: RailConfig{StartX: 100, EndX: 900, Y: 500},
		Controls: ControlsConfig{
			ResetButton: true, DampingSlider: true, DampingMin: 0.9, DampingMax: 1.0,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
