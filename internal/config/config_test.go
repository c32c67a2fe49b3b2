package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Preset != "rail" {
		t.Errorf("expected preset rail, got %s", cfg.Preset)
	}
	if cfg.Integrator != "symplectic" {
		t.Errorf("expected symplectic integrator, got %s", cfg.Integrator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lab")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Pendulum.LengthScale != 0.01 {
		t.Errorf("expected length scale 0.01, got %f", cfg.Pendulum.LengthScale)
	}

	cfg.Pendulum.Damping = 0.5
	if Presets["lab"].Pendulum.Damping != DefaultDamping {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != 2 || presets[0] != "lab" || presets[1] != "rail" {
		t.Errorf("unexpected presets %v", presets)
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frame rate", func(c *Config) { c.Window.FrameRate = 0 }},
		{"zero length", func(c *Config) { c.Pendulum.LengthPx = 0 }},
		{"negative scale", func(c *Config) { c.Pendulum.LengthScale = -1 }},
		{"zero damping", func(c *Config) { c.Pendulum.Damping = 0 }},
		{"damping above one", func(c *Config) { c.Pendulum.Damping = 1.01 }},
		{"inverted rail", func(c *Config) { c.Rail.StartX, c.Rail.EndX = 900, 100 }},
		{"empty slider range", func(c *Config) {
			c.Controls.DampingSlider = true
			c.Controls.DampingMin, c.Controls.DampingMax = 0.95, 0.95
		}},
		{"damping outside slider", func(c *Config) {
			c.Controls.DampingSlider = true
			c.Controls.DampingMin, c.Controls.DampingMax = 0.9, 0.95
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pendulab.yaml")

	cfg := GetPreset("lab")
	cfg.Pendulum.Gravity = 3.71
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialFileKeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "preset: lab\npendulum:\n  damping: 0.95\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Pendulum.Damping != 0.95 {
		t.Errorf("expected damping 0.95, got %f", cfg.Pendulum.Damping)
	}
	if cfg.Pendulum.LengthScale != 0.01 || !cfg.Controls.ResetButton {
		t.Error("expected lab preset values for keys absent from the file")
	}
}

func TestLoadUnknownPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("preset: moon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestSimParams(t *testing.T) {
	p := GetPreset("lab").SimParams()

	if p.LengthMeters() != 4 {
		t.Errorf("expected 4m rod, got %f", p.LengthMeters())
	}
	if p.Width/2 != 500 || p.RailY != 500 {
		t.Errorf("expected centred pivot, got (%f, %f)", p.Width/2, p.RailY)
	}
	if !p.PivotCoupling || !p.ResetButton || !p.DampingSlider {
		t.Error("lab controls not carried over")
	}
}
