package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt != DefaultDt {
		t.Errorf("expected dt %f, got %f", DefaultDt, cfg.Dt)
	}
	if cfg.TicksPerUpdate != DefaultTicksPerUpdate {
		t.Errorf("expected %d ticks per update, got %d", DefaultTicksPerUpdate, cfg.TicksPerUpdate)
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	data := `
duration: 5.0
seed: 42
perfect_odometry: true
room:
  width: 6.0
  height: 3.0
command:
  linear: 0.5
  angular: 0.2
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Duration != 5.0 {
		t.Errorf("expected duration 5.0, got %f", cfg.Duration)
	}
	if cfg.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Seed)
	}
	if !cfg.PerfectOdometry {
		t.Error("expected perfect_odometry true")
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("expected default dt fill, got %f", cfg.Dt)
	}
	if cfg.Room.Width != 6.0 || cfg.Room.Height != 3.0 {
		t.Errorf("expected room 6x3, got %fx%f", cfg.Room.Width, cfg.Room.Height)
	}
	if cfg.Command.Linear != 0.5 || cfg.Command.Angular != 0.2 {
		t.Errorf("unexpected command: %+v", cfg.Command)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/run.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero dt", func(c *Config) { c.Dt = 0 }, false},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }, false},
		{"zero ticks", func(c *Config) { c.TicksPerUpdate = 0 }, false},
		{"zero duration", func(c *Config) { c.Duration = 0 }, false},
		{"zero room width", func(c *Config) { c.Room.Width = 0 }, false},
		{"negative room height", func(c *Config) { c.Room.Height = -1 }, false},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: expected valid, got %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("straight")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Command.Linear != 0.5 {
		t.Errorf("expected linear 0.5, got %f", cfg.Command.Linear)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("expected sorted names, got %v", names)
		}
	}
	for _, name := range names {
		if err := Presets[name].Validate(); err != nil {
			t.Errorf("preset %s should validate: %v", name, err)
		}
	}
}
