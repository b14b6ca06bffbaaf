package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt             = 0.01
	DefaultTicksPerUpdate = 4
	DefaultDuration       = 10.0
	DefaultRoomSize       = 4.0
)

// Config describes one simulation run.
type Config struct {
	Dt             float64 `yaml:"dt"`
	TicksPerUpdate int     `yaml:"ticks_per_update"`
	Duration       float64 `yaml:"duration"`
	Seed           uint64  `yaml:"seed"`

	PerfectOdometry bool `yaml:"perfect_odometry"`
	PerfectContact  bool `yaml:"perfect_contact"`
	FilterSetpoints bool `yaml:"filter_setpoints"`

	Scene string `yaml:"scene"`

	Room    RoomConfig    `yaml:"room"`
	Command CommandConfig `yaml:"command"`
}

type RoomConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CommandConfig is the constant velocity command driven during a
// scripted run.
type CommandConfig struct {
	Linear  float64 `yaml:"linear"`
	Angular float64 `yaml:"angular"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:             DefaultDt,
		TicksPerUpdate: DefaultTicksPerUpdate,
		Duration:       DefaultDuration,
		Room:           RoomConfig{Width: DefaultRoomSize, Height: DefaultRoomSize},
		Command:        CommandConfig{Linear: 0.5},
	}
}

// Load reads a yaml config, filling unset numeric fields with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Dt == 0 {
		cfg.Dt = DefaultDt
	}
	if cfg.TicksPerUpdate == 0 {
		cfg.TicksPerUpdate = DefaultTicksPerUpdate
	}
	if cfg.Duration == 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.Room.Width == 0 {
		cfg.Room.Width = DefaultRoomSize
	}
	if cfg.Room.Height == 0 {
		cfg.Room.Height = DefaultRoomSize
	}

	return cfg, nil
}

// Validate rejects configurations the stepping kernel cannot run.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.TicksPerUpdate <= 0 {
		return fmt.Errorf("config: ticks_per_update must be positive, got %d", c.TicksPerUpdate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	if c.Room.Width <= 0 || c.Room.Height <= 0 {
		return fmt.Errorf("config: room dimensions must be positive, got %fx%f",
			c.Room.Width, c.Room.Height)
	}
	return nil
}
