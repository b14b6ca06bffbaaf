package config

import "sort"

var Presets = map[string]*Config{
	"straight": {
		Dt: 0.01, TicksPerUpdate: 4, Duration: 10.0,
		Room:    RoomConfig{Width: 6.0, Height: 3.0},
		Command: CommandConfig{Linear: 0.5},
	},
	"spin": {
		Dt: 0.01, TicksPerUpdate: 4, Duration: 10.0,
		Room:    RoomConfig{Width: 3.0, Height: 3.0},
		Command: CommandConfig{Angular: 1.0},
	},
	"arc": {
		Dt: 0.01, TicksPerUpdate: 4, Duration: 15.0,
		Room:    RoomConfig{Width: 5.0, Height: 5.0},
		Command: CommandConfig{Linear: 0.3, Angular: 0.6},
	},
	"filtered": {
		Dt: 0.01, TicksPerUpdate: 4, Duration: 10.0,
		FilterSetpoints: true,
		Room:            RoomConfig{Width: 6.0, Height: 3.0},
		Command:         CommandConfig{Linear: 0.5},
	},
	"calibration": {
		Dt: 0.01, TicksPerUpdate: 4, Duration: 10.0,
		PerfectOdometry: true, PerfectContact: true,
		Room:    RoomConfig{Width: 6.0, Height: 3.0},
		Command: CommandConfig{Linear: 0.5},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
