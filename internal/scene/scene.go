// Package scene loads arena descriptions from yaml files: room size,
// robot spawn, and the furniture to place. A loaded scene is cached by
// the simulation so Reset(reload=true) can rebuild it from scratch.
package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/botsim/internal/geom"
	"github.com/san-kum/botsim/internal/world"
)

type Room struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type RobotSpawn struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Angle float64 `yaml:"angle"`
}

type BoxSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Angle  float64 `yaml:"angle"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

type PylonSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color"`
}

type BallSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type WallSpec struct {
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
}

type TapeSpec struct {
	Color  string       `yaml:"color"`
	Points [][2]float64 `yaml:"points"`
}

type Scene struct {
	Room   Room        `yaml:"room"`
	Robot  *RobotSpawn `yaml:"robot"`
	Boxes  []BoxSpec   `yaml:"boxes"`
	Pylons []PylonSpec `yaml:"pylons"`
	Balls  []BallSpec  `yaml:"balls"`
	Walls  []WallSpec  `yaml:"walls"`
	Tape   []TapeSpec  `yaml:"tape"`
}

// Parse reads a scene description from yaml bytes.
func Parse(data []byte) (*Scene, error) {
	var sc Scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if sc.Room.Width <= 0 || sc.Room.Height <= 0 {
		return nil, fmt.Errorf("scene: room dimensions must be positive, got %fx%f",
			sc.Room.Width, sc.Room.Height)
	}
	return &sc, nil
}

// Load parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return Parse(data)
}

// Apply populates a cleared simulation from the scene: room size,
// props, robot spawn. The sim caches source so a later
// Reset(reload=true) re-runs the full load.
func (sc *Scene) Apply(s *world.Sim, source string) error {
	s.SetDims(sc.Room.Width, sc.Room.Height)

	for _, b := range sc.Boxes {
		s.AddBox(world.BoxDims{W: b.Width, H: b.Height, D: b.Depth},
			geom.Point{X: b.X, Y: b.Y}, b.Angle)
	}
	for _, p := range sc.Pylons {
		if _, err := s.AddPylon(geom.Point{X: p.X, Y: p.Y}, p.Color); err != nil {
			return err
		}
	}
	for _, b := range sc.Balls {
		s.AddBall(geom.Point{X: b.X, Y: b.Y})
	}
	for _, w := range sc.Walls {
		s.AddWall(geom.Point{X: w.X0, Y: w.Y0}, geom.Point{X: w.X1, Y: w.Y1})
	}
	for _, t := range sc.Tape {
		points := make([]geom.Point, len(t.Points))
		for i, p := range t.Points {
			points[i] = geom.Point{X: p[0], Y: p[1]}
		}
		s.AddTapeStrip(points, t.Color)
	}

	spawn := geom.Pose{
		X: 0.5 * sc.Room.Width,
		Y: 0.5 * sc.Room.Height,
	}
	if sc.Robot != nil {
		spawn = geom.Pose{X: sc.Robot.X, Y: sc.Robot.Y, Angle: sc.Robot.Angle}
	}
	s.InitializeRobot(spawn)

	if source != "" {
		s.SetSceneSource(source, func() error {
			return LoadInto(s, source)
		})
	}
	return nil
}

// LoadInto parses path and applies it to a cleared simulation.
func LoadInto(s *world.Sim, path string) error {
	sc, err := Load(path)
	if err != nil {
		return err
	}
	return sc.Apply(s, path)
}
