package world

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/botsim/internal/geom"
)

func newTestSim(t *testing.T, opts Options) *Sim {
	t.Helper()
	if opts.DataDir == "" {
		opts.DataDir = t.TempDir()
	}
	return New(opts)
}

func TestNewSimInvariant(t *testing.T) {
	s := newTestSim(t, Options{})

	objs := s.Objects()
	if len(objs) != 2 {
		t.Fatalf("expected 2 initial objects, got %d", len(objs))
	}
	if objs[0] != Object(s.Robot()) {
		t.Error("expected objects[0] to be the robot")
	}
	if objs[1] != Object(s.Room()) {
		t.Error("expected objects[1] to be the room")
	}
}

func TestAddAndClear(t *testing.T) {
	s := newTestSim(t, Options{RoomWidth: 4, RoomHeight: 4})

	s.AddBox(BoxDims{W: 0.2, H: 0.3, D: 0.1}, geom.Point{X: 1, Y: 1}, 0)
	if _, err := s.AddPylon(geom.Point{X: 2, Y: 2}, "orange"); err != nil {
		t.Fatal(err)
	}
	s.AddBall(geom.Point{X: 3, Y: 3})
	s.AddWall(geom.Point{X: 1, Y: 3}, geom.Point{X: 3, Y: 1})
	s.AddTapeStrip([]geom.Point{{X: 0.5, Y: 0.5}, {X: 1, Y: 1}}, "blue")

	if got := len(s.Objects()); got != 7 {
		t.Errorf("expected 7 objects, got %d", got)
	}

	s.Clear()

	if got := len(s.Objects()); got != 2 {
		t.Errorf("expected clear to leave robot and room, got %d objects", got)
	}
	if got := len(s.TapeStrips()); got != 0 {
		t.Errorf("expected tape strips cleared, got %d", got)
	}
	if s.Objects()[0] != Object(s.Robot()) || s.Objects()[1] != Object(s.Room()) {
		t.Error("expected robot and room to survive clear")
	}
}

func TestAddPylonRejectsUnknownColor(t *testing.T) {
	s := newTestSim(t, Options{})
	if _, err := s.AddPylon(geom.Point{X: 1, Y: 1}, "purple"); err == nil {
		t.Error("expected error for unknown pylon color")
	}
	if got := len(s.Objects()); got != 2 {
		t.Errorf("expected no object added on error, got %d", got)
	}
}

func TestTapeStripMerging(t *testing.T) {
	s := newTestSim(t, Options{})

	s.AddTapeStrip([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, "blue")
	s.AddTapeStrip([]geom.Point{{X: 0, Y: 1}, {X: 1, Y: 1}}, "blue")
	s.AddTapeStrip([]geom.Point{{X: 0, Y: 2}, {X: 1, Y: 2}}, "silver")

	if got := len(s.TapeStrips()); got != 2 {
		t.Fatalf("expected 2 tape colors, got %d", got)
	}
	blue := s.TapeStrips()["blue"]
	if blue == nil || len(blue.PointLists) != 2 {
		t.Errorf("expected 2 blue polylines merged into one object, got %+v", blue)
	}
	// One object per color, not per strip.
	if got := len(s.Objects()); got != 4 {
		t.Errorf("expected 4 objects, got %d", got)
	}
}

func TestModificationCounter(t *testing.T) {
	s := newTestSim(t, Options{})

	before := s.ModificationCounter()
	s.AddBall(geom.Point{X: 1, Y: 1})
	if s.ModificationCounter() <= before {
		t.Error("expected counter to advance on add")
	}

	before = s.ModificationCounter()
	s.SetDims(5, 5)
	if s.ModificationCounter() <= before {
		t.Error("expected counter to advance on resize")
	}

	before = s.ModificationCounter()
	s.Clear()
	if s.ModificationCounter() <= before {
		t.Error("expected counter to advance on clear")
	}

	before = s.ModificationCounter()
	if err := s.Reset(false); err != nil {
		t.Fatal(err)
	}
	if s.ModificationCounter() <= before {
		t.Error("expected counter to advance on reset")
	}
}

func TestUpdateAdvancesClock(t *testing.T) {
	s := newTestSim(t, Options{})
	s.InitializeRobot(geom.Pose{X: 2, Y: 2})

	for i := 0; i < 10; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}

	if s.SimTicks() != 10*s.TicksPerUpdate {
		t.Errorf("expected %d ticks, got %d", 10*s.TicksPerUpdate, s.SimTicks())
	}
	want := float64(10*s.TicksPerUpdate) * s.Dt
	if math.Abs(s.SimTime()-want) > 1e-9 {
		t.Errorf("expected sim time %f, got %f", want, s.SimTime())
	}
	if !s.Logger().IsLogging() {
		t.Error("expected first update to start a log")
	}
}

func TestScriptedStraightRun(t *testing.T) {
	dataDir := t.TempDir()
	s := newTestSim(t, Options{
		Seed:            1,
		PerfectOdometry: true,
		PerfectContact:  true,
		RoomWidth:       6,
		RoomHeight:      3,
		DataDir:         dataDir,
	})
	s.InitializeRobot(geom.Pose{X: 1, Y: 1.5})
	s.Robot().SetDesiredVelocity(0.5, 0)

	for i := 0; i < 100; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}

	pose := s.Robot().TruePose()
	if pose.X < 1.2 || pose.X > 2.2 {
		t.Errorf("expected roughly 2m of travel in 4s, got x=%f", pose.X)
	}
	if math.Abs(pose.Y) > 0.05 {
		t.Errorf("expected straight travel, got y=%f", pose.Y)
	}
	if b := s.Robot().Bump(); b[0] || b[1] || b[2] {
		t.Errorf("expected no bump mid-room, got %v", b)
	}

	runDir, err := s.Logger().Finish()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(runDir, "states.csv")); err != nil {
		t.Errorf("expected states.csv in run dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); err != nil {
		t.Errorf("expected metadata.json in run dir: %v", err)
	}
}

func TestRobotStopsAtRoomWall(t *testing.T) {
	s := newTestSim(t, Options{
		Seed:            1,
		PerfectOdometry: true,
		PerfectContact:  true,
		RoomWidth:       3,
		RoomHeight:      3,
	})
	// Facing the east wall from close range.
	s.InitializeRobot(geom.Pose{X: 2.0, Y: 1.5})
	s.Robot().SetDesiredVelocity(0.5, 0)

	for i := 0; i < 150; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}

	pose := s.Robot().WorldPose()
	if pose.X > 3.0 {
		t.Errorf("expected wall to stop the robot inside the room, got x=%f", pose.X)
	}
	if b := s.Robot().Bump(); !b[1] {
		t.Errorf("expected center bump against the wall, got %v", b)
	}
}

func TestResetRestoresScenario(t *testing.T) {
	s := newTestSim(t, Options{Seed: 3, RoomWidth: 5, RoomHeight: 5})
	spawn := geom.Pose{X: 1, Y: 2, Angle: 0.4}
	s.InitializeRobot(spawn)
	ball := s.AddBall(geom.Point{X: 3, Y: 3})

	s.Robot().SetDesiredVelocity(0.5, 0.2)
	for i := 0; i < 50; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	s.KickBall()
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(false); err != nil {
		t.Fatal(err)
	}

	if s.SimTime() != 0 || s.SimTicks() != 0 {
		t.Errorf("expected clock reset, got t=%f ticks=%d", s.SimTime(), s.SimTicks())
	}
	pose := s.Robot().WorldPose()
	if pose.X != spawn.X || pose.Y != spawn.Y || pose.Angle != spawn.Angle {
		t.Errorf("expected robot back at spawn %+v, got %+v", spawn, pose)
	}
	odom := s.Robot().OdomPose()
	if odom != (geom.Pose{}) {
		t.Errorf("expected odometry reset, got %+v", odom)
	}
	bp := ball.PhysicsBody().GetPosition()
	if math.Abs(bp.X-3) > 1e-9 || math.Abs(bp.Y-3) > 1e-9 {
		t.Errorf("expected ball restored to (3,3), got (%f,%f)", bp.X, bp.Y)
	}
	if s.Logger().IsLogging() {
		t.Error("expected reset to finish the active log")
	}
	if got := len(s.Objects()); got != 3 {
		t.Errorf("expected in-place reset to keep objects, got %d", got)
	}
}

func TestKickBall(t *testing.T) {
	s := newTestSim(t, Options{RoomWidth: 5, RoomHeight: 5})
	s.InitializeRobot(geom.Pose{X: 1, Y: 2.5})
	ball := s.AddBall(geom.Point{X: 3, Y: 2.5})

	s.KickBall()

	v := ball.PhysicsBody().GetLinearVelocity()
	if v.X > -3.5 {
		t.Errorf("expected ball kicked toward robot at roughly 4 m/s, got vx=%f", v.X)
	}
	if math.Abs(v.Y) > 0.01 {
		t.Errorf("expected kick along the x axis, got vy=%f", v.Y)
	}
	if !ball.PhysicsBody().IsBullet() {
		t.Error("expected kicked ball flagged for continuous collision")
	}
}

func TestSceneSourceInvalidation(t *testing.T) {
	s := newTestSim(t, Options{})
	s.SetSceneSource("arena.yaml", func() error { return nil })

	if s.SceneSource() != "arena.yaml" {
		t.Fatalf("expected cached scene source, got %q", s.SceneSource())
	}

	s.AddBall(geom.Point{X: 1, Y: 1})
	if s.SceneSource() != "" {
		t.Error("expected structural mutation to invalidate the scene cache")
	}
}
