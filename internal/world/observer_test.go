package world

import (
	"math"
	"testing"

	"github.com/san-kum/botsim/internal/geom"
)

type countingObserver struct {
	registered int
	inits      int
	pres       int
	posts      int
}

func (c *countingObserver) Register(*Sim)   { c.registered++ }
func (c *countingObserver) Initialize(*Sim) { c.inits++ }
func (c *countingObserver) PreUpdate(*Sim)  { c.pres++ }
func (c *countingObserver) PostUpdate(*Sim) { c.posts++ }

func TestObserverHooks(t *testing.T) {
	s := newTestSim(t, Options{})
	s.InitializeRobot(geom.Pose{X: 2, Y: 2})

	obs := &countingObserver{}
	s.AddObserver(obs)

	if obs.registered != 1 || obs.inits != 1 {
		t.Fatalf("expected register and initialize on add, got %+v", obs)
	}

	for i := 0; i < 5; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if obs.pres != 5 || obs.posts != 5 {
		t.Errorf("expected 5 pre/post notifications, got %d/%d", obs.pres, obs.posts)
	}

	if err := s.Reset(false); err != nil {
		t.Fatal(err)
	}
	if obs.inits != 2 {
		t.Errorf("expected re-initialize on reset, got %d inits", obs.inits)
	}
}

func TestTripMeter(t *testing.T) {
	s := newTestSim(t, Options{
		Seed:            1,
		PerfectOdometry: true,
		PerfectContact:  true,
		RoomWidth:       6,
		RoomHeight:      3,
	})
	s.InitializeRobot(geom.Pose{X: 1, Y: 1.5})

	meter := &TripMeter{}
	s.AddObserver(meter)

	s.Robot().SetDesiredVelocity(0.5, 0)
	for i := 0; i < 100; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}

	displacement := s.Robot().TruePose().X
	if math.Abs(meter.Distance()-displacement) > 0.05 {
		t.Errorf("expected trip distance %f to match straight displacement, got %f",
			displacement, meter.Distance())
	}

	if err := s.Reset(false); err != nil {
		t.Fatal(err)
	}
	if meter.Distance() != 0 {
		t.Errorf("expected trip meter zeroed on reset, got %f", meter.Distance())
	}
}
