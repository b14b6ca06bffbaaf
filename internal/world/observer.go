package world

import "math"

// Observer is notified around simulation updates. Good for
// scorekeepers, live views, and experiment harnesses. Embed
// NopObserver to implement only the hooks you need.
type Observer interface {
	// Register runs once when the observer is added; the environment
	// is set up but the run has not started.
	Register(s *Sim)

	// Initialize runs at registration and again after every reset or
	// reload.
	Initialize(s *Sim)

	// PreUpdate runs before each macro-update, after logging has
	// started.
	PreUpdate(s *Sim)

	// PostUpdate runs after each macro-update, before the log row is
	// written.
	PostUpdate(s *Sim)
}

// NopObserver implements Observer with no-ops.
type NopObserver struct{}

func (NopObserver) Register(*Sim)   {}
func (NopObserver) Initialize(*Sim) {}
func (NopObserver) PreUpdate(*Sim)  {}
func (NopObserver) PostUpdate(*Sim) {}

// TripMeter accumulates the robot's traveled distance between resets.
type TripMeter struct {
	NopObserver

	lastX, lastY float64
	distance     float64
}

func (t *TripMeter) Initialize(s *Sim) {
	p := s.Robot().WorldPose()
	t.lastX, t.lastY = p.X, p.Y
	t.distance = 0
}

func (t *TripMeter) PostUpdate(s *Sim) {
	p := s.Robot().WorldPose()
	dx := p.X - t.lastX
	dy := p.Y - t.lastY
	t.distance += math.Hypot(dx, dy)
	t.lastX, t.lastY = p.X, p.Y
}

// Distance returns meters traveled since the last reset.
func (t *TripMeter) Distance() float64 { return t.distance }
