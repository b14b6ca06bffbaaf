// Package noise supplies the stochastic corruption applied to wheel
// speed measurements and to the wheel-ground force limit. All draws
// come from one seeded source, so a run is reproducible given its
// seed.
package noise

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// WheelVelStddev corrupts the wheel speed measurement, m/s.
	WheelVelStddev = 0.02

	// WheelVelThreshold suppresses measurement noise near standstill
	// so a parked robot does not accumulate false odometry drift.
	WheelVelThreshold = 0.005 // m/s

	// WheelForceStddev perturbs the per-tick traction limit, N.
	WheelForceStddev = 3.0
)

// Injector draws the per-tick noise samples. The perfect-odometry and
// perfect-contact diagnostic modes zero out the respective channel
// without consuming draws, so enabling one does not shift the other's
// sequence.
type Injector struct {
	PerfectOdometry bool
	PerfectContact  bool

	wheelVel   distuv.Normal
	wheelForce distuv.Normal
}

func New(seed uint64) *Injector {
	velSrc := rand.NewSource(seed)
	forceSrc := rand.NewSource(seed + 1)
	return &Injector{
		wheelVel:   distuv.Normal{Mu: 0, Sigma: WheelVelStddev, Src: velSrc},
		wheelForce: distuv.Normal{Mu: 0, Sigma: WheelForceStddev, Src: forceSrc},
	}
}

// WheelVel returns the additive measurement noise for one wheel, given
// the true wheel speed. Zero in perfect-odometry mode or when the true
// speed does not exceed the standstill threshold.
func (n *Injector) WheelVel(trueSpeed float64) float64 {
	if n.PerfectOdometry {
		return 0
	}
	if trueSpeed <= WheelVelThreshold {
		return 0
	}
	return n.wheelVel.Rand()
}

// WheelForce returns the zero-mean perturbation on the traction force
// limit for one wheel. Zero in perfect-contact mode.
func (n *Injector) WheelForce() float64 {
	if n.PerfectContact {
		return 0
	}
	return n.wheelForce.Rand()
}
