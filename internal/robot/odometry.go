package robot

import (
	"github.com/san-kum/botsim/internal/drive"
	"github.com/san-kum/botsim/internal/geom"
)

// updateOdometry advances the dead-reckoned pose track. Odometry
// integrates the noisy wheel measurements every OdomFrequency ticks
// over the elapsed decimated window; in perfect-odometry mode it is
// instead pinned to the exact spawn-relative ground truth every tick.
func (r *Robot) updateOdometry(dt float64) {
	r.odomLin, r.odomAng = drive.LinearAngularFromWheels(
		r.odomWheelVel[0], r.odomWheelVel[1])

	r.odomTick++

	if r.noise.PerfectOdometry {
		r.odomPose = r.initialPoseInv.Compose(r.WorldPose())
		return
	}

	if r.odomTick%OdomFrequency != 0 {
		return
	}

	odt := dt * OdomFrequency
	fwd := odt * r.odomLin
	spin := odt * r.odomAng

	dir := r.odomPose.Forward()
	r.odomPose = geom.Pose{
		X:     r.odomPose.X + fwd*dir.X,
		Y:     r.odomPose.Y + fwd*dir.Y,
		Angle: r.odomPose.Angle + spin,
	}
}

// OdomVelocity returns the measured linear and angular velocity
// derived from the noisy wheel speeds.
func (r *Robot) OdomVelocity() (linear, angular float64) {
	return r.odomLin, r.odomAng
}
