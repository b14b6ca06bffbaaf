// Package drive holds the differential-drive kinematics and the
// per-wheel velocity control law.
package drive

// TrackHalfWidth is the lateral offset of each wheel from the body
// center (half the wheel track), in meters.
const TrackHalfWidth = 0.5 * 0.230

// LinearAngularFromWheels converts left/right wheel surface speeds to
// body linear and angular velocity.
func LinearAngularFromWheels(l, r float64) (linear, angular float64) {
	linear = (r + l) / 2
	angular = (r - l) / (2 * TrackHalfWidth)
	return
}

// WheelsFromLinearAngular converts body linear and angular velocity to
// left/right wheel surface speeds.
func WheelsFromLinearAngular(linear, angular float64) (l, r float64) {
	l = linear - angular*TrackHalfWidth
	r = linear + angular*TrackHalfWidth
	return
}

// ClampAbs limits q to ±limit.
func ClampAbs(q, limit float64) float64 {
	if q > limit {
		return limit
	}
	if q < -limit {
		return -limit
	}
	return q
}
