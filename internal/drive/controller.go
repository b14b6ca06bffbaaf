package drive

// Velocity-loop constants for the wheel PI controller.
const (
	VelKp = 100.0 // V per m/s of error
	VelKi = 200.0 // V per m of integrated error

	IntegratorMax = 0.05 // bound on integrated error, m

	// StoppedVelThreshold is the measured-speed band treated as "near
	// zero" when the command is zero.
	StoppedVelThreshold = 0.15 // m/s

	// StoppedTickCutoff is the number of consecutive stopped ticks
	// after which the controller forces zero voltage instead of
	// chattering around standstill.
	StoppedTickCutoff = 5
)

// WheelController is a PI velocity controller with integral clamping
// and a stall-cutoff debounce, one instance per wheel.
type WheelController struct {
	Kp float64
	Ki float64

	integrator   float64
	stoppedTicks int
}

func NewWheelController() *WheelController {
	return &WheelController{Kp: VelKp, Ki: VelKi}
}

// Update computes the voltage command for one tick. desired is the
// filtered wheel speed setpoint, measured the (noisy) wheel speed
// measurement, vNominal the supply bound. The integrator is advanced
// and clamped unconditionally, even with motors disabled, so windup
// stays bounded no matter how long the drive is inhibited.
func (c *WheelController) Update(desired, measured, dt, vNominal float64, enabled bool) float64 {
	err := desired - measured

	if desired == 0 && abs(measured) < StoppedVelThreshold {
		c.stoppedTicks++
	} else {
		c.stoppedTicks = 0
	}

	// Accumulate first, then clamp: clamping the increment instead
	// would lag the bound by one tick.
	c.integrator = ClampAbs(c.integrator+err*dt, IntegratorMax)

	if !enabled {
		return 0
	}
	if c.stoppedTicks > StoppedTickCutoff {
		return 0
	}

	return ClampAbs(c.Kp*err+c.Ki*c.integrator, vNominal)
}

// Integrator exposes the accumulated error for logging and tests.
func (c *WheelController) Integrator() float64 { return c.integrator }

// StoppedTicks exposes the stall debounce counter.
func (c *WheelController) StoppedTicks() int { return c.stoppedTicks }

// Reset restores the controller to its spawn state.
func (c *WheelController) Reset() {
	c.integrator = 0
	c.stoppedTicks = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
