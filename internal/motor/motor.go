// Package motor models the per-wheel electromechanical drivetrain. The
// simulation kernel only depends on the Model contract; the concrete
// DCMotor below is one deterministic implementation of it.
package motor

// State holds the dynamic state of one motor: rotor angular speed
// (rad/s) and winding current (A).
type State struct {
	AngularSpeed float64
	Current      float64
}

// Model is the electromechanical transfer function the kernel drives.
// Implementations must be causal and deterministic: Advance may use
// any internal discretization as long as identical inputs produce
// identical outputs.
type Model interface {
	// WheelSpeed maps rotor angular speed to linear wheel surface
	// speed (m/s) through the gearbox and wheel radius.
	WheelSpeed(motorAngularSpeed float64) float64

	// TorqueFromWheelForce maps a force at the wheel contact patch
	// (N) back to the equivalent torque at the rotor (N·m).
	TorqueFromWheelForce(force float64) float64

	// Advance steps the motor state by dt given the torque load at
	// the rotor and the commanded terminal voltage.
	Advance(s State, torqueLoad, voltage, dt float64) State

	// NominalVoltage is the supply bound for voltage commands.
	NominalVoltage() float64
}

// DCMotor is a geared brushed DC motor:
//
//	L di/dt = V - R i - Ke w
//	J dw/dt = Kt i - B w + torqueLoad
//
// advanced with implicit Euler (current first, then speed), which
// stays stable for the stiff electrical pole at any simulation dt.
type DCMotor struct {
	Kt float64 // torque constant, N·m/A
	Ke float64 // back-EMF constant, V·s/rad
	R  float64 // winding resistance, ohm
	L  float64 // winding inductance, H
	J  float64 // rotor inertia incl. reflected gear train, kg·m²
	B  float64 // viscous friction, N·m·s/rad

	GearRatio   float64 // rotor revolutions per wheel revolution
	WheelRadius float64 // m
	VNominal    float64 // V
}

// Default returns the drivetrain parameters used by the simulated
// robot base.
func Default() *DCMotor {
	return &DCMotor{
		Kt:          0.03,
		Ke:          0.03,
		R:           1.0,
		L:           0.001,
		J:           2e-4,
		B:           1e-5,
		GearRatio:   25.0,
		WheelRadius: 0.035,
		VNominal:    12.0,
	}
}

func (m *DCMotor) WheelSpeed(motorAngularSpeed float64) float64 {
	return motorAngularSpeed * m.WheelRadius / m.GearRatio
}

func (m *DCMotor) TorqueFromWheelForce(force float64) float64 {
	return force * m.WheelRadius / m.GearRatio
}

func (m *DCMotor) NominalVoltage() float64 {
	return m.VNominal
}

func (m *DCMotor) Advance(s State, torqueLoad, voltage, dt float64) State {
	// Implicit update of the electrical state with the speed held at
	// its previous value, then implicit update of the mechanical
	// state using the new current.
	i := (s.Current + dt/m.L*(voltage-m.Ke*s.AngularSpeed)) /
		(1 + dt*m.R/m.L)

	w := (s.AngularSpeed + dt/m.J*(m.Kt*i+torqueLoad)) /
		(1 + dt*m.B/m.J)

	return State{AngularSpeed: w, Current: i}
}
