// Package robot implements the differential-drive robot: per-wheel
// motor drive and velocity control, wheel-ground coupling, odometry,
// and bump sensing, all advanced once per physics tick.
package robot

import (
	"math"

	"github.com/ByteArena/box2d"

	"github.com/san-kum/botsim/internal/drive"
	"github.com/san-kum/botsim/internal/dsp"
	"github.com/san-kum/botsim/internal/geom"
	"github.com/san-kum/botsim/internal/motor"
	"github.com/san-kum/botsim/internal/noise"
)

const (
	BaseRadius = 0.5 * 0.36 // m
	BaseMass   = 2.5        // kg

	// MaxLateralImpulse caps the per-tick sideways slip correction,
	// m/s·kg.
	MaxLateralImpulse = 0.5

	// WheelForceMax is the traction limit per wheel before the
	// per-tick stochastic perturbation, N.
	WheelForceMax = 2.0

	// OdomFrequency decimates odometry integration to every Nth tick.
	OdomFrequency = 4
)

// Low-pass coefficients for command shaping (Wn = 0.05) and voltage
// smoothing (Wn = 0.1).
var (
	SetpointFilterB = []float64{0.07295966, 0.07295966}
	SetpointFilterA = []float64{-0.85408069}

	VoltageFilterB = []float64{0.13672874, 0.13672874}
	VoltageFilterA = []float64{-0.72654253}
)

// Collider is anything with a rigid body the bump sensor can track.
type Collider interface {
	PhysicsBody() *box2d.B2Body
}

// Robot aggregates two motors, two wheel controllers, the odometry
// estimator, and the bump sensor around one externally-owned rigid
// body. The Robot object itself persists across resets; only the body
// and derived state are recreated, so logging bindings stay valid.
type Robot struct {
	world *box2d.B2World
	body  *box2d.B2Body

	model  motor.Model
	noise  *noise.Injector
	motors [2]motor.State
	ctrl   [2]*drive.WheelController

	setpointFilter [2]*dsp.Filter // linear, angular
	voltageFilter  [2]*dsp.Filter // left, right

	// FilterSetpoints enables command shaping; voltage smoothing is
	// always on.
	FilterSetpoints bool

	MotorsEnabled bool

	desiredLin float64
	desiredAng float64

	filteredLin float64
	filteredAng float64

	desiredWheel [2]float64 // from filtered command
	wheelVel     [2]float64 // true, from motor state
	odomWheelVel [2]float64 // measured (noisy)

	motorTorques [2]float64
	wheelForces  [2]float64
	skidForces   [2]float64

	forwardVel float64

	odomLin  float64
	odomAng  float64
	odomPose geom.Pose
	odomTick int

	origPose       geom.Pose
	initialPoseInv geom.Pose

	// Contact mailbox: filled by the physics engine's contact
	// callback during Step, drained at the start of bump evaluation.
	pending []Collider
	tracked map[Collider]bool
	bump    [3]bool

	logVars []float64
}

// New constructs the robot in the given world, spawned at the origin.
func New(world *box2d.B2World, model motor.Model, inj *noise.Injector) *Robot {
	r := &Robot{
		world:         world,
		model:         model,
		noise:         inj,
		MotorsEnabled: true,
		logVars:       make([]float64, len(logNames)),
	}
	for i := range r.ctrl {
		r.ctrl[i] = drive.NewWheelController()
	}
	for i := range r.setpointFilter {
		r.setpointFilter[i] = dsp.NewFilter(SetpointFilterB, SetpointFilterA)
	}
	for i := range r.voltageFilter {
		r.voltageFilter[i] = dsp.NewFilter(VoltageFilterB, VoltageFilterA)
	}
	r.Initialize(geom.Pose{})
	return r
}

// Initialize re-creates the rigid body at the given spawn pose and
// resets every derived state. Used at first spawn and at every reset
// or reload.
func (r *Robot) Initialize(pose geom.Pose) {
	r.Destroy()

	r.origPose = pose
	r.initialPoseInv = pose.Inverse()

	r.odomPose = geom.Pose{}
	r.odomTick = 0
	r.odomLin = 0
	r.odomAng = 0

	r.desiredLin = 0
	r.desiredAng = 0
	r.filteredLin = 0
	r.filteredAng = 0
	r.forwardVel = 0

	for i := 0; i < 2; i++ {
		r.desiredWheel[i] = 0
		r.wheelVel[i] = 0
		r.odomWheelVel[i] = 0
		r.motorTorques[i] = 0
		r.wheelForces[i] = 0
		r.skidForces[i] = 0
		r.motors[i] = motor.State{}
		r.ctrl[i].Reset()
		r.setpointFilter[i].Reset()
		r.voltageFilter[i].Reset()
	}

	r.pending = nil
	r.tracked = make(map[Collider]bool)
	r.bump = [3]bool{}

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position.Set(pose.X, pose.Y)
	bd.Angle = pose.Angle
	body := r.world.CreateBody(&bd)

	shape := box2d.MakeB2CircleShape()
	shape.M_radius = BaseRadius

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = 1.0
	fd.Restitution = 0.25
	fd.Friction = 0.1
	body.CreateFixtureFromDef(&fd)

	body.SetMassData(&box2d.B2MassData{
		Mass:   BaseMass,
		Center: box2d.MakeB2Vec2(0, 0),
		I:      0.5 * BaseMass * BaseRadius * BaseRadius,
	})
	body.SetUserData(r)

	r.body = body
}

// Reset restores the robot to its spawn pose.
func (r *Robot) Reset() {
	r.Initialize(r.origPose)
}

// Destroy releases the rigid body.
func (r *Robot) Destroy() {
	if r.body != nil {
		r.world.DestroyBody(r.body)
		r.body = nil
	}
}

func (r *Robot) PhysicsBody() *box2d.B2Body { return r.body }

// SetDesiredVelocity sets the raw linear (m/s) and angular (rad/s)
// velocity command.
func (r *Robot) SetDesiredVelocity(linear, angular float64) {
	r.desiredLin = linear
	r.desiredAng = angular
}

func (r *Robot) DesiredVelocity() (linear, angular float64) {
	return r.desiredLin, r.desiredAng
}

// WorldPose returns the ground-truth body pose in the world frame.
func (r *Robot) WorldPose() geom.Pose {
	p := r.body.GetPosition()
	return geom.Pose{X: p.X, Y: p.Y, Angle: r.body.GetAngle()}
}

// TruePose returns the ground-truth pose relative to the spawn pose.
// It is derived from the rigid body on every call, never stored.
func (r *Robot) TruePose() geom.Pose {
	return r.initialPoseInv.Compose(r.WorldPose())
}

// OdomPose returns the dead-reckoned pose relative to the spawn pose.
func (r *Robot) OdomPose() geom.Pose { return r.odomPose }

// Bump returns the left/center/right proximity contact flags.
func (r *Robot) Bump() [3]bool { return r.bump }

func (r *Robot) ForwardVelocity() float64 { return r.forwardVel }

func (r *Robot) WheelVelocities() (l, r2 float64) {
	return r.wheelVel[0], r.wheelVel[1]
}

func (r *Robot) MeasuredWheelVelocities() (l, r2 float64) {
	return r.odomWheelVel[0], r.odomWheelVel[1]
}

// SimUpdate advances actuation, odometry, and bump sensing by one
// physics tick. It must run before the physics engine's Step for the
// same tick.
func (r *Robot) SimUpdate(t, dt float64) {
	body := r.body

	tangent := body.GetWorldVector(box2d.MakeB2Vec2(1, 0))
	normal := body.GetWorldVector(box2d.MakeB2Vec2(0, 1))

	linVel := body.GetLinearVelocity()
	r.forwardVel = box2d.B2Vec2Dot(linVel, tangent)

	// Suppress sideways slip: the wheels cannot roll laterally.
	lateralVel := box2d.B2Vec2Dot(linVel, normal)
	lateralImpulse := drive.ClampAbs(-body.GetMass()*lateralVel, MaxLateralImpulse)
	body.ApplyLinearImpulse(
		box2d.B2Vec2MulScalar(lateralImpulse, normal),
		body.GetPosition(), true)

	r.setpointFilter[0].SetBypass(!r.FilterSetpoints)
	r.setpointFilter[1].SetBypass(!r.FilterSetpoints)
	r.filteredLin = r.setpointFilter[0].Step(r.desiredLin)
	r.filteredAng = r.setpointFilter[1].Step(r.desiredAng)

	r.desiredWheel[0], r.desiredWheel[1] =
		drive.WheelsFromLinearAngular(r.filteredLin, r.filteredAng)

	for idx, side := range []float64{1.0, -1.0} {
		offset := box2d.MakeB2Vec2(0, side*drive.TrackHalfWidth)
		worldPoint := body.GetWorldPoint(offset)

		// Drive the motor: measure, control, filter, advance.
		trueSpeed := r.model.WheelSpeed(r.motors[idx].AngularSpeed)
		r.wheelVel[idx] = trueSpeed
		r.odomWheelVel[idx] = trueSpeed + r.noise.WheelVel(trueSpeed)

		vCmd := r.ctrl[idx].Update(
			r.desiredWheel[idx], r.odomWheelVel[idx],
			dt, r.model.NominalVoltage(), r.MotorsEnabled)

		vFilt := r.voltageFilter[idx].Step(vCmd)

		r.motors[idx] = r.model.Advance(r.motors[idx], r.motorTorques[idx], vFilt, dt)

		// Tie the wheel to world physics: convert the speed mismatch
		// at the contact point into a traction-limited force.
		wheelSpeed := r.model.WheelSpeed(r.motors[idx].AngularSpeed)

		velAtWheel := body.GetLinearVelocityFromWorldPoint(worldPoint)
		fwdVelAtWheel := box2d.B2Vec2Dot(velAtWheel, tangent)

		mismatch := wheelSpeed - fwdVelAtWheel

		// Half the body mass: two wheels share the load.
		impulse := 0.5 * mismatch * body.GetMass()
		f := impulse / dt

		fMax := math.Max(0, WheelForceMax+r.noise.WheelForce())
		fClamped := drive.ClampAbs(f, fMax)

		r.wheelForces[idx] = fClamped
		r.skidForces[idx] = f - fClamped
		r.motorTorques[idx] = r.model.TorqueFromWheelForce(-fClamped)

		body.ApplyForce(box2d.B2Vec2MulScalar(fClamped, tangent), worldPoint, true)
	}

	r.updateOdometry(dt)
	r.updateBump()
}
