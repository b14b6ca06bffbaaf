package robot

import "github.com/san-kum/botsim/internal/datalog"

// Log variable layout. Names follow the plot-title.unique-id
// convention the logger's tooling groups on.
var logNames = []string{
	"pos_x.pose.true",
	"pos_y.pose.true",
	"angle.pose.true",
	"pos_x.pose.odom",
	"pos_y.pose.odom",
	"angle.pose.odom",
	"bump.left",
	"bump.center",
	"bump.right",
	"motors_enabled",
	"forward_vel.cmd",
	"angular_vel.cmd",
	"wheel_vel_l.cmd",
	"wheel_vel_r.cmd",
	"forward_vel.true",
	"angular_vel.true",
	"wheel_vel_l.true",
	"wheel_vel_r.true",
	"wheel_vel_l.meas",
	"wheel_vel_r.meas",
	"forward_vel.meas",
	"angular_vel.meas",
	"motor_vel.l",
	"motor_vel.r",
	"motor_current.l",
	"motor_current.r",
	"motor_voltage.l",
	"motor_voltage.r",
	"motor_torque.l",
	"motor_torque.r",
	"wheel_force.l",
	"wheel_force.r",
	"wheel_skid_force.l",
	"wheel_skid_force.r",
}

const (
	logPosX = iota
	logPosY
	logPosAngle
	logOdomX
	logOdomY
	logOdomAngle
	logBumpLeft
	logBumpCenter
	logBumpRight
	logMotorsEnabled
	logCmdVelForward
	logCmdVelAngular
	logCmdVelLWheel
	logCmdVelRWheel
	logVelForward
	logVelAngular
	logVelLWheel
	logVelRWheel
	logMeasVelLWheel
	logMeasVelRWheel
	logMeasVelForward
	logMeasVelAngular
	logMotorVelL
	logMotorVelR
	logMotorCurrentL
	logMotorCurrentR
	logMotorVoltageL
	logMotorVoltageR
	logMotorTorqueL
	logMotorTorqueR
	logWheelForceL
	logWheelForceR
	logWheelSkidForceL
	logWheelSkidForceR
)

// LogNames returns the names of every logged robot variable.
func (r *Robot) LogNames() []string { return logNames }

// SetupLog registers the robot's snapshot array with the logger.
func (r *Robot) SetupLog(l *datalog.Logger) {
	l.AddVariables(logNames, r.logVars)
}

// UpdateLog refreshes the snapshot array from current state. Called
// once per macro-update, after the last sub-step.
func (r *Robot) UpdateLog() {
	l := r.logVars

	truePose := r.TruePose()
	l[logPosX] = truePose.X
	l[logPosY] = truePose.Y
	l[logPosAngle] = truePose.Angle

	l[logOdomX] = r.odomPose.X
	l[logOdomY] = r.odomPose.Y
	l[logOdomAngle] = r.odomPose.Angle

	for i, b := range r.bump {
		l[logBumpLeft+i] = boolToFloat(b)
	}
	l[logMotorsEnabled] = boolToFloat(r.MotorsEnabled)

	l[logCmdVelForward] = r.desiredLin
	l[logCmdVelAngular] = r.desiredAng
	l[logCmdVelLWheel] = r.desiredWheel[0]
	l[logCmdVelRWheel] = r.desiredWheel[1]

	l[logVelForward] = r.forwardVel
	l[logVelAngular] = r.body.GetAngularVelocity()
	l[logVelLWheel] = r.wheelVel[0]
	l[logVelRWheel] = r.wheelVel[1]

	l[logMeasVelLWheel] = r.odomWheelVel[0]
	l[logMeasVelRWheel] = r.odomWheelVel[1]
	l[logMeasVelForward] = r.odomLin
	l[logMeasVelAngular] = r.odomAng

	l[logMotorVelL] = r.motors[0].AngularSpeed
	l[logMotorVelR] = r.motors[1].AngularSpeed
	l[logMotorCurrentL] = r.motors[0].Current
	l[logMotorCurrentR] = r.motors[1].Current
	l[logMotorVoltageL] = r.voltageFilter[0].Output()
	l[logMotorVoltageR] = r.voltageFilter[1].Output()
	l[logMotorTorqueL] = -r.motorTorques[0]
	l[logMotorTorqueR] = -r.motorTorques[1]

	l[logWheelForceL] = r.wheelForces[0]
	l[logWheelForceR] = r.wheelForces[1]
	l[logWheelSkidForceL] = r.skidForces[0]
	l[logWheelSkidForceR] = r.skidForces[1]
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
