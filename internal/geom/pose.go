package geom

import "math"

// Pose is a rigid 2D transform: a translation plus a heading angle.
// The angle is never normalized; composing poses accumulates it
// additively, which keeps heading monotonic for odometry integration.
type Pose struct {
	X     float64
	Y     float64
	Angle float64
}

type Point struct {
	X float64
	Y float64
}

func NewPose(x, y, angle float64) Pose {
	return Pose{X: x, Y: y, Angle: angle}
}

// Compose applies this pose's rotation and translation to other,
// i.e. the result maps other's local frame through p into the world.
// Composition is associative but not commutative.
func (p Pose) Compose(other Pose) Pose {
	c := math.Cos(p.Angle)
	s := math.Sin(p.Angle)
	return Pose{
		X:     c*other.X - s*other.Y + p.X,
		Y:     s*other.X + c*other.Y + p.Y,
		Angle: p.Angle + other.Angle,
	}
}

func (p Pose) Inverse() Pose {
	c := math.Cos(p.Angle)
	s := math.Sin(p.Angle)
	return Pose{
		X:     -(c*p.X + s*p.Y),
		Y:     -(-s*p.X + c*p.Y),
		Angle: -p.Angle,
	}
}

// Apply transforms a point from the pose's local frame to the world.
func (p Pose) Apply(pt Point) Point {
	c := math.Cos(p.Angle)
	s := math.Sin(p.Angle)
	return Point{
		X: c*pt.X - s*pt.Y + p.X,
		Y: s*pt.X + c*pt.Y + p.Y,
	}
}

// ApplyInverse transforms a world point into the pose's local frame.
func (p Pose) ApplyInverse(pt Point) Point {
	c := math.Cos(p.Angle)
	s := math.Sin(p.Angle)
	dx := pt.X - p.X
	dy := pt.Y - p.Y
	return Point{
		X: c*dx + s*dy,
		Y: -s*dx + c*dy,
	}
}

// Forward returns the unit vector along the pose's heading.
func (p Pose) Forward() Point {
	return Point{X: math.Cos(p.Angle), Y: math.Sin(p.Angle)}
}
