// Package world owns the simulation arena: the physics world, the
// ordered object list with its robot/room invariant, the fixed-step
// update kernel, and the prop variants that populate environments.
package world

import "github.com/ByteArena/box2d"

// Gravity is used to scale passive drag against body weight; the
// physics world itself is horizontal (zero gravity vector).
const Gravity = 9.8

// Object is one simulation entity. Variants without a rigid body
// return nil from PhysicsBody.
type Object interface {
	// SimUpdate runs once per physics sub-step, before the engine
	// steps.
	SimUpdate(t, dt float64)

	// Reset restores the object's original spawn parameters without
	// changing its identity.
	Reset()

	// Destroy releases the rigid body, if any.
	Destroy()

	PhysicsBody() *box2d.B2Body
}

// Base carries the optional rigid body and passive drag coefficients
// shared by prop variants. Drag force is proportional to velocity and
// to the body's weight; a zero coefficient means no drag on that axis.
type Base struct {
	world     *box2d.B2World
	body      *box2d.B2Body
	linearMu  float64
	angularMu float64
}

func (b *Base) SimUpdate(t, dt float64) {
	if b.body == nil {
		return
	}

	mg := b.body.GetMass() * Gravity

	if b.linearMu != 0 {
		v := b.body.GetLinearVelocity()
		b.body.ApplyForceToCenter(
			box2d.B2Vec2MulScalar(-b.linearMu*mg, v), true)
	}

	if b.angularMu != 0 {
		b.body.ApplyTorque(-b.angularMu*mg*b.body.GetAngularVelocity(), true)
	}
}

func (b *Base) Destroy() {
	if b.body != nil {
		b.world.DestroyBody(b.body)
		b.body = nil
	}
}

func (b *Base) PhysicsBody() *box2d.B2Body { return b.body }

func (b *Base) Reset() {}
