package robot

import (
	"math"

	"github.com/ByteArena/box2d"

	"github.com/san-kum/botsim/internal/geom"
)

// BumpDist is the separation below which a tracked contact counts as
// live, in meters.
const BumpDist = 0.001

const deg = math.Pi / 180

// BumpRanges are the angular sectors, in the robot frame, that a live
// contact point is classified into: left, center, right. Bounds are
// inclusive; 0 is straight ahead.
var BumpRanges = [3][2]float64{
	{20 * deg, 70 * deg},
	{-25 * deg, 25 * deg},
	{-70 * deg, -25 * deg},
}

// EnqueueContact records that the physics engine reported the robot
// touching c. Safe to call from inside the engine's step; the mailbox
// is drained at the start of the next bump evaluation.
func (r *Robot) EnqueueContact(c Collider) {
	r.pending = append(r.pending, c)
}

// updateBump recomputes the three sector flags from minimum-separation
// queries against every tracked object. Objects whose every shape pair
// has separated past BumpDist are dropped at end of tick.
func (r *Robot) updateBump() {
	for _, c := range r.pending {
		r.tracked[c] = true
	}
	r.pending = r.pending[:0]

	r.bump = [3]bool{}

	transformA := r.body.GetTransform()
	pose := r.WorldPose()

	for c := range r.tracked {
		other := c.PhysicsBody()
		if other == nil {
			delete(r.tracked, c)
			continue
		}
		transformB := other.GetTransform()

		hit := false

		for fa := r.body.GetFixtureList(); fa != nil; fa = fa.GetNext() {
			for fb := other.GetFixtureList(); fb != nil; fb = fb.GetNext() {
				input := box2d.MakeB2DistanceInput()
				input.ProxyA.Set(fa.GetShape(), 0)
				input.ProxyB.Set(fb.GetShape(), 0)
				input.TransformA = transformA
				input.TransformB = transformB
				input.UseRadii = true

				cache := box2d.MakeB2SimplexCache()
				output := box2d.MakeB2DistanceOutput()
				box2d.B2Distance(&output, &cache, &input)

				if output.Distance >= BumpDist {
					continue
				}
				hit = true

				local := pose.ApplyInverse(geom.Point{
					X: output.PointA.X, Y: output.PointA.Y})
				theta := math.Atan2(local.Y, local.X)

				for i, rng := range BumpRanges {
					if theta >= rng[0] && theta <= rng[1] {
						r.bump[i] = true
					}
				}
			}
		}

		if !hit {
			delete(r.tracked, c)
		}
	}
}

// TrackedContacts returns how many objects the bump sensor currently
// tracks.
func (r *Robot) TrackedContacts() int { return len(r.tracked) }
