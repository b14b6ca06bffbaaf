package world

import (
	"math"

	"github.com/ByteArena/box2d"

	"github.com/san-kum/botsim/internal/geom"
)

// Prop dimensions and masses for the standard arena furniture.
const (
	PylonRadius = 0.05
	PylonMass   = 0.250

	BallRadius = 0.15
	BallMass   = 0.05

	WallThickness = 0.005
	WallHeight    = 0.5

	BlockMass = 0.5
	BlockSize = 0.1

	// CardboardDensity is mass per square meter of wall/box sheet.
	CardboardDensity = 0.45

	RoomWallThickness = 1.0
)

// PylonColorNames are the recognized pylon colors, in material-id
// order.
var PylonColorNames = []string{"orange", "green"}

// Pylon is a light dynamic cylinder.
type Pylon struct {
	Base
	ColorName  string
	MaterialID int

	origPosition geom.Point
}

func NewPylon(world *box2d.B2World, position geom.Point, cname string) *Pylon {
	p := &Pylon{Base: Base{world: world, linearMu: 0.9}, ColorName: cname}
	for i, n := range PylonColorNames {
		if n == cname {
			p.MaterialID = 1 << (i + 1)
		}
	}
	p.initialize(position)
	return p
}

func (p *Pylon) initialize(position geom.Point) {
	p.Base.Destroy()
	p.origPosition = position

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position.Set(position.X, position.Y)
	body := p.world.CreateBody(&bd)

	shape := box2d.MakeB2CircleShape()
	shape.M_radius = PylonRadius

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = 1.0
	fd.Restitution = 0.25
	fd.Friction = 0.6
	body.CreateFixtureFromDef(&fd)

	body.SetMassData(&box2d.B2MassData{
		Mass:   PylonMass,
		Center: box2d.MakeB2Vec2(0, 0),
		I:      PylonMass * PylonRadius * PylonRadius,
	})
	body.SetUserData(p)

	p.body = body
}

func (p *Pylon) Reset() { p.initialize(p.origPosition) }

// Ball is a bouncy dynamic circle.
type Ball struct {
	Base

	origPosition geom.Point
}

func NewBall(world *box2d.B2World, position geom.Point) *Ball {
	b := &Ball{Base: Base{world: world, linearMu: 0.01}}
	b.initialize(position)
	return b
}

func (b *Ball) initialize(position geom.Point) {
	b.Base.Destroy()
	b.origPosition = position

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position.Set(position.X, position.Y)
	body := b.world.CreateBody(&bd)

	shape := box2d.MakeB2CircleShape()
	shape.M_radius = BallRadius

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = BallMass / (math.Pi * BallRadius * BallRadius)
	fd.Restitution = 0.98
	fd.Friction = 0.95
	body.CreateFixtureFromDef(&fd)
	body.SetUserData(b)

	b.body = body
}

func (b *Ball) Reset() { b.initialize(b.origPosition) }

// Wall is a cardboard sheet between two anchor blocks.
type Wall struct {
	Base

	origP0 geom.Point
	origP1 geom.Point
}

func NewWall(world *box2d.B2World, p0, p1 geom.Point) *Wall {
	w := &Wall{Base: Base{world: world, linearMu: 0.9}}
	w.initialize(p0, p1)
	return w
}

func (w *Wall) initialize(p0, p1 geom.Point) {
	w.Base.Destroy()
	w.origP0 = p0
	w.origP1 = p1

	cx := 0.5 * (p0.X + p1.X)
	cy := 0.5 * (p0.Y + p1.Y)
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	theta := math.Atan2(dy, dx)
	length := math.Hypot(dx, dy)

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position.Set(cx, cy)
	bd.Angle = theta
	body := w.world.CreateBody(&bd)

	r := 0.5 * BlockSize
	bx := 0.5*length - 1.5*BlockSize

	sheet := box2d.MakeB2PolygonShape()
	sheet.SetAsBox(0.5*length, 0.5*WallThickness)

	blockL := box2d.MakeB2PolygonShape()
	blockL.SetAsBoxFromCenterAndAngle(r, r, box2d.MakeB2Vec2(-bx, 0), 0)

	blockR := box2d.MakeB2PolygonShape()
	blockR.SetAsBoxFromCenterAndAngle(r, r, box2d.MakeB2Vec2(bx, 0), 0)

	for _, shape := range []*box2d.B2PolygonShape{&sheet, &blockL, &blockR} {
		fd := box2d.MakeB2FixtureDef()
		fd.Shape = shape
		fd.Density = 1.0
		fd.Restitution = 0.1
		fd.Friction = 0.95
		body.CreateFixtureFromDef(&fd)
	}

	// Sheet mass from cardboard area density plus the two anchor
	// blocks, with the parallel-axis contribution of each block.
	mx := CardboardDensity * (WallThickness * WallHeight)
	ix := mx * length * length / 12
	ib := BlockMass * BlockSize * BlockSize / 6

	mass := mx + 2*BlockMass
	inertia := ix + 2*(ib+BlockMass*bx*bx)

	w.angularMu = inertia - ix

	body.SetMassData(&box2d.B2MassData{
		Mass:   mass,
		Center: box2d.MakeB2Vec2(0, 0),
		I:      inertia,
	})
	body.SetUserData(w)

	w.body = body
}

func (w *Wall) Reset() { w.initialize(w.origP0, w.origP1) }

// Endpoints returns the wall's anchor points.
func (w *Wall) Endpoints() (p0, p1 geom.Point) { return w.origP0, w.origP1 }

// BoxDims are the width/height footprint and vertical depth of a Box.
type BoxDims struct {
	W float64
	H float64
	D float64
}

// Box is a cardboard carton.
type Box struct {
	Base
	Dims BoxDims

	origPosition geom.Point
	origAngle    float64
}

func NewBox(world *box2d.B2World, dims BoxDims, position geom.Point, angle float64) *Box {
	b := &Box{Base: Base{world: world, linearMu: 0.9}, Dims: dims}
	b.initialize(position, angle)
	return b
}

func (b *Box) initialize(position geom.Point, angle float64) {
	b.Base.Destroy()
	b.origPosition = position
	b.origAngle = angle

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position.Set(position.X, position.Y)
	bd.Angle = angle
	body := b.world.CreateBody(&bd)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(0.5*b.Dims.W, 0.5*b.Dims.H)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = 1.0
	fd.Restitution = 0.1
	fd.Friction = 0.6
	body.CreateFixtureFromDef(&fd)

	// Six cardboard faces, in opposing pairs.
	mx := CardboardDensity * (b.Dims.H * b.Dims.D)
	my := CardboardDensity * (b.Dims.W * b.Dims.D)
	mz := CardboardDensity * (b.Dims.W * b.Dims.H)

	ix := mx * b.Dims.W * b.Dims.W / 12
	iy := my * b.Dims.H * b.Dims.H / 12
	iz := mz * (b.Dims.W*b.Dims.W + b.Dims.H*b.Dims.H) / 12

	mass := 2 * (mx + my + mz)
	inertia := 2 * (ix + iy + mx*b.Dims.W*b.Dims.W/4 + my*b.Dims.H*b.Dims.H/4 + iz)

	b.angularMu = inertia

	body.SetMassData(&box2d.B2MassData{
		Mass:   mass,
		Center: box2d.MakeB2Vec2(0, 0),
		I:      inertia,
	})
	body.SetUserData(b)

	b.body = body
}

func (b *Box) Reset() { b.initialize(b.origPosition, b.origAngle) }

// Room is the static arena boundary: four thick walls enclosing
// [0, w] x [0, h].
type Room struct {
	Base
	Width  float64
	Height float64
}

func NewRoom(world *box2d.B2World, width, height float64) *Room {
	r := &Room{Base: Base{world: world}}
	r.Initialize(width, height)
	return r
}

func (r *Room) Initialize(width, height float64) {
	r.Base.Destroy()
	r.Width = width
	r.Height = height

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_staticBody
	body := r.world.CreateBody(&bd)

	t := RoomWallThickness
	w := width
	h := height

	walls := []struct {
		hx, hy float64
		cx, cy float64
	}{
		{t, 0.5*h + t, -t, 0.5 * h},
		{t, 0.5*h + t, w + t, 0.5 * h},
		{0.5*w + t, t, 0.5 * w, -t},
		{0.5*w + t, t, 0.5 * w, h + t},
	}

	for _, wall := range walls {
		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBoxFromCenterAndAngle(
			wall.hx, wall.hy, box2d.MakeB2Vec2(wall.cx, wall.cy), 0)
		body.CreateFixture(&shape, 0)
	}
	body.SetUserData(r)

	r.body = body
}

func (r *Room) Reset() { r.Initialize(r.Width, r.Height) }

// TapeStrips is a purely visual floor marking: polylines of one tape
// color, no rigid body. Same-color strips merge into one object.
type TapeStrips struct {
	Base
	ColorName  string
	PointLists [][]geom.Point
}

func NewTapeStrips(pointLists [][]geom.Point, cname string) *TapeStrips {
	return &TapeStrips{ColorName: cname, PointLists: pointLists}
}

func (t *TapeStrips) Append(points []geom.Point) {
	t.PointLists = append(t.PointLists, points)
}
