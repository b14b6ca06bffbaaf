package world

import (
	"fmt"

	"github.com/ByteArena/box2d"

	"github.com/san-kum/botsim/internal/datalog"
	"github.com/san-kum/botsim/internal/geom"
	"github.com/san-kum/botsim/internal/motor"
	"github.com/san-kum/botsim/internal/noise"
	"github.com/san-kum/botsim/internal/robot"
)

// Stepping defaults.
const (
	DefaultDt             = 0.01 // s per physics sub-step, 100 Hz
	DefaultTicksPerUpdate = 4
	DefaultRoomSize       = 4.0 // m

	velocityIterations = 6
	positionIterations = 2
)

// Options configures a simulation instance.
type Options struct {
	Dt             float64
	TicksPerUpdate int
	Seed           uint64

	PerfectOdometry bool
	PerfectContact  bool

	RoomWidth  float64
	RoomHeight float64

	DataDir string
}

func (o *Options) fillDefaults() {
	if o.Dt == 0 {
		o.Dt = DefaultDt
	}
	if o.TicksPerUpdate == 0 {
		o.TicksPerUpdate = DefaultTicksPerUpdate
	}
	if o.RoomWidth == 0 {
		o.RoomWidth = DefaultRoomSize
	}
	if o.RoomHeight == 0 {
		o.RoomHeight = DefaultRoomSize
	}
	if o.DataDir == "" {
		o.DataDir = ".botsim"
	}
}

// Sim owns the physics world and the ordered object collection. The
// invariant objects[0] == robot, objects[1] == room holds across every
// add, reset, and clear; no exposed operation can violate it.
type Sim struct {
	world box2d.B2World

	robot *robot.Robot
	room  *Room

	objects    []Object
	tapeStrips map[string]*TapeStrips

	// modCount increments on every structural change so external
	// caches know to rebuild derived representations.
	modCount int

	Dt             float64
	TicksPerUpdate int

	simTime  float64
	simTicks int

	logger    *datalog.Logger
	observers []Observer

	// Last-loaded environment description; cleared by any structural
	// mutation, used by Reset(reload=true).
	sceneSource string
	sceneReload func() error
}

// New builds a simulation with a robot and an empty room.
func New(opts Options) *Sim {
	opts.fillDefaults()

	s := &Sim{
		Dt:             opts.Dt,
		TicksPerUpdate: opts.TicksPerUpdate,
		tapeStrips:     make(map[string]*TapeStrips),
	}

	s.world = box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	s.world.SetContactListener(s)

	inj := noise.New(opts.Seed)
	inj.PerfectOdometry = opts.PerfectOdometry
	inj.PerfectContact = opts.PerfectContact

	s.robot = robot.New(&s.world, motor.Default(), inj)
	s.room = NewRoom(&s.world, opts.RoomWidth, opts.RoomHeight)

	s.objects = []Object{s.robot, s.room}

	s.logger = datalog.New(s.Dt*float64(s.TicksPerUpdate), opts.DataDir)
	s.robot.SetupLog(s.logger)

	return s
}

func (s *Sim) Robot() *robot.Robot     { return s.robot }
func (s *Sim) Room() *Room             { return s.room }
func (s *Sim) World() *box2d.B2World   { return &s.world }
func (s *Sim) Logger() *datalog.Logger { return s.logger }

// Objects returns the ordered entity list; callers must not mutate it.
func (s *Sim) Objects() []Object { return s.objects }

// ModificationCounter increments on any structural change.
func (s *Sim) ModificationCounter() int { return s.modCount }

// TapeStrips returns floor markings keyed by tape color.
func (s *Sim) TapeStrips() map[string]*TapeStrips { return s.tapeStrips }

func (s *Sim) SimTime() float64 { return s.simTime }
func (s *Sim) SimTicks() int    { return s.simTicks }

// SetDims resizes the room in place.
func (s *Sim) SetDims(width, height float64) {
	s.room.Initialize(width, height)
	s.invalidateScene()
	s.modCount++
}

// SetSceneSource records the environment description the object list
// was loaded from, and how to reload it.
func (s *Sim) SetSceneSource(source string, reload func() error) {
	s.sceneSource = source
	s.sceneReload = reload
}

func (s *Sim) SceneSource() string { return s.sceneSource }

func (s *Sim) invalidateScene() {
	s.sceneSource = ""
	s.sceneReload = nil
}

// AddObject appends obj to the entity list.
func (s *Sim) AddObject(obj Object) Object {
	s.objects = append(s.objects, obj)
	s.invalidateScene()
	s.modCount++
	return obj
}

func (s *Sim) AddBox(dims BoxDims, position geom.Point, angle float64) *Box {
	b := NewBox(&s.world, dims, position, angle)
	s.AddObject(b)
	return b
}

func (s *Sim) AddPylon(position geom.Point, cname string) (*Pylon, error) {
	valid := false
	for _, n := range PylonColorNames {
		if n == cname {
			valid = true
		}
	}
	if !valid {
		return nil, fmt.Errorf("world: unknown pylon color %q", cname)
	}
	p := NewPylon(&s.world, position, cname)
	s.AddObject(p)
	return p, nil
}

func (s *Sim) AddBall(position geom.Point) *Ball {
	b := NewBall(&s.world, position)
	s.AddObject(b)
	return b
}

func (s *Sim) AddWall(p0, p1 geom.Point) *Wall {
	w := NewWall(&s.world, p0, p1)
	s.AddObject(w)
	return w
}

// AddTapeStrip merges same-color strips into one TapeStrips object.
func (s *Sim) AddTapeStrip(points []geom.Point, cname string) {
	if strips, ok := s.tapeStrips[cname]; ok {
		strips.Append(points)
		s.modCount++
		return
	}
	strips := NewTapeStrips([][]geom.Point{points}, cname)
	s.tapeStrips[cname] = strips
	s.AddObject(strips)
}

// AddObserver registers an observer and runs its Register and
// Initialize hooks.
func (s *Sim) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
	o.Register(s)
	o.Initialize(s)
}

// InitializeRobot respawns the robot at the given pose.
func (s *Sim) InitializeRobot(pose geom.Pose) {
	s.robot.Initialize(pose)
}

// Update advances one macro-update: TicksPerUpdate fixed sub-steps of
// object updates plus physics stepping, then a log row and observer
// notifications.
func (s *Sim) Update() error {
	if !s.logger.IsLogging() {
		if _, err := s.logger.BeginLog(); err != nil {
			return err
		}
	}

	for _, o := range s.observers {
		o.PreUpdate(s)
	}

	for i := 0; i < s.TicksPerUpdate; i++ {
		for _, obj := range s.objects {
			obj.SimUpdate(s.simTime, s.Dt)
		}

		s.world.Step(s.Dt, velocityIterations, positionIterations)
		s.world.ClearForces()

		s.simTime += s.Dt
		s.simTicks++
	}

	s.robot.UpdateLog()

	for _, o := range s.observers {
		o.PostUpdate(s)
	}

	return s.logger.AppendRow()
}

// Reset restores the simulation. With reload true and a cached scene,
// all non-robot objects are destroyed and the scene is loaded from
// scratch; otherwise every object resets in place to its spawn
// parameters.
func (s *Sim) Reset(reload bool) error {
	if _, err := s.logger.Finish(); err != nil {
		return err
	}

	if reload && s.sceneReload != nil {
		reloadFn := s.sceneReload
		s.Clear()
		if err := reloadFn(); err != nil {
			return err
		}
	} else {
		s.simTime = 0
		s.simTicks = 0
		for _, obj := range s.objects {
			obj.Reset()
		}
	}
	s.modCount++

	for _, o := range s.observers {
		o.Initialize(s)
	}
	return nil
}

// Clear destroys every object except the robot and the room.
func (s *Sim) Clear() {
	s.logger.Finish()

	s.simTime = 0
	s.simTicks = 0
	s.modCount++

	for _, obj := range s.objects[2:] {
		obj.Destroy()
	}

	s.tapeStrips = make(map[string]*TapeStrips)
	s.objects = s.objects[:2]
}

// KickBall shoves every ball toward the robot bullet-style.
func (s *Sim) KickBall() {
	robotPos := s.robot.PhysicsBody().GetPosition()

	for _, obj := range s.objects {
		ball, ok := obj.(*Ball)
		if !ok {
			continue
		}
		body := ball.PhysicsBody()

		diff := box2d.B2Vec2Sub(robotPos, body.GetPosition())
		dist := diff.Length()
		if dist == 0 {
			continue
		}

		desired := box2d.B2Vec2MulScalar(4/dist, diff)
		impulse := box2d.B2Vec2MulScalar(
			BallMass, box2d.B2Vec2Sub(desired, body.GetLinearVelocity()))

		body.ApplyLinearImpulse(impulse, body.GetPosition(), true)
		body.SetBullet(true)
	}
}

// Contact listener: the engine reports each touching body pair before
// resolving it; contacts involving the robot are queued into its bump
// mailbox. Invoked synchronously from inside Step.

func (s *Sim) BeginContact(contact box2d.B2ContactInterface) {}
func (s *Sim) EndContact(contact box2d.B2ContactInterface)   {}

func (s *Sim) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
	robotBody := s.robot.PhysicsBody()

	var other *box2d.B2Body
	if contact.GetFixtureA().GetBody() == robotBody {
		other = contact.GetFixtureB().GetBody()
	} else if contact.GetFixtureB().GetBody() == robotBody {
		other = contact.GetFixtureA().GetBody()
	}
	if other == nil {
		return
	}

	if c, ok := other.GetUserData().(robot.Collider); ok {
		s.robot.EnqueueContact(c)
	}
}

func (s *Sim) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}
