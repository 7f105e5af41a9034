package gameplay

import (
	"log"

	"hovercourse/internal/engine"
	"hovercourse/internal/level"
	"hovercourse/internal/world"

	"github.com/chewxy/math32"
	"github.com/jakecoffman/cp"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypeWall
	collisionTypeAvoid
	collisionTypeGoal
	collisionTypeFuel
)

const (
	FixedStep   = 1.0 / 60.0
	maxSubSteps = 8

	PlayerMass  = 1.0
	ThrustForce = 40.0
	// Damping is the fraction of velocity kept after one second.
	Damping = 0.4
)

// Scene is a test-play simulation of a level. The level is laid out on the XZ
// plane: physics X is world X and physics Y is world Z. Player height stays at
// the start height.
type Scene struct {
	space  *cp.Space
	world  *world.World
	player *engine.GameObject
	body   *cp.Body
	start  rl.Vector3

	objects []*engine.GameObject
	fuel    map[*cp.Shape]*engine.GameObject

	accumulator float32

	Won       bool
	Collected int
	Resets    int
	NextLevel *string

	OnGoal engine.Event
	// OnReset fires with the position the player was sent back from.
	OnReset engine.EventWithArg[rl.Vector3]
	// OnCollect fires with the position of the collected fuel ball.
	OnCollect engine.EventWithArg[rl.Vector3]
}

// New builds the scene from doc and spawns its entities into w. doc is only read.
func New(doc *level.Document, w *world.World) *Scene {
	s := &Scene{
		space:     cp.NewSpace(),
		world:     w,
		start:     doc.PlayerStart,
		fuel:      make(map[*cp.Shape]*engine.GameObject),
		NextLevel: doc.NextLevel,
	}
	s.space.SetGravity(cp.Vector{})
	s.space.SetDamping(Damping)

	for _, item := range doc.Items {
		g := w.SpawnItem(item)
		s.objects = append(s.objects, g)

		switch item.Kind() {
		case level.KindWall:
			s.addWall(item.Wall)
		case level.KindFuelBall:
			p := item.FuelBall.Position
			shape := cp.NewCircle(s.space.StaticBody, float64(level.FuelBallRadius), toCP(p))
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypeFuel)
			s.space.AddShape(shape)
			s.fuel[shape] = g
		}
	}

	s.player = w.SpawnPlayer(doc.PlayerStart)
	s.objects = append(s.objects, s.player)

	s.body = cp.NewBody(PlayerMass, cp.MomentForCircle(PlayerMass, 0, float64(world.PlayerRadius), cp.Vector{}))
	s.body.SetPosition(toCP(doc.PlayerStart))
	s.space.AddBody(s.body)
	shape := cp.NewCircle(s.body, float64(world.PlayerRadius), cp.Vector{})
	shape.SetCollisionType(collisionTypePlayer)
	shape.SetFriction(0.2)
	s.space.AddShape(shape)

	s.setupHandlers()
	log.Printf("Gameplay: scene ready (%d items, %d fuel)", len(doc.Items), len(s.fuel))
	return s
}

func (s *Scene) addWall(w *level.Wall) {
	body := cp.NewStaticBody()
	body.SetPosition(toCP(w.Position))
	body.SetAngle(wallAngle(w.Rotation))
	s.space.AddBody(body)

	shape := cp.NewBox(body, float64(w.Size.Width), float64(w.Size.Depth), 0)
	switch w.Type {
	case level.WallAvoid:
		shape.SetCollisionType(collisionTypeAvoid)
	case level.WallGoal:
		shape.SetCollisionType(collisionTypeGoal)
	default:
		shape.SetCollisionType(collisionTypeWall)
	}
	shape.SetElasticity(0.3)
	s.space.AddShape(shape)
}

func (s *Scene) setupHandlers() {
	avoid := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypeAvoid)
	avoid.UserData = s
	avoid.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		scene := userData.(*Scene)
		space.AddPostStepCallback(func(space *cp.Space, key, data interface{}) {
			scene.resetPlayer()
		}, scene.body, nil)
		return true
	}

	goal := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypeGoal)
	goal.UserData = s
	goal.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		scene := userData.(*Scene)
		if !scene.Won {
			scene.Won = true
			if scene.NextLevel != nil {
				log.Printf("Gameplay: goal reached, next level %s", *scene.NextLevel)
			} else {
				log.Println("Gameplay: goal reached")
			}
			scene.OnGoal.Invoke()
		}
		return true
	}

	fuel := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypeFuel)
	fuel.UserData = s
	fuel.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		scene := userData.(*Scene)
		_, shape := arb.Shapes()
		space.AddPostStepCallback(func(space *cp.Space, key, data interface{}) {
			scene.collect(key.(*cp.Shape))
		}, shape, nil)
		return false
	}
}

func (s *Scene) resetPlayer() {
	p := s.body.Position()
	from := rl.Vector3{X: float32(p.X), Y: s.start.Y, Z: float32(p.Y)}
	s.body.SetPosition(toCP(s.start))
	s.body.SetVelocityVector(cp.Vector{})
	s.Resets++
	s.OnReset.Invoke(from)
}

func (s *Scene) collect(shape *cp.Shape) {
	g, ok := s.fuel[shape]
	if !ok {
		return
	}
	delete(s.fuel, shape)
	s.space.RemoveShape(shape)
	s.world.Despawn(g)
	s.Collected++
	s.OnCollect.Invoke(g.Transform.Position)
}

// Update advances the simulation by dt in fixed steps. move is the thrust input
// in world X (move.X) and world Z (move.Y), each in [-1, 1].
func (s *Scene) Update(dt float32, move rl.Vector2) {
	s.accumulator += dt
	steps := 0
	for s.accumulator >= FixedStep && steps < maxSubSteps {
		if move.X != 0 || move.Y != 0 {
			force := cp.Vector{X: float64(move.X) * ThrustForce, Y: float64(move.Y) * ThrustForce}
			s.body.ApplyForceAtWorldPoint(force, s.body.Position())
		}
		s.space.Step(FixedStep)
		s.accumulator -= FixedStep
		steps++
	}
	if steps == maxSubSteps {
		s.accumulator = 0
	}

	p := s.body.Position()
	s.player.Transform.Position = rl.Vector3{X: float32(p.X), Y: s.start.Y, Z: float32(p.Y)}
}

func (s *Scene) Player() *engine.GameObject {
	return s.player
}

// RemainingFuel is the number of fuel balls not yet collected.
func (s *Scene) RemainingFuel() int {
	return len(s.fuel)
}

// Close despawns every entity the scene created and drops the event listeners.
func (s *Scene) Close() {
	s.OnGoal.RemoveAllListeners()
	s.OnReset.RemoveAllListeners()
	s.OnCollect.RemoveAllListeners()
	for _, g := range s.objects {
		s.world.Despawn(g)
	}
	s.objects = nil
	s.fuel = nil
}

func toCP(v rl.Vector3) cp.Vector {
	return cp.Vector{X: float64(v.X), Y: float64(v.Z)}
}

// wallAngle maps a rotation about world Y to a physics-plane angle.
func wallAngle(q rl.Quaternion) float64 {
	x := rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, q)
	return float64(math32.Atan2(x.Z, x.X))
}
