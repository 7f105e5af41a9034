package camera

import (
	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var worldUp = rl.Vector3{X: 0, Y: 1, Z: 0}

const (
	DefaultPanScale    = 0.05
	DefaultLookSpeed   = 0.1
	DefaultMinDistance = 2
	DefaultMaxDistance = 200
)

// Rig is the editor camera: an eye orbiting Pivot at Distance, looking along
// Yaw/Pitch (degrees). Panning moves the pivot; zoom changes the distance.
type Rig struct {
	Pivot    rl.Vector3
	Yaw      float32
	Pitch    float32
	Distance float32
	Fovy     float32

	MinDistance float32
	MaxDistance float32
}

func New(pivot rl.Vector3) *Rig {
	return &Rig{
		Pivot:       pivot,
		Yaw:         -90,
		Pitch:       -30,
		Distance:    30,
		Fovy:        45,
		MinDistance: DefaultMinDistance,
		MaxDistance: DefaultMaxDistance,
	}
}

// Forward is the unit view direction, from the eye towards the pivot.
func (r *Rig) Forward() rl.Vector3 {
	yaw := r.Yaw * math32.Pi / 180
	pitch := r.Pitch * math32.Pi / 180
	return rl.Vector3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}
}

// Back is the rig's local backward axis.
func (r *Rig) Back() rl.Vector3 {
	return rl.Vector3Negate(r.Forward())
}

// Left is normalize(forward x -up).
func (r *Rig) Left() rl.Vector3 {
	return rl.Vector3Normalize(rl.Vector3CrossProduct(r.Forward(), rl.Vector3Negate(worldUp)))
}

func (r *Rig) Eye() rl.Vector3 {
	return rl.Vector3Add(r.Pivot, rl.Vector3Scale(r.Back(), r.Distance))
}

func (r *Rig) Camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   r.Eye(),
		Target:     r.Pivot,
		Up:         worldUp,
		Fovy:       r.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// Pan translates the pivot by scale * (dx*left + dy*up) for a cursor motion of (dx, dy).
func (r *Rig) Pan(dx, dy, scale float32) {
	move := rl.Vector3Add(rl.Vector3Scale(r.Left(), dx), rl.Vector3Scale(worldUp, dy))
	r.Pivot = rl.Vector3Add(r.Pivot, rl.Vector3Scale(move, scale))
}

func (r *Rig) Rotate(dx, dy, sensitivity float32) {
	r.Yaw += dx * sensitivity
	r.Pitch -= dy * sensitivity

	// Clamp pitch
	if r.Pitch > 89 {
		r.Pitch = 89
	}
	if r.Pitch < -89 {
		r.Pitch = -89
	}
}

// Zoom scales the distance by 10% per wheel step.
func (r *Rig) Zoom(wheel float32) {
	if wheel == 0 {
		return
	}
	r.Distance *= math32.Pow(0.9, wheel)
	if r.MinDistance > 0 && r.Distance < r.MinDistance {
		r.Distance = r.MinDistance
	}
	if r.MaxDistance > 0 && r.Distance > r.MaxDistance {
		r.Distance = r.MaxDistance
	}
}
