package editor

import (
	"hovercourse/internal/engine"
	"hovercourse/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Raycaster reports every collider hit along a ray.
type Raycaster interface {
	RayIntersections(origin, direction rl.Vector3, maxDistance float32) []physics.RaycastHit
}

type PickResult struct {
	Entity   *engine.GameObject
	Point    rl.Vector3
	Distance float32 // from the camera origin
}

type Picker struct {
	Raycaster   Raycaster
	MaxDistance float32
}

func NewPicker(rc Raycaster, maxDistance float32) *Picker {
	return &Picker{Raycaster: rc, MaxDistance: maxDistance}
}

// Pick returns the hit nearest to cameraOrigin. The ray may start at the near
// plane, so distances along the ray are not used. Equal distances go to the
// lowest entity UID.
func (p *Picker) Pick(cameraOrigin rl.Vector3, ray rl.Ray) (PickResult, bool) {
	var best PickResult
	found := false
	for _, hit := range p.Raycaster.RayIntersections(ray.Position, ray.Direction, p.MaxDistance) {
		if hit.GameObject == nil {
			continue
		}
		d := rl.Vector3Distance(cameraOrigin, hit.Point)
		if !found || d < best.Distance || (d == best.Distance && hit.GameObject.UID < best.Entity.UID) {
			best = PickResult{Entity: hit.GameObject, Point: hit.Point, Distance: d}
			found = true
		}
	}
	return best, found
}
