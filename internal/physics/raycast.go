package physics

import (
	"hovercourse/internal/components"
	"hovercourse/internal/engine"

	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	GameObject *engine.GameObject
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32 // along the ray from its origin
}

// RayIntersections returns every collider hit along the ray within maxDistance, in
// registration order. An object with several colliders reports its nearest one.
func (p *PhysicsWorld) RayIntersections(origin, direction rl.Vector3, maxDistance float32) []RaycastHit {
	if rl.Vector3Length(direction) == 0 {
		return nil
	}
	direction = rl.Vector3Normalize(direction)

	var hits []RaycastHit
	for _, obj := range p.Objects {
		best, found := RaycastHit{Distance: maxDistance}, false

		if box := engine.GetComponent[*components.BoxCollider](obj); box != nil {
			if h, ok := raycastBox(origin, direction, box, maxDistance); ok && h.Distance <= best.Distance {
				best, found = h, true
			}
		}
		if sphere := engine.GetComponent[*components.SphereCollider](obj); sphere != nil {
			if h, ok := raycastSphere(origin, direction, sphere, maxDistance); ok && h.Distance <= best.Distance {
				best, found = h, true
			}
		}
		if found {
			best.GameObject = obj
			hits = append(hits, best)
		}
	}
	return hits
}

func raycastBox(origin, direction rl.Vector3, box *components.BoxCollider, maxDistance float32) (RaycastHit, bool) {
	t, normal, ok := boxOBB(box).IntersectRay(origin, direction)
	if !ok || t > maxDistance {
		return RaycastHit{}, false
	}
	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func raycastSphere(origin, direction rl.Vector3, sphere *components.SphereCollider, maxDistance float32) (RaycastHit, bool) {
	center := sphere.GetCenter()
	radius := sphere.Radius

	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	t := (-b - math32.Sqrt(discriminant)) / (2 * a)
	if t < 0 {
		t = (-b + math32.Sqrt(discriminant)) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
