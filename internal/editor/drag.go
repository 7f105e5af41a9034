package editor

import (
	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const parallelEpsilon = 1e-6

// RayPlane intersects a ray with the plane through planePoint with normal
// planeNormal. It fails when the ray is parallel to the plane or the plane is
// behind the ray origin.
func RayPlane(rayOrigin, rayDir, planePoint, planeNormal rl.Vector3) (rl.Vector3, bool) {
	denom := rl.Vector3DotProduct(planeNormal, rayDir)
	if math32.Abs(denom) < parallelEpsilon {
		return rl.Vector3{}, false
	}
	t := rl.Vector3DotProduct(planeNormal, rl.Vector3Subtract(planePoint, rayOrigin)) / denom
	if t < 0 {
		return rl.Vector3{}, false
	}
	return rl.Vector3Add(rayOrigin, rl.Vector3Scale(rayDir, t)), true
}

// DragProjector turns successive cursor rays into translation deltas on the
// plane facing the camera through Anchor.
type DragProjector struct {
	Anchor rl.Vector3
}

// Step intersects ray with the movement plane (normal viewDir, point Anchor) and
// returns the delta from the previous anchor. The anchor advances, so deltas are
// frame to frame. On a skipped frame nothing changes.
func (d *DragProjector) Step(viewDir rl.Vector3, ray rl.Ray) (rl.Vector3, bool) {
	p, ok := RayPlane(ray.Position, ray.Direction, d.Anchor, viewDir)
	if !ok {
		return rl.Vector3{}, false
	}
	delta := rl.Vector3Subtract(p, d.Anchor)
	d.Anchor = p
	return delta, true
}
