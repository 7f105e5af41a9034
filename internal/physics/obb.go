package physics

import (
	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from center, full size and orientation.
func NewOBB(center, size rl.Vector3, rotation rl.Quaternion) OBB {
	axes := [3]rl.Vector3{
		rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, rotation)),
		rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, rotation)),
		rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, rotation)),
	}

	return OBB{
		Center:   center,
		HalfSize: rl.Vector3{X: absf(size.X) / 2, Y: absf(size.Y) / 2, Z: absf(size.Z) / 2},
		Axes:     axes,
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(center, size rl.Vector3) OBB {
	return NewOBB(center, size, rl.QuaternionIdentity())
}

// Bounds returns the world-space AABB enclosing the box.
func (o OBB) Bounds() AABB {
	var ext rl.Vector3
	for i, h := range [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z} {
		ext.X += absf(o.Axes[i].X) * h
		ext.Y += absf(o.Axes[i].Y) * h
		ext.Z += absf(o.Axes[i].Z) * h
	}
	return AABB{Min: rl.Vector3Subtract(o.Center, ext), Max: rl.Vector3Add(o.Center, ext)}
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	// Vector from A's center to B's center
	t := rl.Vector3Subtract(b.Center, a.Center)

	// 15 axes: 3 face normals of each box plus the 9 edge cross products
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, a.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				axis = rl.Vector3Normalize(axis)
				if !overlapOnAxis(a, b, axis, t) {
					return false
				}
			}
		}
	}

	return true
}

// overlapOnAxis checks if two OBBs overlap when projected onto a given axis
func overlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	aProjection := a.projectedRadius(axis)
	bProjection := b.projectedRadius(axis)
	distance := absf(rl.Vector3DotProduct(t, axis))

	// If the distance is greater than the sum of projections, there's a separating axis
	return distance <= aProjection+bProjection
}

func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*absf(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*absf(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*absf(rl.Vector3DotProduct(o.Axes[2], axis))
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := ClosestPointOnOBB(o, center)
	d := rl.Vector3Subtract(center, closest)
	return rl.Vector3DotProduct(d, d) <= radius*radius
}

// ClosestPointOnOBB returns the closest point on or inside the OBB to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	// Transform point to OBB's local space
	local := rl.Vector3Subtract(point, o.Center)
	localX := rl.Vector3DotProduct(local, o.Axes[0])
	localY := rl.Vector3DotProduct(local, o.Axes[1])
	localZ := rl.Vector3DotProduct(local, o.Axes[2])

	// Clamp to box extents
	closestX := clampf(localX, -o.HalfSize.X, o.HalfSize.X)
	closestY := clampf(localY, -o.HalfSize.Y, o.HalfSize.Y)
	closestZ := clampf(localZ, -o.HalfSize.Z, o.HalfSize.Z)

	// Transform back to world space
	result := o.Center
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[0], closestX))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[1], closestY))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[2], closestZ))

	return result
}

// IntersectRay runs the slab test in the box's local frame. dir must be normalized.
// Returns the entry distance (exit distance when the origin is inside) and the world normal.
func (o OBB) IntersectRay(origin, dir rl.Vector3) (float32, rl.Vector3, bool) {
	rel := rl.Vector3Subtract(origin, o.Center)
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}

	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)
	enterAxis, enterSign := 0, float32(1)
	exitAxis, exitSign := 0, float32(1)

	for i := 0; i < 3; i++ {
		e := rl.Vector3DotProduct(o.Axes[i], rel)
		f := rl.Vector3DotProduct(o.Axes[i], dir)

		if absf(f) < 1e-8 {
			// Parallel to this slab: miss unless the origin is between its planes
			if e < -half[i] || e > half[i] {
				return 0, rl.Vector3{}, false
			}
			continue
		}

		t1 := (-half[i] - e) / f
		t2 := (half[i] - e) / f
		s1, s2 := float32(-1), float32(1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s1, s2 = s2, s1
		}
		if t1 > tmin {
			tmin, enterAxis, enterSign = t1, i, s1
		}
		if t2 < tmax {
			tmax, exitAxis, exitSign = t2, i, s2
		}
		if tmin > tmax || tmax < 0 {
			return 0, rl.Vector3{}, false
		}
	}

	if tmin >= 0 {
		return tmin, rl.Vector3Scale(o.Axes[enterAxis], enterSign), true
	}
	return tmax, rl.Vector3Scale(o.Axes[exitAxis], exitSign), true
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
