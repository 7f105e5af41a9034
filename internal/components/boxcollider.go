package components

import (
	"hovercourse/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoxCollider is an oriented box; it follows the owner's world rotation.
type BoxCollider struct {
	engine.BaseComponent
	Size   rl.Vector3
	Offset rl.Vector3
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size:   size,
		Offset: rl.Vector3{},
	}
}

// GetCenter returns the world-space center of this collider
func (b *BoxCollider) GetCenter() rl.Vector3 {
	g := b.GetGameObject()
	offset := rl.Vector3RotateByQuaternion(b.Offset, g.WorldRotation())
	return rl.Vector3Add(g.WorldPosition(), offset)
}

// GetWorldSize returns the full extents after the owner's scale is applied.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	return rl.Vector3Multiply(b.Size, b.GetGameObject().WorldScale())
}

func (b *BoxCollider) GetRotation() rl.Quaternion {
	return b.GetGameObject().WorldRotation()
}
