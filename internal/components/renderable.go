package components

import (
	"hovercourse/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Shape int

const (
	ShapeBox Shape = iota
	ShapeSphere
)

// Renderable draws a primitive at the owner's transform. For spheres Size.X is the radius.
type Renderable struct {
	engine.BaseComponent
	Shape Shape
	Color rl.Color
	Size  rl.Vector3
}

func NewRenderable(shape Shape, color rl.Color, size rl.Vector3) *Renderable {
	return &Renderable{
		Shape: shape,
		Color: color,
		Size:  size,
	}
}

func (r *Renderable) Draw() {
	r.draw(false, r.Color)
}

// DrawWires draws the outline slightly inflated so it sits on top of the solid.
func (r *Renderable) DrawWires(color rl.Color) {
	r.draw(true, color)
}

func (r *Renderable) draw(wires bool, color rl.Color) {
	g := r.GetGameObject()
	if g == nil || !g.Active {
		return
	}

	pos := g.WorldPosition()

	switch r.Shape {
	case ShapeBox:
		size := r.Size
		if wires {
			size = rl.Vector3AddValue(size, 0.05)
		}
		var axis rl.Vector3
		var angle float32
		rl.QuaternionToAxisAngle(g.WorldRotation(), &axis, &angle)

		rl.PushMatrix()
		rl.Translatef(pos.X, pos.Y, pos.Z)
		rl.Rotatef(angle*rl.Rad2deg, axis.X, axis.Y, axis.Z)
		if wires {
			rl.DrawCubeWiresV(rl.Vector3{}, size, color)
		} else {
			rl.DrawCubeV(rl.Vector3{}, size, color)
		}
		rl.PopMatrix()
	case ShapeSphere:
		if wires {
			rl.DrawSphereWires(pos, r.Size.X+0.05, 8, 8, color)
		} else {
			rl.DrawSphere(pos, r.Size.X, color)
		}
	}
}
