package world

import (
	"hovercourse/internal/components"
	"hovercourse/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	HoverColor    = rl.White
	SelectedColor = rl.Yellow
)

// Renderer draws the scene with primitive shapes and overlays editor highlights
// as wireframes.
type Renderer struct {
	GridSlices  int32
	GridSpacing float32

	// Drawn and Culled are the counts from the last Draw call.
	Drawn  int
	Culled int
}

func NewRenderer() *Renderer {
	return &Renderer{
		GridSlices:  60,
		GridSpacing: 1,
	}
}

// Draw must be called between BeginMode3D and EndMode3D for camera.
func (r *Renderer) Draw(camera rl.Camera3D, aspect float32, gameObjects []*engine.GameObject) {
	rl.DrawGrid(r.GridSlices, r.GridSpacing)

	frustum := ExtractFrustum(camera, aspect)
	r.Drawn, r.Culled = 0, 0

	for _, g := range gameObjects {
		renderable := engine.GetComponent[*components.Renderable](g)
		if renderable == nil {
			continue
		}
		if !frustum.ContainsSphere(g.WorldPosition(), BoundingRadius(renderable)) {
			r.Culled++
			continue
		}
		r.Drawn++
		renderable.Draw()

		switch g.Highlight {
		case engine.HighlightHovered:
			renderable.DrawWires(HoverColor)
		case engine.HighlightSelected:
			renderable.DrawWires(SelectedColor)
		}
	}

	for _, g := range gameObjects {
		if light := engine.GetComponent[*components.PointLight](g); light != nil {
			rl.DrawCircle3D(light.GetPosition(), light.Radius, rl.Vector3{X: 1}, 90, rl.Fade(light.Color, 0.3))
		}
	}
}

// BoundingRadius is the radius of a sphere enclosing the renderable.
func BoundingRadius(r *components.Renderable) float32 {
	if r.Shape == components.ShapeSphere {
		return r.Size.X
	}
	return rl.Vector3Length(r.Size) / 2
}
