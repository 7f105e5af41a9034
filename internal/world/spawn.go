package world

import (
	"hovercourse/internal/components"
	"hovercourse/internal/engine"
	"hovercourse/internal/level"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	TagWall     = "wall"
	TagFuelBall = "fuelball"
	TagLight    = "light"
	TagPlayer   = "player"
)

// PlayerRadius is the size of the player avatar, both in the editor and in play.
const PlayerRadius float32 = 1

const (
	PlayerGlowHeight float32 = 2
	PlayerGlowRadius float32 = 6
)

// --- Color mapping ---

var colorByWallType = map[level.WallType]rl.Color{
	level.WallNeutral: rl.Gray,
	level.WallAvoid:   rl.Red,
	level.WallGoal:    rl.Green,
}

func WallColor(t level.WallType) rl.Color {
	if c, ok := colorByWallType[t]; ok {
		return c
	}
	return rl.White
}

// --- Spawning ---

// NewItemObject builds the entity that represents item: a renderable plus a collider
// sized to the item, so it can be picked.
func NewItemObject(item level.Item) *engine.GameObject {
	g := engine.NewGameObject(item.Kind().String())

	switch item.Kind() {
	case level.KindWall:
		g.Tags = []string{TagWall}
		size := wallExtents(item.Wall.Size)
		g.AddComponent(components.NewRenderable(components.ShapeBox, WallColor(item.Wall.Type), size))
		g.AddComponent(components.NewBoxCollider(size))
	case level.KindFuelBall:
		g.Tags = []string{TagFuelBall}
		g.AddComponent(components.NewRenderable(components.ShapeSphere, rl.Gold, rl.Vector3{X: level.FuelBallRadius}))
		g.AddComponent(components.NewSphereCollider(level.FuelBallRadius))
	case level.KindLight:
		g.Tags = []string{TagLight}
		g.AddComponent(components.NewRenderable(components.ShapeSphere, rl.Yellow, rl.Vector3{X: level.LightRadius}))
		g.AddComponent(components.NewSphereCollider(level.LightRadius))
		g.AddComponent(components.NewPointLight())
	}

	ApplyItem(g, item)
	return g
}

// ApplyItem copies the item's transform and dimensions onto its entity. The document
// is authoritative; this runs every frame in the editor.
func ApplyItem(g *engine.GameObject, item level.Item) {
	if pos := item.Position(); pos != nil {
		g.Transform.Position = *pos
	}
	g.Transform.Rotation = item.Rotation()

	switch item.Kind() {
	case level.KindWall:
		size := wallExtents(item.Wall.Size)
		if r := engine.GetComponent[*components.Renderable](g); r != nil {
			r.Size = size
			r.Color = WallColor(item.Wall.Type)
		}
		if c := engine.GetComponent[*components.BoxCollider](g); c != nil {
			c.Size = size
		}
	case level.KindLight:
		if l := engine.GetComponent[*components.PointLight](g); l != nil {
			l.SetColorFloat(item.Light.Color)
			l.Intensity = item.Light.Intensity
			l.Radius = item.Light.Range
		}
	}
}

func wallExtents(s level.Size) rl.Vector3 {
	return rl.Vector3{X: s.Width, Y: level.WallThickness, Z: s.Depth}
}

// SpawnItem creates and spawns the entity for item.
func (w *World) SpawnItem(item level.Item) *engine.GameObject {
	g := NewItemObject(item)
	w.Spawn(g)
	return g
}

// SpawnPlayer places the player avatar, replacing any avatar already spawned. It
// carries no collider, so it is never picked. A glow light rides above it as a child.
func (w *World) SpawnPlayer(pos rl.Vector3) *engine.GameObject {
	for _, old := range w.Scene.FindByTag(TagPlayer) {
		w.Despawn(old)
	}

	g := engine.NewGameObject("Player")
	g.Tags = []string{TagPlayer}
	g.Transform.Position = pos
	g.AddComponent(components.NewRenderable(components.ShapeSphere, rl.SkyBlue, rl.Vector3{X: PlayerRadius}))

	glow := engine.NewGameObject("PlayerGlow")
	glow.Transform.Position = rl.Vector3{Y: PlayerGlowHeight}
	light := components.NewPointLight()
	light.Color = rl.SkyBlue
	light.Radius = PlayerGlowRadius
	glow.AddComponent(light)
	g.AddChild(glow)

	w.Spawn(g)
	w.Spawn(glow)
	return g
}

// Player returns the spawned avatar, or nil.
func (w *World) Player() *engine.GameObject {
	if players := w.Scene.FindByTag(TagPlayer); len(players) > 0 {
		return players[0]
	}
	return nil
}
