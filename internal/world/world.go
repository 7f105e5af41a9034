package world

import (
	"hovercourse/internal/components"
	"hovercourse/internal/engine"
	"hovercourse/internal/physics"
)

// World pairs the entity registry with the physics query registry so that every
// spawned entity is both drawable and pickable.
type World struct {
	Scene   *engine.Scene
	Physics *physics.PhysicsWorld
}

func New() *World {
	return &World{
		Scene:   engine.NewScene("Main"),
		Physics: physics.NewPhysicsWorld(),
	}
}

// Spawn adds g to the scene and, if it has a collider, to physics.
func (w *World) Spawn(g *engine.GameObject) {
	w.Scene.AddGameObject(g)
	w.Physics.AddObject(g)
}

func (w *World) Despawn(g *engine.GameObject) {
	if g == nil {
		return
	}
	w.Physics.RemoveObject(g)
	w.Scene.RemoveGameObject(g)
}

// Clear despawns everything.
func (w *World) Clear() {
	for len(w.Scene.GameObjects) > 0 {
		w.Despawn(w.Scene.GameObjects[len(w.Scene.GameObjects)-1])
	}
	w.Physics.Clear()
}

// IsLive reports whether g is currently spawned in this world.
func (w *World) IsLive(g *engine.GameObject) bool {
	return g != nil && w.Scene.FindByUID(g.UID) == g
}

// Overlapping returns the other registered objects overlapping g's box collider.
// Objects without a box collider overlap nothing.
func (w *World) Overlapping(g *engine.GameObject) []*engine.GameObject {
	box := engine.GetComponent[*components.BoxCollider](g)
	if box == nil {
		return nil
	}
	found := w.Physics.OverlapBox(box.GetCenter(), box.GetWorldSize(), box.GetRotation())

	others := found[:0]
	for _, o := range found {
		if o != g {
			others = append(others, o)
		}
	}
	return others
}

// GetCollidableObjects returns all GameObjects registered for ray and overlap queries
func (w *World) GetCollidableObjects() []*engine.GameObject {
	return w.Physics.Objects
}

// Lights returns every point light in the scene.
func (w *World) Lights() []*components.PointLight {
	var result []*components.PointLight
	for _, g := range w.Scene.GameObjects {
		if l := engine.GetComponent[*components.PointLight](g); l != nil {
			result = append(result, l)
		}
	}
	return result
}
