package physics

import (
	"hovercourse/internal/components"
	"hovercourse/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PhysicsWorld is the query-side physics registry: objects with a box or sphere
// collider that can be ray cast and overlap tested. Simulation during test play
// lives in the gameplay package.
type PhysicsWorld struct {
	Objects []*engine.GameObject
	index   map[uint64]int
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Objects: make([]*engine.GameObject, 0),
		index:   make(map[uint64]int),
	}
}

// AddObject registers g. Objects without a collider are ignored.
func (p *PhysicsWorld) AddObject(g *engine.GameObject) {
	if engine.GetComponent[*components.BoxCollider](g) == nil &&
		engine.GetComponent[*components.SphereCollider](g) == nil {
		return
	}
	if _, ok := p.index[g.UID]; ok {
		return
	}
	p.index[g.UID] = len(p.Objects)
	p.Objects = append(p.Objects, g)
}

func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	i, ok := p.index[g.UID]
	if !ok {
		return
	}
	last := len(p.Objects) - 1
	p.Objects[i] = p.Objects[last]
	p.index[p.Objects[i].UID] = i
	p.Objects = p.Objects[:last]
	delete(p.index, g.UID)
}

func (p *PhysicsWorld) Contains(g *engine.GameObject) bool {
	_, ok := p.index[g.UID]
	return ok
}

func (p *PhysicsWorld) Clear() {
	p.Objects = p.Objects[:0]
	clear(p.index)
}

// OverlapBox returns every registered object whose collider overlaps the oriented box.
func (p *PhysicsWorld) OverlapBox(center, size rl.Vector3, rotation rl.Quaternion) []*engine.GameObject {
	query := NewOBB(center, size, rotation)
	bounds := query.Bounds()

	var result []*engine.GameObject
	for _, obj := range p.Objects {
		if box := engine.GetComponent[*components.BoxCollider](obj); box != nil {
			o := boxOBB(box)
			if bounds.Intersects(o.Bounds()) && query.IntersectsOBB(o) {
				result = append(result, obj)
				continue
			}
		}
		if sphere := engine.GetComponent[*components.SphereCollider](obj); sphere != nil {
			c := sphere.GetCenter()
			if bounds.Expand(sphere.Radius).Contains(c) && query.IntersectsSphere(c, sphere.Radius) {
				result = append(result, obj)
			}
		}
	}
	return result
}

func boxOBB(box *components.BoxCollider) OBB {
	return NewOBB(box.GetCenter(), box.GetWorldSize(), box.GetRotation())
}
