package editor

import (
	"fmt"
	"slices"

	"hovercourse/internal/engine"
	"hovercourse/internal/level"
)

// Spawner creates and destroys the live entity for a document item.
type Spawner interface {
	SpawnItem(item level.Item) *engine.GameObject
	Despawn(g *engine.GameObject)
}

// SceneSync keeps entities[i] as the live representation of doc.Items[i]. The
// index table is lookup only: the document never sees entity handles.
type SceneSync struct {
	spawner  Spawner
	entities []*engine.GameObject
	index    map[uint64]int
}

func NewSceneSync(spawner Spawner) *SceneSync {
	return &SceneSync{
		spawner: spawner,
		index:   make(map[uint64]int),
	}
}

// Rebuild despawns any prior entities and spawns one per item, in order.
func (s *SceneSync) Rebuild(doc *level.Document) {
	s.Clear()
	s.entities = make([]*engine.GameObject, 0, len(doc.Items))
	for i, item := range doc.Items {
		g := s.spawner.SpawnItem(item)
		s.entities = append(s.entities, g)
		s.index[g.UID] = i
	}
}

// Insert appends item to the document and its entity to the scene.
func (s *SceneSync) Insert(doc *level.Document, item level.Item) *engine.GameObject {
	g := s.spawner.SpawnItem(item)
	doc.Items = append(doc.Items, item)
	s.entities = append(s.entities, g)
	s.index[g.UID] = len(s.entities) - 1
	return g
}

// RemoveSelected removes the items at indices from the document and the scene,
// then renumbers the survivors. Indices are applied from highest to lowest so that
// each one still names the item it named on entry. Nothing is touched if any index
// is out of range.
func (s *SceneSync) RemoveSelected(doc *level.Document, indices []int) error {
	if len(doc.Items) != len(s.entities) {
		return fmt.Errorf("scene sync: %d entities for %d items", len(s.entities), len(doc.Items))
	}
	order := slices.Clone(indices)
	slices.Sort(order)
	order = slices.Compact(order)
	for _, i := range order {
		if i < 0 || i >= len(s.entities) {
			return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
		}
	}
	slices.Reverse(order)

	for _, i := range order {
		g := s.entities[i]
		delete(s.index, g.UID)
		s.spawner.Despawn(g)
		doc.Items = slices.Delete(doc.Items, i, i+1)
		s.entities = slices.Delete(s.entities, i, i+1)
	}
	s.renumber()
	return nil
}

func (s *SceneSync) renumber() {
	for i, g := range s.entities {
		s.index[g.UID] = i
	}
}

// IndexOf maps an entity back to its document index.
func (s *SceneSync) IndexOf(g *engine.GameObject) (int, error) {
	if g == nil {
		return -1, ErrStaleEntityReference
	}
	i, ok := s.index[g.UID]
	if !ok || i >= len(s.entities) || s.entities[i] != g {
		return -1, fmt.Errorf("%w: %s (uid %d)", ErrStaleEntityReference, g.Name, g.UID)
	}
	return i, nil
}

func (s *SceneSync) Entity(i int) *engine.GameObject {
	if i < 0 || i >= len(s.entities) {
		return nil
	}
	return s.entities[i]
}

func (s *SceneSync) Entities() []*engine.GameObject {
	return s.entities
}

func (s *SceneSync) Len() int {
	return len(s.entities)
}

// Check verifies the length and back-reference invariants against doc.
func (s *SceneSync) Check(doc *level.Document) error {
	if len(s.entities) != len(doc.Items) {
		return fmt.Errorf("scene sync: %d entities for %d items", len(s.entities), len(doc.Items))
	}
	if len(s.index) != len(s.entities) {
		return fmt.Errorf("scene sync: %d index entries for %d entities", len(s.index), len(s.entities))
	}
	for i, g := range s.entities {
		if got, ok := s.index[g.UID]; !ok || got != i {
			return fmt.Errorf("scene sync: entity %d maps to index %d", i, got)
		}
	}
	return nil
}

// Clear despawns every entity.
func (s *SceneSync) Clear() {
	for _, g := range s.entities {
		s.spawner.Despawn(g)
	}
	s.entities = nil
	clear(s.index)
}
