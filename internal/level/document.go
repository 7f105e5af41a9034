package level

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultWallSize is the footprint given to freshly spawned walls.
var DefaultWallSize = Size{Width: 5, Depth: 5}

// WallThickness is the extent of a wall along its local Y axis.
const WallThickness float32 = 0.5

// FuelBallRadius is the radius used for fuel pickups, both for picking and for play.
const FuelBallRadius float32 = 0.75

// LightRadius is the pick radius of a light marker in the editor.
const LightRadius float32 = 0.4

var (
	ErrUnknownItem     = errors.New("level: item has no known variant")
	ErrAmbiguousItem   = errors.New("level: item has more than one variant")
	ErrUnknownWallType = errors.New("level: unknown wall type")
)

// Document is the serializable description of a level. Item order is the identity
// shared with the live scene, so it must never be reordered behind the editor's back.
type Document struct {
	PlayerStart    rl.Vector3
	NextLevel      *string
	InitialOverlay []string
	Items          []Item
}

// WallType selects how the gameplay treats contact with a wall.
type WallType int

const (
	WallNeutral WallType = iota
	WallAvoid
	WallGoal
)

var wallTypeNames = [...]string{"Neutral", "Avoid", "Goal"}

func (t WallType) String() string {
	if int(t) < len(wallTypeNames) && t >= 0 {
		return wallTypeNames[t]
	}
	return fmt.Sprintf("WallType(%d)", int(t))
}

// ParseWallType maps the persisted name back to a WallType.
func ParseWallType(name string) (WallType, error) {
	for i, n := range wallTypeNames {
		if n == name {
			return WallType(i), nil
		}
	}
	return WallNeutral, fmt.Errorf("%w: %q", ErrUnknownWallType, name)
}

// Size is the wall footprint along its local X (width) and Z (depth) axes.
type Size struct {
	Width float32
	Depth float32
}

type Wall struct {
	Type     WallType
	Position rl.Vector3
	Rotation rl.Quaternion
	Size     Size
}

type FuelBall struct {
	Position rl.Vector3
}

type Light struct {
	Position  rl.Vector3
	Intensity float32
	Range     float32
	Color     [3]float32
}

// ItemKind reports which variant an Item carries.
type ItemKind int

const (
	KindInvalid ItemKind = iota
	KindWall
	KindFuelBall
	KindLight
)

func (k ItemKind) String() string {
	switch k {
	case KindWall:
		return "Wall"
	case KindFuelBall:
		return "FuelBall"
	case KindLight:
		return "Light"
	}
	return "Invalid"
}

// Item is a tagged variant: exactly one of the pointers is set.
type Item struct {
	Wall     *Wall
	FuelBall *FuelBall
	Light    *Light
}

func WallItem(w Wall) Item         { return Item{Wall: &w} }
func FuelBallItem(f FuelBall) Item { return Item{FuelBall: &f} }
func LightItem(l Light) Item       { return Item{Light: &l} }

// NewWall builds a wall at position with identity rotation and the default footprint.
func NewWall(t WallType, position rl.Vector3) Item {
	return WallItem(Wall{
		Type:     t,
		Position: position,
		Rotation: rl.QuaternionIdentity(),
		Size:     DefaultWallSize,
	})
}

func (it Item) Kind() ItemKind {
	n := 0
	kind := KindInvalid
	if it.Wall != nil {
		n++
		kind = KindWall
	}
	if it.FuelBall != nil {
		n++
		kind = KindFuelBall
	}
	if it.Light != nil {
		n++
		kind = KindLight
	}
	if n != 1 {
		return KindInvalid
	}
	return kind
}

// Position returns a mutable pointer to the item's position, nil for an invalid item.
func (it Item) Position() *rl.Vector3 {
	switch it.Kind() {
	case KindWall:
		return &it.Wall.Position
	case KindFuelBall:
		return &it.FuelBall.Position
	case KindLight:
		return &it.Light.Position
	}
	return nil
}

// Size returns a mutable pointer to the wall footprint; only walls have one.
func (it Item) Size() *Size {
	if it.Kind() == KindWall {
		return &it.Wall.Size
	}
	return nil
}

// Rotation returns the item's orientation. Only walls carry one.
func (it Item) Rotation() rl.Quaternion {
	if it.Kind() == KindWall {
		return it.Wall.Rotation
	}
	return rl.QuaternionIdentity()
}

func (it Item) validate() error {
	n := 0
	for _, set := range []bool{it.Wall != nil, it.FuelBall != nil, it.Light != nil} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return ErrUnknownItem
	case n > 1:
		return ErrAmbiguousItem
	}
	return nil
}

// Clone returns a deep copy, used to snapshot the document before a test session.
func (d *Document) Clone() (*Document, error) {
	out := &Document{}
	if err := copier.CopyWithOption(out, d, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone level: %w", err)
	}
	// keep nil and empty distinct so the clone marshals identically
	if d.NextLevel == nil {
		out.NextLevel = nil
	}
	if d.InitialOverlay == nil {
		out.InitialOverlay = nil
	}
	if d.Items == nil {
		out.Items = nil
	}
	for i := range out.Items {
		src := d.Items[i]
		if src.Wall == nil {
			out.Items[i].Wall = nil
		}
		if src.FuelBall == nil {
			out.Items[i].FuelBall = nil
		}
		if src.Light == nil {
			out.Items[i].Light = nil
		}
	}
	return out, nil
}

// Validate checks every item carries exactly one variant.
func (d *Document) Validate() error {
	for i, it := range d.Items {
		if err := it.validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
