package level

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- JSON types ---

type levelFile struct {
	NextLevel      *string    `json:"next_level"`
	PlayerStart    [3]float32 `json:"player_start"`
	InitialOverlay []string   `json:"initial_overlay"`
	Structure      []itemDef  `json:"structure"`
}

// itemDef is externally tagged: the single key names the variant.
type itemDef struct {
	Wall     *wallDef     `json:"Wall,omitempty"`
	FuelBall *fuelBallDef `json:"FuelBall,omitempty"`
	Light    *lightDef    `json:"Light,omitempty"`
}

type wallDef struct {
	WallType string     `json:"wall_type"`
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"`
	Size     [2]float32 `json:"size"`
}

type fuelBallDef struct {
	Position [3]float32 `json:"position"`
}

type lightDef struct {
	Position  [3]float32 `json:"position"`
	Intensity float32    `json:"intensity"`
	Range     float32    `json:"range"`
	Color     [3]float32 `json:"color"`
}

func vec3(a [3]float32) rl.Vector3 {
	return rl.Vector3{X: a[0], Y: a[1], Z: a[2]}
}

func arr3(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// --- Encoding ---

// Marshal renders the document in its persisted, pretty-printed form.
func Marshal(d *Document) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	lf := levelFile{
		NextLevel:      d.NextLevel,
		PlayerStart:    arr3(d.PlayerStart),
		InitialOverlay: d.InitialOverlay,
		Structure:      make([]itemDef, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		var def itemDef
		switch it.Kind() {
		case KindWall:
			w := it.Wall
			def.Wall = &wallDef{
				WallType: w.Type.String(),
				Position: arr3(w.Position),
				Rotation: [4]float32{w.Rotation.X, w.Rotation.Y, w.Rotation.Z, w.Rotation.W},
				Size:     [2]float32{w.Size.Width, w.Size.Depth},
			}
		case KindFuelBall:
			def.FuelBall = &fuelBallDef{Position: arr3(it.FuelBall.Position)}
		case KindLight:
			l := it.Light
			def.Light = &lightDef{
				Position:  arr3(l.Position),
				Intensity: l.Intensity,
				Range:     l.Range,
				Color:     l.Color,
			}
		}
		lf.Structure = append(lf.Structure, def)
	}
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal level: %w", err)
	}
	return data, nil
}

// Unmarshal parses the persisted form. Items must carry exactly one variant.
func Unmarshal(data []byte) (*Document, error) {
	var lf levelFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}

	d := &Document{
		NextLevel:      lf.NextLevel,
		PlayerStart:    vec3(lf.PlayerStart),
		InitialOverlay: lf.InitialOverlay,
		Items:          make([]Item, 0, len(lf.Structure)),
	}
	for i, def := range lf.Structure {
		it, err := def.item()
		if err != nil {
			return nil, fmt.Errorf("parse level: structure[%d]: %w", i, err)
		}
		d.Items = append(d.Items, it)
	}
	return d, nil
}

func (def itemDef) item() (Item, error) {
	n := 0
	if def.Wall != nil {
		n++
	}
	if def.FuelBall != nil {
		n++
	}
	if def.Light != nil {
		n++
	}
	switch {
	case n == 0:
		return Item{}, ErrUnknownItem
	case n > 1:
		return Item{}, ErrAmbiguousItem
	}

	switch {
	case def.Wall != nil:
		t, err := ParseWallType(def.Wall.WallType)
		if err != nil {
			return Item{}, err
		}
		r := def.Wall.Rotation
		return WallItem(Wall{
			Type:     t,
			Position: vec3(def.Wall.Position),
			Rotation: rl.Quaternion{X: r[0], Y: r[1], Z: r[2], W: r[3]},
			Size:     Size{Width: def.Wall.Size[0], Depth: def.Wall.Size[1]},
		}), nil
	case def.FuelBall != nil:
		return FuelBallItem(FuelBall{Position: vec3(def.FuelBall.Position)}), nil
	default:
		return LightItem(Light{
			Position:  vec3(def.Light.Position),
			Intensity: def.Light.Intensity,
			Range:     def.Light.Range,
			Color:     def.Light.Color,
		}), nil
	}
}

// --- Files ---

// FilePath joins the asset directory and the level path the way save and load resolve it.
func FilePath(assetDir, path string) string {
	return filepath.Join(assetDir, filepath.FromSlash(path))
}

// Save writes the document to <assetDir>/<path>, creating parent directories.
func Save(assetDir, path string, d *Document) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	full := FilePath(assetDir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("write level: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("write level: %w", err)
	}
	return nil
}

// Load reads <assetDir>/<path>.
func Load(assetDir, path string) (*Document, error) {
	data, err := os.ReadFile(FilePath(assetDir, path))
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Unmarshal(data)
}
