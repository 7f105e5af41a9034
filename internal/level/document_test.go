package level

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func sampleDocument() *Document {
	next := "level_2.json"
	return &Document{
		PlayerStart:    rl.Vector3{X: 1, Y: 2, Z: 3},
		NextLevel:      &next,
		InitialOverlay: []string{"Reach the green wall", "Avoid the red ones"},
		Items: []Item{
			WallItem(Wall{
				Type:     WallAvoid,
				Position: rl.Vector3{X: 4, Y: 0, Z: -2},
				Rotation: rl.Quaternion{X: 0, Y: 0.7071, Z: 0, W: 0.7071},
				Size:     Size{Width: 10, Depth: 2},
			}),
			FuelBallItem(FuelBall{Position: rl.Vector3{X: 0, Y: 1, Z: 5}}),
			NewWall(WallGoal, rl.Vector3{X: 20, Y: 0, Z: 20}),
			LightItem(Light{Position: rl.Vector3{Y: 10}, Intensity: 2, Range: 30, Color: [3]float32{1, 0.9, 0.8}}),
		},
	}
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(doc, got) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", doc, got)
	}
	for i := range doc.Items {
		if doc.Items[i].Kind() != got.Items[i].Kind() {
			t.Errorf("item %d: kind %v, got %v", i, doc.Items[i].Kind(), got.Items[i].Kind())
		}
	}
}

func TestPersistedShape(t *testing.T) {
	data, err := Marshal(sampleDocument())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not a JSON object: %v", err)
	}
	for _, key := range []string{"next_level", "player_start", "initial_overlay", "structure"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var structure []map[string]json.RawMessage
	if err := json.Unmarshal(raw["structure"], &structure); err != nil {
		t.Fatalf("structure: %v", err)
	}
	wantTags := []string{"Wall", "FuelBall", "Wall", "Light"}
	for i, entry := range structure {
		if len(entry) != 1 {
			t.Errorf("structure[%d] has %d keys, want 1", i, len(entry))
		}
		if _, ok := entry[wantTags[i]]; !ok {
			t.Errorf("structure[%d] missing tag %q", i, wantTags[i])
		}
	}
	if !strings.Contains(string(data), `"wall_type": "Avoid"`) {
		t.Error("wall type should be persisted by name")
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("output should be pretty-printed")
	}
}

func TestUnmarshalNullFields(t *testing.T) {
	src := `{"next_level":null,"player_start":[0,1,0],"initial_overlay":null,
		"structure":[{"FuelBall":{"position":[1,2,3]}}]}`
	doc, err := Unmarshal([]byte(src))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.NextLevel != nil || doc.InitialOverlay != nil {
		t.Error("null fields should stay nil")
	}
	if len(doc.Items) != 1 || doc.Items[0].Kind() != KindFuelBall {
		t.Fatalf("unexpected items: %+v", doc.Items)
	}
	if p := doc.Items[0].Position(); *p != (rl.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position = %v", *p)
	}
}

func TestMissingStructureRoundTrips(t *testing.T) {
	for _, src := range []string{`{"player_start":[0,1,0]}`, `{"player_start":[0,1,0],"structure":null}`} {
		doc, err := Unmarshal([]byte(src))
		if err != nil {
			t.Fatalf("Unmarshal %s: %v", src, err)
		}
		if doc.Items == nil || len(doc.Items) != 0 {
			t.Errorf("%s: expected empty items, got %#v", src, doc.Items)
		}

		data, err := Marshal(doc)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		again, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal saved form: %v", err)
		}
		if !reflect.DeepEqual(doc, again) {
			t.Errorf("%s: round trip changed the document:\nfirst  %#v\nsecond %#v", src, doc, again)
		}
	}
}

func TestUnmarshalRejectsBadItems(t *testing.T) {
	cases := map[string]struct {
		src  string
		want error
	}{
		"empty item": {`{"player_start":[0,0,0],"structure":[{}]}`, ErrUnknownItem},
		"two variants": {`{"player_start":[0,0,0],"structure":[{"FuelBall":{"position":[0,0,0]},
			"Light":{"position":[0,0,0]}}]}`, ErrAmbiguousItem},
		"bad wall type": {`{"player_start":[0,0,0],"structure":[{"Wall":{"wall_type":"Lava",
			"position":[0,0,0],"rotation":[0,0,0,1],"size":[1,1]}}]}`, ErrUnknownWallType},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.src))
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestItemAccessors(t *testing.T) {
	wall := NewWall(WallNeutral, rl.Vector3{X: 1})
	if wall.Size() == nil {
		t.Fatal("walls have a size")
	}
	if *wall.Size() != DefaultWallSize {
		t.Errorf("default size = %v", *wall.Size())
	}
	if wall.Rotation() != rl.QuaternionIdentity() {
		t.Errorf("new walls should have identity rotation, got %v", wall.Rotation())
	}

	wall.Position().Y = 7
	wall.Size().Width = 9
	if wall.Wall.Position.Y != 7 || wall.Wall.Size.Width != 9 {
		t.Error("accessors should mutate the underlying wall")
	}

	ball := FuelBallItem(FuelBall{})
	if ball.Size() != nil {
		t.Error("fuel balls have no size")
	}
	if (Item{}).Position() != nil {
		t.Error("invalid item should have no position")
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	clone, err := doc.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if !reflect.DeepEqual(doc, clone) {
		t.Fatalf("clone differs:\nwant %+v\ngot  %+v", doc, clone)
	}

	clone.Items[0].Position().X = 99
	*clone.NextLevel = "other.json"
	clone.InitialOverlay[0] = "changed"

	if doc.Items[0].Wall.Position.X == 99 {
		t.Error("clone shares wall storage with the original")
	}
	if *doc.NextLevel != "level_2.json" {
		t.Error("clone shares next_level with the original")
	}
	if doc.InitialOverlay[0] == "changed" {
		t.Error("clone shares overlay with the original")
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument()

	if err := Save(dir, "levels/test.json", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "levels", "test.json")); err != nil {
		t.Fatalf("file not written under asset dir: %v", err)
	}
	got, err := Load(dir, "levels/test.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(doc, got) {
		t.Errorf("load(save(doc)) != doc")
	}
}

func TestSaveFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "levels")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Save(dir, "levels/test.json", sampleDocument()); err == nil {
		t.Error("expected an error when the parent path is a file")
	}
}
