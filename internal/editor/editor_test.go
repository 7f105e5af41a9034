package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"hovercourse/internal/assets"
	"hovercourse/internal/camera"
	"hovercourse/internal/engine"
	"hovercourse/internal/level"
	"hovercourse/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const testPath = "levels/test.json"

type fakeLoader struct {
	docs        map[string]*level.Document
	pending     bool
	now         func() time.Time
	suggestions []string
	loads       int
}

func (f *fakeLoader) Load(p string) *assets.Handle {
	f.loads++
	if f.pending {
		return assets.Pending(p, f.now().Add(assets.DefaultLoadTimeout), f.now)
	}
	if doc, ok := f.docs[p]; ok {
		clone, err := doc.Clone()
		return assets.Done(p, clone, err)
	}
	return assets.Done(p, nil, fmt.Errorf("read level: %w", fs.ErrNotExist))
}

func (f *fakeLoader) Suggest(p string) []string {
	return f.suggestions
}

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

var window = &Viewport{Width: 800, Height: 600}

// fixedRay makes every frame's cursor ray r.
func fixedRay(r rl.Ray) func(rl.Vector2, rl.Camera, int32, int32) rl.Ray {
	return func(rl.Vector2, rl.Camera, int32, int32) rl.Ray { return r }
}

// awayRay points at nothing.
var awayRay = rl.Ray{Position: rl.Vector3{Y: 1000}, Direction: rl.Vector3{Y: 1}}

func newTestEditor(t *testing.T, doc *level.Document) (*Editor, *fakeLoader) {
	t.Helper()
	loader := &fakeLoader{docs: map[string]*level.Document{testPath: doc}}
	e := New(world.New(), loader, t.TempDir())
	c := &clock{t: time.Unix(1000, 0)}
	e.Now = c.Now
	loader.now = c.Now
	e.RayFunc = fixedRay(awayRay)
	return e, loader
}

// loaded returns an editor with doc loaded and in the given mode.
func loaded(t *testing.T, doc *level.Document, mode ModeKind) (*Editor, *Loaded) {
	t.Helper()
	e, _ := newTestEditor(t, doc)
	if err := e.RequestLoad(testPath); err != nil {
		t.Fatalf("RequestLoad: %v", err)
	}
	if err := e.Update(FrameInput{Window: window}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	s, ok := e.State.(*Loaded)
	if !ok {
		t.Fatalf("Expected Loaded, got %s", e.State.Name())
	}
	if err := e.SetMode(mode); err != nil {
		t.Fatal(err)
	}
	return e, s
}

func TestLoadEntersCameraMode(t *testing.T) {
	e, s := loaded(t, lettered(3), ModeCamera)

	if s.Mode.Kind() != ModeCamera {
		t.Errorf("Expected Camera mode, got %v", s.Mode.Kind())
	}
	if m := s.Mode.(*CameraMode); m.Panning {
		t.Error("Panning should start off")
	}
	if s.SpawnKind != level.WallNeutral {
		t.Errorf("Expected Neutral spawn kind, got %v", s.SpawnKind)
	}
	if s.Player == nil || !e.World.IsLive(s.Player) {
		t.Error("Expected a live player avatar")
	}
	if err := e.Check(); err != nil {
		t.Error(err)
	}
	if got := len(e.World.Scene.GameObjects); got != 5 {
		t.Errorf("Expected 3 items, the avatar and its glow, got %d objects", got)
	}
}

func TestReloadTearsDownScene(t *testing.T) {
	e, s := loaded(t, lettered(3), ModeObject)
	old := s.Sync.Entity(0)
	e.Highlights.Select(old)

	if err := e.RequestLoad(testPath); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.State.(*Loading); !ok {
		t.Fatalf("Expected Loading, got %s", e.State.Name())
	}
	if len(e.World.Scene.GameObjects) != 0 {
		t.Errorf("Expected empty world while loading, got %d objects", len(e.World.Scene.GameObjects))
	}
	if old.Highlight != engine.HighlightNone {
		t.Error("Teardown should clear decorations")
	}

	e.Update(FrameInput{Window: window})
	if err := e.Check(); err != nil {
		t.Error(err)
	}
}

func TestRequestLoadEmptyPath(t *testing.T) {
	e, _ := newTestEditor(t, lettered(1))
	if err := e.RequestLoad(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("Expected ErrEmptyPath, got %v", err)
	}
	if _, ok := e.State.(*Empty); !ok {
		t.Errorf("Expected Empty, got %s", e.State.Name())
	}
}

func TestLoadFailureReturnsToEmpty(t *testing.T) {
	e, loader := newTestEditor(t, lettered(1))
	loader.suggestions = []string{"levels/test_1.json"}

	var statuses []Status
	e.OnStatus.AddListener(func(s Status) { statuses = append(statuses, s) })

	e.RequestLoad("levels/tset.json")
	err := e.Update(FrameInput{Window: window})

	var lf *LoadFailedError
	if !errors.As(err, &lf) {
		t.Fatalf("Expected LoadFailedError, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected cause to be not-exist, got %v", lf.Err)
	}
	if !reflect.DeepEqual(lf.Suggestions, loader.suggestions) {
		t.Errorf("Expected suggestions %v, got %v", loader.suggestions, lf.Suggestions)
	}
	if _, ok := e.State.(*Empty); !ok {
		t.Errorf("Expected Empty, got %s", e.State.Name())
	}
	if len(statuses) != 1 || statuses[0].Err == nil {
		t.Errorf("Expected one error status, got %+v", statuses)
	}
}

func TestLoadTimeout(t *testing.T) {
	e, loader := newTestEditor(t, lettered(1))
	c := &clock{t: time.Unix(0, 0)}
	e.Now, loader.now = c.Now, c.Now
	loader.pending = true

	e.RequestLoad(testPath)
	if err := e.Update(FrameInput{Window: window}); err != nil {
		t.Fatalf("Unexpected error while loading: %v", err)
	}
	if _, ok := e.State.(*Loading); !ok {
		t.Fatalf("Expected Loading, got %s", e.State.Name())
	}

	c.t = c.t.Add(assets.DefaultLoadTimeout + time.Second)
	err := e.Update(FrameInput{Window: window})
	if !errors.Is(err, assets.ErrLoadTimeout) {
		t.Errorf("Expected ErrLoadTimeout, got %v", err)
	}
	if _, ok := e.State.(*Empty); !ok {
		t.Errorf("Expected Empty, got %s", e.State.Name())
	}
}

func TestDragMovesSelection(t *testing.T) {
	doc := &level.Document{Items: []level.Item{level.NewWall(level.WallNeutral, rl.Vector3{})}}
	e, s := loaded(t, doc, ModeObject)
	s.Camera.Yaw, s.Camera.Pitch = -90, 0 // forward (0,0,-1)

	g := s.Sync.Entity(0)
	e.Highlights.Select(g)
	s.Mode.(*ObjectMode).Action = &Moving{Drag: DragProjector{Anchor: rl.Vector3{}}}

	e.RayFunc = fixedRay(rl.Ray{Position: rl.Vector3{Z: 10}, Direction: rl.Vector3{X: 2, Z: -10}})
	if err := e.Update(FrameInput{Window: window, LeftDown: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := rl.Vector3{X: 2}
	if got := *s.Document.Items[0].Position(); !near(got, want) {
		t.Errorf("Expected item at %v, got %v", want, got)
	}
	if !near(g.Transform.Position, want) {
		t.Errorf("Expected entity at %v, got %v", want, g.Transform.Position)
	}
	if a := s.Mode.(*ObjectMode).Action.(*Moving); !near(a.Drag.Anchor, want) {
		t.Errorf("Expected anchor %v, got %v", want, a.Drag.Anchor)
	}
	if !s.Dirty {
		t.Error("Moving should mark the document dirty")
	}

	// Release stops immediately, wherever the item is.
	e.Update(FrameInput{Window: window, LeftReleased: true})
	if _, ok := s.Mode.(*ObjectMode).Action.(Idle); !ok {
		t.Error("Expected Idle after release")
	}
	if !near(*s.Document.Items[0].Position(), want) {
		t.Error("Release should not move the item")
	}
}

func TestClickSelectsAndStartsMoving(t *testing.T) {
	doc := &level.Document{Items: []level.Item{
		level.NewWall(level.WallNeutral, rl.Vector3{Z: -10}),
		level.NewWall(level.WallAvoid, rl.Vector3{X: 20}),
	}}
	e, s := loaded(t, doc, ModeObject)
	e.RayFunc = fixedRay(rl.Ray{Direction: rl.Vector3{Z: -1}})

	e.Update(FrameInput{Window: window, LeftPressed: true, LeftDown: true})

	g := s.Sync.Entity(0)
	if g.Highlight != engine.HighlightSelected {
		t.Errorf("Expected clicked wall selected, got %v", g.Highlight)
	}
	m, ok := s.Mode.(*ObjectMode).Action.(*Moving)
	if !ok {
		t.Fatal("Expected Moving after clicking an entity")
	}
	if !near(m.Drag.Anchor, rl.Vector3{Z: -7.5}) {
		t.Errorf("Expected anchor at the hit point, got %v", m.Drag.Anchor)
	}
	if i, item, ok := e.SelectedItem(); !ok || i != 0 || item.Wall.Type != level.WallNeutral {
		t.Errorf("Expected item 0 selected, got %d %v", i, ok)
	}

	// Clicking empty space deselects.
	e.Update(FrameInput{Window: window, LeftReleased: true})
	e.RayFunc = fixedRay(awayRay)
	e.Update(FrameInput{Window: window, LeftPressed: true, LeftDown: true})
	if g.Highlight != engine.HighlightNone {
		t.Errorf("Expected selection cleared, got %v", g.Highlight)
	}
	if _, ok := s.Mode.(*ObjectMode).Action.(Idle); !ok {
		t.Error("Empty click should stay Idle")
	}
}

func TestHoverFollowsCursor(t *testing.T) {
	doc := &level.Document{Items: []level.Item{level.NewWall(level.WallNeutral, rl.Vector3{Z: -10})}}
	e, s := loaded(t, doc, ModeObject)
	g := s.Sync.Entity(0)

	e.RayFunc = fixedRay(rl.Ray{Direction: rl.Vector3{Z: -1}})
	e.Update(FrameInput{Window: window})
	if g.Highlight != engine.HighlightHovered {
		t.Errorf("Expected hovered, got %v", g.Highlight)
	}

	e.RayFunc = fixedRay(awayRay)
	e.Update(FrameInput{Window: window})
	if g.Highlight != engine.HighlightNone {
		t.Errorf("Expected hover cleared, got %v", g.Highlight)
	}
}

func TestSpawnOnPanPlane(t *testing.T) {
	e, s := loaded(t, &level.Document{}, ModeObject)
	s.Camera.Pivot = rl.Vector3{Y: 5}
	s.Camera.Yaw, s.Camera.Pitch = 90, 0 // back axis (0,0,-1)
	e.SetSpawnKind(level.WallAvoid)

	e.RayFunc = fixedRay(rl.Ray{Position: rl.Vector3{Y: 5, Z: -10}, Direction: rl.Vector3{X: 3, Z: 10}})
	if err := e.Update(FrameInput{Window: window, SpawnPressed: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(s.Document.Items) != 1 {
		t.Fatalf("Expected one item, got %d", len(s.Document.Items))
	}
	it := s.Document.Items[0]
	if it.Kind() != level.KindWall || it.Wall.Type != level.WallAvoid {
		t.Errorf("Expected Avoid wall, got %v", it.Kind())
	}
	if !near(*it.Position(), rl.Vector3{X: 3, Y: 5}) {
		t.Errorf("Expected (3,5,0), got %v", *it.Position())
	}
	if *it.Size() != (level.Size{Width: 5, Depth: 5}) {
		t.Errorf("Expected size (5,5), got %v", *it.Size())
	}
	if it.Rotation() != rl.QuaternionIdentity() {
		t.Errorf("Expected identity rotation, got %v", it.Rotation())
	}
	if err := e.Check(); err != nil {
		t.Error(err)
	}

	var statuses []Status
	e.OnStatus.AddListener(func(st Status) { statuses = append(statuses, st) })

	// A second wall on the same spot overlaps the first.
	e.Update(FrameInput{Window: window, SpawnPressed: true})
	if len(s.Document.Items) != 2 {
		t.Fatalf("Expected two items, got %d", len(s.Document.Items))
	}
	if len(statuses) != 1 || statuses[0].Err != nil || !strings.Contains(statuses[0].Message, "overlaps 1 item") {
		t.Errorf("Expected an overlap notice, got %+v", statuses)
	}

	// A ray pointing away from the plane spawns nothing.
	e.RayFunc = fixedRay(rl.Ray{Position: rl.Vector3{Y: 5, Z: -10}, Direction: rl.Vector3{Z: -1}})
	e.Update(FrameInput{Window: window, SpawnPressed: true})
	if len(s.Document.Items) != 2 {
		t.Errorf("Expected no spawn behind the camera, got %d items", len(s.Document.Items))
	}
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	e, s := loaded(t, lettered(3), ModeObject)
	b := s.Sync.Entity(1)
	e.Highlights.Select(b)

	if err := e.Update(FrameInput{Window: window, DeletePressed: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := letters(s.Document); got != "AC" {
		t.Errorf("Expected AC, got %s", got)
	}
	if e.World.IsLive(b) {
		t.Error("Deleted entity should be despawned")
	}
	if len(e.Highlights.Selected()) != 0 {
		t.Error("Selection should be cleared")
	}
	if err := e.Check(); err != nil {
		t.Error(err)
	}
}

func TestStaleEntityIsReported(t *testing.T) {
	doc := &level.Document{Items: []level.Item{level.NewWall(level.WallNeutral, rl.Vector3{X: 20})}}
	e, s := loaded(t, doc, ModeObject)
	stray := world.NewItemObject(level.NewWall(level.WallNeutral, rl.Vector3{Z: -10}))
	e.World.Spawn(stray)

	e.RayFunc = fixedRay(rl.Ray{Direction: rl.Vector3{Z: -1}})
	err := e.Update(FrameInput{Window: window, LeftPressed: true, LeftDown: true})
	if !errors.Is(err, ErrStaleEntityReference) {
		t.Fatalf("Expected ErrStaleEntityReference, got %v", err)
	}
	if stray.Highlight != engine.HighlightNone {
		t.Error("Stray entity should not be decorated")
	}
	if _, ok := s.Mode.(*ObjectMode).Action.(Idle); !ok {
		t.Error("Interaction should be a no-op on error")
	}
}

func TestMissingCameraAndWindow(t *testing.T) {
	e, s := loaded(t, lettered(1), ModeObject)

	if err := e.Update(FrameInput{}); !errors.Is(err, ErrNoPrimaryWindow) {
		t.Errorf("Expected ErrNoPrimaryWindow, got %v", err)
	}

	s.Camera = nil
	if err := e.Update(FrameInput{Window: window, SpawnPressed: true}); !errors.Is(err, ErrNoActiveCamera) {
		t.Errorf("Expected ErrNoActiveCamera, got %v", err)
	}
	if len(s.Document.Items) != 1 {
		t.Error("Interaction should be skipped without a camera")
	}
	if _, err := e.Camera(); !errors.Is(err, ErrNoActiveCamera) {
		t.Errorf("Expected ErrNoActiveCamera from Camera, got %v", err)
	}
}

func TestModeSwitchCancelsAndClears(t *testing.T) {
	e, s := loaded(t, lettered(2), ModeObject)
	a, b := s.Sync.Entity(0), s.Sync.Entity(1)
	e.Highlights.Select(a)
	e.Highlights.SetHover(b)
	s.Mode.(*ObjectMode).Action = &Moving{}

	cam := ModeCamera
	e.Update(FrameInput{Window: window, Panel: PanelInput{Mode: &cam}})

	if s.Mode.Kind() != ModeCamera {
		t.Fatalf("Expected Camera mode, got %v", s.Mode.Kind())
	}
	if a.Highlight != engine.HighlightNone || b.Highlight != engine.HighlightNone {
		t.Error("Camera mode should clear decorations")
	}

	s.Mode.(*CameraMode).Panning = true
	obj := ModeObject
	e.Update(FrameInput{Window: window, Panel: PanelInput{Mode: &obj}})
	if _, ok := s.Mode.(*ObjectMode).Action.(Idle); !ok {
		t.Error("Mode switch should reset the action")
	}
}

func TestCameraModePans(t *testing.T) {
	e, s := loaded(t, lettered(0), ModeCamera)
	rig := s.Camera
	rig.Pivot = rl.Vector3{}
	left := rig.Left()

	e.Update(FrameInput{Window: window, LeftPressed: true, LeftDown: true, CursorDelta: rl.Vector2{X: 10}})

	want := rl.Vector3Scale(left, 10*camera.DefaultPanScale)
	if !near(rig.Pivot, want) {
		t.Errorf("Expected pivot %v, got %v", want, rig.Pivot)
	}

	e.Update(FrameInput{Window: window, LeftReleased: true, CursorDelta: rl.Vector2{X: 10}})
	if s.Mode.(*CameraMode).Panning {
		t.Error("Release should stop panning")
	}
	e.Update(FrameInput{Window: window, CursorDelta: rl.Vector2{X: 10}})
	if !near(rig.Pivot, want) {
		t.Error("Pivot should not move after release")
	}
}

func TestRotateIndependentOfPanning(t *testing.T) {
	e, s := loaded(t, lettered(0), ModeCamera)
	yaw := s.Camera.Yaw

	e.Update(FrameInput{Window: window, RightPressed: true, LeftPressed: true, CursorDelta: rl.Vector2{X: 10}})
	if s.Camera.Yaw == yaw {
		t.Error("Right drag should rotate")
	}
	if !s.Mode.(*CameraMode).Panning {
		t.Error("Rotation should not stop panning")
	}
	e.Update(FrameInput{Window: window, RightReleased: true})
	yaw = s.Camera.Yaw
	e.Update(FrameInput{Window: window, CursorDelta: rl.Vector2{X: 10}})
	if s.Camera.Yaw != yaw {
		t.Error("Rotation should stop on release")
	}
}

func TestPanelEditAppliesBeforeInteraction(t *testing.T) {
	doc := &level.Document{Items: []level.Item{
		level.NewWall(level.WallNeutral, rl.Vector3{X: 20}),
		level.NewWall(level.WallNeutral, rl.Vector3{X: 40}),
	}}
	e, s := loaded(t, doc, ModeObject)
	g := s.Sync.Entity(1)
	e.Highlights.Select(g)

	pos := rl.Vector3{Z: -10}
	size := level.Size{Width: 8, Depth: 2}
	e.RayFunc = fixedRay(rl.Ray{Direction: rl.Vector3{Z: -1}})
	if err := e.Update(FrameInput{Window: window, Panel: PanelInput{Position: &pos, Size: &size}}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if *s.Document.Items[1].Position() != pos || *s.Document.Items[1].Size() != size {
		t.Errorf("Panel values not written to the document: %+v", *s.Document.Items[1].Wall)
	}
	if g.Transform.Position != pos {
		t.Errorf("Entity should follow in the same frame, got %v", g.Transform.Position)
	}
	// The moved wall is now under the cursor; the pick this frame already sees it.
	res, ok := e.Picker.Pick(rl.Vector3{}, rl.Ray{Direction: rl.Vector3{Z: -1}})
	if !ok || res.Entity != g {
		t.Error("Expected the edited wall to be pickable at its new position")
	}
}

func TestTestSessionRoundTrip(t *testing.T) {
	doc := lettered(2)
	doc.Items = append(doc.Items, level.FuelBallItem(level.FuelBall{Position: rl.Vector3{X: 3, Z: 3}}))
	doc.PlayerStart = rl.Vector3{Y: 1, Z: 10}
	e, s := loaded(t, doc, ModeObject)
	before, err := s.Document.Clone()
	if err != nil {
		t.Fatal(err)
	}

	if err := e.StartTest(); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	ts, ok := e.State.(*Testing)
	if !ok {
		t.Fatalf("Expected Testing, got %s", e.State.Name())
	}
	for _, g := range s.Sync.Entities() {
		if e.World.IsLive(g) {
			t.Error("Editable entities should be despawned while testing")
		}
	}
	if e.World.IsLive(s.Player) {
		t.Error("Editor avatar should be despawned while testing")
	}

	for i := 0; i < 120; i++ {
		e.Update(FrameInput{Dt: 1.0 / 60, Window: window, Move: rl.Vector2{X: 1, Y: 1}})
	}
	if ts.Session.Scene.Player().Transform.Position == doc.PlayerStart {
		t.Error("Expected the player to move during the test")
	}

	if err := e.StopTest(); err != nil {
		t.Fatalf("StopTest: %v", err)
	}
	after, ok := e.State.(*Loaded)
	if !ok {
		t.Fatalf("Expected Loaded, got %s", e.State.Name())
	}
	if !reflect.DeepEqual(before, after.Document) {
		t.Errorf("Document changed by testing:\nbefore %+v\nafter  %+v", before, after.Document)
	}
	if err := e.Check(); err != nil {
		t.Error(err)
	}
	if got := len(e.World.Scene.GameObjects); got != len(before.Items)+2 {
		t.Errorf("Expected items, avatar and glow only, got %d objects", got)
	}
}

func TestInvalidTransitions(t *testing.T) {
	e, _ := newTestEditor(t, lettered(1))
	if err := e.StartTest(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition from Empty, got %v", err)
	}

	e, _ = loaded(t, lettered(1), ModeCamera)
	if err := e.StopTest(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition from Loaded, got %v", err)
	}
	e.StartTest()
	if err := e.StartTest(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition from Testing, got %v", err)
	}
	if err := e.Save(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded when saving during a test, got %v", err)
	}
}

func TestSave(t *testing.T) {
	e, s := loaded(t, lettered(2), ModeObject)
	s.Dirty = true

	if err := e.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty {
		t.Error("Save should clear the dirty flag")
	}
	got, err := level.Load(e.AssetDir, testPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, s.Document) {
		t.Error("Saved file does not match the document")
	}
}

func TestSaveFailureIsRecoverable(t *testing.T) {
	e, s := loaded(t, lettered(2), ModeObject)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	e.AssetDir = blocker
	s.Dirty = true

	var statuses []Status
	e.OnStatus.AddListener(func(st Status) { statuses = append(statuses, st) })

	err := e.Update(FrameInput{Window: window, Panel: PanelInput{SaveClicked: true}})
	var sf *SaveFailedError
	if !errors.As(err, &sf) {
		t.Fatalf("Expected SaveFailedError, got %v", err)
	}
	if sf.Path != testPath {
		t.Errorf("Expected path %s, got %s", testPath, sf.Path)
	}
	if e.State != s || !s.Dirty || len(s.Document.Items) != 2 {
		t.Error("Editor should stay Loaded with the document intact")
	}
	if len(statuses) != 1 {
		t.Errorf("Expected the failure on OnStatus, got %d statuses", len(statuses))
	}
}

func TestHandleFileChanged(t *testing.T) {
	e, s := loaded(t, lettered(1), ModeCamera)
	loader := e.Loader.(*fakeLoader)
	c := &clock{t: time.Unix(5000, 0)}
	e.Now = c.Now

	if err := e.Save(); err != nil {
		t.Fatal(err)
	}
	e.HandleFileChanged(testPath)
	if e.State != s {
		t.Error("Our own save should not trigger a reload")
	}

	c.t = c.t.Add(time.Minute)
	s.Dirty = true
	e.HandleFileChanged(testPath)
	if e.State != s {
		t.Error("Unsaved edits should block a reload")
	}

	e.HandleFileChanged("levels/other.json")
	if e.State != s {
		t.Error("Changes to other files should be ignored")
	}

	s.Dirty = false
	loads := loader.loads
	e.HandleFileChanged(testPath)
	if _, ok := e.State.(*Loading); !ok || loader.loads != loads+1 {
		t.Errorf("Expected a reload, state %s", e.State.Name())
	}
}

func TestLoadDuringTestRestoresPivot(t *testing.T) {
	doc := lettered(1)
	doc.PlayerStart = rl.Vector3{Y: 1, Z: 10}
	e, s := loaded(t, doc, ModeCamera)
	pivot := rl.Vector3{X: -4, Y: 2, Z: 6}
	s.Camera.Pivot = pivot

	if err := e.StartTest(); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	for i := 0; i < 30; i++ {
		e.Update(FrameInput{Dt: 1.0 / 60, Window: window, Move: rl.Vector2{X: 1}})
	}
	if e.Rig.Pivot == pivot {
		t.Fatal("Expected the camera to follow the player while testing")
	}

	if err := e.RequestLoad(testPath); err != nil {
		t.Fatalf("RequestLoad: %v", err)
	}
	if e.Rig.Pivot != pivot {
		t.Errorf("Leaving a test by loading should restore the pivot %v, got %v", pivot, e.Rig.Pivot)
	}
	e.Update(FrameInput{Window: window})
	if _, ok := e.State.(*Loaded); !ok {
		t.Fatalf("Expected Loaded, got %s", e.State.Name())
	}
	if e.Rig.Pivot != pivot {
		t.Errorf("Reload should keep the restored pivot, got %v", e.Rig.Pivot)
	}
}

func TestInvariantHoldsAcrossEditing(t *testing.T) {
	e, s := loaded(t, lettered(3), ModeObject)
	s.Camera.Pivot = rl.Vector3{Y: 5}
	s.Camera.Yaw, s.Camera.Pitch = 90, 0 // back axis (0,0,-1)

	check := func(step string) {
		t.Helper()
		if err := e.Check(); err != nil {
			t.Fatalf("after %s: %v", step, err)
		}
	}
	update := func(step string, in FrameInput) {
		t.Helper()
		in.Window = window
		if err := e.Update(in); err != nil {
			t.Fatalf("%s: %v", step, err)
		}
		check(step)
	}

	e.RayFunc = fixedRay(rl.Ray{Position: rl.Vector3{Y: 5, Z: -10}, Direction: rl.Vector3{X: 3, Z: 10}})
	update("spawn", FrameInput{SpawnPressed: true})
	if len(s.Document.Items) != 4 {
		t.Fatalf("Expected 4 items after spawn, got %d", len(s.Document.Items))
	}

	e.Highlights.Select(s.Sync.Entity(0))
	s.Mode.(*ObjectMode).Action = &Moving{Drag: DragProjector{Anchor: rl.Vector3{}}}
	e.RayFunc = fixedRay(rl.Ray{Position: rl.Vector3{Z: 10}, Direction: rl.Vector3{X: 2, Z: -10}})
	update("drag", FrameInput{LeftDown: true})
	if x := s.Document.Items[0].Position().X; !near(rl.Vector3{X: x}, rl.Vector3{X: 2}) {
		t.Errorf("Expected dragged item at x=2, got %f", x)
	}
	e.RayFunc = fixedRay(awayRay)
	update("release", FrameInput{LeftReleased: true})

	e.Highlights.Select(s.Sync.Entity(1))
	update("delete", FrameInput{DeletePressed: true})
	if len(s.Document.Items) != 3 {
		t.Fatalf("Expected 3 items after delete, got %d", len(s.Document.Items))
	}

	if err := e.StartTest(); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	check("start test")
	for i := 0; i < 10; i++ {
		update("test frame", FrameInput{Dt: 1.0 / 60, Move: rl.Vector2{Y: 1}})
	}
	if err := e.StopTest(); err != nil {
		t.Fatalf("StopTest: %v", err)
	}
	check("stop test")
	after, ok := e.State.(*Loaded)
	if !ok || len(after.Document.Items) != 3 {
		t.Fatalf("Expected the edited document back after testing, got %s", e.State.Name())
	}

	if err := e.RequestLoad(testPath); err != nil {
		t.Fatalf("RequestLoad: %v", err)
	}
	check("request load")
	update("reload", FrameInput{})
	reloaded, ok := e.State.(*Loaded)
	if !ok {
		t.Fatalf("Expected Loaded, got %s", e.State.Name())
	}
	if got := letters(reloaded.Document); got != "ABC" {
		t.Errorf("Expected the file contents ABC after reload, got %s", got)
	}
	if got := len(e.World.Scene.GameObjects); got != 5 {
		t.Errorf("Expected 3 items, the avatar and its glow, got %d objects", got)
	}
}
