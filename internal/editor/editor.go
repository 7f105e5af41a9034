package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"time"

	"hovercourse/internal/assets"
	"hovercourse/internal/camera"
	"hovercourse/internal/engine"
	"hovercourse/internal/level"
	"hovercourse/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ownSaveWindow is how long a file event after our own save is ignored.
const ownSaveWindow = 2 * time.Second

// LevelLoader starts asynchronous level loads.
type LevelLoader interface {
	Load(path string) *assets.Handle
	Suggest(path string) []string
}

type Settings struct {
	PanScale     float32
	LookSpeed    float32
	PickDistance float32
}

func DefaultSettings() Settings {
	return Settings{
		PanScale:     camera.DefaultPanScale,
		LookSpeed:    camera.DefaultLookSpeed,
		PickDistance: 1000,
	}
}

// Status is a user-facing message published on Editor.OnStatus.
type Status struct {
	Message string
	Err     error
}

// Editor owns the interaction state machine. Everything runs on the frame loop;
// the only asynchronous work is the level fetch behind Loading.
type Editor struct {
	State      State
	World      *world.World
	Loader     LevelLoader
	AssetDir   string
	Rig        *camera.Rig
	Picker     *Picker
	Highlights *HighlightManager
	Settings   Settings

	// RayFunc builds the cursor ray. Defaults to rl.GetScreenToWorldRayEx.
	RayFunc func(cursor rl.Vector2, cam rl.Camera, width, height int32) rl.Ray
	Now     func() time.Time

	OnStatus engine.EventWithArg[Status]

	rotating bool
	savedAt  map[string]time.Time
}

func New(w *world.World, loader LevelLoader, assetDir string) *Editor {
	settings := DefaultSettings()
	return &Editor{
		State:      &Empty{},
		World:      w,
		Loader:     loader,
		AssetDir:   assetDir,
		Picker:     NewPicker(w.Physics, settings.PickDistance),
		Highlights: NewHighlightManager(),
		Settings:   settings,
		RayFunc:    rl.GetScreenToWorldRayEx,
		Now:        time.Now,
		savedAt:    make(map[string]time.Time),
	}
}

// Update runs one frame: panel edits, then document-to-entity sync, then
// picking, dragging and highlighting. The first error of the frame is
// returned and also published on OnStatus.
func (e *Editor) Update(in FrameInput) error {
	var firstErr error
	fail := func(err error) {
		if err == nil {
			return
		}
		e.report(err)
		if firstErr == nil {
			firstErr = err
		}
	}

	// Phase 1: UI
	fail(e.applyPanel(in.Panel))

	// Phase 2: transform sync
	switch s := e.State.(type) {
	case *Loading:
		fail(e.pollLoading(s))
	case *Loaded:
		e.syncTransforms(s)
	case *Testing:
		s.Session.Update(in.Dt, in.Move)
		if e.Rig != nil && s.Session.Scene != nil {
			e.Rig.Pivot = s.Session.Scene.Player().Transform.Position
		}
	}

	// Phase 3: interaction
	if s, ok := e.State.(*Loaded); ok {
		fail(e.interact(s, in))
	}
	return firstErr
}

func (e *Editor) report(err error) {
	log.Printf("Editor: %v", err)
	e.OnStatus.Invoke(Status{Message: err.Error(), Err: err})
}

func (e *Editor) notify(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("Editor: %s", msg)
	e.OnStatus.Invoke(Status{Message: msg})
}

// --- Phase 1: panel ---

func (e *Editor) applyPanel(p PanelInput) error {
	if p.Mode != nil {
		if err := e.SetMode(*p.Mode); err != nil {
			return err
		}
	}
	if p.SpawnKind != nil {
		if err := e.SetSpawnKind(*p.SpawnKind); err != nil {
			return err
		}
	}
	if p.Position != nil || p.Size != nil {
		if err := e.editSelected(p.Position, p.Size); err != nil {
			return err
		}
	}

	switch {
	case p.SaveClicked:
		if p.Path != "" {
			return e.SaveAs(p.Path)
		}
		return e.Save()
	case p.LoadClicked:
		return e.RequestLoad(p.Path)
	case p.TestClicked:
		return e.StartTest()
	case p.ExitClicked:
		return e.StopTest()
	}
	return nil
}

// editSelected writes panel values into the selected document item. The entity
// follows in the sync phase of the same frame.
func (e *Editor) editSelected(pos *rl.Vector3, size *level.Size) error {
	s, ok := e.State.(*Loaded)
	if !ok {
		return ErrNotLoaded
	}
	i, item, ok, err := e.selectedItem(s)
	if err != nil || !ok {
		return err
	}
	if pos != nil {
		*item.Position() = *pos
	}
	if sz := item.Size(); size != nil && sz != nil {
		*sz = *size
	}
	s.Dirty = true
	log.Printf("Editor: edited item %d (%s)", i, item.Kind())
	return nil
}

// --- Phase 2: sync ---

func (e *Editor) syncTransforms(s *Loaded) {
	for i, g := range s.Sync.Entities() {
		world.ApplyItem(g, s.Document.Items[i])
	}
	if s.Player != nil {
		s.Player.Transform.Position = s.Document.PlayerStart
	}
}

// --- Phase 3: interaction ---

func (e *Editor) interact(s *Loaded, in FrameInput) error {
	if s.Camera == nil {
		return ErrNoActiveCamera
	}
	if in.Window == nil {
		return ErrNoPrimaryWindow
	}

	// Zoom and free rotation work in both modes
	s.Camera.Zoom(in.Wheel)
	if in.RightPressed {
		e.rotating = true
	}
	if in.RightReleased {
		e.rotating = false
	}
	if e.rotating {
		s.Camera.Rotate(in.CursorDelta.X, in.CursorDelta.Y, e.Settings.LookSpeed)
	}

	switch m := s.Mode.(type) {
	case *CameraMode:
		if in.LeftPressed {
			m.Panning = true
		}
		if in.LeftReleased {
			m.Panning = false
		}
		if m.Panning {
			s.Camera.Pan(in.CursorDelta.X, in.CursorDelta.Y, e.Settings.PanScale)
		}
		return nil
	case *ObjectMode:
		return e.interactObject(s, m, in)
	}
	return nil
}

func (e *Editor) interactObject(s *Loaded, m *ObjectMode, in FrameInput) error {
	if in.DeletePressed {
		if err := e.deleteSelected(s); err != nil {
			return err
		}
	}

	cam := s.Camera.Camera3D()
	ray := e.RayFunc(in.Cursor, cam, in.Window.Width, in.Window.Height)
	hit, hitOK := e.Picker.Pick(cam.Position, ray)
	if hitOK {
		if _, err := s.Sync.IndexOf(hit.Entity); err != nil {
			return err
		}
	}

	switch a := m.Action.(type) {
	case Idle:
		if in.LeftPressed {
			if hitOK {
				e.Highlights.Select(hit.Entity)
				m.Action = &Moving{Drag: DragProjector{Anchor: hit.Point}}
			} else {
				e.Highlights.Deselect()
			}
		}
	case *Moving:
		if in.LeftReleased || !in.LeftDown {
			m.Action = Idle{}
			break
		}
		if delta, ok := a.Drag.Step(s.Camera.Forward(), ray); ok {
			if err := e.moveSelected(s, delta); err != nil {
				return err
			}
		}
	}

	if hitOK {
		e.Highlights.SetHover(hit.Entity)
	} else {
		e.Highlights.SetHover(nil)
	}

	if in.SpawnPressed {
		e.spawnAt(s, ray)
	}
	return nil
}

// moveSelected translates every selected item and its entity by delta.
func (e *Editor) moveSelected(s *Loaded, delta rl.Vector3) error {
	for _, g := range e.Highlights.Selected() {
		i, err := s.Sync.IndexOf(g)
		if err != nil {
			return err
		}
		pos := s.Document.Items[i].Position()
		*pos = rl.Vector3Add(*pos, delta)
		g.Transform.Position = *pos
	}
	s.Dirty = true
	return nil
}

func (e *Editor) deleteSelected(s *Loaded) error {
	selected := e.Highlights.Selected()
	if len(selected) == 0 {
		return nil
	}
	indices := make([]int, 0, len(selected))
	for _, g := range selected {
		i, err := s.Sync.IndexOf(g)
		if err != nil {
			return err
		}
		indices = append(indices, i)
	}
	e.Highlights.ClearAll()
	if err := s.Sync.RemoveSelected(s.Document, indices); err != nil {
		return err
	}
	s.Dirty = true
	log.Printf("Editor: deleted %d item(s), %d left", len(indices), len(s.Document.Items))
	return nil
}

// spawnAt appends a wall where ray meets the pan plane. A parallel ray or a
// plane behind the camera spawns nothing.
func (e *Editor) spawnAt(s *Loaded, ray rl.Ray) {
	p, ok := RayPlane(ray.Position, ray.Direction, s.Camera.Pivot, s.Camera.Back())
	if !ok {
		return
	}
	g := s.Sync.Insert(s.Document, level.NewWall(s.SpawnKind, p))
	s.Dirty = true
	log.Printf("Editor: spawned %s wall at (%.2f, %.2f, %.2f)", s.SpawnKind, p.X, p.Y, p.Z)

	if n := len(e.World.Overlapping(g)); n > 0 {
		e.notify("new %s wall overlaps %d item(s)", s.SpawnKind, n)
	}
}

// --- Transitions ---

// RequestLoad tears down the current scene and starts loading path.
func (e *Editor) RequestLoad(p string) error {
	if p == "" {
		return ErrEmptyPath
	}
	e.teardown()
	e.State = &Loading{
		Path:    p,
		Handle:  e.Loader.Load(p),
		Started: e.Now(),
	}
	return nil
}

func (e *Editor) pollLoading(s *Loading) error {
	doc, ready, err := s.Handle.Poll()
	if !ready {
		return nil
	}
	if err != nil {
		e.State = &Empty{}
		lf := &LoadFailedError{Path: s.Path, Err: err}
		if errors.Is(err, fs.ErrNotExist) {
			lf.Suggestions = e.Loader.Suggest(s.Path)
		}
		return lf
	}
	e.enterLoaded(s.Path, doc, ModeCamera, level.WallNeutral, false)
	e.notify("loaded %s (%d items) in %s", s.Path, len(doc.Items), e.Now().Sub(s.Started).Round(time.Millisecond))
	return nil
}

// enterLoaded builds the editable scene for doc.
func (e *Editor) enterLoaded(p string, doc *level.Document, mode ModeKind, spawnKind level.WallType, dirty bool) {
	if e.Rig == nil {
		e.Rig = camera.New(doc.PlayerStart)
	}
	sync := NewSceneSync(e.World)
	sync.Rebuild(doc)
	e.State = &Loaded{
		Path:      p,
		Document:  doc,
		Camera:    e.Rig,
		Player:    e.World.SpawnPlayer(doc.PlayerStart),
		Sync:      sync,
		Mode:      newMode(mode),
		SpawnKind: spawnKind,
		Dirty:     dirty,
	}
}

// teardown despawns whatever the current state has in the world.
func (e *Editor) teardown() {
	e.rotating = false
	switch s := e.State.(type) {
	case *Loaded:
		e.Highlights.ClearAll()
		s.Sync.Clear()
		e.World.Despawn(s.Player)
	case *Testing:
		s.Session.Stop()
		if e.Rig != nil {
			e.Rig.Pivot = s.Session.pivot
		}
	}
	e.State = &Empty{}
}

// StartTest swaps the editable scene for a gameplay scene built from a snapshot.
func (e *Editor) StartTest() error {
	s, ok := e.State.(*Loaded)
	if !ok {
		return fmt.Errorf("%w: start test from %s", ErrInvalidTransition, e.State.Name())
	}
	session, err := NewTestSession(s.Path, s.Document)
	if err != nil {
		return err
	}

	e.Highlights.ClearAll()
	s.Sync.Clear()
	e.World.Despawn(s.Player)
	e.rotating = false

	session.Start(e.World)
	session.Scene.OnGoal.AddListener(func() {
		msg := "goal reached"
		if next := session.Scene.NextLevel; next != nil {
			msg += ", next level " + *next
		}
		e.notify("%s", msg)
	})
	e.State = &Testing{
		Path:      s.Path,
		Document:  session.Document,
		Session:   session,
		spawnKind: s.SpawnKind,
		dirty:     s.Dirty,
	}
	if e.Rig != nil {
		session.pivot = e.Rig.Pivot
	}
	return nil
}

// StopTest despawns the gameplay scene and rebuilds the editable scene from the
// captured document.
func (e *Editor) StopTest() error {
	s, ok := e.State.(*Testing)
	if !ok {
		return fmt.Errorf("%w: stop test from %s", ErrInvalidTransition, e.State.Name())
	}
	doc := s.Session.Stop()
	if e.Rig != nil {
		e.Rig.Pivot = s.Session.pivot
	}
	e.enterLoaded(s.Path, doc, ModeCamera, s.spawnKind, s.dirty)
	return nil
}

// SetMode switches the editing mode. The sub-action always returns to Idle and
// panning stops. Camera mode drops all decorations.
func (e *Editor) SetMode(k ModeKind) error {
	s, ok := e.State.(*Loaded)
	if !ok {
		return ErrNotLoaded
	}
	s.Mode = newMode(k)
	if k == ModeCamera {
		e.Highlights.ClearAll()
	}
	return nil
}

func (e *Editor) SetSpawnKind(t level.WallType) error {
	s, ok := e.State.(*Loaded)
	if !ok {
		return ErrNotLoaded
	}
	s.SpawnKind = t
	return nil
}

// Save writes the document back to the path it was loaded from.
func (e *Editor) Save() error {
	s, ok := e.State.(*Loaded)
	if !ok {
		return ErrNotLoaded
	}
	return e.SaveAs(s.Path)
}

// SaveAs writes the document to <AssetDir>/<p>. On failure the editor stays in
// Loaded with the document untouched.
func (e *Editor) SaveAs(p string) error {
	s, ok := e.State.(*Loaded)
	if !ok {
		return ErrNotLoaded
	}
	if p == "" {
		return &SaveFailedError{Path: p, Err: ErrEmptyPath}
	}
	if err := level.Save(e.AssetDir, p, s.Document); err != nil {
		return &SaveFailedError{Path: p, Err: err}
	}
	s.Path = p
	s.Dirty = false
	e.savedAt[path.Clean(p)] = e.Now()
	e.notify("saved %s", p)
	return nil
}

// HandleFileChanged reloads the open level when its file changes on disk. Our
// own saves and levels with unsaved edits are left alone.
func (e *Editor) HandleFileChanged(p string) error {
	s, ok := e.State.(*Loaded)
	if !ok || path.Clean(p) != path.Clean(s.Path) {
		return nil
	}
	if at, ok := e.savedAt[path.Clean(p)]; ok && e.Now().Sub(at) < ownSaveWindow {
		return nil
	}
	if s.Dirty {
		log.Printf("Editor: %s changed on disk, keeping unsaved edits", p)
		return nil
	}
	log.Printf("Editor: %s changed on disk, reloading", p)
	return e.RequestLoad(s.Path)
}

// SelectedItem returns the document item behind the selection.
func (e *Editor) SelectedItem() (int, level.Item, bool) {
	s, ok := e.State.(*Loaded)
	if !ok {
		return -1, level.Item{}, false
	}
	i, item, ok, err := e.selectedItem(s)
	if err != nil {
		return -1, level.Item{}, false
	}
	return i, item, ok
}

func (e *Editor) selectedItem(s *Loaded) (int, level.Item, bool, error) {
	sel := e.Highlights.Selected()
	if len(sel) == 0 {
		return -1, level.Item{}, false, nil
	}
	i, err := s.Sync.IndexOf(sel[0])
	if err != nil {
		return -1, level.Item{}, false, err
	}
	return i, s.Document.Items[i], true, nil
}

// Check verifies the document/entity invariants of the current state.
func (e *Editor) Check() error {
	switch s := e.State.(type) {
	case *Loaded:
		if err := s.Sync.Check(s.Document); err != nil {
			return err
		}
		for i, g := range s.Sync.Entities() {
			if !e.World.IsLive(g) {
				return fmt.Errorf("scene sync: entity %d is not live", i)
			}
		}
	}
	return nil
}

// Camera returns the camera to draw the current state with.
func (e *Editor) Camera() (rl.Camera3D, error) {
	if e.Rig == nil {
		return rl.Camera3D{}, ErrNoActiveCamera
	}
	if s, ok := e.State.(*Loaded); ok && s.Camera == nil {
		return rl.Camera3D{}, ErrNoActiveCamera
	}
	return e.Rig.Camera3D(), nil
}
