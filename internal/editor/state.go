package editor

import (
	"time"

	"hovercourse/internal/assets"
	"hovercourse/internal/camera"
	"hovercourse/internal/engine"
	"hovercourse/internal/level"
)

// State is the top-level editor state. The set of variants is closed.
type State interface {
	Name() string
	isState()
}

// Empty: no level loaded.
type Empty struct{}

// Loading waits on an asynchronous level fetch, polled once per frame.
type Loading struct {
	Path    string
	Handle  *assets.Handle
	Started time.Time
}

// Loaded is the editable scene. Sync holds one entity per Document item.
type Loaded struct {
	Path      string
	Document  *level.Document
	Camera    *camera.Rig
	Player    *engine.GameObject
	Sync      *SceneSync
	Mode      Mode
	SpawnKind level.WallType
	Dirty     bool // unsaved edits
}

// Testing runs a gameplay scene built from a snapshot of the document.
type Testing struct {
	Path     string
	Document *level.Document
	Session  *TestSession

	spawnKind level.WallType
	dirty     bool
}

func (*Empty) Name() string   { return "Empty" }
func (*Loading) Name() string { return "Loading" }
func (*Loaded) Name() string  { return "Loaded" }
func (*Testing) Name() string { return "Testing" }

func (*Empty) isState()   {}
func (*Loading) isState() {}
func (*Loaded) isState()  {}
func (*Testing) isState() {}

// ModeKind names an editing mode for requests coming from the panel.
type ModeKind int

const (
	ModeCamera ModeKind = iota
	ModeObject
)

func (k ModeKind) String() string {
	if k == ModeObject {
		return "Object"
	}
	return "Camera"
}

// Mode is the editing mode while Loaded.
type Mode interface {
	Kind() ModeKind
	isMode()
}

// CameraMode: left drag pans the rig.
type CameraMode struct {
	Panning bool
}

// ObjectMode: left click selects and drags, Space spawns, Delete removes.
type ObjectMode struct {
	Action Action
}

func (*CameraMode) Kind() ModeKind { return ModeCamera }
func (*ObjectMode) Kind() ModeKind { return ModeObject }
func (*CameraMode) isMode()        {}
func (*ObjectMode) isMode()        {}

// Action is the sub-action in Object mode.
type Action interface {
	isAction()
}

type Idle struct{}

// Moving drags the selection on the plane through Drag.Anchor.
type Moving struct {
	Drag DragProjector
}

func (Idle) isAction()    {}
func (*Moving) isAction() {}

func newMode(k ModeKind) Mode {
	if k == ModeObject {
		return &ObjectMode{Action: Idle{}}
	}
	return &CameraMode{}
}
