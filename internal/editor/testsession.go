package editor

import (
	"fmt"
	"log"

	"hovercourse/internal/gameplay"
	"hovercourse/internal/level"
	"hovercourse/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TestSession plays a snapshot of the document. Nothing the simulation does is
// written back: Document is what the editable scene is rebuilt from on Stop.
type TestSession struct {
	Path     string
	Document *level.Document
	Scene    *gameplay.Scene

	pivot rl.Vector3 // editor camera pivot to restore on stop
}

// NewTestSession captures path and a deep copy of doc.
func NewTestSession(path string, doc *level.Document) (*TestSession, error) {
	snap, err := doc.Clone()
	if err != nil {
		return nil, fmt.Errorf("test session: %w", err)
	}
	return &TestSession{Path: path, Document: snap}, nil
}

// Start spawns the gameplay scene into w. The editable scene must already be gone.
func (t *TestSession) Start(w *world.World) {
	t.Scene = gameplay.New(t.Document, w)
	log.Printf("Editor: test session started for %s", t.Path)
}

func (t *TestSession) Update(dt float32, move rl.Vector2) {
	if t.Scene != nil {
		t.Scene.Update(dt, move)
	}
}

// Stop despawns the gameplay scene and returns the captured document.
func (t *TestSession) Stop() *level.Document {
	if t.Scene != nil {
		t.Scene.Close()
		t.Scene = nil
	}
	log.Printf("Editor: test session stopped for %s", t.Path)
	return t.Document
}
