package game

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"hovercourse/internal/editor"
	"hovercourse/internal/level"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// EditorPrefs holds persistent editor preferences saved between sessions
type EditorPrefs struct {
	WindowWidth    int        `json:"windowWidth"`
	WindowHeight   int        `json:"windowHeight"`
	WindowX        int        `json:"windowX"`
	WindowY        int        `json:"windowY"`
	CameraPivot    rl.Vector3 `json:"cameraPivot"`
	CameraYaw      float32    `json:"cameraYaw"`
	CameraPitch    float32    `json:"cameraPitch"`
	CameraDistance float32    `json:"cameraDistance"`
	SpawnKind      string     `json:"spawnKind"`
	LevelPath      string     `json:"levelPath"`
}

const editorPrefsFile = ".editor_prefs.json"

// LoadEditorPrefs loads editor preferences from disk
func LoadEditorPrefs(path string) *EditorPrefs {
	prefs, err := ReadPrefs(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Editor: %v", err)
		}
		return nil
	}
	return prefs
}

func ReadPrefs(path string) (*EditorPrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var prefs EditorPrefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("parse editor prefs: %w", err)
	}
	return &prefs, nil
}

func WritePrefs(path string, prefs *EditorPrefs) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal editor prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save editor prefs: %w", err)
	}
	return nil
}

// CollectPrefs captures the editor's camera, spawn kind and level path.
func CollectPrefs(ed *editor.Editor) *EditorPrefs {
	prefs := &EditorPrefs{}
	if ed.Rig != nil {
		prefs.CameraPivot = ed.Rig.Pivot
		prefs.CameraYaw = ed.Rig.Yaw
		prefs.CameraPitch = ed.Rig.Pitch
		prefs.CameraDistance = ed.Rig.Distance
	}
	switch s := ed.State.(type) {
	case *editor.Loaded:
		prefs.LevelPath = s.Path
		prefs.SpawnKind = s.SpawnKind.String()
	case *editor.Testing:
		prefs.LevelPath = s.Path
	}
	return prefs
}

// ApplyPrefs applies loaded preferences to the editor camera. The spawn kind is
// applied once a level is loaded.
func ApplyPrefs(ed *editor.Editor, prefs *EditorPrefs) {
	if prefs == nil || ed.Rig == nil {
		return
	}
	ed.Rig.Pivot = prefs.CameraPivot
	ed.Rig.Yaw = prefs.CameraYaw
	ed.Rig.Pitch = prefs.CameraPitch
	if prefs.CameraDistance > 0 {
		ed.Rig.Distance = prefs.CameraDistance
	}
}

// SavePrefs saves the current editor state to disk
func (g *Game) SavePrefs() {
	prefs := CollectPrefs(g.Editor)
	prefs.WindowWidth = rl.GetScreenWidth()
	prefs.WindowHeight = rl.GetScreenHeight()
	prefs.WindowX = int(rl.GetWindowPosition().X)
	prefs.WindowY = int(rl.GetWindowPosition().Y)
	if err := WritePrefs(g.prefsPath, prefs); err != nil {
		log.Printf("Editor: %v", err)
	}
}

// ApplyPrefs applies loaded preferences to the window and the editor.
func (g *Game) ApplyPrefs(prefs *EditorPrefs) {
	if prefs == nil {
		return
	}
	if prefs.WindowX != 0 || prefs.WindowY != 0 {
		rl.SetWindowPosition(prefs.WindowX, prefs.WindowY)
	}
	ApplyPrefs(g.Editor, prefs)
	if t, err := level.ParseWallType(prefs.SpawnKind); err == nil {
		g.spawnKind = &t
	}
}
