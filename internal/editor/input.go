package editor

import (
	"hovercourse/internal/level"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Viewport is the primary window's drawable area.
type Viewport struct {
	Width  int32
	Height int32
}

func (v *Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// FrameInput is one frame of polled input. The frontend fills it; the editor
// never reads devices itself.
type FrameInput struct {
	Dt     float32
	Window *Viewport // nil when there is no primary window

	Cursor      rl.Vector2
	CursorDelta rl.Vector2

	LeftPressed  bool
	LeftReleased bool
	LeftDown     bool

	RightPressed  bool
	RightReleased bool
	Wheel         float32

	SpawnPressed  bool
	DeletePressed bool

	// Move is the test-play thrust: X along world X, Y along world Z.
	Move rl.Vector2

	Panel PanelInput
}

// PanelInput carries edits made in the editor panel this frame. nil fields were
// not touched.
type PanelInput struct {
	Path        string
	SaveClicked bool
	LoadClicked bool
	TestClicked bool
	ExitClicked bool

	Mode      *ModeKind
	SpawnKind *level.WallType

	// Applied to the selected item.
	Position *rl.Vector3
	Size     *level.Size
}
