package game

import (
	"hovercourse/internal/editor"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// pollInput reads the devices once for this frame. Mouse buttons over the panel
// and keys typed into a panel field are not forwarded to the editor.
func (g *Game) pollInput() editor.FrameInput {
	in := editor.FrameInput{
		Dt:          rl.GetFrameTime(),
		Cursor:      rl.GetMousePosition(),
		CursorDelta: rl.GetMouseDelta(),
	}
	if rl.IsWindowReady() {
		in.Window = &editor.Viewport{
			Width:  int32(rl.GetScreenWidth()),
			Height: int32(rl.GetScreenHeight()),
		}
	}

	overPanel := g.Panel.Contains(in.Cursor)
	if !overPanel {
		in.LeftPressed = rl.IsMouseButtonPressed(rl.MouseLeftButton)
		in.RightPressed = rl.IsMouseButtonPressed(rl.MouseRightButton)
		in.Wheel = rl.GetMouseWheelMove()
	}
	// Releases always go through so a drag that ends over the panel still stops.
	in.LeftReleased = rl.IsMouseButtonReleased(rl.MouseLeftButton)
	in.LeftDown = rl.IsMouseButtonDown(rl.MouseLeftButton)
	in.RightReleased = rl.IsMouseButtonReleased(rl.MouseRightButton)

	if !g.Panel.Editing() {
		in.SpawnPressed = rl.IsKeyPressed(rl.KeySpace)
		in.DeletePressed = rl.IsKeyPressed(rl.KeyDelete) || rl.IsKeyPressed(rl.KeyBackspace)
		in.Move = moveAxis()
	}
	return in
}

// moveAxis maps WASD and the arrow keys to the test-play thrust.
func moveAxis() rl.Vector2 {
	var m rl.Vector2
	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		m.Y--
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		m.Y++
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		m.X--
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		m.X++
	}
	return m
}
