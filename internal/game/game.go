package game

import (
	"fmt"
	"log"
	"time"

	"hovercourse/internal/assets"
	"hovercourse/internal/audio"
	"hovercourse/internal/camera"
	"hovercourse/internal/config"
	"hovercourse/internal/editor"
	"hovercourse/internal/level"
	"hovercourse/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Game is the raylib frontend around the editor: it owns the window, polls
// input into editor.FrameInput and draws the world and the panel.
type Game struct {
	Config   config.Config
	World    *world.World
	Editor   *editor.Editor
	Renderer *world.Renderer
	Panel    *Panel

	watcher   *assets.Watcher
	prefsPath string
	pending   editor.PanelInput // panel edits from the previous frame's draw
	spawnKind *level.WallType   // from prefs, applied on the first load
	hooked    *editor.TestSession // session whose events drive the audio cues

	// Debug timing (ms)
	DebugMode bool
	updateMs  float64
	drawMs    float64
}

func New(cfg config.Config) *Game {
	w := world.New()
	loader := assets.NewLoader(cfg.AssetDir, cfg.LoadTimeout)

	ed := editor.New(w, loader, cfg.AssetDir)
	ed.Settings = editor.Settings{
		PanScale:     cfg.Camera.PanScale,
		LookSpeed:    cfg.Camera.LookSpeed,
		PickDistance: cfg.PickDistance,
	}
	ed.Picker.MaxDistance = cfg.PickDistance

	g := &Game{
		Config:    cfg,
		World:     w,
		Editor:    ed,
		Renderer:  world.NewRenderer(),
		Panel:     NewPanel(),
		prefsPath: editorPrefsFile,
	}
	ed.OnStatus.AddListener(g.Panel.SetStatus)
	return g
}

// Run opens the window and runs the frame loop until the window closes. level
// overrides the start level from the config and the prefs.
func (g *Game) Run(level string) error {
	prefs := LoadEditorPrefs(g.prefsPath)

	width, height := g.Config.Window.Width, g.Config.Window.Height
	if prefs != nil && prefs.WindowWidth > 0 && prefs.WindowHeight > 0 {
		width, height = int32(prefs.WindowWidth), int32(prefs.WindowHeight)
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable)
	rl.InitWindow(width, height, g.Config.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(g.Config.Window.TargetFPS)
	rl.SetExitKey(0)

	g.Editor.Rig = g.newRig()
	g.ApplyPrefs(prefs)
	initRayguiStyle(g.Config.AssetDir)

	audio.Init(g.Config.AssetDir)
	defer audio.Close()

	if g.Config.WatchLevels {
		watcher, err := assets.NewWatcher(g.Config.AssetDir, g.Config.LevelDirs...)
		if err != nil {
			log.Printf("Assets: level watching disabled: %v", err)
		} else {
			g.watcher = watcher
			defer watcher.Close()
		}
	}

	start := g.Config.StartLevel
	if prefs != nil && prefs.LevelPath != "" {
		start = prefs.LevelPath
	}
	if level != "" {
		start = level
	}
	if start != "" {
		g.Panel.Path = start
		if err := g.Editor.RequestLoad(start); err != nil {
			return fmt.Errorf("game: %w", err)
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
	g.SavePrefs()
	return nil
}

func (g *Game) newRig() *camera.Rig {
	rig := camera.New(rl.Vector3{})
	rig.MinDistance = g.Config.Camera.MinDistance
	rig.MaxDistance = g.Config.Camera.MaxDistance
	return rig
}

func (g *Game) Update() {
	updateStart := time.Now()

	if g.watcher != nil {
		for _, path := range g.watcher.Drain() {
			// Errors are already on the status line
			_ = g.Editor.HandleFileChanged(path)
		}
	}

	in := g.pollInput()
	in.Panel, g.pending = g.pending, editor.PanelInput{}
	_ = g.Editor.Update(in)
	if _, ok := g.Editor.State.(*editor.Loaded); ok && g.spawnKind != nil {
		if err := g.Editor.SetSpawnKind(*g.spawnKind); err != nil {
			log.Printf("Editor: spawn kind from prefs: %v", err)
		}
		g.spawnKind = nil
	}
	g.updateAudio()

	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

// updateAudio keeps the cues in step with test play: they sound only while a
// session runs, heard from the camera.
func (g *Game) updateAudio() {
	st, ok := g.Editor.State.(*editor.Testing)
	if !ok {
		if g.hooked != nil {
			audio.SetPlayMode(false)
			g.hooked = nil
		}
		return
	}

	if st.Session != g.hooked {
		g.hooked = st.Session
		scene := st.Session.Scene
		scene.OnCollect.AddListener(func(p rl.Vector3) { audio.PlayAt(audio.CueFuel, p) })
		scene.OnReset.AddListener(func(p rl.Vector3) { audio.PlayAt(audio.CueReset, p) })
		scene.OnGoal.AddListener(func() { audio.PlayAt(audio.CueGoal, scene.Player().Transform.Position) })
		audio.SetPlayMode(true)
	}

	if cam, err := g.Editor.Camera(); err == nil {
		audio.SetListener(cam.Position, rl.Vector3Subtract(cam.Target, cam.Position), cam.Up)
	}
}

func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBgDark)

	drawStart := time.Now()
	if cam, err := g.Editor.Camera(); err == nil {
		vp := editor.Viewport{Width: int32(rl.GetScreenWidth()), Height: int32(rl.GetScreenHeight())}
		rl.BeginMode3D(cam)
		g.Renderer.Draw(cam, vp.Aspect(), g.World.Scene.GameObjects)
		rl.EndMode3D()
	}
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.pending = g.Panel.Draw(g.Editor)
	g.drawHUD()
	rl.EndDrawing()
}

func (g *Game) drawHUD() {
	x := g.Panel.Width + 10
	switch s := g.Editor.State.(type) {
	case *editor.Empty:
		drawTextEx(editorFont, "No level loaded. Enter a path and press Load.", x, 10, 18, colorTextSecondary)
	case *editor.Loading:
		drawTextEx(editorFont, "Loading "+s.Path+"...", x, 10, 18, colorTextSecondary)
	case *editor.Loaded:
		help := "Camera: drag to pan, right drag to rotate, wheel to zoom"
		if s.Mode.Kind() == editor.ModeObject {
			help = "Object: click to select, drag to move, Space to spawn, Delete to remove"
		}
		drawTextEx(editorFont, help, x, 10, 18, colorTextSecondary)
		if s.Dirty {
			drawTextEx(editorFont, "unsaved changes", x, 32, 16, colorAccentLight)
		}
	case *editor.Testing:
		scene := s.Session.Scene
		drawTextEx(editorFont, "Testing: WASD to move", x, 10, 18, colorTextSecondary)
		drawTextEx(editorFontMono, fmt.Sprintf("fuel %d/%d  resets %d", scene.Collected, scene.Collected+scene.RemainingFuel(), scene.Resets), x, 32, 16, colorTextPrimary)
		if scene.Won {
			drawTextEx(editorFontBold, "GOAL!", x, 54, 32, rl.Green)
		}
		for i, line := range s.Document.InitialOverlay {
			drawTextEx(editorFont, line, x, 100+int32(i)*22, 18, colorTextMuted)
		}
	}

	if g.DebugMode {
		y := int32(rl.GetScreenHeight()) - 90
		rl.DrawFPS(x, y)
		rl.DrawText(fmt.Sprintf("Update: %.2f ms", g.updateMs), x, y+25, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Draw:   %.2f ms (%d drawn, %d culled)", g.drawMs, g.Renderer.Drawn, g.Renderer.Culled), x, y+45, 16, rl.Green)
	}
}
