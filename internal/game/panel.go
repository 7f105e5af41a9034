package game

import (
	"fmt"
	"strconv"
	"time"

	"hovercourse/internal/editor"
	"hovercourse/internal/level"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const statusDuration = 5 * time.Second

// spawnKinds is the order of the spawn-kind toggle group.
var spawnKinds = []level.WallType{level.WallAvoid, level.WallNeutral, level.WallGoal}

// Panel is the editor side panel. Draw returns this frame's edits; the game
// hands them to the editor on the next Update.
type Panel struct {
	Width int32
	Path  string

	pathEdit bool

	// Float field editing state
	activeInputID     string
	inputTextValue    string
	fieldDragging     bool
	fieldDragID       string
	fieldDragStartX   float32
	fieldDragStartVal float32

	status     string
	statusErr  bool
	statusTime time.Time
}

func NewPanel() *Panel {
	return &Panel{Width: 260}
}

// SetStatus shows st on the status line for a few seconds.
func (p *Panel) SetStatus(st editor.Status) {
	p.status = st.Message
	p.statusErr = st.Err != nil
	p.statusTime = time.Now()
}

func (p *Panel) Contains(point rl.Vector2) bool {
	return point.X >= 0 && point.X < float32(p.Width)
}

// Editing reports whether keyboard input belongs to a panel field.
func (p *Panel) Editing() bool {
	return p.pathEdit || p.activeInputID != ""
}

func (p *Panel) Draw(ed *editor.Editor) editor.PanelInput {
	var in editor.PanelInput
	screenH := int32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, p.Width, screenH, colorBgPanel)
	rl.DrawLine(p.Width, 0, p.Width, screenH, colorBorder)

	x, w := int32(10), p.Width-20
	y := int32(10)

	drawTextEx(editorFontBold, "Level", x, y, 20, colorTextPrimary)
	y += 28

	if gui.TextBox(rect(x, y, w, 26), &p.Path, 128, p.pathEdit) {
		p.pathEdit = !p.pathEdit
	}
	y += 32

	half := (w - 6) / 2
	in.Path = p.Path
	if gui.Button(rect(x, y, half, 26), "Save") {
		in.SaveClicked = true
	}
	if gui.Button(rect(x+half+6, y, half, 26), "Load") {
		in.LoadClicked = true
	}
	y += 40

	switch s := ed.State.(type) {
	case *editor.Loaded:
		y = p.drawLoaded(ed, s, &in, x, y, w)
	case *editor.Testing:
		drawTextEx(editorFont, "Testing "+s.Path, x, y, 16, colorTextSecondary)
		y += 26
		if gui.Button(rect(x, y, w, 30), "Exit test") {
			in.ExitClicked = true
		}
	}

	p.drawStatus(x, screenH-30)
	return in
}

func (p *Panel) drawLoaded(ed *editor.Editor, s *editor.Loaded, in *editor.PanelInput, x, y, w int32) int32 {
	drawTextEx(editorFont, "Mode", x, y, 16, colorTextMuted)
	y += 20
	mode := int32(s.Mode.Kind())
	if next := gui.ToggleGroup(rect(x, y, (w-4)/2, 26), "Camera;Object", mode); next != mode {
		k := editor.ModeKind(next)
		in.Mode = &k
	}
	y += 36

	drawTextEx(editorFont, "Spawn kind", x, y, 16, colorTextMuted)
	y += 20
	kind := int32(0)
	for i, t := range spawnKinds {
		if t == s.SpawnKind {
			kind = int32(i)
		}
	}
	if next := gui.ToggleGroup(rect(x, y, (w-8)/3, 26), "Avoid;Neutral;Goal", kind); next != kind {
		in.SpawnKind = &spawnKinds[next]
	}
	y += 40

	if i, item, ok := ed.SelectedItem(); ok {
		drawTextEx(editorFontBold, fmt.Sprintf("%s #%d", item.Kind(), i), x, y, 18, colorTextPrimary)
		y += 26

		fieldW := (w - 4) / 3
		pos := *item.Position()
		next := pos
		drawTextEx(editorFont, "Position", x, y, 16, colorTextMuted)
		y += 20
		next.X = p.drawFloatField(x, y, fieldW, 24, "pos.x", pos.X)
		next.Y = p.drawFloatField(x+fieldW+2, y, fieldW, 24, "pos.y", pos.Y)
		next.Z = p.drawFloatField(x+2*(fieldW+2), y, fieldW, 24, "pos.z", pos.Z)
		if next != pos {
			in.Position = &next
		}
		y += 32

		if size := item.Size(); size != nil {
			sz := *size
			fieldW = (w - 2) / 2
			drawTextEx(editorFont, "Size (width, depth)", x, y, 16, colorTextMuted)
			y += 20
			sz.Width = p.drawFloatField(x, y, fieldW, 24, "size.w", size.Width)
			sz.Depth = p.drawFloatField(x+fieldW+2, y, fieldW, 24, "size.d", size.Depth)
			if sz != *size {
				in.Size = &sz
			}
			y += 32
		}
	}

	y += 8
	if gui.Button(rect(x, y, w, 30), "Test") {
		in.TestClicked = true
	}
	return y + 40
}

func (p *Panel) drawStatus(x, y int32) {
	if p.status == "" || time.Since(p.statusTime) > statusDuration {
		return
	}
	color := colorTextSecondary
	if p.statusErr {
		color = colorError
	}
	drawTextEx(editorFont, p.status, x, y, 15, color)
}

// drawFloatField is a numeric field: drag horizontally to scrub, click to type.
func (p *Panel) drawFloatField(x, y, w, h int32, id string, value float32) float32 {
	mousePos := rl.GetMousePosition()
	hovered := mousePos.X >= float32(x) && mousePos.X <= float32(x+w) &&
		mousePos.Y >= float32(y) && mousePos.Y <= float32(y+h)

	editMode := p.activeInputID == id
	isDragging := p.fieldDragging && p.fieldDragID == id

	bgColor := colorBgElement
	if editMode {
		bgColor = colorBgActive
	} else if hovered || isDragging {
		bgColor = colorBgHover
	}
	bounds := rect(x, y, w, h)
	rl.DrawRectangleRounded(bounds, 0.2, 4, bgColor)
	if editMode {
		rl.DrawRectangleRoundedLinesEx(bounds, 0.2, 4, 1, colorAccent)
	}

	// Drag to scrub when not typing
	if !editMode {
		if hovered && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			p.fieldDragging = true
			p.fieldDragID = id
			p.fieldDragStartX = mousePos.X
			p.fieldDragStartVal = value
		}

		if isDragging {
			if rl.IsMouseButtonDown(rl.MouseLeftButton) {
				// 100 pixels = 1.0, shift for fine control
				sensitivity := float32(0.01)
				if rl.IsKeyDown(rl.KeyLeftShift) {
					sensitivity = 0.001
				}
				value = p.fieldDragStartVal + (mousePos.X-p.fieldDragStartX)*sensitivity
			} else {
				dragDist := mousePos.X - p.fieldDragStartX
				if dragDist > -2 && dragDist < 2 {
					// A click, not a drag
					p.activeInputID = id
					p.inputTextValue = strconv.FormatFloat(float64(value), 'f', 2, 32)
				}
				p.fieldDragging = false
				p.fieldDragID = ""
			}
		}
	}

	if !editMode {
		drawTextEx(editorFontMono, strconv.FormatFloat(float64(value), 'f', 2, 32), x+6, y+5, 15, colorTextSecondary)
		return value
	}

	drawTextEx(editorFontMono, p.inputTextValue+"_", x+6, y+5, 15, colorTextPrimary)
	for {
		key := rl.GetCharPressed()
		if key == 0 {
			break
		}
		ch := rune(key)
		if (ch >= '0' && ch <= '9') || ch == '-' || ch == '.' {
			p.inputTextValue += string(ch)
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(p.inputTextValue) > 0 {
		p.inputTextValue = p.inputTextValue[:len(p.inputTextValue)-1]
	}

	clickedOutside := rl.IsMouseButtonPressed(rl.MouseLeftButton) && !hovered
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) || clickedOutside || rl.IsKeyPressed(rl.KeyTab) {
		if p.inputTextValue != "" {
			if parsed, err := strconv.ParseFloat(p.inputTextValue, 32); err == nil {
				value = float32(parsed)
			}
		}
		p.activeInputID = ""
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		p.activeInputID = ""
	}
	return value
}

func rect(x, y, w, h int32) rl.Rectangle {
	return rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}
}
