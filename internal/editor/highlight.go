package editor

import "hovercourse/internal/engine"

// HighlightManager owns the Hovered/Selected decoration of entities. Selection
// always wins over hover, and at most one entity is selected.
type HighlightManager struct {
	hovered  *engine.GameObject
	selected *engine.GameObject
}

func NewHighlightManager() *HighlightManager {
	return &HighlightManager{}
}

// SetHover moves the hover decoration to g. nil clears it.
func (h *HighlightManager) SetHover(g *engine.GameObject) {
	if h.hovered != nil && h.hovered != g && h.hovered.Highlight == engine.HighlightHovered {
		h.hovered.Highlight = engine.HighlightNone
	}
	h.hovered = nil
	if g == nil || g.Highlight == engine.HighlightSelected {
		return
	}
	g.Highlight = engine.HighlightHovered
	h.hovered = g
}

// Select makes g the only selected entity.
func (h *HighlightManager) Select(g *engine.GameObject) {
	if h.selected != nil && h.selected != g {
		h.selected.Highlight = engine.HighlightNone
	}
	if h.hovered == g {
		h.hovered = nil
	}
	g.Highlight = engine.HighlightSelected
	h.selected = g
}

func (h *HighlightManager) Clear(g *engine.GameObject) {
	if g == nil {
		return
	}
	g.Highlight = engine.HighlightNone
	if h.hovered == g {
		h.hovered = nil
	}
	if h.selected == g {
		h.selected = nil
	}
}

func (h *HighlightManager) ClearAll() {
	h.Clear(h.hovered)
	h.Clear(h.selected)
}

// Deselect drops the selection but keeps hover.
func (h *HighlightManager) Deselect() {
	h.Clear(h.selected)
}

func (h *HighlightManager) Selected() []*engine.GameObject {
	if h.selected == nil {
		return nil
	}
	return []*engine.GameObject{h.selected}
}

func (h *HighlightManager) Hovered() *engine.GameObject {
	return h.hovered
}
