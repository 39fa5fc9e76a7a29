package ambient

import "github.com/hajimehoshi/ebiten/v2"

// inputTarget is the subset of the engine surface fed by ebiten input.
type inputTarget interface {
	SetPointer(x, y float64)
	ClearPointer()
	SetScrollOffset(y float64)
	SetVisible(visible bool)
}

// HostInput polls ebiten input once per tick and forwards it to an Engine
// the way a page would forward DOM events: cursor moves and leaves, wheel
// scrolling and visibility. Touches are forwarded as pointer moves, which
// the engine ignores on touch devices.
//
// Visibility follows window minimization. An unfocused window keeps
// animating.
type HostInput struct {
	// ScrollSpeed is the scroll distance per wheel notch in logical pixels.
	ScrollSpeed float64
	// MaxScroll clamps the accumulated scroll offset. Zero means unbounded.
	MaxScroll float64

	scroll   float64
	inside   bool
	hidden   bool
	touchIDs []ebiten.TouchID
}

// NewHostInput creates an input adapter with a 40px wheel step.
func NewHostInput() *HostInput {
	return &HostInput{ScrollSpeed: 40}
}

// Scroll returns the accumulated scroll offset.
func (h *HostInput) Scroll() float64 { return h.scroll }

// Poll reads the current ebiten input state. Screen coordinates are divided
// by dpr to get logical pixels; viewport is the logical window size.
func (h *HostInput) Poll(e *Engine, viewport Vec2, dpr float64) {
	h.setHidden(e, ebiten.IsWindowMinimized())
	h.poll(e, viewport, dpr)
}

func (h *HostInput) poll(t inputTarget, viewport Vec2, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}

	h.touchIDs = ebiten.AppendTouchIDs(h.touchIDs[:0])
	if len(h.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(h.touchIDs[0])
		h.pointer(t, float64(tx)/dpr, float64(ty)/dpr, viewport)
	} else {
		cx, cy := ebiten.CursorPosition()
		h.pointer(t, float64(cx)/dpr, float64(cy)/dpr, viewport)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		h.scrollBy(t, -wy*h.ScrollSpeed)
	}
}

// setHidden forwards visibility changes once per transition.
func (h *HostInput) setHidden(t inputTarget, hidden bool) {
	if hidden == h.hidden {
		return
	}
	h.hidden = hidden
	t.SetVisible(!hidden)
}

// pointer forwards a move while the position is inside the viewport and a
// single leave when it exits.
func (h *HostInput) pointer(t inputTarget, x, y float64, viewport Vec2) {
	in := x >= 0 && y >= 0 && x < viewport.X && y < viewport.Y
	switch {
	case in:
		t.SetPointer(x, y)
	case h.inside:
		t.ClearPointer()
	}
	h.inside = in
}

func (h *HostInput) scrollBy(t inputTarget, dy float64) {
	h.scroll += dy
	if h.scroll < 0 {
		h.scroll = 0
	}
	if h.MaxScroll > 0 && h.scroll > h.MaxScroll {
		h.scroll = h.MaxScroll
	}
	t.SetScrollOffset(h.scroll)
}
