package ambient

import "testing"

type fakeInput struct {
	moves   int
	clears  int
	scroll  float64
	visible []bool
	x, y    float64
}

func (f *fakeInput) SetPointer(x, y float64)   { f.moves++; f.x, f.y = x, y }
func (f *fakeInput) ClearPointer()             { f.clears++ }
func (f *fakeInput) SetScrollOffset(y float64) { f.scroll = y }
func (f *fakeInput) SetVisible(v bool)         { f.visible = append(f.visible, v) }

func TestHostInputPointerLeave(t *testing.T) {
	h := NewHostInput()
	var f fakeInput
	vp := Vec2{X: 100, Y: 50}

	h.pointer(&f, 10, 20, vp)
	h.pointer(&f, 11, 21, vp)
	if f.moves != 2 || f.x != 11 || f.y != 21 {
		t.Errorf("moves = %d at (%v,%v), want 2 at (11,21)", f.moves, f.x, f.y)
	}

	h.pointer(&f, -1, 20, vp)
	h.pointer(&f, 200, 20, vp)
	if f.clears != 1 {
		t.Errorf("clears = %d, want exactly one leave", f.clears)
	}
	if f.moves != 2 {
		t.Errorf("moves while outside = %d", f.moves-2)
	}

	h.pointer(&f, 50, 49, vp)
	if f.moves != 3 {
		t.Errorf("re-entry not forwarded")
	}
}

func TestHostInputPointerNeverInside(t *testing.T) {
	h := NewHostInput()
	var f fakeInput
	h.pointer(&f, 0, 50, Vec2{X: 100, Y: 50})
	if f.clears != 0 || f.moves != 0 {
		t.Errorf("moves/clears = %d/%d for an outside pointer", f.moves, f.clears)
	}
}

func TestHostInputScrollClamps(t *testing.T) {
	tests := []struct {
		name  string
		max   float64
		steps []float64
		want  float64
	}{
		{"accumulates", 0, []float64{40, 40}, 80},
		{"floor at zero", 0, []float64{40, -120}, 0},
		{"capped", 100, []float64{80, 80}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHostInput()
			h.MaxScroll = tt.max
			var f fakeInput
			for _, dy := range tt.steps {
				h.scrollBy(&f, dy)
			}
			if h.Scroll() != tt.want || f.scroll != tt.want {
				t.Errorf("scroll = %v (forwarded %v), want %v", h.Scroll(), f.scroll, tt.want)
			}
		})
	}
}

func TestHostInputVisibilityFollowsMinimize(t *testing.T) {
	h := NewHostInput()
	var f fakeInput

	h.setHidden(&f, false)
	if len(f.visible) != 0 {
		t.Fatalf("visible calls = %v for a window that never hid", f.visible)
	}

	h.setHidden(&f, true)
	h.setHidden(&f, true)
	h.setHidden(&f, false)
	want := []bool{false, true}
	if len(f.visible) != len(want) || f.visible[0] != want[0] || f.visible[1] != want[1] {
		t.Errorf("visible calls = %v, want %v", f.visible, want)
	}
}
