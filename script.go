package ambient

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a host script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	On     bool    `json:"on,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// scriptTarget is the host surface a script drives. *Engine implements it.
type scriptTarget interface {
	SetPointer(x, y float64)
	ClearPointer()
	SetColorInvert(invert bool)
	SetViewportSize(w, h float64)
	SetScrollOffset(y float64)
	SetVisible(visible bool)
	Screenshot(label string)
}

// ScriptRunner replays host events and screenshots across frames for
// automated visual checks. Attach it with Engine.SetScript.
//
// Actions: pointer (x, y), clear, invert (on), resize (x, y), scroll (y),
// visible (on), wait (frames), screenshot (label).
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "pointer", "clear", "invert", "resize", "scroll", "visible", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(t scriptTarget) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "pointer":
		t.SetPointer(st.X, st.Y)
	case "clear":
		t.ClearPointer()
	case "invert":
		t.SetColorInvert(st.On)
	case "resize":
		t.SetViewportSize(st.X, st.Y)
	case "scroll":
		t.SetScrollOffset(st.Y)
	case "visible":
		t.SetVisible(st.On)
	case "screenshot":
		t.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
