package ambient

import (
	"fmt"
	"strings"
	"testing"
)

// recordingTarget logs every call as a short string.
type recordingTarget struct {
	calls []string
}

func (r *recordingTarget) SetPointer(x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("pointer %g,%g", x, y))
}
func (r *recordingTarget) ClearPointer() { r.calls = append(r.calls, "clear") }
func (r *recordingTarget) SetColorInvert(on bool) {
	r.calls = append(r.calls, fmt.Sprintf("invert %v", on))
}
func (r *recordingTarget) SetViewportSize(w, h float64) {
	r.calls = append(r.calls, fmt.Sprintf("resize %gx%g", w, h))
}
func (r *recordingTarget) SetScrollOffset(y float64) {
	r.calls = append(r.calls, fmt.Sprintf("scroll %g", y))
}
func (r *recordingTarget) SetVisible(on bool) {
	r.calls = append(r.calls, fmt.Sprintf("visible %v", on))
}
func (r *recordingTarget) Screenshot(label string) {
	r.calls = append(r.calls, "screenshot "+label)
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, json, want string
	}{
		{"invalid", `{"steps": [`, "parse script"},
		{"empty", `{"steps": []}`, "no steps"},
		{"unknown", `{"steps": [{"action": "explode"}]}`, `unknown action "explode"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestScriptRunsEveryAction(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "resize", "x": 800, "y": 600},
		{"action": "pointer", "x": 10, "y": 20},
		{"action": "clear"},
		{"action": "invert", "on": true},
		{"action": "scroll", "y": 120},
		{"action": "visible", "on": false},
		{"action": "screenshot", "label": "end"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	var tgt recordingTarget
	for i := 0; i < 7; i++ {
		if r.Done() {
			t.Fatalf("done after %d frames", i)
		}
		r.step(&tgt)
	}
	if !r.Done() {
		t.Fatal("expected Done after last step")
	}

	want := []string{
		"resize 800x600",
		"pointer 10,20",
		"clear",
		"invert true",
		"scroll 120",
		"visible false",
		"screenshot end",
	}
	if strings.Join(tgt.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %v, want %v", tgt.calls, want)
	}

	r.step(&tgt)
	if len(tgt.calls) != len(want) {
		t.Errorf("finished runner made extra calls: %v", tgt.calls[len(want):])
	}
}

func TestScriptWaitCountsFrames(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "clear"},
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	var tgt recordingTarget
	// Frame 1 clears; frames 2-4 wait; frame 5 screenshots.
	for frame := 1; frame <= 4; frame++ {
		r.step(&tgt)
		if len(tgt.calls) != 1 {
			t.Fatalf("frame %d: calls = %v", frame, tgt.calls)
		}
	}
	r.step(&tgt)
	if len(tgt.calls) != 2 || tgt.calls[1] != "screenshot after" {
		t.Fatalf("frame 5: calls = %v", tgt.calls)
	}
	if !r.Done() {
		t.Error("expected Done")
	}
}

func TestScriptTrailingWaitFinishes(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 2}]}`))
	if err != nil {
		t.Fatal(err)
	}
	var tgt recordingTarget
	r.step(&tgt)
	if r.Done() {
		t.Fatal("done before the wait elapsed")
	}
	r.step(&tgt)
	r.step(&tgt)
	if !r.Done() {
		t.Error("expected Done after the wait")
	}
}
