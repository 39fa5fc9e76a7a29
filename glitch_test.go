package ambient

import (
	"testing"
	"time"
)

func TestGlitchIdleArms(t *testing.T) {
	cfg := DefaultConfig().Glitch
	src := NewSeededSource(7)

	g := Glitch{}.Advance(time.Second, &cfg, src)
	if g.Stage != GlitchArmed {
		t.Fatalf("stage = %v, want armed", g.Stage)
	}
	wait := g.NextAt - time.Second
	if wait < cfg.IntervalMin || wait > cfg.IntervalMax {
		t.Errorf("interval = %v, want within [%v, %v]", wait, cfg.IntervalMin, cfg.IntervalMax)
	}
	if g.EndAt != 0 || g.Count != 0 {
		t.Errorf("armed glitch carries an active window: %+v", g)
	}
}

func TestGlitchActivatesAtNextAt(t *testing.T) {
	cfg := DefaultConfig().Glitch
	src := NewSeededSource(7)
	g := Glitch{Stage: GlitchArmed, NextAt: 3 * time.Second}

	if got := g.Advance(3*time.Second-time.Millisecond, &cfg, src); got.Stage != GlitchArmed {
		t.Fatalf("stage before NextAt = %v, want armed", got.Stage)
	}

	g = g.Advance(3*time.Second, &cfg, src)
	if !g.Active() {
		t.Fatalf("stage at NextAt = %v, want active", g.Stage)
	}
	if g.EndAt != 3*time.Second+cfg.Duration {
		t.Errorf("EndAt = %v, want %v", g.EndAt, 3*time.Second+cfg.Duration)
	}
	if g.NextAt != 0 {
		t.Errorf("active glitch still has NextAt %v", g.NextAt)
	}
	if g.Count < cfg.RowsMin || g.Count > cfg.RowsMax {
		t.Errorf("rows = %d, want within [%d, %d]", g.Count, cfg.RowsMin, cfg.RowsMax)
	}
	for i := 0; i < g.Count; i++ {
		r := g.Rows[i]
		if r.Y < 0 || r.Y >= 1 {
			t.Errorf("row %d Y = %v, want in [0, 1)", i, r.Y)
		}
		mag := r.Shift
		if mag < 0 {
			mag = -mag
		}
		if mag < cfg.ShiftMin || mag > cfg.ShiftMax {
			t.Errorf("row %d shift = %v, want magnitude in [%v, %v]", i, r.Shift, cfg.ShiftMin, cfg.ShiftMax)
		}
	}
}

func TestGlitchRearmsStrictlyAfterEnd(t *testing.T) {
	cfg := DefaultConfig().Glitch
	src := NewSeededSource(7)
	g := Glitch{Stage: GlitchActive, EndAt: 5 * time.Second, Count: 2}

	if got := g.Advance(5*time.Second, &cfg, src); !got.Active() {
		t.Fatalf("stage at EndAt = %v, want still active", got.Stage)
	}
	g = g.Advance(5*time.Second+time.Nanosecond, &cfg, src)
	if g.Stage != GlitchArmed {
		t.Fatalf("stage after EndAt = %v, want armed", g.Stage)
	}
	if g.NextAt <= 5*time.Second {
		t.Errorf("NextAt = %v, want after the window end", g.NextAt)
	}
	if g.Count != 0 {
		t.Errorf("armed glitch kept %d rows", g.Count)
	}
}

func TestGlitchStagesExclusive(t *testing.T) {
	cfg := DefaultConfig().Glitch
	src := NewSeededSource(11)
	var g Glitch
	var lastEnd time.Duration
	activations := 0

	for now := time.Duration(0); now < 2*time.Minute; now += 16 * time.Millisecond {
		prev := g
		g = g.Advance(now, &cfg, src)
		switch g.Stage {
		case GlitchArmed:
			if g.EndAt != 0 {
				t.Fatalf("t=%v: armed with EndAt %v", now, g.EndAt)
			}
			if prev.Active() && now <= prev.EndAt {
				t.Fatalf("t=%v: re-armed before window end %v", now, prev.EndAt)
			}
		case GlitchActive:
			if g.NextAt != 0 {
				t.Fatalf("t=%v: active with NextAt %v", now, g.NextAt)
			}
			if !prev.Active() {
				activations++
				if lastEnd != 0 && now <= lastEnd {
					t.Fatalf("t=%v: new window overlaps previous end %v", now, lastEnd)
				}
				lastEnd = g.EndAt
			}
		default:
			t.Fatalf("t=%v: stage %v after Advance", now, g.Stage)
		}
	}
	if activations < 10 {
		t.Errorf("activations = %d in 2 minutes, want at least 10", activations)
	}
}

func TestGlitchShifted(t *testing.T) {
	armed := Glitch{Stage: GlitchArmed, NextAt: time.Second}.Shifted(time.Second)
	if armed.NextAt != 2*time.Second {
		t.Errorf("armed NextAt = %v, want 2s", armed.NextAt)
	}
	active := Glitch{Stage: GlitchActive, EndAt: time.Second}.Shifted(time.Second)
	if active.EndAt != 2*time.Second || active.NextAt != 0 {
		t.Errorf("active shifted = %+v", active)
	}
	idle := Glitch{}.Shifted(time.Second)
	if idle != (Glitch{}) {
		t.Errorf("idle shifted = %+v", idle)
	}
}

func TestGlitchRowsCapped(t *testing.T) {
	cfg := DefaultConfig().Glitch
	cfg.RowsMin, cfg.RowsMax = 20, 40
	g := Glitch{Stage: GlitchArmed}.Advance(0, &cfg, NewSeededSource(3))
	if g.Count != MaxGlitchRows {
		t.Errorf("rows = %d, want cap %d", g.Count, MaxGlitchRows)
	}
}
