package ambient

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestFadeReachesTarget(t *testing.T) {
	f := NewFade(0)
	f.To(1, time.Second, ease.Linear)
	if f.Done {
		t.Fatal("Done before any update")
	}

	// Exact halves avoid float32 accumulation drift.
	if v := f.Update(500 * time.Millisecond); math.Abs(v-0.5) > 1e-3 {
		t.Errorf("mid value = %v, want ~0.5", v)
	}
	if v := f.Update(500 * time.Millisecond); math.Abs(v-1) > 1e-3 {
		t.Errorf("end value = %v, want ~1", v)
	}
	if !f.Done {
		t.Error("expected Done after full duration")
	}
	if v := f.Update(time.Second); math.Abs(v-1) > 1e-3 {
		t.Errorf("value after done = %v", v)
	}
}

func TestFadeZeroDurationJumps(t *testing.T) {
	f := NewFade(0)
	f.To(1, 0, ease.InOutSine)
	if !f.Done || f.Value() != 1 {
		t.Errorf("value = %v done = %v, want 1 true", f.Value(), f.Done)
	}
}

func TestFadeRetargetsFromCurrentValue(t *testing.T) {
	f := NewFade(0)
	f.To(1, time.Second, ease.Linear)
	f.Update(500 * time.Millisecond)

	f.To(0, time.Second, ease.Linear)
	if v := f.Update(0); math.Abs(v-0.5) > 1e-3 {
		t.Errorf("retarget start = %v, want ~0.5", v)
	}
	f.Update(time.Second)
	if math.Abs(f.Value()) > 1e-3 {
		t.Errorf("value = %v, want ~0", f.Value())
	}
}
