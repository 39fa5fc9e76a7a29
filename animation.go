package ambient

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fade eases a single scalar toward a target. It is used for the color invert
// crossfade so theme switches do not pop.
type Fade struct {
	tween *gween.Tween
	value float64
	Done  bool
}

// NewFade creates a fade resting at v.
func NewFade(v float64) *Fade {
	return &Fade{value: v, Done: true}
}

// To starts easing from the current value to target over d. A non-positive
// duration jumps immediately.
func (f *Fade) To(target float64, d time.Duration, fn ease.TweenFunc) {
	if d <= 0 {
		f.tween = nil
		f.value = target
		f.Done = true
		return
	}
	f.tween = gween.New(float32(f.value), float32(target), float32(d.Seconds()), fn)
	f.Done = false
}

// Update advances the fade by dt and returns the new value.
func (f *Fade) Update(dt time.Duration) float64 {
	if f.Done || f.tween == nil {
		return f.value
	}
	val, finished := f.tween.Update(float32(dt.Seconds()))
	f.value = float64(val)
	if finished {
		f.Done = true
		f.tween = nil
	}
	return f.value
}

// Value returns the current value without advancing.
func (f *Fade) Value() float64 { return f.value }
