package ambient

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// frameStats accumulates step and draw timings between debug log lines.
type frameStats struct {
	frames    int
	stepTime  time.Duration
	drawTime  time.Duration
	windowEnd time.Duration
}

const statsWindow = time.Second

func (fs *frameStats) recordStep(d time.Duration) {
	fs.frames++
	fs.stepTime += d
}

func (fs *frameStats) recordDraw(d time.Duration) {
	fs.drawTime += d
}

// maybeLog emits one line per stats window and resets the counters.
func (fs *frameStats) maybeLog(logger *log.Logger, now time.Duration, sim *Simulation) {
	if fs.windowEnd == 0 {
		fs.windowEnd = now + statsWindow
		return
	}
	if now < fs.windowEnd || fs.frames == 0 {
		return
	}
	st := sim.State()
	n := time.Duration(fs.frames)
	logger.Debug("frame stats",
		"frames", fs.frames,
		"step", fs.stepTime/n,
		"draw", fs.drawTime/n,
		"phase", st.Phase,
		"scene", st.Current,
		"stalls", st.Stalls,
	)
	*fs = frameStats{windowEnd: now + statsWindow}
}

// DebugText returns a multi-line summary of the engine state for overlays.
func (e *Engine) DebugText() string {
	st := e.sim.State()
	phase := st.Phase.String()
	if st.Phase == PhaseBoot {
		phase += "/" + st.Boot.String()
	}
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\nphase: %s  progress: %.2f\nscene: %d -> %d of %d\nglitch: %d rows  stalls: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		phase, e.sim.Progress(),
		st.Current, st.Next, e.sim.SceneCount(),
		activeRows(st.Glitch), st.Stalls)
}

// DrawDebug prints DebugText in the top-left corner of screen.
func (e *Engine) DrawDebug(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, e.DebugText(), 8, 8)
}

func activeRows(g Glitch) int {
	if g.Active() {
		return g.Count
	}
	return 0
}
