package ambient

import "time"

// MaxGlitchRows bounds the rows one glitch window can corrupt.
const MaxGlitchRows = 8

// GlitchStage is the scheduler state: idle → armed → active → idle.
type GlitchStage uint8

const (
	GlitchIdle   GlitchStage = iota // nothing scheduled
	GlitchArmed                     // waiting for NextAt
	GlitchActive                    // corrupting rows until EndAt
)

// GlitchRow is one corrupted scanline. Y is a fraction of viewport height;
// Shift is a signed horizontal offset in logical pixels.
type GlitchRow struct {
	Y     float64
	Shift float64
}

// Glitch is the intermittent row-shift scheduler. Only the timestamp for the
// current stage is meaningful: NextAt while armed, EndAt while active.
type Glitch struct {
	Stage  GlitchStage
	NextAt time.Duration
	EndAt  time.Duration
	Rows   [MaxGlitchRows]GlitchRow
	Count  int
}

// Advance returns the scheduler state at now. It is a pure function of its
// inputs. An active window is re-armed only once now is strictly past EndAt.
func (g Glitch) Advance(now time.Duration, cfg *GlitchConfig, src Source) Glitch {
	for {
		switch g.Stage {
		case GlitchIdle:
			return g.arm(now, cfg, src)
		case GlitchArmed:
			if now < g.NextAt {
				return g
			}
			g = g.activate(now, cfg, src)
		case GlitchActive:
			if now <= g.EndAt {
				return g
			}
			g = Glitch{}
		default:
			return Glitch{}
		}
	}
}

func (g Glitch) arm(now time.Duration, cfg *GlitchConfig, src Source) Glitch {
	wait := time.Duration(between(src, float64(cfg.IntervalMin), float64(cfg.IntervalMax)))
	return Glitch{Stage: GlitchArmed, NextAt: now + wait}
}

func (g Glitch) activate(now time.Duration, cfg *GlitchConfig, src Source) Glitch {
	next := Glitch{Stage: GlitchActive, EndAt: now + cfg.Duration}
	next.Count = min(intBetween(src, cfg.RowsMin, cfg.RowsMax), MaxGlitchRows)
	for i := 0; i < next.Count; i++ {
		shift := between(src, cfg.ShiftMin, cfg.ShiftMax)
		if src.Float64() < 0.5 {
			shift = -shift
		}
		next.Rows[i] = GlitchRow{Y: src.Float64(), Shift: shift}
	}
	return next
}

// Active reports whether rows are currently being corrupted.
func (g Glitch) Active() bool {
	return g.Stage == GlitchActive
}

// Shifted moves the pending timestamp forward by d.
func (g Glitch) Shifted(d time.Duration) Glitch {
	switch g.Stage {
	case GlitchArmed:
		g.NextAt += d
	case GlitchActive:
		g.EndAt += d
	}
	return g
}
