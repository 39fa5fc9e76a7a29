package ambient

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tanema/gween/ease"
)

// nominalFrame is the frame interval assumed when compensating a stall.
const nominalFrame = time.Second / 60

// EngineState is the complete per-frame state. It is mutated only by
// Simulation.Step.
type EngineState struct {
	Phase      Phase
	Boot       BootStage
	PhaseStart time.Duration

	Current int
	Next    int

	Glitch Glitch

	// GrainOffset is the noise sampling offset of the in-flight transition,
	// in noise texels. It is redrawn on every hold→morph transition.
	GrainOffset [2]int

	Pointer       Vec2 // logical pixels
	PointerActive bool

	Viewport Vec2    // logical pixels
	DPR      float64 // capped
	Backing  [2]int  // backing store pixels

	Invert    bool
	InvertMix float64
	Scroll    float64

	AssetsReady bool

	// Elapsed is the stall-compensated session time driving the periodic
	// effects.
	Elapsed   time.Duration
	LastFrame time.Duration
	Started   bool

	Frames uint64
	Stalls uint64
}

// PhaseElapsed returns the time spent in the current phase at now.
func (s EngineState) PhaseElapsed(now time.Duration) time.Duration {
	return now - s.PhaseStart
}

// hostInput holds the values written by the setters. Step copies them into
// EngineState; the last write before a step wins.
type hostInput struct {
	pointer       Vec2
	pointerActive bool
	viewport      Vec2
	dpr           float64
	invert        bool
	scroll        float64
	assetsReady   bool
	resumed       bool
}

// Simulation is the GPU-free core of the engine: phase machine, glitch
// scheduler, stall compensation and the continuous effects. It is driven by
// explicit timestamps so every behavior can be tested with a MockClock.
type Simulation struct {
	cfg        *Config
	caps       Capabilities
	sceneCount int
	src        Source
	log        *log.Logger

	light, dark Color

	in     hostInput
	state  EngineState
	invert *Fade

	progress float64

	lastAccepted time.Duration
	accepted     bool

	backingKey [3]float64
	backing    [2]int
}

// NewSimulation creates a simulation for sceneCount scenes. cfg must be valid;
// a nil logger discards output.
func NewSimulation(cfg *Config, caps Capabilities, sceneCount int, src Source, logger *log.Logger) *Simulation {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sceneCount < 1 {
		sceneCount = 1
	}
	light, dark, err := cfg.Palette.Colors()
	if err != nil {
		logger.Warn("palette rejected, using defaults", "err", err)
		light, dark, _ = DefaultConfig().Palette.Colors()
	}
	s := &Simulation{
		cfg:        cfg,
		caps:       caps,
		sceneCount: sceneCount,
		src:        src,
		log:        logger,
		light:      light,
		dark:       dark,
		invert:     NewFade(0),
	}
	s.in.dpr = 1
	s.state.DPR = 1
	s.state.Next = 1 % sceneCount
	s.state.GrainOffset = s.drawOffset()
	return s
}

// SceneCount returns the number of scenes in rotation.
func (s *Simulation) SceneCount() int { return s.sceneCount }

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *Config { return s.cfg }

// Capabilities returns the injected device capabilities.
func (s *Simulation) Capabilities() Capabilities { return s.caps }

// --- Host setters ---

// SetPointer records the pointer position in logical pixels. It is a no-op on
// touch devices.
func (s *Simulation) SetPointer(x, y float64) {
	if s.caps.Touch {
		return
	}
	s.in.pointer = Vec2{x, y}
	s.in.pointerActive = true
}

// ClearPointer disables the reveal effect until the next SetPointer.
func (s *Simulation) ClearPointer() {
	s.in.pointerActive = false
}

// SetViewportSize updates the logical viewport size.
func (s *Simulation) SetViewportSize(w, h float64) {
	s.in.viewport = Vec2{w, h}
}

// SetDevicePixelRatio updates the device pixel ratio. It is capped according
// to the device capabilities.
func (s *Simulation) SetDevicePixelRatio(dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	s.in.dpr = math.Min(dpr, s.maxDPR())
}

// SetColorInvert selects the inverted palette. The change is crossfaded.
func (s *Simulation) SetColorInvert(invert bool) {
	s.in.invert = invert
}

// SetScrollOffset records the host scroll position. The simulation does not
// use it; hosts read ParallaxOffset to translate the output.
func (s *Simulation) SetScrollOffset(y float64) {
	s.in.scroll = y
}

// MarkAssetsReady opens the boot asset gate.
func (s *Simulation) MarkAssetsReady() {
	s.in.assetsReady = true
}

// Resume marks the next step as the first after the host was hidden. Any gap
// longer than a nominal frame is compensated.
func (s *Simulation) Resume() {
	s.in.resumed = true
}

func (s *Simulation) maxDPR() float64 {
	if s.caps.Touch {
		return s.cfg.Render.TouchMaxDPR
	}
	return s.cfg.Render.MaxDPR
}

// --- Read side ---

// State returns a copy of the engine state.
func (s *Simulation) State() EngineState { return s.state }

// Progress returns the normalized progress of the current phase, clamped to
// [0, 1].
func (s *Simulation) Progress() float64 { return s.progress }

// ParallaxOffset returns the vertical translation the host applies to the
// output for the current scroll position.
func (s *Simulation) ParallaxOffset() float64 {
	return -s.in.scroll * s.cfg.Render.ParallaxRate
}

// BackingSize returns the backing store size for the latest viewport and DPR.
// It is recomputed only when either changes.
func (s *Simulation) BackingSize() (int, int) {
	key := [3]float64{s.in.viewport.X, s.in.viewport.Y, s.in.dpr}
	if key != s.backingKey || s.backing == [2]int{} {
		s.backingKey = key
		s.backing = [2]int{
			max(1, int(math.Round(s.in.viewport.X*s.in.dpr))),
			max(1, int(math.Round(s.in.viewport.Y*s.in.dpr))),
		}
	}
	return s.backing[0], s.backing[1]
}

// ShouldStep reports whether a frame at now should be simulated and drawn.
// Touch devices are throttled to Render.TouchFPS; a frame is accepted when at
// least one interval (less a millisecond of scheduling slack) has passed.
func (s *Simulation) ShouldStep(now time.Duration) bool {
	if !s.caps.Touch || s.cfg.Render.TouchFPS <= 0 {
		return true
	}
	interval := time.Second / time.Duration(s.cfg.Render.TouchFPS)
	if s.accepted && now-s.lastAccepted < interval-time.Millisecond {
		return false
	}
	s.accepted = true
	s.lastAccepted = now
	return true
}

// --- Step ---

// Step advances the simulation to now. It is the only place EngineState
// changes.
func (s *Simulation) Step(now time.Duration) {
	st := &s.state
	s.applyInput()

	if !st.Started {
		st.Started = true
		st.PhaseStart = now
		st.LastFrame = now
		st.Glitch = st.Glitch.Advance(now, &s.cfg.Glitch, s.src)
		s.log.Debug("boot started", "scenes", s.sceneCount)
	}

	dt := now - st.LastFrame
	resumed := s.in.resumed
	s.in.resumed = false
	if dt > s.cfg.Render.Stall || dt < 0 || (resumed && dt > nominalFrame) {
		excess := dt - nominalFrame
		if dt < 0 {
			excess = dt
		}
		s.shift(excess)
		dt -= excess
		st.Stalls++
		s.log.Info("frame stall compensated", "gap", now-st.LastFrame, "shift", excess)
	}
	st.LastFrame = now
	st.Elapsed += dt
	st.Frames++

	st.InvertMix = s.invert.Update(dt)

	switch st.Phase {
	case PhaseBoot:
		s.stepBoot(now)
	case PhaseHold:
		s.stepHold(now)
	case PhaseMorph:
		s.stepMorph(now)
	}

	st.Glitch = st.Glitch.Advance(now, &s.cfg.Glitch, s.src)
}

func (s *Simulation) applyInput() {
	st := &s.state
	st.Pointer = s.in.pointer
	st.PointerActive = s.in.pointerActive && !s.caps.Touch
	st.Scroll = s.in.scroll

	if s.in.viewport != st.Viewport || s.in.dpr != st.DPR || st.Backing == [2]int{} {
		st.Viewport = s.in.viewport
		st.DPR = s.in.dpr
		w, h := s.BackingSize()
		if st.Backing != [2]int{w, h} {
			st.Backing = [2]int{w, h}
			s.log.Debug("backing store resized", "width", w, "height", h, "dpr", st.DPR)
		}
	}

	if s.in.invert != st.Invert {
		st.Invert = s.in.invert
		target := 0.0
		if st.Invert {
			target = 1
		}
		s.invert.To(target, s.cfg.Render.InvertFade, ease.InOutSine)
	}

	if s.in.assetsReady && !st.AssetsReady {
		st.AssetsReady = true
		s.log.Debug("assets ready")
	}
}

// shift moves every pending timestamp forward by d.
func (s *Simulation) shift(d time.Duration) {
	s.state.PhaseStart += d
	s.state.Glitch = s.state.Glitch.Shifted(d)
}

func (s *Simulation) stepBoot(now time.Duration) {
	st := &s.state
	b := &s.cfg.Boot
	gate := b.Void + b.Noise

	el := now - st.PhaseStart
	if !st.AssetsReady && el > gate {
		// Freeze at the end of the noise ramp until loading completes.
		st.PhaseStart = now - gate
		el = gate
	}

	switch {
	case el < b.Void:
		s.setBootStage(BootVoid)
	case el < gate || !st.AssetsReady:
		s.setBootStage(BootNoise)
	default:
		s.setBootStage(BootResolve)
	}

	s.progress = ratio(el, b.Budget)

	if st.AssetsReady && el > b.Budget {
		st.Current = 0
		st.Next = 1 % s.sceneCount
		s.enter(PhaseHold, now)
	}
}

func (s *Simulation) setBootStage(stage BootStage) {
	if s.state.Boot != stage {
		s.log.Debug("boot stage", "from", s.state.Boot, "to", stage)
		s.state.Boot = stage
	}
}

func (s *Simulation) stepHold(now time.Duration) {
	st := &s.state
	el := now - st.PhaseStart
	s.progress = ratio(el, s.cfg.Hold.Duration)
	if el >= s.cfg.Hold.Duration {
		st.Next = (st.Current + 1) % s.sceneCount
		st.GrainOffset = s.drawOffset()
		s.enter(PhaseMorph, now)
	}
}

func (s *Simulation) stepMorph(now time.Duration) {
	st := &s.state
	el := now - st.PhaseStart
	s.progress = ratio(el, s.cfg.Morph.Duration)
	if s.progress >= 1 {
		st.Current = st.Next
		st.Next = (st.Current + 1) % s.sceneCount
		s.enter(PhaseHold, now)
	}
}

func (s *Simulation) enter(p Phase, now time.Duration) {
	s.log.Debug("phase", "from", s.state.Phase, "to", p, "current", s.state.Current, "next", s.state.Next)
	s.state.Phase = p
	s.state.PhaseStart = now
	s.progress = 0
}

func (s *Simulation) drawOffset() [2]int {
	n := s.cfg.Render.NoiseSize
	return [2]int{int(s.src.Float64() * float64(n)), int(s.src.Float64() * float64(n))}
}

// ratio returns el/total clamped to [0, 1]; a non-positive total counts as
// complete.
func ratio(el, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return clamp01(float64(el) / float64(total))
}
