package ambient

import (
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// FrameUniforms is the scalar input of one frame. Positions and lengths are
// in backing store pixels unless noted. The Kage shader and the software
// renderer consume the same values.
type FrameUniforms struct {
	Mode     float32
	Progress float32

	NoiseDensity float32
	Reveal       float32
	RevealSpread float32

	Dissolve    float32
	Resolve     float32
	Blend       float32
	Swirl       float32 // radians
	SwirlAmount float32 // scene texels
	Sparkle     float32
	Residue     float32 // noise density of unresolved pixels while resolving

	Breath    float32
	ScanPos   float32 // fraction of screen height
	ScanHalf  float32
	ScanBoost float32

	Pointer       [2]float32
	PointerActive float32
	PointerRadius float32
	PointerBoost  float32

	GlitchCount float32
	GlitchRows  [MaxGlitchRows]float32
	GlitchShift [MaxGlitchRows]float32
	GlitchBoost float32

	BaseAlpha float32
	Invert    float32
	Light     [4]float32
	Dark      [4]float32

	FlickerOffset [2]float32 // noise texels
	MorphOffset   [2]float32 // noise texels

	CellSize  float32
	Scale     float32
	Origin    [2]float32
	Screen    [2]float32
	NoiseSize float32
}

// Uniforms computes the frame uniforms for the state after the last Step.
func (s *Simulation) Uniforms() FrameUniforms {
	st := &s.state
	cfg := s.cfg
	now := st.LastFrame
	el := now - st.PhaseStart

	bw, bh := float64(st.Backing[0]), float64(st.Backing[1])
	scale, origin := coverFit(cfg.Render.Width, cfg.Render.Height, bw, bh)

	u := FrameUniforms{
		Progress:     float32(s.progress),
		NoiseDensity: float32(cfg.Boot.NoiseDensity),
		RevealSpread: float32(cfg.Boot.RevealSpread),
		BaseAlpha:    float32(cfg.Render.BaseAlpha),
		Invert:       float32(st.InvertMix),
		Light:        s.light.vec4(),
		Dark:         s.dark.vec4(),
		CellSize:     float32(cfg.Render.CellSize * st.DPR),
		Scale:        float32(scale),
		Origin:       [2]float32{float32(origin.X), float32(origin.Y)},
		Screen:       [2]float32{float32(bw), float32(bh)},
		NoiseSize:    float32(cfg.Render.NoiseSize),
		MorphOffset:  [2]float32{float32(st.GrainOffset[0]), float32(st.GrainOffset[1])},
	}
	u.FlickerOffset = s.flickerOffset()

	breath := cfg.Breath.Amplitude * math.Sin(2*math.Pi*periodic(st.Elapsed, cfg.Breath.Period))

	switch st.Phase {
	case PhaseBoot:
		b := &cfg.Boot
		switch st.Boot {
		case BootVoid:
			u.Mode = modeVoid
		case BootNoise:
			u.Mode = modeNoise
			u.NoiseDensity = float32(b.NoiseDensity * ratio(el-b.Void, b.Noise))
		case BootResolve:
			u.Mode = modeReveal
			u.Reveal = float32(ratio(el-b.Void-b.Noise, b.Budget-b.Void-b.Noise))
			u.Breath = float32(breath)
		}
	case PhaseHold:
		u.Mode = modeHold
		u.Breath = float32(breath)
	case PhaseMorph:
		m := &cfg.Morph
		p := s.progress
		dissolve := clamp01(p / m.DissolveEnd)
		resolve := clamp01((p - m.NoiseEnd) / (1 - m.NoiseEnd))

		u.Mode = modeMorph
		u.Dissolve = float32(dissolve)
		u.Resolve = float32(resolve)
		u.Blend = float32(smoothstep(resolve))
		u.Swirl = float32(p * m.SwirlTurns * 2 * math.Pi)
		u.SwirlAmount = float32(m.SwirlPixels * st.DPR * math.Sin(math.Pi*resolve) / scale)
		u.Sparkle = float32(m.SparklePeak * math.Sin(math.Pi*p))
		u.Residue = float32(cfg.Boot.NoiseDensity * (1 - (1-m.ResidueNoise)*resolve))

		// Breathing fades out while dissolving and back in while resolving.
		var fade float32
		if resolve <= 0 {
			fade = 1 - ease.InOutSine(float32(dissolve), 0, 1, 1)
		} else {
			fade = ease.InOutSine(float32(resolve), 0, 1, 1)
		}
		u.Breath = float32(breath) * fade
	}

	u.ScanPos = float32(periodic(st.Elapsed, cfg.Scan.Period))
	u.ScanHalf = float32(cfg.Scan.HalfHeight)
	u.ScanBoost = float32(cfg.Scan.Boost)

	if st.PointerActive {
		u.PointerActive = 1
		u.Pointer = [2]float32{float32(st.Pointer.X * st.DPR), float32(st.Pointer.Y * st.DPR)}
	}
	u.PointerRadius = float32(cfg.Pointer.Radius * st.DPR)
	u.PointerBoost = float32(cfg.Pointer.Boost)

	if st.Glitch.Active() {
		u.GlitchCount = float32(st.Glitch.Count)
		for i := 0; i < st.Glitch.Count; i++ {
			row := st.Glitch.Rows[i]
			u.GlitchRows[i] = float32(math.Floor(row.Y*bh) + 0.5)
			u.GlitchShift[i] = float32(row.Shift * st.DPR)
		}
		u.GlitchBoost = float32(cfg.Glitch.Boost)
	}

	return u
}

func (s *Simulation) flickerOffset() [2]float32 {
	var k int64
	if f := s.cfg.Render.Flicker; f > 0 {
		k = int64(s.state.Elapsed / f)
	} else {
		k = int64(s.state.Frames)
	}
	n := int64(s.cfg.Render.NoiseSize)
	return [2]float32{float32(k * 73 % n), float32(k * 151 % n)}
}

// periodic returns the fractional position of t within period.
func periodic(t, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return float64(t%period) / float64(period)
}

// coverFit returns the scale and origin that map a w×h texture onto a bw×bh
// surface so it covers the surface and stays centered.
func coverFit(w, h int, bw, bh float64) (float64, Vec2) {
	if w <= 0 || h <= 0 || bw <= 0 || bh <= 0 {
		return 1, Vec2{}
	}
	scale := math.Max(bw/float64(w), bh/float64(h))
	return scale, Vec2{
		X: (bw - float64(w)*scale) / 2,
		Y: (bh - float64(h)*scale) / 2,
	}
}

// uniformSet is the persistent uniform map handed to DrawRectShader. Slice
// values alias fixed arrays so a frame update allocates nothing.
type uniformSet struct {
	m map[string]any

	pointer       [2]float32
	glitchRows    [MaxGlitchRows]float32
	glitchShift   [MaxGlitchRows]float32
	light, dark   [4]float32
	flickerOffset [2]float32
	morphOffset   [2]float32
	origin        [2]float32
	screen        [2]float32
}

func newUniformSet() *uniformSet {
	us := &uniformSet{m: make(map[string]any, 40)}
	us.m["Pointer"] = us.pointer[:]
	us.m["GlitchRows"] = us.glitchRows[:]
	us.m["GlitchShift"] = us.glitchShift[:]
	us.m["Light"] = us.light[:]
	us.m["Dark"] = us.dark[:]
	us.m["FlickerOffset"] = us.flickerOffset[:]
	us.m["MorphOffset"] = us.morphOffset[:]
	us.m["Origin"] = us.origin[:]
	us.m["Screen"] = us.screen[:]
	return us
}

// set copies u into the map.
func (us *uniformSet) set(u *FrameUniforms) {
	m := us.m
	m["Mode"] = u.Mode
	m["Progress"] = u.Progress
	m["NoiseDensity"] = u.NoiseDensity
	m["Reveal"] = u.Reveal
	m["RevealSpread"] = u.RevealSpread
	m["Dissolve"] = u.Dissolve
	m["Resolve"] = u.Resolve
	m["Blend"] = u.Blend
	m["Swirl"] = u.Swirl
	m["SwirlAmount"] = u.SwirlAmount
	m["Sparkle"] = u.Sparkle
	m["Residue"] = u.Residue
	m["Breath"] = u.Breath
	m["ScanPos"] = u.ScanPos
	m["ScanHalf"] = u.ScanHalf
	m["ScanBoost"] = u.ScanBoost
	m["PointerActive"] = u.PointerActive
	m["PointerRadius"] = u.PointerRadius
	m["PointerBoost"] = u.PointerBoost
	m["GlitchCount"] = u.GlitchCount
	m["GlitchBoost"] = u.GlitchBoost
	m["BaseAlpha"] = u.BaseAlpha
	m["Invert"] = u.Invert
	m["CellSize"] = u.CellSize
	m["Scale"] = u.Scale
	m["NoiseSize"] = u.NoiseSize

	us.pointer = u.Pointer
	us.glitchRows = u.GlitchRows
	us.glitchShift = u.GlitchShift
	us.light = u.Light
	us.dark = u.Dark
	us.flickerOffset = u.FlickerOffset
	us.morphOffset = u.MorphOffset
	us.origin = u.Origin
	us.screen = u.Screen
}
