package ambient

import (
	"image/color"
	"math"
	"runtime"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Mix linearly interpolates from c to o by t.
func (c Color) Mix(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// NRGBA converts to an 8-bit straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

func (c Color) vec4() [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Capabilities describes the host device. It is read once when the engine is
// constructed and never re-queried.
type Capabilities struct {
	// Touch marks a touch-first device: pointer reveal is disabled, the DPR
	// cap is lower and the frame rate is throttled.
	Touch bool
}

// DetectCapabilities reports the capabilities of the current platform.
func DetectCapabilities() Capabilities {
	return Capabilities{Touch: runtime.GOOS == "android" || runtime.GOOS == "ios"}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func unit8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// smoothstep is the cubic Hermite ease 3t²-2t³ on a clamped t.
func smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}
