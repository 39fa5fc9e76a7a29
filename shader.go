package ambient

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrUnsupported means the GPU path is unavailable. Hosts should skip the
// effect instead of retrying.
var ErrUnsupported = errors.New("ambient: renderer unsupported")

// --- Kage shader source ---
// Images[0] and Images[1] are the current and next scene luminance (red
// channel). Images[2] is the aux texture: noise channel A in red, the Bayer
// matrix in green and noise channel B in blue, all tiled over the working
// resolution. Output is premultiplied.

const ditherShaderSrc = `//kage:unit pixels
package main

var Mode float
var Progress float
var NoiseDensity float
var Reveal float
var RevealSpread float
var Dissolve float
var Resolve float
var Blend float
var Swirl float
var SwirlAmount float
var Sparkle float
var Residue float
var Breath float
var ScanPos float
var ScanHalf float
var ScanBoost float
var Pointer vec2
var PointerActive float
var PointerRadius float
var PointerBoost float
var GlitchCount float
var GlitchRows [8]float
var GlitchShift [8]float
var GlitchBoost float
var BaseAlpha float
var Invert float
var Light vec4
var Dark vec4
var FlickerOffset vec2
var MorphOffset vec2
var CellSize float
var Scale float
var Origin vec2
var Screen vec2
var NoiseSize float

func aux(cell vec2) vec4 {
	p := mod(cell, vec2(NoiseSize))
	return imageSrc2At(imageSrc2Origin() + p + 0.5)
}

func scene0(p vec2) float {
	o := imageSrc0Origin()
	return imageSrc0At(clamp(p, o+0.5, o+imageSrc0Size()-0.5)).r
}

func scene1(p vec2) float {
	o := imageSrc1Origin()
	return imageSrc1At(clamp(p, o+0.5, o+imageSrc1Size()-0.5)).r
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	if Mode < 0.5 {
		return vec4(0)
	}

	dst := dstPos.xy - imageDstOrigin()
	cell := floor(dst / CellSize)
	thr := aux(mod(cell, vec2(8))).g
	flick := aux(cell + FlickerOffset)
	nFlick := flick.r
	nSpark := flick.b
	nGrain := aux(cell + MorphOffset).b
	nGrain2 := aux(cell + MorphOffset + vec2(37, 91)).r

	src := srcPos
	boost := 0.0
	for i := 0; i < 8; i++ {
		if float(i) < GlitchCount && abs(dst.y-GlitchRows[i]) <= 1 {
			src.x -= GlitchShift[i] / Scale
			boost = GlitchBoost
		}
	}

	on := false
	if Mode < 1.5 {
		on = nFlick < NoiseDensity
	} else if Mode < 2.5 {
		if Reveal > nGrain*RevealSpread {
			on = scene0(src)+Breath > thr
		} else {
			on = nFlick < NoiseDensity
		}
	} else if Mode < 3.5 {
		on = scene0(src)+Breath > thr
	} else {
		if Resolve <= 0 {
			l := scene0(src)
			if Dissolve > (0.5*l+0.5*nGrain)*RevealSpread {
				on = nFlick < mix(l, NoiseDensity, Dissolve)
			} else {
				on = l+Breath > thr
			}
		} else if Resolve > nGrain*RevealSpread {
			c := cos(Swirl)
			s := sin(Swirl)
			g := vec2(nGrain-0.5, nGrain2-0.5)
			disp := vec2(g.x*c-g.y*s, g.x*s+g.y*c) * SwirlAmount
			l := 0.0
			if Blend > nGrain2 {
				l = scene1(src + disp)
			} else {
				l = scene0(src + disp)
			}
			on = l+Breath > thr
		} else {
			on = nFlick < Residue
		}
	}
	if nSpark < Sparkle {
		on = true
	}
	if !on {
		return vec4(0)
	}

	a := BaseAlpha + boost
	if ScanHalf > 0 {
		a += ScanBoost * max(0, 1-abs(dst.y/Screen.y-ScanPos)/ScanHalf)
	}
	if PointerActive > 0 && PointerRadius > 0 {
		d := length(dst - Pointer)
		if d < PointerRadius {
			f := 1 - d/PointerRadius
			a += PointerBoost * f * f
		}
	}
	a = clamp(a, 0, 1)
	c := mix(Light, Dark, Invert)
	return vec4(c.rgb*a, a)
}
`

// compileShader compiles the dither program. A failure is reported as
// ErrUnsupported.
func compileShader() (*ebiten.Shader, error) {
	s, err := ebiten.NewShader([]byte(ditherShaderSrc))
	if err != nil {
		return nil, fmt.Errorf("%w: compile dither shader: %v", ErrUnsupported, err)
	}
	return s, nil
}
