package ambient

import (
	"image"
	"math"
)

// SoftwareRenderer evaluates the dither rule on the CPU. It mirrors the Kage
// shader decision for decision and is used for tests, offline export and the
// terminal preview. Results differ from the GPU only by 8-bit texture
// quantization.
type SoftwareRenderer struct {
	noise *NoiseField
	bayer *DitherMatrix
	blank *Luminance
}

// NewSoftwareRenderer creates a renderer sampling noise.
func NewSoftwareRenderer(noise *NoiseField) *SoftwareRenderer {
	return &SoftwareRenderer{noise: noise, bayer: Bayer(), blank: NewLuminance(1, 1)}
}

// pixelSample is the per-cell randomness of one output pixel.
type pixelSample struct {
	thr     float64
	nFlick  float64
	nSpark  float64
	nGrain  float64
	nGrain2 float64
}

func (r *SoftwareRenderer) sample(u *FrameUniforms, fx, fy float64) pixelSample {
	cx := int(math.Floor(fx / float64(u.CellSize)))
	cy := int(math.Floor(fy / float64(u.CellSize)))
	flx, fly := cx+int(u.FlickerOffset[0]), cy+int(u.FlickerOffset[1])
	gx, gy := cx+int(u.MorphOffset[0]), cy+int(u.MorphOffset[1])
	return pixelSample{
		thr:     r.bayer.At(cx, cy),
		nFlick:  r.noise.A(flx, fly),
		nSpark:  r.noise.B(flx, fly),
		nGrain:  r.noise.B(gx, gy),
		nGrain2: r.noise.A(gx+37, gy+91),
	}
}

// revealed reports whether a boot pixel has left the noise. It is monotonic
// in reveal, and every pixel is revealed at reveal 1.
func revealed(reveal, grain, spread float64) bool {
	return reveal > grain*spread
}

// dissolved reports whether a morph pixel has flipped to the noise-biased
// pattern. Darker pixels flip first.
func dissolved(dissolve, lum, grain, spread float64) bool {
	return dissolve > (0.5*lum+0.5*grain)*spread
}

// useNext reports whether a resolved morph pixel samples the next scene.
func useNext(blend, grain2 float64) bool {
	return blend > grain2
}

// Shade evaluates one output pixel at backing coordinates (x, y). It returns
// the alpha of the pixel; zero means off.
func (r *SoftwareRenderer) Shade(u *FrameUniforms, cur, next *Luminance, x, y int) float64 {
	if u.Mode < 0.5 {
		return 0
	}
	if cur == nil {
		cur = r.blank
	}
	if next == nil {
		next = r.blank
	}

	fx, fy := float64(x)+0.5, float64(y)+0.5
	ps := r.sample(u, fx, fy)
	scale := float64(u.Scale)
	sx := (fx - float64(u.Origin[0])) / scale
	sy := (fy - float64(u.Origin[1])) / scale

	boost := 0.0
	for i := 0; i < MaxGlitchRows; i++ {
		if float32(i) < u.GlitchCount && math.Abs(fy-float64(u.GlitchRows[i])) <= 1 {
			sx -= float64(u.GlitchShift[i]) / scale
			boost = float64(u.GlitchBoost)
		}
	}

	breath := float64(u.Breath)
	density := float64(u.NoiseDensity)
	spread := float64(u.RevealSpread)

	var on bool
	switch {
	case u.Mode < 1.5:
		on = ps.nFlick < density
	case u.Mode < 2.5:
		if revealed(float64(u.Reveal), ps.nGrain, spread) {
			on = cur.At(sx, sy)+breath > ps.thr
		} else {
			on = ps.nFlick < density
		}
	case u.Mode < 3.5:
		on = cur.At(sx, sy)+breath > ps.thr
	default:
		resolve := float64(u.Resolve)
		switch {
		case resolve <= 0:
			l := cur.At(sx, sy)
			d := float64(u.Dissolve)
			if dissolved(d, l, ps.nGrain, spread) {
				on = ps.nFlick < l+(density-l)*d
			} else {
				on = l+breath > ps.thr
			}
		case revealed(resolve, ps.nGrain, spread):
			c, s := math.Cos(float64(u.Swirl)), math.Sin(float64(u.Swirl))
			gx, gy := ps.nGrain-0.5, ps.nGrain2-0.5
			amt := float64(u.SwirlAmount)
			dx, dy := (gx*c-gy*s)*amt, (gx*s+gy*c)*amt
			src := cur
			if useNext(float64(u.Blend), ps.nGrain2) {
				src = next
			}
			on = src.At(sx+dx, sy+dy)+breath > ps.thr
		default:
			on = ps.nFlick < float64(u.Residue)
		}
	}
	if ps.nSpark < float64(u.Sparkle) {
		on = true
	}
	if !on {
		return 0
	}

	a := float64(u.BaseAlpha) + boost
	if u.ScanHalf > 0 {
		d := math.Abs(fy/float64(u.Screen[1]) - float64(u.ScanPos))
		a += float64(u.ScanBoost) * math.Max(0, 1-d/float64(u.ScanHalf))
	}
	if u.PointerActive > 0 && u.PointerRadius > 0 {
		d := math.Hypot(fx-float64(u.Pointer[0]), fy-float64(u.Pointer[1]))
		if d < float64(u.PointerRadius) {
			f := 1 - d/float64(u.PointerRadius)
			a += float64(u.PointerBoost) * f * f
		}
	}
	return clamp01(a)
}

// Render draws one frame into dst, which should be the backing store size.
// The output is premultiplied like the GPU path.
func (r *SoftwareRenderer) Render(u *FrameUniforms, cur, next *Luminance, dst *image.RGBA) {
	light := Color{float64(u.Light[0]), float64(u.Light[1]), float64(u.Light[2]), 1}
	dark := Color{float64(u.Dark[0]), float64(u.Dark[1]), float64(u.Dark[2]), 1}
	c := light.Mix(dark, float64(u.Invert))

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[(y-b.Min.Y)*dst.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			a := r.Shade(u, cur, next, x-b.Min.X, y-b.Min.Y)
			p := row[(x-b.Min.X)*4 : (x-b.Min.X)*4+4]
			p[0] = unit8(c.R * a)
			p[1] = unit8(c.G * a)
			p[2] = unit8(c.B * a)
			p[3] = unit8(a)
		}
	}
}
