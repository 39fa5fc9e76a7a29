package ambient

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ToneCurve shapes the luminance of a scene before dithering.
type ToneCurve struct {
	Contrast   float64 `yaml:"contrast"`   // k in (l-0.5)*k + 0.5
	Brightness float64 `yaml:"brightness"` // additive bias after contrast
	Vignette   float64 `yaml:"vignette"`   // darkening at the corners, 0 disables
}

// Apply maps one luminance sample. nx and ny are the pixel position relative
// to the image center, normalized so the edges sit at ±1.
func (tc ToneCurve) Apply(l, nx, ny float64) float64 {
	l = (l-0.5)*tc.Contrast + 0.5 + tc.Brightness
	// Squared distance normalized so the corners reach 1.
	d2 := (nx*nx + ny*ny) / 2
	l *= 1 - tc.Vignette*d2
	return clamp01(l)
}

// Luminance is a single-channel field of values in [0, 1], row-major.
type Luminance struct {
	Width, Height int
	Pix           []float32
}

// NewLuminance allocates a black field.
func NewLuminance(w, h int) *Luminance {
	return &Luminance{Width: w, Height: h, Pix: make([]float32, w*h)}
}

// At samples the nearest texel; coordinates are clamped to the edges.
func (l *Luminance) At(x, y float64) float64 {
	ix := int(math.Floor(x))
	iy := int(math.Floor(y))
	ix = max(0, min(l.Width-1, ix))
	iy = max(0, min(l.Height-1, iy))
	return float64(l.Pix[iy*l.Width+ix])
}

// Pixels encodes the field as opaque gray RGBA bytes for texture upload.
func (l *Luminance) Pixels() []byte {
	buf := make([]byte, len(l.Pix)*4)
	for i, v := range l.Pix {
		g := unit8(float64(v))
		off := i * 4
		buf[off+0] = g
		buf[off+1] = g
		buf[off+2] = g
		buf[off+3] = 0xff
	}
	return buf
}

// Preprocess scales img to cover a w×h frame (center crop), converts it to
// perceptual luminance and applies the tone curve. It is pure and runs once
// per scene.
func Preprocess(img image.Image, w, h int, tone ToneCurve) *Luminance {
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, coverCrop(img.Bounds(), w, h), xdraw.Src, nil)

	out := NewLuminance(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y)+0.5)/float64(h)*2 - 1
		row := scaled.Pix[y*scaled.Stride:]
		for x := 0; x < w; x++ {
			nx := (float64(x)+0.5)/float64(w)*2 - 1
			p := row[x*4 : x*4+4]
			l := (0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])) / 255
			out.Pix[y*w+x] = float32(tone.Apply(l, nx, ny))
		}
	}
	return out
}

// coverCrop returns the centered sub-rectangle of src with the aspect ratio
// of w×h.
func coverCrop(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return src
	}
	target := float64(w) / float64(h)
	if float64(sw)/float64(sh) > target {
		cw := int(math.Round(float64(sh) * target))
		x0 := src.Min.X + (sw-cw)/2
		return image.Rect(x0, src.Min.Y, x0+cw, src.Max.Y)
	}
	ch := int(math.Round(float64(sw) / target))
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+ch)
}
