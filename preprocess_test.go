package ambient

import (
	"image"
	"image/color"
	"testing"
)

func TestToneCurveIdentity(t *testing.T) {
	tc := ToneCurve{Contrast: 1}
	for _, l := range []float64{0, 0.25, 0.5, 1} {
		assertNear(t, "identity", tc.Apply(l, 0.7, -0.3), l)
	}
}

func TestToneCurveContrastAndBias(t *testing.T) {
	tc := ToneCurve{Contrast: 2, Brightness: 0.1}
	assertNear(t, "mid", tc.Apply(0.5, 0, 0), 0.6)
	assertNear(t, "dark", tc.Apply(0.3, 0, 0), 0.2)
	assertNear(t, "clamped high", tc.Apply(0.9, 0, 0), 1)
	assertNear(t, "clamped low", tc.Apply(0.1, 0, 0), 0)
}

func TestToneCurveVignette(t *testing.T) {
	tc := ToneCurve{Contrast: 1, Vignette: 0.5}
	center := tc.Apply(0.8, 0, 0)
	edge := tc.Apply(0.8, 1, 0)
	corner := tc.Apply(0.8, 1, 1)
	assertNear(t, "center", center, 0.8)
	assertNear(t, "edge", edge, 0.8*0.75)
	assertNear(t, "corner", corner, 0.8*0.5)
}

func TestPreprocessLuminanceWeights(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want float64
	}{
		{"red", color.RGBA{255, 0, 0, 255}, 0.299},
		{"green", color.RGBA{0, 255, 0, 255}, 0.587},
		{"blue", color.RGBA{0, 0, 255, 255}, 0.114},
		{"white", color.RGBA{255, 255, 255, 255}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solidImage(40, 20, tt.c)
			lum := Preprocess(src, 8, 4, ToneCurve{Contrast: 1})
			if lum.Width != 8 || lum.Height != 4 || len(lum.Pix) != 32 {
				t.Fatalf("size = %dx%d (%d)", lum.Width, lum.Height, len(lum.Pix))
			}
			if got := lum.At(3, 2); got < tt.want-5e-3 || got > tt.want+5e-3 {
				t.Errorf("luminance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreprocessCoverCropsCenter(t *testing.T) {
	// A 30x10 image with a white center third; cropping to a square keeps
	// only the white part.
	src := image.NewRGBA(image.Rect(0, 0, 30, 10))
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			src.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	lum := Preprocess(src, 4, 4, ToneCurve{Contrast: 1})
	for i, v := range lum.Pix {
		if v < 0.99 {
			t.Fatalf("pixel %d = %v, want white after center crop", i, v)
		}
	}
}

func TestCoverCrop(t *testing.T) {
	tests := []struct {
		src  image.Rectangle
		w, h int
		want image.Rectangle
	}{
		{image.Rect(0, 0, 200, 100), 100, 100, image.Rect(50, 0, 150, 100)},
		{image.Rect(0, 0, 100, 200), 100, 100, image.Rect(0, 50, 100, 150)},
		{image.Rect(0, 0, 1920, 1080), 16, 9, image.Rect(0, 0, 1920, 1080)},
		{image.Rect(10, 10, 30, 20), 2, 1, image.Rect(10, 10, 30, 20)},
	}
	for _, tt := range tests {
		if got := coverCrop(tt.src, tt.w, tt.h); got != tt.want {
			t.Errorf("coverCrop(%v, %d, %d) = %v, want %v", tt.src, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestLuminanceAtClamps(t *testing.T) {
	l := NewLuminance(2, 2)
	l.Pix = []float32{0.1, 0.2, 0.3, 0.4}
	assertNear(t, "inside", l.At(1.5, 0.2), float64(float32(0.2)))
	assertNear(t, "left", l.At(-5, 1), float64(float32(0.3)))
	assertNear(t, "far", l.At(9, 9), float64(float32(0.4)))
}

func TestLuminancePixels(t *testing.T) {
	l := NewLuminance(2, 1)
	l.Pix = []float32{0, 1}
	got := l.Pixels()
	want := []byte{0, 0, 0, 255, 255, 255, 255, 255}
	if string(got) != string(want) {
		t.Errorf("Pixels() = %v, want %v", got, want)
	}
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}
