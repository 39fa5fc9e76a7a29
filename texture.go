package ambient

import "github.com/hajimehoshi/ebiten/v2"

// textureSet owns every GPU image the engine draws with. All images share the
// working resolution because DrawRectShader requires sources the size of the
// drawn rectangle. They are allocated once and released by dispose.
type textureSet struct {
	w, h   int
	blank  *ebiten.Image
	aux    *ebiten.Image
	scenes []*ebiten.Image
	loaded int
}

func newTextureSet(w, h, sceneCount int, noise *NoiseField) *textureSet {
	ts := &textureSet{
		w:      w,
		h:      h,
		blank:  ebiten.NewImage(w, h),
		aux:    ebiten.NewImage(w, h),
		scenes: make([]*ebiten.Image, sceneCount),
	}
	ts.aux.WritePixels(auxPixels(w, h, noise, Bayer()))
	return ts
}

// setScene uploads the luminance of scene i. A scene is uploaded at most once.
func (ts *textureSet) setScene(i int, lum *Luminance) {
	if i < 0 || i >= len(ts.scenes) || ts.scenes[i] != nil {
		return
	}
	img := ebiten.NewImage(ts.w, ts.h)
	img.WritePixels(lum.Pixels())
	ts.scenes[i] = img
	ts.loaded++
}

// scene returns the texture for scene i, or the blank placeholder if it has
// not been loaded.
func (ts *textureSet) scene(i int) *ebiten.Image {
	if i >= 0 && i < len(ts.scenes) && ts.scenes[i] != nil {
		return ts.scenes[i]
	}
	return ts.blank
}

func (ts *textureSet) auxImage() *ebiten.Image { return ts.aux }

// ready reports whether every scene has been uploaded.
func (ts *textureSet) ready() bool {
	return ts.loaded == len(ts.scenes)
}

func (ts *textureSet) dispose() {
	for i, img := range ts.scenes {
		if img != nil {
			img.Deallocate()
			ts.scenes[i] = nil
		}
	}
	ts.blank.Deallocate()
	ts.aux.Deallocate()
	ts.loaded = 0
}

// auxPixels packs noise channel A (red), the dither matrix (green) and noise
// channel B (blue) into one opaque w×h RGBA buffer, tiling both patterns.
func auxPixels(w, h int, noise *NoiseField, m *DitherMatrix) []byte {
	buf := make([]byte, w*h*4)
	n := noise.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 4
			buf[off+0] = unit8(noise.A(x%n, y%n))
			buf[off+1] = unit8(m.At(x, y))
			buf[off+2] = unit8(noise.B(x%n, y%n))
			buf[off+3] = 0xff
		}
	}
	return buf
}
