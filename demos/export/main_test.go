package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/setanarut/apng"
)

func TestWriteAPNG(t *testing.T) {
	var frames []apng.Frame
	for i := 0; i < 3; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 8, 4))
		img.SetRGBA(i, 0, color.RGBA{R: 255, A: 255})
		frames = append(frames, apng.Frame{Image: img, DelayNumerator: 1, DelayDenominator: fps})
	}
	out := filepath.Join(t.TempDir(), "anim.png")
	if err := writeAPNG(out, frames); err != nil {
		t.Fatalf("writeAPNG: %v", err)
	}

	// The default image of an APNG is a plain PNG.
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 4) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestWriteAPNGBadPath(t *testing.T) {
	frames := []apng.Frame{{Image: image.NewRGBA(image.Rect(0, 0, 1, 1)), DelayNumerator: 1, DelayDenominator: fps}}
	if err := writeAPNG(filepath.Join(t.TempDir(), "missing", "a.png"), frames); err == nil {
		t.Error("expected error for missing directory")
	}
}
