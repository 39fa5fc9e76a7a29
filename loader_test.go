package ambient

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func loaderConfig() *Config {
	cfg := DefaultConfig()
	cfg.Render.Width = 32
	cfg.Render.Height = 18
	cfg.Tone = ToneCurve{Contrast: 1}
	return cfg
}

func sceneFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"a.png":   {Data: encodePNG(t, 64, 36, color.White)},
		"b.png":   {Data: encodePNG(t, 40, 40, color.Black)},
		"bad.png": {Data: []byte("not an image")},
	}
}

func TestLoadScene(t *testing.T) {
	cfg := loaderConfig()
	lum, err := LoadScene(sceneFS(t), "a.png", cfg)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if lum.Width != 32 || lum.Height != 18 {
		t.Fatalf("size = %dx%d, want working resolution 32x18", lum.Width, lum.Height)
	}
	if got := lum.At(16, 9); got < 0.99 {
		t.Errorf("white scene luminance = %v", got)
	}
}

func TestLoadSceneErrors(t *testing.T) {
	cfg := loaderConfig()
	fsys := sceneFS(t)

	if _, err := LoadScene(fsys, "missing.png", cfg); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: err = %v, want fs.ErrNotExist", err)
	}
	if _, err := LoadScene(fsys, "bad.png", cfg); !errors.Is(err, image.ErrFormat) {
		t.Errorf("bad file: err = %v, want image.ErrFormat", err)
	}
}

// collect drains ch until it closes or the deadline passes.
func collect(t *testing.T, ch <-chan sceneResult) []sceneResult {
	t.Helper()
	var out []sceneResult
	timeout := time.After(10 * time.Second)
	for {
		select {
		case r, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, r)
		case <-timeout:
			t.Fatal("loadScenes did not close its channel")
			return nil
		}
	}
}

func TestLoadScenesReportsEveryPathOnce(t *testing.T) {
	paths := []string{"a.png", "bad.png", "b.png", "missing.png"}
	results := collect(t, loadScenes(context.Background(), sceneFS(t), paths, loaderConfig()))

	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	seen := make(map[int]sceneResult)
	for _, r := range results {
		if _, dup := seen[r.index]; dup {
			t.Fatalf("index %d reported twice", r.index)
		}
		seen[r.index] = r
		if r.path != paths[r.index] {
			t.Errorf("index %d path = %q, want %q", r.index, r.path, paths[r.index])
		}
	}

	for i, wantErr := range []bool{false, true, false, true} {
		r := seen[i]
		if (r.err != nil) != wantErr {
			t.Errorf("%s: err = %v, want error %v", r.path, r.err, wantErr)
		}
		if !wantErr && r.lum == nil {
			t.Errorf("%s: no luminance", r.path)
		}
	}
	if got := seen[2].lum.At(16, 9); got > 0.01 {
		t.Errorf("black scene luminance = %v", got)
	}
}

func TestLoadScenesCanceledSkipsWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := collect(t, loadScenes(ctx, sceneFS(t), []string{"a.png", "b.png"}, loaderConfig()))
	if len(results) != 0 {
		t.Errorf("got %d results after cancel, want 0", len(results))
	}
}
