// Export renders the ambient background offline with the software renderer
// and writes an animated PNG. Time is driven by a mock clock, so a fixed
// -seed gives byte-identical output.
package main

import (
	"flag"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/setanarut/apng"

	"github.com/phanxgames/ambient"
)

// fps is the exported frame rate; each frame is delayed 1/fps seconds.
const fps = 25

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	dumpConfig := flag.String("dump-config", "", "write the effective config to this path and exit")
	assetDir := flag.String("assets", "scenes", "directory of scene images")
	out := flag.String("out", "ambient.png", "output APNG path")
	width := flag.Int("width", 480, "output width in pixels")
	height := flag.Int("height", 270, "output height in pixels")
	from := flag.Duration("from", 0, "first exported timestamp")
	length := flag.Duration("length", 6*time.Second, "exported duration")
	seed := flag.Uint64("seed", 1, "random seed")
	touch := flag.Bool("touch", false, "simulate a touch device")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "export", ReportTimestamp: true})

	cfg := ambient.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ambient.LoadConfig(*configPath); err != nil {
			logger.Warn("using default config", "err", err)
		}
	}
	// Preprocess at the output size; full working resolution is wasted here.
	cfg.Render.Width, cfg.Render.Height = *width, *height
	cfg.Render.NoiseSize = min(cfg.Render.NoiseSize, *width, *height)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("config", "err", err)
	}
	if *dumpConfig != "" {
		if err := ambient.SaveConfig(cfg, *dumpConfig); err != nil {
			logger.Fatal("dump config", "err", err)
		}
		return
	}

	fsys := os.DirFS(*assetDir)
	scenes, err := loadAll(fsys, cfg)
	if err != nil {
		logger.Fatal("load scenes", "dir", *assetDir, "err", err)
	}
	logger.Info("scenes loaded", "count", len(scenes))

	src := ambient.NewSeededSource(*seed)
	noise := ambient.NewNoiseField(cfg.Render.NoiseSize, src)
	sim := ambient.NewSimulation(cfg, ambient.Capabilities{Touch: *touch}, len(scenes), src, logger)
	sim.SetViewportSize(float64(*width), float64(*height))
	sim.MarkAssetsReady()
	sw := ambient.NewSoftwareRenderer(noise)

	clock := ambient.NewMockClock(0)
	step := time.Second / fps
	end := *from + *length

	var frames []apng.Frame
	for now := time.Duration(0); now < end; now += step {
		clock.Set(now)
		sim.Step(clock.Now())
		if now < *from {
			continue
		}
		st := sim.State()
		u := sim.Uniforms()
		img := image.NewRGBA(image.Rect(0, 0, st.Backing[0], st.Backing[1]))
		sw.Render(&u, scenes[st.Current], scenes[st.Next], img)
		frames = append(frames, apng.Frame{Image: img, DelayNumerator: 1, DelayDenominator: fps})
	}

	if len(frames) == 0 {
		logger.Fatal("nothing to export", "from", *from, "length", *length)
	}
	if err := writeAPNG(*out, frames); err != nil {
		logger.Fatal("write animation", "path", *out, "err", err)
	}
	logger.Info("wrote animation", "path", *out, "frames", len(frames))
}

// writeAPNG encodes frames as a looping animated PNG.
func writeAPNG(name string, frames []apng.Frame) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := apng.EncodeAll(f, apng.APNG{Frames: frames}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return f.Close()
}

func loadAll(fsys fs.FS, cfg *ambient.Config) ([]*ambient.Luminance, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []*ambient.Luminance
	for _, e := range entries {
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".webp":
		default:
			continue
		}
		lum, err := ambient.LoadScene(fsys, e.Name(), cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, lum)
	}
	if len(out) == 0 {
		return nil, fs.ErrNotExist
	}
	return out, nil
}
