// Ambient runs the dithered background in a window. Scenes are read from a
// directory of PNG, JPEG or WebP images; -script replays a JSON host script
// and -debug shows the frame overlay.
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/ambient"
)

const (
	windowTitle = "Ambient"
	screenW     = 1280
	screenH     = 720
)

type game struct {
	eng    *ambient.Engine
	input  *ambient.HostInput
	canvas *ebiten.Image
	debug  bool
	invert bool

	light, dark ambient.Color

	width, height int
	dpr           float64
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.invert = !g.invert
		g.eng.SetColorInvert(g.invert)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.eng.Screenshot("manual")
	}
	g.input.Poll(g.eng, ambient.Vec2{X: float64(g.width), Y: float64(g.height)}, g.dpr)
	return g.eng.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if g.canvas == nil || g.canvas.Bounds() != b {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.eng.Draw(g.canvas)

	screen.Fill(g.backdrop().NRGBA())
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(0, g.eng.ParallaxOffset()*g.dpr)
	screen.DrawImage(g.canvas, &op)

	if g.debug {
		g.eng.DrawDebug(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	w, h := g.eng.Layout(outsideWidth, outsideHeight)
	g.dpr = float64(w) / float64(max(1, outsideWidth))
	return w, h
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	assetDir := flag.String("assets", "scenes", "directory of scene images")
	touch := flag.Bool("touch", false, "simulate a touch device")
	debug := flag.Bool("debug", false, "show the debug overlay and log frame stats")
	level := flag.String("log", "info", "log level: debug, info, warn, error")
	scriptPath := flag.String("script", "", "JSON host script to replay")
	seed := flag.Uint64("seed", 0, "random seed; 0 uses a crypto source")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "ambient", ReportTimestamp: true})
	if lvl, err := log.ParseLevel(*level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level", "level", *level)
	}

	cfg := ambient.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ambient.LoadConfig(*configPath); err != nil {
			logger.Warn("using default config", "err", err)
		}
	}

	fsys := os.DirFS(*assetDir)
	assets, err := sceneFiles(fsys)
	if err != nil {
		logger.Fatal("list scenes", "dir", *assetDir, "err", err)
	}

	caps := ambient.DetectCapabilities()
	if *touch {
		caps.Touch = true
	}
	var src ambient.Source
	if *seed != 0 {
		src = ambient.NewSeededSource(*seed)
	}

	eng, err := ambient.NewEngine(ambient.Options{
		Assets:       assets,
		FS:           fsys,
		Config:       cfg,
		Capabilities: caps,
		Random:       src,
		Logger:       logger,
		Debug:        *debug,
	})
	switch {
	case errors.Is(err, ambient.ErrUnsupported):
		logger.Error("effect unsupported on this device, not mounting", "err", err)
		return
	case err != nil:
		logger.Fatal("create engine", "err", err)
	}

	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			logger.Fatal("read script", "err", err)
		}
		runner, err := ambient.LoadScript(data)
		if err != nil {
			logger.Fatal("load script", "err", err)
		}
		eng.SetScript(runner)
	}

	eng.Start()
	defer eng.Stop()

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// Throttled frames draw nothing and must keep the previous image.
	ebiten.SetScreenClearedEveryFrame(!caps.Touch)

	light, dark, _ := cfg.Palette.Colors()
	g := &game{
		eng:   eng,
		input: ambient.NewHostInput(),
		debug: *debug,
		dpr:   1,
		light: light,
		dark:  dark,
	}
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("run", "err", err)
	}
}

// sceneFiles lists the images in the root of fsys in name order.
func sceneFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".webp":
			out = append(out, e.Name())
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no images found")
	}
	return out, nil
}

// backdrop is the "off" color behind the effect: the palette color that lit
// pixels are not using.
func (g *game) backdrop() ambient.Color {
	if g.invert {
		return g.light
	}
	return g.dark
}
