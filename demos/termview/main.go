// Termview previews the ambient background in a terminal. Every character
// cell shows two stacked pixels with an upper half block. Move the mouse to
// use the reveal, press i to invert and q or Esc to quit.
package main

import (
	"flag"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/ambient"
)

const (
	frameInterval = time.Second / 30
	workW         = 320
	workH         = 180
)

type view struct {
	screen tcell.Screen
	sim    *ambient.Simulation
	sw     *ambient.SoftwareRenderer
	scenes []*ambient.Luminance
	clock  ambient.Clock

	light, dark ambient.Color
	invert      bool
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	assetDir := flag.String("assets", "scenes", "directory of scene images")
	logPath := flag.String("logfile", "", "write logs here; the terminal is busy")
	flag.Parse()

	logOut := os.Stderr
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatal("open log", "err", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{Prefix: "termview", ReportTimestamp: true, Level: log.DebugLevel})
	if *logPath == "" {
		logger.SetLevel(log.ErrorLevel)
	}

	cfg := ambient.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ambient.LoadConfig(*configPath); err != nil {
			logger.Warn("using default config", "err", err)
		}
	}
	cfg.Render.Width, cfg.Render.Height = workW, workH
	cfg.Render.NoiseSize = min(cfg.Render.NoiseSize, workH)
	cfg.Render.CellSize = 1

	fsys := os.DirFS(*assetDir)
	names, err := sceneFiles(fsys)
	if err != nil {
		logger.Fatal("list scenes", "err", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatal("create screen", "err", err)
	}
	if err := screen.Init(); err != nil {
		logger.Fatal("init screen", "err", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	src := ambient.NewCryptoSource()
	light, dark, _ := cfg.Palette.Colors()
	v := &view{
		screen: screen,
		sim:    ambient.NewSimulation(cfg, ambient.Capabilities{}, len(names), src, logger),
		sw:     ambient.NewSoftwareRenderer(ambient.NewNoiseField(cfg.Render.NoiseSize, src)),
		scenes: make([]*ambient.Luminance, len(names)),
		clock:  ambient.NewSystemClock(),
		light:  light,
		dark:   dark,
	}
	v.resize()

	loaded := make(chan []*ambient.Luminance, 1)
	go func() {
		out := make([]*ambient.Luminance, len(names))
		for i, name := range names {
			lum, err := ambient.LoadScene(fsys, name, cfg)
			if err != nil {
				// Boot stays at full noise.
				logger.Error("scene load failed", "path", name, "err", err)
				return
			}
			out[i] = lum
		}
		loaded <- out
	}()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case scenes := <-loaded:
			v.scenes = scenes
			v.sim.MarkAssetsReady()
		case ev, ok := <-events:
			if !ok || !v.handle(ev) {
				return
			}
		case <-ticker.C:
			v.sim.Step(v.clock.Now())
			v.draw()
		}
	}
}

// handle applies one terminal event and reports whether to keep running.
func (v *view) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'i':
			v.invert = !v.invert
			v.sim.SetColorInvert(v.invert)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		v.sim.SetPointer(float64(x)+0.5, float64(y*2)+1)
	case *tcell.EventFocus:
		if !ev.Focused {
			v.sim.ClearPointer()
		}
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	}
	return true
}

func (v *view) resize() {
	cols, rows := v.screen.Size()
	v.sim.SetViewportSize(float64(cols), float64(rows*2))
	v.sim.SetDevicePixelRatio(1)
}

func (v *view) draw() {
	st := v.sim.State()
	u := v.sim.Uniforms()
	lit := v.light.Mix(v.dark, float64(u.Invert))
	bg := v.dark.Mix(v.light, float64(u.Invert))

	var cur, next *ambient.Luminance
	if st.Current < len(v.scenes) {
		cur = v.scenes[st.Current]
	}
	if st.Next < len(v.scenes) {
		next = v.scenes[st.Next]
	}

	cols, rows := v.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := bg.Mix(lit, v.sw.Shade(&u, cur, next, x, y*2))
			bottom := bg.Mix(lit, v.sw.Shade(&u, cur, next, x, y*2+1))
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			v.screen.SetContent(x, y, '▀', nil, style)
		}
	}
	v.screen.Show()
}

func tcellColor(c ambient.Color) tcell.Color {
	n := c.NRGBA()
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

func sceneFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".webp":
			out = append(out, e.Name())
		}
	}
	if len(out) == 0 {
		return nil, fs.ErrNotExist
	}
	return out, nil
}
