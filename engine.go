package ambient

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoScenes is returned by NewEngine when no asset paths are given.
var ErrNoScenes = errors.New("ambient: no scenes")

// Options configures a new Engine.
type Options struct {
	// Assets is the ordered list of scene image paths inside FS.
	Assets []string
	// FS resolves asset paths. Nil means the working directory.
	FS fs.FS
	// Config is the tuning. Nil means DefaultConfig.
	Config *Config
	// Capabilities is read once here and never re-queried.
	Capabilities Capabilities
	// Random seeds the noise field and every random decision. Nil means a
	// crypto-keyed source.
	Random Source
	// Clock drives the simulation. Nil means the system clock.
	Clock Clock
	// Logger receives lifecycle and stall messages. Nil logs warnings and
	// above to stderr.
	Logger *log.Logger
	// Debug enables periodic frame stats logging.
	Debug bool
}

// Engine renders the dithered ambient background with a Kage shader. Hosts
// call Update and Draw from their ebiten.Game and forward input through the
// setters. It is single-threaded: only asset decoding runs in the background.
type Engine struct {
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	assets []string
	fsys   fs.FS
	cfg    *Config
	clock  Clock
	log    *log.Logger
	debug  bool

	sim      *Simulation
	noise    *NoiseField
	shader   *ebiten.Shader
	textures sceneStore
	uniforms *uniformSet
	shaderOp ebiten.DrawRectShaderOptions

	cancel    context.CancelFunc
	results   <-chan sceneResult
	loadStart time.Duration
	active    bool
	released  bool
	visible   bool
	skipped   bool

	script          *ScriptRunner
	screenshotQueue []string
	stats           frameStats
}

// NewEngine validates opts, builds the noise field and compiles the shader.
// A shader failure is reported as ErrUnsupported; the host should skip the
// effect.
func NewEngine(opts Options) (*Engine, error) {
	if len(opts.Assets) == 0 {
		return nil, ErrNoScenes
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ambient", Level: log.WarnLevel})
	}
	src := opts.Random
	if src == nil {
		src = NewCryptoSource()
	}
	clock := opts.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = os.DirFS(".")
	}

	shader, err := compileShader()
	if err != nil {
		logger.Error("shader unavailable", "err", err)
		return nil, err
	}

	noise := NewNoiseField(cfg.Render.NoiseSize, src)
	e := &Engine{
		ScreenshotDir: "screenshots",
		assets:        opts.Assets,
		fsys:          fsys,
		cfg:           cfg,
		clock:         clock,
		log:           logger,
		debug:         opts.Debug,
		sim:           NewSimulation(cfg, opts.Capabilities, len(opts.Assets), src, logger),
		noise:         noise,
		shader:        shader,
		textures:      newTextureSet(cfg.Render.Width, cfg.Render.Height, len(opts.Assets), noise),
		uniforms:      newUniformSet(),
		visible:       true,
	}
	return e, nil
}

// sceneStore holds the uploaded scene textures. *textureSet implements it.
type sceneStore interface {
	setScene(i int, lum *Luminance)
	scene(i int) *ebiten.Image
	auxImage() *ebiten.Image
	ready() bool
	dispose()
}

// Start begins loading every scene in the background. Call it once; it does
// nothing after Stop.
func (e *Engine) Start() {
	if e.released {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.active = true
	e.loadStart = e.clock.Now()
	e.results = loadScenes(ctx, e.fsys, e.assets, e.cfg)
	e.log.Info("engine started", "scenes", len(e.assets), "touch", e.sim.Capabilities().Touch)
}

// Stop halts the engine and releases every GPU resource, whether or not
// Start was called. It is safe to call while scenes are still loading, and
// more than once; late results are dropped.
func (e *Engine) Stop() {
	if e.released {
		return
	}
	e.released = true
	e.active = false
	if e.cancel != nil {
		e.cancel()
	}
	e.results = nil
	e.textures.dispose()
	if e.shader != nil {
		e.shader.Deallocate()
	}
	e.log.Info("engine stopped")
}

// Active reports whether the engine is between Start and Stop.
func (e *Engine) Active() bool { return e.active }

// Simulation exposes the simulation for inspection.
func (e *Engine) Simulation() *Simulation { return e.sim }

// --- Host surface ---

// SetPointer records the pointer in logical pixels. No-op on touch devices.
func (e *Engine) SetPointer(x, y float64) { e.sim.SetPointer(x, y) }

// ClearPointer disables the reveal effect.
func (e *Engine) ClearPointer() { e.sim.ClearPointer() }

// SetViewportSize updates the logical viewport size.
func (e *Engine) SetViewportSize(w, h float64) { e.sim.SetViewportSize(w, h) }

// SetDevicePixelRatio updates the device pixel ratio before capping.
func (e *Engine) SetDevicePixelRatio(dpr float64) { e.sim.SetDevicePixelRatio(dpr) }

// SetColorInvert selects the inverted palette.
func (e *Engine) SetColorInvert(invert bool) { e.sim.SetColorInvert(invert) }

// SetScrollOffset records the host scroll position for ParallaxOffset.
func (e *Engine) SetScrollOffset(y float64) { e.sim.SetScrollOffset(y) }

// ParallaxOffset returns the vertical translation to apply to the output.
func (e *Engine) ParallaxOffset() float64 { return e.sim.ParallaxOffset() }

// SetVisible pauses stepping while the host is hidden. The first frame after
// becoming visible again is stall-compensated.
func (e *Engine) SetVisible(visible bool) {
	if visible && !e.visible {
		e.sim.Resume()
	}
	e.visible = visible
}

// SetScript attaches a script runner, stepped once per Update.
func (e *Engine) SetScript(r *ScriptRunner) { e.script = r }

// Layout records the logical size and device scale factor and returns the
// backing store size. Use it from ebiten.Game.Layout.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.sim.SetViewportSize(float64(outsideWidth), float64(outsideHeight))
	e.sim.SetDevicePixelRatio(ebiten.Monitor().DeviceScaleFactor())
	return e.sim.BackingSize()
}

// --- Frame loop ---

// Update collects finished loads and advances the simulation by one frame.
func (e *Engine) Update() error {
	if !e.active {
		return nil
	}
	e.drainLoads()
	if e.script != nil {
		e.script.step(e)
	}

	e.skipped = true
	if !e.visible {
		return nil
	}
	now := e.clock.Now()
	if !e.sim.ShouldStep(now) {
		return nil
	}
	e.skipped = false

	t0 := time.Now()
	e.sim.Step(now)
	e.stats.recordStep(time.Since(t0))
	if e.debug {
		e.stats.maybeLog(e.log, now, e.sim)
	}
	return nil
}

// Draw renders the current frame into dst. Throttled and hidden frames draw
// nothing; hosts that throttle should disable screen clearing.
func (e *Engine) Draw(dst *ebiten.Image) {
	if !e.active || e.skipped {
		return
	}
	t0 := time.Now()

	u := e.sim.Uniforms()
	e.uniforms.set(&u)
	st := e.sim.State()

	op := &e.shaderOp
	op.Images[0] = e.textures.scene(st.Current)
	op.Images[1] = e.textures.scene(st.Next)
	op.Images[2] = e.textures.auxImage()
	op.Uniforms = e.uniforms.m
	op.Blend = ebiten.BlendCopy
	op.GeoM.Reset()
	op.GeoM.Scale(float64(u.Scale), float64(u.Scale))
	op.GeoM.Translate(float64(u.Origin[0]), float64(u.Origin[1]))
	dst.DrawRectShader(e.cfg.Render.Width, e.cfg.Render.Height, e.shader, op)

	e.flushScreenshots(dst)
	e.stats.recordDraw(time.Since(t0))
}

// drainLoads applies finished loads without blocking. Once every scene is
// uploaded the boot asset gate opens.
func (e *Engine) drainLoads() {
	for e.results != nil {
		select {
		case r, ok := <-e.results:
			if !ok {
				e.results = nil
				return
			}
			e.applyLoad(r)
		default:
			return
		}
	}
}

func (e *Engine) applyLoad(r sceneResult) {
	if !e.active {
		return
	}
	if r.err != nil {
		e.log.Error("scene load failed", "index", r.index, "path", r.path, "err", r.err)
		return
	}
	e.textures.setScene(r.index, r.lum)
	e.log.Debug("scene loaded", "index", r.index, "path", r.path, "took", r.elapsed)
	if e.textures.ready() {
		e.sim.MarkAssetsReady()
		e.log.Info("all scenes loaded", "count", len(e.assets), "after", e.clock.Now()-e.loadStart)
	}
}
