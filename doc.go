// Package ambient is a generative full-viewport background for [Ebitengine].
//
// It dithers a rotating set of source images with an 8×8 ordered Bayer
// matrix, morphs between them through noise and a swirling warp, and layers
// a breathing threshold, a scanning highlight, a pointer reveal and an
// intermittent row-shift glitch on top. All per-pixel work happens in one
// Kage shader; the per-frame simulation is plain Go and runs without a GPU.
//
// # Quick start
//
// Create an [Engine] from a list of image paths and drive it from your own
// [ebiten.Game]:
//
//	eng, err := ambient.NewEngine(ambient.Options{
//		Assets:       []string{"scenes/a.jpg", "scenes/b.jpg"},
//		Capabilities: ambient.DetectCapabilities(),
//	})
//	if errors.Is(err, ambient.ErrUnsupported) {
//		// skip the effect
//	}
//	eng.Start()
//	defer eng.Stop()
//
//	func (g *Game) Update() error              { return g.eng.Update() }
//	func (g *Game) Draw(s *ebiten.Image)       { g.eng.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return g.eng.Layout(w, h) }
//
// Forward pointer, scroll and visibility with [HostInput], or call the setters
// directly.
//
// # Phases
//
// The engine boots (void, ramping noise, then resolve into the first scene),
// holds the current scene, then morphs to the next one and holds again,
// forever. Boot waits at full noise until every scene has loaded. A failed
// load leaves the engine in that state rather than failing.
//
// # Testing and offline rendering
//
// [Simulation] is the GPU-free core. Step it with explicit timestamps or a
// [MockClock], read [Simulation.Uniforms] and evaluate frames on the CPU with
// [SoftwareRenderer], which mirrors the shader.
//
// [Ebitengine]: https://ebitengine.org
package ambient
