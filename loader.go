package ambient

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"runtime"
	"time"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// sceneResult is one finished (or failed) asset load.
type sceneResult struct {
	index   int
	path    string
	lum     *Luminance
	err     error
	elapsed time.Duration
}

// LoadScene decodes one image from fsys and preprocesses it at the working
// resolution of cfg.
func LoadScene(fsys fs.FS, path string, cfg *Config) (*Luminance, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}
	return Preprocess(img, cfg.Render.Width, cfg.Render.Height, cfg.Tone), nil
}

// loadScenes starts one independent load per path, at most NumCPU at a time.
// Every load reports exactly once on the returned channel, which is closed
// after the last one. Loads that have not started when ctx is canceled are
// skipped; the consumer must still ignore anything that arrives after stop.
func loadScenes(ctx context.Context, fsys fs.FS, paths []string, cfg *Config) <-chan sceneResult {
	out := make(chan sceneResult, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				start := time.Now()
				lum, err := LoadScene(fsys, path, cfg)
				out <- sceneResult{
					index:   i,
					path:    path,
					lum:     lum,
					err:     err,
					elapsed: time.Since(start),
				}
				return nil
			})
		}
		_ = g.Wait()
		close(out)
	}()

	return out
}
