package ambient

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned by Config.Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("ambient: invalid config")

// Config holds every tunable of the effect. The zero value is not usable; start
// from DefaultConfig and override fields, or load a YAML file with LoadConfig.
type Config struct {
	Boot    BootConfig    `yaml:"boot"`
	Hold    HoldConfig    `yaml:"hold"`
	Morph   MorphConfig   `yaml:"morph"`
	Breath  BreathConfig  `yaml:"breath"`
	Scan    ScanConfig    `yaml:"scan"`
	Pointer PointerConfig `yaml:"pointer"`
	Glitch  GlitchConfig  `yaml:"glitch"`
	Tone    ToneCurve     `yaml:"tone"`
	Render  RenderConfig  `yaml:"render"`
	Palette PaletteConfig `yaml:"palette"`
}

// BootConfig times the three boot sub-stages. Void and Noise are fixed
// durations; the resolve sub-stage runs until Budget has elapsed.
type BootConfig struct {
	Void         time.Duration `yaml:"void"`
	Noise        time.Duration `yaml:"noise"`
	Budget       time.Duration `yaml:"budget"`
	NoiseDensity float64       `yaml:"noise_density"`
	// RevealSpread scales the per-pixel jitter of the resolve decision.
	// Every pixel is revealed once progress passes RevealSpread.
	RevealSpread float64 `yaml:"reveal_spread"`
}

// HoldConfig times the idle phase.
type HoldConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// MorphConfig shapes the scene transition. DissolveEnd and NoiseEnd split the
// [0,1] progress into dissolve, noise-dominant and resolve windows.
type MorphConfig struct {
	Duration     time.Duration `yaml:"duration"`
	DissolveEnd  float64       `yaml:"dissolve_end"`
	NoiseEnd     float64       `yaml:"noise_end"`
	SwirlPixels  float64       `yaml:"swirl_pixels"`
	SwirlTurns   float64       `yaml:"swirl_turns"`
	SparklePeak  float64       `yaml:"sparkle_peak"`
	// ResidueNoise is the density, relative to the boot density, that the
	// remaining noise thins to by the end of the resolve window.
	ResidueNoise float64 `yaml:"residue_noise"`
}

// BreathConfig is the low-frequency threshold oscillation.
type BreathConfig struct {
	Period    time.Duration `yaml:"period"`
	Amplitude float64       `yaml:"amplitude"`
}

// ScanConfig is the drifting horizontal highlight band.
type ScanConfig struct {
	Period     time.Duration `yaml:"period"`
	HalfHeight float64       `yaml:"half_height"` // fraction of viewport height
	Boost      float64       `yaml:"boost"`
}

// PointerConfig is the cursor reveal effect. Radius is in logical pixels.
type PointerConfig struct {
	Radius float64 `yaml:"radius"`
	Boost  float64 `yaml:"boost"`
}

// GlitchConfig schedules the intermittent row-shift effect.
type GlitchConfig struct {
	IntervalMin time.Duration `yaml:"interval_min"`
	IntervalMax time.Duration `yaml:"interval_max"`
	Duration    time.Duration `yaml:"duration"`
	RowsMin     int           `yaml:"rows_min"`
	RowsMax     int           `yaml:"rows_max"`
	ShiftMin    float64       `yaml:"shift_min"` // logical pixels
	ShiftMax    float64       `yaml:"shift_max"`
	Boost       float64       `yaml:"boost"`
}

// RenderConfig controls texture sizes and the performance policy.
type RenderConfig struct {
	Width  int `yaml:"width"`  // working resolution of scene textures
	Height int `yaml:"height"` // working resolution of scene textures
	// CellSize is the dither cell edge in logical pixels.
	CellSize  float64 `yaml:"cell_size"`
	NoiseSize int     `yaml:"noise_size"`
	BaseAlpha float64 `yaml:"base_alpha"`
	// MaxDPR caps the device pixel ratio on pointer devices, TouchMaxDPR on
	// touch devices.
	MaxDPR      float64 `yaml:"max_dpr"`
	TouchMaxDPR float64 `yaml:"touch_max_dpr"`
	// TouchFPS throttles stepping and drawing on touch devices. Zero disables.
	TouchFPS int `yaml:"touch_fps"`
	// Stall is the frame gap beyond which timestamps are shifted forward.
	Stall time.Duration `yaml:"stall"`
	// Flicker is how long the boot/noise grain holds one offset.
	Flicker      time.Duration `yaml:"flicker"`
	InvertFade   time.Duration `yaml:"invert_fade"`
	ParallaxRate float64       `yaml:"parallax_rate"`
}

// PaletteConfig holds the two rendered colors as hex strings.
// Light is used for "on" pixels when not inverted, Dark when inverted.
type PaletteConfig struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() *Config {
	return &Config{
		Boot: BootConfig{
			Void:         200 * time.Millisecond,
			Noise:        300 * time.Millisecond,
			Budget:       2000 * time.Millisecond,
			NoiseDensity: 0.5,
			RevealSpread: 0.9,
		},
		Hold: HoldConfig{
			Duration: 8 * time.Second,
		},
		Morph: MorphConfig{
			Duration:     4 * time.Second,
			DissolveEnd:  0.3,
			NoiseEnd:     0.45,
			SwirlPixels:  18,
			SwirlTurns:   1.5,
			SparklePeak:  0.015,
			ResidueNoise: 0.5,
		},
		Breath: BreathConfig{
			Period:    6 * time.Second,
			Amplitude: 0.04,
		},
		Scan: ScanConfig{
			Period:     9 * time.Second,
			HalfHeight: 0.06,
			Boost:      0.18,
		},
		Pointer: PointerConfig{
			Radius: 160,
			Boost:  0.35,
		},
		Glitch: GlitchConfig{
			IntervalMin: 2500 * time.Millisecond,
			IntervalMax: 7 * time.Second,
			Duration:    140 * time.Millisecond,
			RowsMin:     2,
			RowsMax:     6,
			ShiftMin:    6,
			ShiftMax:    28,
			Boost:       0.25,
		},
		Tone: ToneCurve{
			Contrast:   1.35,
			Brightness: -0.04,
			Vignette:   0.55,
		},
		Render: RenderConfig{
			Width:        1920,
			Height:       1080,
			CellSize:     2,
			NoiseSize:    256,
			BaseAlpha:    0.22,
			MaxDPR:       2,
			TouchMaxDPR:  1.5,
			TouchFPS:     30,
			Stall:        250 * time.Millisecond,
			Flicker:      60 * time.Millisecond,
			InvertFade:   400 * time.Millisecond,
			ParallaxRate: 0.15,
		},
		Palette: PaletteConfig{
			Light: "#e8e6e1",
			Dark:  "#141414",
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. When the file cannot
// be read or parsed the defaults are still returned alongside the error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first setting that would break the simulation.
func (c *Config) Validate() error {
	switch {
	case c.Boot.Void < 0 || c.Boot.Noise < 0:
		return fmt.Errorf("%w: negative boot stage duration", ErrInvalidConfig)
	case c.Boot.Budget < c.Boot.Void+c.Boot.Noise:
		return fmt.Errorf("%w: boot budget %v shorter than void+noise", ErrInvalidConfig, c.Boot.Budget)
	case c.Hold.Duration <= 0:
		return fmt.Errorf("%w: hold duration must be positive", ErrInvalidConfig)
	case c.Morph.Duration <= 0:
		return fmt.Errorf("%w: morph duration must be positive", ErrInvalidConfig)
	case c.Morph.DissolveEnd <= 0 || c.Morph.NoiseEnd < c.Morph.DissolveEnd || c.Morph.NoiseEnd >= 1:
		return fmt.Errorf("%w: morph windows need 0 < dissolve_end <= noise_end < 1", ErrInvalidConfig)
	case c.Breath.Period <= 0 || c.Scan.Period <= 0:
		return fmt.Errorf("%w: breath and scan periods must be positive", ErrInvalidConfig)
	case c.Glitch.IntervalMin <= 0 || c.Glitch.IntervalMax < c.Glitch.IntervalMin:
		return fmt.Errorf("%w: glitch interval range", ErrInvalidConfig)
	case c.Glitch.RowsMin < 1 || c.Glitch.RowsMax < c.Glitch.RowsMin || c.Glitch.RowsMax > MaxGlitchRows:
		return fmt.Errorf("%w: glitch rows must satisfy 1 <= min <= max <= %d", ErrInvalidConfig, MaxGlitchRows)
	case c.Glitch.ShiftMax < c.Glitch.ShiftMin:
		return fmt.Errorf("%w: glitch shift range", ErrInvalidConfig)
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("%w: working resolution %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	case c.Render.NoiseSize < DitherSize || c.Render.NoiseSize > c.Render.Width || c.Render.NoiseSize > c.Render.Height:
		return fmt.Errorf("%w: noise size must fit inside the working resolution", ErrInvalidConfig)
	case c.Render.CellSize <= 0:
		return fmt.Errorf("%w: cell size must be positive", ErrInvalidConfig)
	case c.Render.MaxDPR <= 0 || c.Render.TouchMaxDPR <= 0:
		return fmt.Errorf("%w: DPR caps must be positive", ErrInvalidConfig)
	case c.Render.Stall <= 0:
		return fmt.Errorf("%w: stall threshold must be positive", ErrInvalidConfig)
	}
	if _, _, err := c.Palette.Colors(); err != nil {
		return err
	}
	return nil
}

// Colors parses the palette hex strings.
func (p PaletteConfig) Colors() (light, dark Color, err error) {
	l, err := colorful.Hex(p.Light)
	if err != nil {
		return Color{}, Color{}, fmt.Errorf("%w: palette light %q: %v", ErrInvalidConfig, p.Light, err)
	}
	d, err := colorful.Hex(p.Dark)
	if err != nil {
		return Color{}, Color{}, fmt.Errorf("%w: palette dark %q: %v", ErrInvalidConfig, p.Dark, err)
	}
	return Color{l.R, l.G, l.B, 1}, Color{d.R, d.G, d.B, 1}, nil
}
