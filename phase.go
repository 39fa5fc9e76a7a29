package ambient

// Phase is the top-level state of the engine.
type Phase uint8

const (
	PhaseBoot  Phase = iota // void, noise, then resolve into the first scene
	PhaseHold               // static dithered scene with breathing
	PhaseMorph              // transition from the current scene to the next
)

func (p Phase) String() string {
	switch p {
	case PhaseBoot:
		return "boot"
	case PhaseHold:
		return "hold"
	case PhaseMorph:
		return "morph"
	default:
		return "unknown"
	}
}

// BootStage is the sub-stage inside PhaseBoot.
type BootStage uint8

const (
	BootVoid    BootStage = iota // blank output
	BootNoise                    // ramping noise; also the asset gate
	BootResolve                  // noise resolving into the first scene
)

func (s BootStage) String() string {
	switch s {
	case BootVoid:
		return "void"
	case BootNoise:
		return "noise"
	case BootResolve:
		return "resolve"
	default:
		return "unknown"
	}
}

// Render modes passed to the shader. They flatten Phase and BootStage.
const (
	modeVoid   = 0
	modeNoise  = 1
	modeReveal = 2
	modeHold   = 3
	modeMorph  = 4
)
