package breathing

import (
	"time"

	"github.com/ayoisaiah/serene/internal/config"
)

// Phase is one part of a breathing cycle.
type Phase int

const (
	Inhale Phase = iota
	Hold
	Exhale
)

func (p Phase) String() string {
	switch p {
	case Inhale:
		return "Inhale"
	case Hold:
		return "Hold"
	case Exhale:
		return "Exhale"
	}

	return ""
}

// Instruction is the prompt shown to the user during the phase.
func (p Phase) Instruction() string {
	switch p {
	case Inhale:
		return "Breathe in slowly through your nose"
	case Hold:
		return "Hold your breath"
	case Exhale:
		return "Breathe out gently through your mouth"
	}

	return ""
}

// Pattern is the length of each phase.
type Pattern struct {
	Inhale time.Duration
	Hold   time.Duration
	Exhale time.Duration
}

// DefaultPattern is the 4-4-6 rhythm.
var DefaultPattern = Pattern{
	Inhale: 4 * time.Second,
	Hold:   4 * time.Second,
	Exhale: 6 * time.Second,
}

// PatternFromConfig reads the phase lengths from cfg.
func PatternFromConfig(cfg *config.BreathingConfig) Pattern {
	return Pattern{
		Inhale: cfg.Inhale,
		Hold:   cfg.Hold,
		Exhale: cfg.Exhale,
	}
}

// Len returns the length of one full cycle.
func (p Pattern) Len() time.Duration {
	return p.Inhale + p.Hold + p.Exhale
}

func (p Pattern) phaseLen(ph Phase) time.Duration {
	switch ph {
	case Hold:
		return p.Hold
	case Exhale:
		return p.Exhale
	default:
		return p.Inhale
	}
}

// Step describes where an exercise is after some time has elapsed.
type Step struct {
	Phase Phase
	// Remaining is the time left in the current phase.
	Remaining time.Duration
	// Transitions counts the phase changes so far.
	Transitions int
	// Breaths counts the completed inhale-hold-exhale cycles.
	Breaths int
}

// Progress is the fraction of the current phase that has passed.
func (s Step) Progress(p Pattern) float64 {
	total := p.phaseLen(s.Phase)
	if total <= 0 {
		return 1
	}

	return 1 - float64(s.Remaining)/float64(total)
}

// At returns the step reached after elapsed time.
func (p Pattern) At(elapsed time.Duration) Step {
	cycle := p.Len()
	if cycle <= 0 || elapsed < 0 {
		return Step{Phase: Inhale, Remaining: p.Inhale}
	}

	breaths := int(elapsed / cycle)
	offset := elapsed % cycle

	step := Step{Breaths: breaths, Transitions: breaths * 3}

	for _, ph := range []Phase{Inhale, Hold, Exhale} {
		d := p.phaseLen(ph)
		if offset < d {
			step.Phase = ph
			step.Remaining = d - offset

			return step
		}

		offset -= d
		step.Transitions++
	}

	// unreachable while offset < cycle
	return step
}
