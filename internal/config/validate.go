package config

import (
	"strings"
	"time"
)

var (
	minPhaseDuration = 1 * time.Second
	maxPhaseDuration = 30 * time.Second

	minBreathingDuration = 30 * time.Second
	maxBreathingDuration = 60 * time.Minute

	minFPS = 1
	maxFPS = 120
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validatePulse(); err != nil {
		return err
	}

	if err := c.validateCamera(); err != nil {
		return err
	}

	if err := c.validateBreathing(); err != nil {
		return err
	}

	if strings.TrimSpace(c.Analysis.Model) == "" {
		return errEmptyModel
	}

	return nil
}

func (c *Config) validatePulse() error {
	p := c.Pulse

	if p.SearchStart < 0 || p.SearchEnd <= p.SearchStart ||
		p.SearchEnd > p.BufferSize {
		return errInvalidSearchWindow.Fmt(
			p.SearchStart,
			p.SearchEnd,
			p.BufferSize,
		)
	}

	if p.MinBPM <= 0 || p.MinBPM >= p.MaxBPM {
		return errInvalidBPMRange.Fmt(p.MinBPM, p.MaxBPM)
	}

	if p.ThresholdFactor < 1 {
		return errInvalidThresholdFactor.Fmt(p.ThresholdFactor)
	}

	if p.MaxPeaks < 2 {
		return errInvalidMaxPeaks.Fmt(p.MaxPeaks)
	}

	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.FPS < minFPS || c.Camera.FPS > maxFPS {
		return errInvalidFPS.Fmt(minFPS, maxFPS)
	}

	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return errInvalidResolution.Fmt(c.Camera.Width, c.Camera.Height)
	}

	return nil
}

func (c *Config) validateBreathing() error {
	b := c.Breathing

	if b.Duration < minBreathingDuration || b.Duration > maxBreathingDuration {
		return errInvalidDuration.Fmt(
			"breathing",
			minBreathingDuration,
			maxBreathingDuration,
		)
	}

	phases := []struct {
		name string
		dur  time.Duration
	}{
		{"inhale", b.Inhale},
		{"hold", b.Hold},
		{"exhale", b.Exhale},
	}

	for _, ph := range phases {
		if ph.dur < minPhaseDuration || ph.dur > maxPhaseDuration {
			return errInvalidDuration.Fmt(
				ph.name,
				minPhaseDuration,
				maxPhaseDuration,
			)
		}
	}

	return nil
}
