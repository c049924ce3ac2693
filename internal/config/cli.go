package config

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Source        string
	Duration      string
	Cmd           string
	Model         string
	LogLevel      string
	FPS           int
	SimulatedBPM  float64
	DisableNotify bool
	NoChime       bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Source:        ctx.String("source"),
			Duration:      ctx.String("duration"),
			Cmd:           ctx.String("cmd"),
			Model:         ctx.String("model"),
			LogLevel:      ctx.String("log-level"),
			FPS:           ctx.Int("fps"),
			SimulatedBPM:  ctx.Float64("bpm"),
			DisableNotify: ctx.Bool("disable-notification"),
			NoChime:       ctx.Bool("no-chime"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config. Zero values leave the
// file config untouched.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if opts.Source != "" {
		c.Camera.Source = opts.Source
	}

	if opts.FPS > 0 {
		c.Camera.FPS = opts.FPS
	}

	if opts.SimulatedBPM > 0 {
		c.Camera.SimulatedBPM = opts.SimulatedBPM
	}

	if opts.Duration != "" {
		dur, err := parseDuration(opts.Duration)
		if err != nil {
			return errInvalidCLIDuration.Fmt("breathing").Wrap(err)
		}

		c.Breathing.Duration = dur
	}

	if opts.DisableNotify {
		c.Breathing.Notify = false
	}

	if opts.NoChime {
		c.Breathing.Chime = false
	}

	if opts.Cmd != "" {
		c.Breathing.Cmd = opts.Cmd
	}

	if opts.Model != "" {
		c.Analysis.Model = opts.Model
	}

	if lvl := strings.TrimSpace(opts.LogLevel); lvl != "" {
		c.Log.Level = lvl
	}

	return nil
}
