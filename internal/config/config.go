// Package config is responsible for setting the program config from
// the config file and command-line arguments
package config

import (
	"fmt"
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings
	Config struct {
		Pulse      PulseConfig      `mapstructure:"pulse"`
		Camera     CameraConfig     `mapstructure:"camera"`
		Microphone MicrophoneConfig `mapstructure:"microphone"`
		Breathing  BreathingConfig  `mapstructure:"breathing"`
		Analysis   AnalysisConfig   `mapstructure:"analysis"`
		Display    DisplayConfig    `mapstructure:"display"`
		Log        LogConfig        `mapstructure:"log"`
		System     SystemConfig     `mapstructure:"-"`
	}

	// PulseConfig holds the parameters of the heart rate estimator.
	PulseConfig struct {
		CoverThreshold  float64       `mapstructure:"cover_threshold"`
		ThresholdFactor float64       `mapstructure:"threshold_factor"`
		MinBPM          float64       `mapstructure:"min_bpm"`
		MaxBPM          float64       `mapstructure:"max_bpm"`
		Refractory      time.Duration `mapstructure:"refractory"`
		BufferSize      int           `mapstructure:"buffer_size"`
		SearchStart     int           `mapstructure:"search_start"`
		SearchEnd       int           `mapstructure:"search_end"`
		MaxPeaks        int           `mapstructure:"max_peaks"`
	}

	// CameraConfig describes where frames come from and the capture hints.
	CameraConfig struct {
		// Source is "simulated" or a directory of image frames
		Source       string  `mapstructure:"source"`
		Facing       string  `mapstructure:"facing"`
		SimulatedBPM float64 `mapstructure:"simulated_bpm"`
		Noise        float64 `mapstructure:"noise"`
		Width        int     `mapstructure:"width"`
		Height       int     `mapstructure:"height"`
		FPS          int     `mapstructure:"fps"`
	}

	// MicrophoneConfig holds microphone settings.
	MicrophoneConfig struct {
		// Device is checked for presence before access is granted. An empty
		// value skips the check.
		Device string `mapstructure:"device"`
	}

	// BreathingConfig holds guided breathing settings.
	BreathingConfig struct {
		Cmd      string        `mapstructure:"cmd"`
		Duration time.Duration `mapstructure:"duration"`
		Inhale   time.Duration `mapstructure:"inhale"`
		Hold     time.Duration `mapstructure:"hold"`
		Exhale   time.Duration `mapstructure:"exhale"`
		Chime    bool          `mapstructure:"chime"`
		Notify   bool          `mapstructure:"notify"`
	}

	// AnalysisConfig holds settings for the remote analysis service.
	AnalysisConfig struct {
		Endpoint  string        `mapstructure:"endpoint"`
		Model     string        `mapstructure:"model"`
		APIKeyEnv string        `mapstructure:"api_key_env"`
		Timeout   time.Duration `mapstructure:"timeout"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
	}

	// LogConfig holds logging settings.
	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	// SystemConfig holds system-related settings
	SystemConfig struct {
		ConfigPath string
		DBPath     string
		LogPath    string
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

// SourceSimulated selects the built-in simulated camera.
const SourceSimulated = "simulated"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// WithPaths returns an Option that records the resolved file locations.
func WithPaths(configPath, dbPath, logPath string) Option {
	return func(c *Config) error {
		c.System = SystemConfig{
			ConfigPath: configPath,
			DBPath:     dbPath,
			LogPath:    logPath,
		}

		return nil
	}
}

// APIKey returns the analysis service key from the environment.
func (c *Config) APIKey() string {
	if c.Analysis.APIKeyEnv == "" {
		return ""
	}

	return os.Getenv(c.Analysis.APIKeyEnv)
}

func (c *Config) String() string {
	return fmt.Sprintf("config(%s)", c.System.ConfigPath)
}
