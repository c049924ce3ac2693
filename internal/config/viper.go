package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	keyCoverThreshold  = "pulse.cover_threshold"
	keyBufferSize      = "pulse.buffer_size"
	keySearchStart     = "pulse.search_start"
	keySearchEnd       = "pulse.search_end"
	keyThresholdFactor = "pulse.threshold_factor"
	keyRefractory      = "pulse.refractory"
	keyMaxPeaks        = "pulse.max_peaks"
	keyMinBPM          = "pulse.min_bpm"
	keyMaxBPM          = "pulse.max_bpm"
	keyCameraSource    = "camera.source"
	keyCameraFacing    = "camera.facing"
	keyCameraWidth     = "camera.width"
	keyCameraHeight    = "camera.height"
	keyCameraFPS       = "camera.fps"
	keySimulatedBPM    = "camera.simulated_bpm"
	keyCameraNoise     = "camera.noise"
	keyMicDevice       = "microphone.device"
	keyBreathDuration  = "breathing.duration"
	keyBreathInhale    = "breathing.inhale"
	keyBreathHold      = "breathing.hold"
	keyBreathExhale    = "breathing.exhale"
	keyBreathChime     = "breathing.chime"
	keyBreathNotify    = "breathing.notify"
	keyBreathCmd       = "breathing.cmd"
	keyAnalysisURL     = "analysis.endpoint"
	keyAnalysisModel   = "analysis.model"
	keyAnalysisKeyEnv  = "analysis.api_key_env"
	keyAnalysisTimeout = "analysis.timeout"
	keyDarkTheme       = "display.dark_theme"
	keyLogLevel        = "log.level"
)

// DefaultEndpoint is the base URL of the generative language API.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/"

// WithViperConfig returns an Option that loads configuration from Viper. A
// config file populated with the defaults is written if none exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		v.SetEnvPrefix("serene")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setupViper(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return errReadConfig.Wrap(err)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return errWriteConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults.
func setupViper(v *viper.Viper) {
	v.SetDefault(keyCoverThreshold, 150)
	v.SetDefault(keyBufferSize, 150)
	v.SetDefault(keySearchStart, 45)
	v.SetDefault(keySearchEnd, 105)
	v.SetDefault(keyThresholdFactor, 1.01)
	v.SetDefault(keyRefractory, "400ms")
	v.SetDefault(keyMaxPeaks, 5)
	v.SetDefault(keyMinBPM, 40)
	v.SetDefault(keyMaxBPM, 180)
	v.SetDefault(keyCameraSource, SourceSimulated)
	v.SetDefault(keyCameraFacing, "user")
	v.SetDefault(keyCameraWidth, 640)
	v.SetDefault(keyCameraHeight, 480)
	v.SetDefault(keyCameraFPS, 30)
	v.SetDefault(keySimulatedBPM, 72)
	v.SetDefault(keyCameraNoise, 0.02)
	v.SetDefault(keyMicDevice, defaultMicDevice())
	v.SetDefault(keyBreathDuration, "1m")
	v.SetDefault(keyBreathInhale, "4s")
	v.SetDefault(keyBreathHold, "4s")
	v.SetDefault(keyBreathExhale, "6s")
	v.SetDefault(keyBreathChime, true)
	v.SetDefault(keyBreathNotify, true)
	v.SetDefault(keyBreathCmd, "")
	v.SetDefault(keyAnalysisURL, DefaultEndpoint)
	v.SetDefault(keyAnalysisModel, "gemini-2.5-flash")
	v.SetDefault(keyAnalysisKeyEnv, "API_KEY")
	v.SetDefault(keyAnalysisTimeout, "30s")
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyLogLevel, "info")
}

func defaultMicDevice() string {
	if runtime.GOOS == "linux" {
		return "/dev/snd"
	}

	return ""
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	system := c.System

	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	c.System = system

	return nil
}

// parseDuration parses duration strings, treating bare numbers as minutes.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	return time.ParseDuration(s + "m")
}
