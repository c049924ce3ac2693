package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Pulse: PulseConfig{
			CoverThreshold:  150,
			BufferSize:      150,
			SearchStart:     45,
			SearchEnd:       105,
			ThresholdFactor: 1.01,
			Refractory:      400 * time.Millisecond,
			MaxPeaks:        5,
			MinBPM:          40,
			MaxBPM:          180,
		},
		Camera: CameraConfig{
			Source:       SourceSimulated,
			Facing:       "user",
			Width:        640,
			Height:       480,
			FPS:          30,
			SimulatedBPM: 72,
			Noise:        0.02,
		},
		Microphone: MicrophoneConfig{Device: defaultMicDevice()},
		Breathing: BreathingConfig{
			Duration: time.Minute,
			Inhale:   4 * time.Second,
			Hold:     4 * time.Second,
			Exhale:   6 * time.Second,
			Chime:    true,
			Notify:   true,
		},
		Analysis: AnalysisConfig{
			Endpoint:  DefaultEndpoint,
			Model:     "gemini-2.5-flash",
			APIKeyEnv: "API_KEY",
			Timeout:   30 * time.Second,
		},
		Display: DisplayConfig{DarkTheme: true},
		Log:     LogConfig{Level: "info"},
	}
}

func TestWithViperConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg, err := New(WithViperConfig(path))
	require.NoError(t, err)

	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Fatalf("default config mismatch (-want +got):\n%s", diff)
	}

	_, err = os.Stat(path)
	require.NoError(t, err, "default config file should be written")

	again, err := New(WithViperConfig(path))
	require.NoError(t, err)

	assert.Equal(t, cfg, again)
}

func TestWithViperConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	content := `pulse:
  search_start: 30
  search_end: 120
  refractory: 300ms
camera:
  source: /tmp/frames
  fps: 15
breathing:
  duration: 3m
  chime: false
`

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := New(WithViperConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Pulse.SearchStart)
	assert.Equal(t, 120, cfg.Pulse.SearchEnd)
	assert.Equal(t, 300*time.Millisecond, cfg.Pulse.Refractory)
	assert.Equal(t, "/tmp/frames", cfg.Camera.Source)
	assert.Equal(t, 15, cfg.Camera.FPS)
	assert.Equal(t, 3*time.Minute, cfg.Breathing.Duration)
	assert.False(t, cfg.Breathing.Chime)
	assert.Equal(t, 150, cfg.Pulse.BufferSize, "unset keys keep defaults")
}

func TestWithViperConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(t, os.WriteFile(path, []byte("pulse: [unclosed"), 0o600))

	_, err := New(WithViperConfig(path))
	require.Error(t, err)
	assert.ErrorIs(t, err, errConfigOption)
	assert.ErrorIs(t, err, errReadConfig)
}

func TestWithPathsSurvivesViper(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg, err := New(
		WithPaths(path, filepath.Join(dir, "serene.db"), ""),
		WithViperConfig(path),
	)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.System.ConfigPath)
	assert.Equal(t, filepath.Join(dir, "serene.db"), cfg.System.DBPath)
}

func TestApplyCLIOptions(t *testing.T) {
	cfg := defaultConfig()

	err := applyCLIOptions(cfg, CLIOptions{
		Source:        "frames",
		FPS:           24,
		SimulatedBPM:  90,
		Duration:      "5",
		DisableNotify: true,
		NoChime:       true,
		Cmd:           "echo done",
		Model:         "other-model",
		LogLevel:      "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "frames", cfg.Camera.Source)
	assert.Equal(t, 24, cfg.Camera.FPS)
	assert.InDelta(t, 90, cfg.Camera.SimulatedBPM, 0)
	assert.Equal(t, 5*time.Minute, cfg.Breathing.Duration)
	assert.False(t, cfg.Breathing.Notify)
	assert.False(t, cfg.Breathing.Chime)
	assert.Equal(t, "echo done", cfg.Breathing.Cmd)
	assert.Equal(t, "other-model", cfg.Analysis.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyCLIOptionsZeroValues(t *testing.T) {
	cfg := defaultConfig()

	require.NoError(t, applyCLIOptions(cfg, CLIOptions{}))

	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Fatalf("empty options changed config (-want +got):\n%s", diff)
	}
}

func TestApplyCLIOptionsBadDuration(t *testing.T) {
	err := applyCLIOptions(defaultConfig(), CLIOptions{Duration: "soon"})

	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidCLIDuration)
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"90s": 90 * time.Second,
		"3":   3 * time.Minute,
		"1h":  time.Hour,
	}

	for in, want := range cases {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "search window past buffer",
			mutate: func(c *Config) { c.Pulse.SearchEnd = 151 },
			want:   errInvalidSearchWindow,
		},
		{
			name:   "empty search window",
			mutate: func(c *Config) { c.Pulse.SearchStart = 105 },
			want:   errInvalidSearchWindow,
		},
		{
			name:   "inverted bpm range",
			mutate: func(c *Config) { c.Pulse.MinBPM = 200 },
			want:   errInvalidBPMRange,
		},
		{
			name:   "threshold factor below one",
			mutate: func(c *Config) { c.Pulse.ThresholdFactor = 0.9 },
			want:   errInvalidThresholdFactor,
		},
		{
			name:   "too few peaks",
			mutate: func(c *Config) { c.Pulse.MaxPeaks = 1 },
			want:   errInvalidMaxPeaks,
		},
		{
			name:   "zero fps",
			mutate: func(c *Config) { c.Camera.FPS = 0 },
			want:   errInvalidFPS,
		},
		{
			name:   "negative width",
			mutate: func(c *Config) { c.Camera.Width = -1 },
			want:   errInvalidResolution,
		},
		{
			name:   "short breathing session",
			mutate: func(c *Config) { c.Breathing.Duration = 10 * time.Second },
			want:   errInvalidDuration,
		},
		{
			name:   "zero hold",
			mutate: func(c *Config) { c.Breathing.Hold = 0 },
			want:   errInvalidDuration,
		},
		{
			name:   "empty model",
			mutate: func(c *Config) { c.Analysis.Model = "  " },
			want:   errEmptyModel,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv("SERENE_TEST_KEY", "secret")

	cfg := defaultConfig()
	cfg.Analysis.APIKeyEnv = "SERENE_TEST_KEY"

	assert.Equal(t, "secret", cfg.APIKey())

	cfg.Analysis.APIKeyEnv = ""
	assert.Empty(t, cfg.APIKey())
}
