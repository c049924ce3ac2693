package config

import "github.com/ayoisaiah/serene/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid %s duration",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s duration must be between %v and %v",
	}

	errInvalidSearchWindow = &apperr.Error{
		Message: "peak search window [%d,%d) must fit inside a buffer of %d samples",
	}

	errInvalidBPMRange = &apperr.Error{
		Message: "minimum bpm (%v) must be positive and less than maximum bpm (%v)",
	}

	errInvalidThresholdFactor = &apperr.Error{
		Message: "threshold factor must be at least 1, got %v",
	}

	errInvalidMaxPeaks = &apperr.Error{
		Message: "max peaks must be at least 2, got %d",
	}

	errInvalidFPS = &apperr.Error{
		Message: "camera fps must be between %d and %d",
	}

	errInvalidResolution = &apperr.Error{
		Message: "camera resolution must be positive, got %dx%d",
	}

	errEmptyModel = &apperr.Error{
		Message: "analysis model cannot be empty",
	}
)
