package device

import "github.com/ayoisaiah/serene/internal/apperr"

var (
	// ErrNotFound means the hardware is absent.
	ErrNotFound = &apperr.Error{
		Message: "%s not found",
	}

	// ErrNotAllowed means the user declined or previously denied access.
	ErrNotAllowed = &apperr.Error{
		Message: "%s access not allowed",
	}

	// ErrInUse means another acquisition holds the sensor.
	ErrInUse = &apperr.Error{
		Message: "%s is already in use",
	}

	errStreamClosed = &apperr.Error{
		Message: "stream closed",
	}

	errNoFrames = &apperr.Error{
		Message: "no image frames found in %s",
	}

	errDecodeFrame = &apperr.Error{
		Message: "unable to decode frame %s",
	}
)
