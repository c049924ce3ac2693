package app

import "github.com/ayoisaiah/serene/internal/apperr"

var (
	errNotLoggedIn = &apperr.Error{
		Message: "you are not logged in: run 'serene login <name>' first",
	}

	errMissingName = &apperr.Error{
		Message: "a user name is required",
	}

	errInvalidSensor = &apperr.Error{
		Message: "unknown sensor %q: use camera, microphone or both",
	}

	errMissingRecording = &apperr.Error{
		Message: "a recording file is required",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "invalid period %q",
	}

	errInvalidSince = &apperr.Error{
		Message: "unable to parse --since value %q",
	}
)
