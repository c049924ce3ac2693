package gate

import "github.com/ayoisaiah/serene/internal/apperr"

var (
	// ErrPermissionRequired is returned by Require when a sensor is not
	// granted.
	ErrPermissionRequired = &apperr.Error{
		Message: "%s access is %s: run 'serene allow' first",
	}

	errEmptyName = &apperr.Error{
		Message: "a user name is required",
	}

	errLoadSession = &apperr.Error{
		Message: "unable to restore the session",
	}

	errSaveSession = &apperr.Error{
		Message: "unable to save the session",
	}
)
