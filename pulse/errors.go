package pulse

import "github.com/ayoisaiah/serene/internal/apperr"

var (
	// ErrCameraUnavailable is returned by Start when the camera cannot be
	// acquired.
	ErrCameraUnavailable = &apperr.Error{
		Message: "unable to access the camera, please check permissions",
	}

	// ErrStreamEnded is reported when the camera stops delivering frames.
	ErrStreamEnded = &apperr.Error{
		Message: "the camera stopped delivering frames",
	}
)
