package gemini

import "github.com/ayoisaiah/serene/internal/apperr"

var (
	ErrMissingAPIKey = &apperr.Error{
		Message: "no API key configured for the analysis service",
	}

	ErrRequestFailed = &apperr.Error{
		Message: "analysis request failed",
	}

	ErrEmptyResponse = &apperr.Error{
		Message: "the analysis service returned no content",
	}
)
