package voice

import "github.com/ayoisaiah/serene/internal/apperr"

var (
	ErrUnsupportedFormat = &apperr.Error{
		Message: "unsupported audio format %q: use wav, mp3, ogg or flac",
	}

	ErrInvalidAudio = &apperr.Error{
		Message: "the recording could not be decoded as audio",
	}

	ErrEmptyRecording = &apperr.Error{
		Message: "the recording is empty",
	}

	ErrMalformedResponse = &apperr.Error{
		Message: "invalid AI response format",
	}

	// ErrAnalysisFailed is what the user sees when the analysis cannot be
	// completed.
	ErrAnalysisFailed = &apperr.Error{
		Message: "an error occurred while analysing your voice, please try again",
	}

	errReadRecording = &apperr.Error{
		Message: "unable to read recording %s",
	}
)
