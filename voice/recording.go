package voice

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Recording is an audio clip ready to be sent for analysis.
type Recording struct {
	MIMEType string
	Data     []byte
	Duration time.Duration
}

var mimeTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// LoadRecording reads the file at path and makes sure it decodes as audio.
func LoadRecording(path string) (*Recording, error) {
	ext := strings.ToLower(filepath.Ext(path))

	mime, ok := mimeTypes[ext]
	if !ok {
		return nil, ErrUnsupportedFormat.Fmt(ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errReadRecording.Fmt(path).Wrap(err)
	}

	d, err := clipLength(ext, data)
	if err != nil {
		return nil, ErrInvalidAudio.Wrap(err)
	}

	if d <= 0 {
		return nil, ErrEmptyRecording
	}

	return &Recording{
		MIMEType: mime,
		Data:     data,
		Duration: d,
	}, nil
}

// clipLength decodes the audio header and returns the clip length.
func clipLength(ext string, data []byte) (time.Duration, error) {
	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)

	r := bytes.NewReader(data)

	switch ext {
	case ".ogg":
		stream, format, err = vorbis.Decode(io.NopCloser(r))
	case ".mp3":
		stream, format, err = mp3.Decode(io.NopCloser(r))
	case ".flac":
		stream, format, err = flac.Decode(r)
	case ".wav":
		stream, format, err = wav.Decode(r)
	default:
		return 0, ErrUnsupportedFormat.Fmt(ext)
	}

	if err != nil {
		return 0, err
	}

	defer stream.Close()

	return format.SampleRate.D(stream.Len()), nil
}
