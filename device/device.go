// Package device provides the capture sources used by the sensor features and
// the registry that decides whether a sensor may be used
package device

import (
	"context"
	"image"

	"github.com/ayoisaiah/serene/internal/config"
)

// Constraints are the capture hints passed when opening a camera. Sources
// use them as ideals and may deliver something else.
type Constraints struct {
	Facing string
	Width  int
	Height int
	FPS    int
}

// ConstraintsFromConfig returns the camera hints held in cfg.
func ConstraintsFromConfig(cfg *config.CameraConfig) Constraints {
	return Constraints{
		Facing: cfg.Facing,
		Width:  cfg.Width,
		Height: cfg.Height,
		FPS:    cfg.FPS,
	}
}

// Stream is a live sequence of video frames.
type Stream interface {
	// Next blocks until the next frame is ready. The returned image is only
	// valid until the following call.
	Next(ctx context.Context) (image.Image, error)
	// Close releases the capture device. It is safe to call more than once.
	Close() error
}

// Camera opens a video stream.
type Camera interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}
