package device

import (
	"context"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/maruel/natural"
)

var frameExts = []string{".png", ".jpg", ".jpeg"}

// FrameDir is a camera that replays image files from a directory in natural
// order ("frame2.png" before "frame10.png").
type FrameDir struct {
	dir string
}

// NewFrameDir returns a camera backed by the images in dir.
func NewFrameDir(dir string) *FrameDir {
	return &FrameDir{dir: dir}
}

// Frames lists the image files that will be replayed.
func (f *FrameDir) Frames() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound.Fmt("camera").Wrap(err)
		}

		return nil, err
	}

	var frames []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(frameExts, ext) {
			frames = append(frames, e.Name())
		}
	}

	slices.SortFunc(frames, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}

		return 0
	})

	for i := range frames {
		frames[i] = filepath.Join(f.dir, frames[i])
	}

	return frames, nil
}

// Open returns a stream that yields one frame per tick at c.FPS and io.EOF
// after the last file.
func (f *FrameDir) Open(_ context.Context, c Constraints) (Stream, error) {
	frames, err := f.Frames()
	if err != nil {
		return nil, err
	}

	if len(frames) == 0 {
		return nil, errNoFrames.Fmt(f.dir)
	}

	fps := c.FPS
	if fps <= 0 {
		fps = 30
	}

	return &dirStream{
		frames: frames,
		tick:   time.NewTicker(time.Second / time.Duration(fps)),
		done:   make(chan struct{}),
	}, nil
}

type dirStream struct {
	tick   *time.Ticker
	done   chan struct{}
	frames []string
	pos    int
	once   sync.Once
}

func (d *dirStream) Next(ctx context.Context) (image.Image, error) {
	if d.pos >= len(d.frames) {
		return nil, io.EOF
	}

	select {
	case <-d.done:
		return nil, errStreamClosed
	default:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, errStreamClosed
	case <-d.tick.C:
	}

	path := d.frames[d.pos]
	d.pos++

	file, err := os.Open(path)
	if err != nil {
		return nil, errDecodeFrame.Fmt(path).Wrap(err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errDecodeFrame.Fmt(path).Wrap(err)
	}

	return img, nil
}

func (d *dirStream) Close() error {
	d.once.Do(func() {
		d.tick.Stop()
		close(d.done)
	})

	return nil
}
