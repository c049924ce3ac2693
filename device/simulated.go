package device

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// red level of a lit fingertip and its pulsatile swing
	coveredRed   = 200.0
	pulseSwing   = 24.0
	uncoveredRed = 70.0
)

// Simulated is a camera that renders a fingertip pressed on the lens. The
// red level follows an ECG-like waveform at a fixed heart rate.
type Simulated struct {
	covered atomic.Bool
	bpm     float64
	noise   float64
}

// NewSimulated returns a covered simulated camera beating at bpm.
func NewSimulated(bpm, noise float64) *Simulated {
	s := &Simulated{bpm: bpm, noise: noise}
	s.covered.Store(true)

	return s
}

// SetCovered places or lifts the simulated finger.
func (s *Simulated) SetCovered(covered bool) {
	s.covered.Store(covered)
}

// Open starts a stream paced at c.FPS.
func (s *Simulated) Open(_ context.Context, c Constraints) (Stream, error) {
	fps := c.FPS
	if fps <= 0 {
		fps = 30
	}

	return &simStream{
		cam:   s,
		wave:  newWaveform(float64(fps), s.bpm, s.noise),
		frame: image.NewRGBA(image.Rect(0, 0, c.Width, c.Height)),
		tick:  time.NewTicker(time.Second / time.Duration(fps)),
		done:  make(chan struct{}),
	}, nil
}

type simStream struct {
	cam   *Simulated
	wave  *waveform
	frame *image.RGBA
	tick  *time.Ticker
	done  chan struct{}
	once  sync.Once
}

func (s *simStream) Next(ctx context.Context) (image.Image, error) {
	select {
	case <-s.done:
		return nil, errStreamClosed
	default:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, errStreamClosed
	case <-s.tick.C:
	}

	level := uncoveredRed
	v := s.wave.next()

	if s.cam.covered.Load() {
		level = coveredRed + pulseSwing*v
	}

	fill(s.frame, color.RGBA{
		R: uint8(math.Max(0, math.Min(255, level))),
		G: 40,
		B: 30,
		A: 255,
	})

	return s.frame, nil
}

func (s *simStream) Close() error {
	s.once.Do(func() {
		s.tick.Stop()
		close(s.done)
	})

	return nil
}

func fill(img *image.RGBA, c color.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

// waveform is a simple non-clinical ECG shape sampled at fs Hz: a slow
// baseline plus gaussian P, QRS and T waves.
type waveform struct {
	fs    float64
	phase float64
	bpm   float64
	noise float64
}

func newWaveform(fs, bpm, noise float64) *waveform {
	return &waveform{fs: fs, bpm: bpm, noise: noise}
}

func (w *waveform) next() float64 {
	w.phase += (w.bpm / 60.0) / w.fs
	if w.phase >= 1.0 {
		w.phase -= 1.0
	}

	t := w.phase

	baseline := 0.05 * math.Sin(2*math.Pi*0.33*t)

	p := 0.08 * gauss(t, 0.18, 0.03)
	q := -0.12 * gauss(t, 0.30, 0.01)
	r := 1.00 * gauss(t, 0.32, 0.008)
	s := -0.25 * gauss(t, 0.35, 0.012)
	tw := 0.25 * gauss(t, 0.60, 0.06)

	n := w.noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)

	return baseline + p + q + r + s + tw + n
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }
