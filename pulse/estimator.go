// Package pulse estimates heart rate from camera frames of a fingertip
// pressed against the lens
package pulse

import (
	"fmt"
	"image"
	"math"
	"slices"
	"time"

	"github.com/ayoisaiah/serene/internal/config"
)

// Status texts reported with each reading.
const (
	StatusIdle        = "ready to start"
	StatusStarting    = "starting camera"
	StatusNoFinger    = "cover the camera with your finger"
	StatusMeasuring   = "measuring"
	StatusCameraError = "camera error"
)

// Phase describes what the estimator did with the last sample.
type Phase string

const (
	PhaseNoFinger    Phase = "no_finger"
	PhaseCalibrating Phase = "calibrating"
	PhaseMeasuring   Phase = "measuring"
)

// Params are the tuning constants of the estimator. The peak search window
// [SearchStart, SearchEnd) assumes a capture rate close to 30fps and is not
// validated against the real frame rate.
type Params struct {
	CoverThreshold  float64
	ThresholdFactor float64
	MinBPM          float64
	MaxBPM          float64
	Refractory      time.Duration
	BufferSize      int
	SearchStart     int
	SearchEnd       int
	MaxPeaks        int
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		CoverThreshold:  150,
		ThresholdFactor: 1.01,
		MinBPM:          40,
		MaxBPM:          180,
		Refractory:      400 * time.Millisecond,
		BufferSize:      150,
		SearchStart:     45,
		SearchEnd:       105,
		MaxPeaks:        5,
	}
}

// ParamsFromConfig converts the pulse section of the config.
func ParamsFromConfig(c *config.PulseConfig) Params {
	return Params{
		CoverThreshold:  c.CoverThreshold,
		ThresholdFactor: c.ThresholdFactor,
		MinBPM:          c.MinBPM,
		MaxBPM:          c.MaxBPM,
		Refractory:      c.Refractory,
		BufferSize:      c.BufferSize,
		SearchStart:     c.SearchStart,
		SearchEnd:       c.SearchEnd,
		MaxPeaks:        c.MaxPeaks,
	}
}

// Result is the outcome of processing one sample.
type Result struct {
	Phase        Phase
	Status       string
	AvgRed       float64
	Progress     int
	BPM          int
	PeakDetected bool
}

// Estimator turns a sequence of red-level samples into a BPM estimate. It is
// not safe for concurrent use; a single goroutine must own it.
type Estimator struct {
	clock  Clock
	buffer []float64
	peaks  []time.Time
	params Params
	bpm    int
}

// NewEstimator returns an empty estimator.
func NewEstimator(p Params, clock Clock) *Estimator {
	if clock == nil {
		clock = RealClock{}
	}

	return &Estimator{
		params: p,
		clock:  clock,
		buffer: make([]float64, 0, p.BufferSize+1),
		peaks:  make([]time.Time, 0, p.MaxPeaks+1),
	}
}

// Process samples the centre of img and feeds the mean red level.
func (e *Estimator) Process(img image.Image) Result {
	return e.ProcessSample(AverageRed(img, CenterROI(img.Bounds())))
}

// ProcessSample feeds one red-level sample.
func (e *Estimator) ProcessSample(avgRed float64) Result {
	if avgRed < e.params.CoverThreshold {
		e.Reset()

		return Result{
			Phase:  PhaseNoFinger,
			Status: StatusNoFinger,
			AvgRed: avgRed,
		}
	}

	e.buffer = append(e.buffer, avgRed)

	if len(e.buffer) < e.params.BufferSize {
		pct := int(math.Round(
			float64(len(e.buffer)) / float64(e.params.BufferSize) * 100,
		))

		return Result{
			Phase:    PhaseCalibrating,
			Status:   CalibratingStatus(pct),
			AvgRed:   avgRed,
			Progress: pct,
			BPM:      e.bpm,
		}
	}

	if len(e.buffer) > e.params.BufferSize {
		copy(e.buffer, e.buffer[1:])
		e.buffer = e.buffer[:e.params.BufferSize]
	}

	res := Result{
		Phase:    PhaseMeasuring,
		Status:   StatusMeasuring,
		AvgRed:   avgRed,
		Progress: 100,
	}

	res.PeakDetected = e.detectPeak()

	e.updateBPM()

	res.BPM = e.bpm

	return res
}

// CalibratingStatus formats the status shown while the buffer fills.
func CalibratingStatus(pct int) string {
	return fmt.Sprintf("calibrating %d%%", pct)
}

// detectPeak records a beat when the largest sample in the search window
// rises above the threshold and the refractory period has elapsed. The index
// of that sample is its first occurrence in the whole buffer.
func (e *Estimator) detectPeak() bool {
	var sum float64
	for _, v := range e.buffer {
		sum += v
	}

	threshold := sum / float64(len(e.buffer)) * e.params.ThresholdFactor

	end := min(e.params.SearchEnd, len(e.buffer))
	if e.params.SearchStart >= end {
		return false
	}

	peak := slices.Max(e.buffer[e.params.SearchStart:end])
	idx := slices.Index(e.buffer, peak)

	if idx <= 0 || e.buffer[idx] <= threshold {
		return false
	}

	now := e.clock.Now()

	if n := len(e.peaks); n > 0 && now.Sub(e.peaks[n-1]) <= e.params.Refractory {
		return false
	}

	e.peaks = append(e.peaks, now)
	if len(e.peaks) > e.params.MaxPeaks {
		copy(e.peaks, e.peaks[1:])
		e.peaks = e.peaks[:e.params.MaxPeaks]
	}

	return true
}

// updateBPM publishes the mean inter-peak rate when it lies strictly inside
// (MinBPM, MaxBPM). Out of range values keep the previous estimate.
func (e *Estimator) updateBPM() {
	n := len(e.peaks)
	if n < 2 {
		return
	}

	span := e.peaks[n-1].Sub(e.peaks[0])
	avgMs := float64(span) / float64(time.Millisecond) / float64(n-1)
	if avgMs <= 0 {
		return
	}

	bpm := 60000 / avgMs

	if bpm > e.params.MinBPM && bpm < e.params.MaxBPM {
		e.bpm = int(math.Round(bpm))
	}
}

// Reset clears the sample buffer, the peak history and the estimate.
func (e *Estimator) Reset() {
	e.buffer = e.buffer[:0]
	e.peaks = e.peaks[:0]
	e.bpm = 0
}

// Len returns the number of buffered samples.
func (e *Estimator) Len() int {
	return len(e.buffer)
}

// Peaks returns a copy of the recorded beat timestamps, oldest first.
func (e *Estimator) Peaks() []time.Time {
	return slices.Clone(e.peaks)
}

// NumPeaks returns the number of recorded beats.
func (e *Estimator) NumPeaks() int {
	return len(e.peaks)
}

// BPM returns the current estimate, or 0 when none is available.
func (e *Estimator) BPM() int {
	return e.bpm
}
