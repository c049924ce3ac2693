package pulse

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/serene/device"
	"github.com/ayoisaiah/serene/internal/models"
)

// State is the lifecycle state of a Monitor.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateActive   State = "active"
	StateError    State = "error"
)

const subscriberBuffer = 16

type (
	// CameraOpener acquires the camera and returns its frame stream.
	CameraOpener interface {
		OpenCamera(ctx context.Context, c device.Constraints) (device.Stream, error)
	}

	// Authorizer reports whether a sensor may be used.
	Authorizer interface {
		Require(kind models.Sensor) error
	}

	// Reading is what the monitor publishes after every state change and
	// processed frame.
	Reading struct {
		Time     time.Time `json:"time"`
		State    State     `json:"state"`
		Status   string    `json:"status"`
		Error    string    `json:"error,omitempty"`
		Phase    Phase     `json:"phase,omitempty"`
		BPM      int       `json:"bpm"`
		Progress int       `json:"progress"`
		Samples  int       `json:"samples"`
		Peaks    int       `json:"peaks"`
	}

	// MonitorOption configures a Monitor.
	MonitorOption func(*Monitor)

	// Monitor runs the estimator against a live camera stream. A single
	// goroutine owns the estimator while monitoring is active; Start and Stop
	// only touch it once that goroutine has exited.
	Monitor struct {
		opener      CameraOpener
		auth        Authorizer
		clock       Clock
		logger      *slog.Logger
		estimator   *Estimator
		cancel      context.CancelFunc
		stream      device.Stream
		done        chan struct{}
		subs        map[int]chan Reading
		last        Reading
		constraints device.Constraints
		state       State
		gen         uint64
		nextSub     int
		active      atomic.Bool
		closed      bool
		lifecycle   sync.Mutex
		mu          sync.Mutex
	}
)

// WithAuthorizer makes Start refuse to run unless the camera is granted.
func WithAuthorizer(a Authorizer) MonitorOption {
	return func(m *Monitor) {
		m.auth = a
	}
}

// WithClock sets the clock used for peak and reading timestamps.
func WithClock(c Clock) MonitorOption {
	return func(m *Monitor) {
		m.clock = c
	}
}

// NewMonitor returns an idle monitor.
func NewMonitor(
	opener CameraOpener,
	constraints device.Constraints,
	params Params,
	logger *slog.Logger,
	opts ...MonitorOption,
) *Monitor {
	m := &Monitor{
		opener:      opener,
		constraints: constraints,
		logger:      logger,
		clock:       RealClock{},
		subs:        make(map[int]chan Reading),
		state:       StateIdle,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.estimator = NewEstimator(params, m.clock)
	m.last = Reading{
		Time:   m.clock.Now(),
		State:  StateIdle,
		Status: StatusIdle,
	}

	return m
}

// Start tears down any running session, acquires the camera and begins
// processing frames. On failure the monitor passes through the error state
// back to idle and the returned error carries a user-facing message.
func (m *Monitor) Start(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.stopLocked("")

	if m.auth != nil {
		if err := m.auth.Require(models.Camera); err != nil {
			return err
		}
	}

	m.publish(Reading{State: StateStarting, Status: StatusStarting})

	stream, err := m.opener.OpenCamera(ctx, m.constraints)
	if err != nil {
		m.logger.Error(
			"camera acquisition failed",
			slog.Any("error", err),
		)

		failure := ErrCameraUnavailable.Wrap(err)

		m.publish(Reading{
			State:  StateError,
			Status: StatusCameraError,
			Error:  ErrCameraUnavailable.Message,
		})
		m.publish(Reading{
			State:  StateIdle,
			Status: StatusIdle,
			Error:  ErrCameraUnavailable.Message,
		})

		return failure
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.stream = stream
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	m.active.Store(true)

	m.publish(Reading{
		State:  StateActive,
		Status: CalibratingStatus(0),
	})

	m.logger.Info("pulse monitoring started", slog.Any("constraints", m.constraints))

	go m.run(loopCtx, gen, stream, done)

	return nil
}

// Stop releases the camera, clears the estimator and returns the last
// reading taken before teardown. Calling Stop on an idle monitor is a no-op
// that returns the idle reading.
func (m *Monitor) Stop() Reading {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	return m.stopLocked("")
}

// Close stops monitoring and closes every subscription.
func (m *Monitor) Close() error {
	m.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}

	m.closed = true

	return nil
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Last returns the most recent reading.
func (m *Monitor) Last() Reading {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.last
}

// Subscribe returns a channel of readings and a function that ends the
// subscription. A slow subscriber loses its oldest pending readings.
func (m *Monitor) Subscribe() (<-chan Reading, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Reading, subscriberBuffer)

	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()

			if c, ok := m.subs[id]; ok {
				close(c)
				delete(m.subs, id)
			}
		})
	}
}

// stopLocked must be called with the lifecycle lock held. errMsg is attached
// to the idle reading when teardown was caused by a failure.
func (m *Monitor) stopLocked(errMsg string) Reading {
	m.active.Store(false)

	m.mu.Lock()
	cancel, stream, done := m.cancel, m.stream, m.done
	m.cancel, m.stream, m.done = nil, nil, nil
	last := m.last
	wasIdle := m.state == StateIdle
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if stream != nil {
		if err := stream.Close(); err != nil {
			m.logger.Warn("closing camera stream failed", slog.Any("error", err))
		}
	}

	if done != nil {
		<-done
	}

	m.estimator.Reset()

	if wasIdle && stream == nil {
		return last
	}

	m.logger.Info(
		"pulse monitoring stopped",
		slog.Int("bpm", last.BPM),
		slog.String("status", last.Status),
	)

	m.publish(Reading{
		State:  StateIdle,
		Status: StatusIdle,
		Error:  errMsg,
	})

	return last
}

func (m *Monitor) run(
	ctx context.Context,
	gen uint64,
	stream device.Stream,
	done chan struct{},
) {
	defer close(done)

	for {
		if !m.active.Load() {
			return
		}

		img, err := stream.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || !m.active.Load() {
				return
			}

			m.logger.Warn("camera stream ended", slog.Any("error", err))

			go m.stopGeneration(gen, ErrStreamEnded.Message)

			return
		}

		// a frame delivered after Stop is dropped
		if !m.active.Load() {
			return
		}

		res := m.estimator.Process(img)

		if m.logger.Enabled(ctx, slog.LevelDebug) && res.PeakDetected {
			m.logger.Debug("peak detected", slog.String("peaks", spew.Sdump(m.estimator.Peaks())))
		}

		m.publish(Reading{
			State:    StateActive,
			Status:   res.Status,
			Phase:    res.Phase,
			BPM:      res.BPM,
			Progress: res.Progress,
			Samples:  m.estimator.Len(),
			Peaks:    m.estimator.NumPeaks(),
		})
	}
}

// stopGeneration tears down the session started as gen if it is still the
// current one.
func (m *Monitor) stopGeneration(gen uint64, errMsg string) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	current := m.gen == gen && m.stream != nil
	m.mu.Unlock()

	if current {
		m.stopLocked(errMsg)
	}
}

func (m *Monitor) publish(r Reading) {
	r.Time = m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = r.State
	m.last = r

	for _, ch := range m.subs {
		select {
		case ch <- r:
			continue
		default:
		}

		// drop the oldest pending reading to make room
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- r:
		default:
		}
	}
}
