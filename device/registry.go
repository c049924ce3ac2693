package device

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ayoisaiah/serene/internal/config"
	"github.com/ayoisaiah/serene/internal/models"
	"github.com/ayoisaiah/serene/internal/osutil"
)

type (
	// ConsentStore persists the user's decision per sensor.
	ConsentStore interface {
		Consent(sensor models.Sensor) (models.PermissionStatus, error)
		SetConsent(sensor models.Sensor, status models.PermissionStatus) error
	}

	// Prompter asks the user whether a sensor may be used.
	Prompter interface {
		Confirm(ctx context.Context, sensor models.Sensor) (bool, error)
	}

	// Registry is the platform authority for sensors: it knows which ones
	// are present, what the user decided about them and which are in use.
	Registry struct {
		consent  ConsentStore
		prompter Prompter
		camera   Camera
		logger   *slog.Logger
		inUse    map[models.Sensor]bool
		present  map[models.Sensor]func() bool
		mu       sync.Mutex
	}
)

// NewRegistry builds a registry for the camera and microphone described by
// cfg.
func NewRegistry(
	cfg *config.Config,
	consent ConsentStore,
	prompter Prompter,
	logger *slog.Logger,
) *Registry {
	camera, cameraPresent := cameraFromConfig(&cfg.Camera)
	micDevice := cfg.Microphone.Device

	return &Registry{
		consent:  consent,
		prompter: prompter,
		camera:   camera,
		logger:   logger,
		inUse:    make(map[models.Sensor]bool),
		present: map[models.Sensor]func() bool{
			models.Camera:     cameraPresent,
			models.Microphone: func() bool { return osutil.Exists(micDevice) },
		},
	}
}

func cameraFromConfig(cfg *config.CameraConfig) (Camera, func() bool) {
	if cfg.Source == config.SourceSimulated {
		return NewSimulated(cfg.SimulatedBPM, cfg.Noise),
			func() bool { return true }
	}

	dir := cfg.Source

	return NewFrameDir(dir), func() bool {
		fi, err := os.Stat(dir)
		return err == nil && fi.IsDir()
	}
}

// Camera returns the configured frame source.
func (r *Registry) Camera() Camera {
	return r.camera
}

// Query returns the recorded decision for sensor without prompting.
func (r *Registry) Query(
	_ context.Context,
	sensor models.Sensor,
) (models.PermissionStatus, error) {
	return r.consent.Consent(sensor)
}

// Acquire claims every sensor covered by kind. Sensors that have not been
// decided on yet are confirmed with the user first. The returned handle
// releases the claim.
func (r *Registry) Acquire(ctx context.Context, kind models.Sensor) (io.Closer, error) {
	sensors := kind.Expand()

	for _, s := range sensors {
		if !r.present[s]() {
			return nil, ErrNotFound.Fmt(s)
		}
	}

	for _, s := range sensors {
		if err := r.authorize(ctx, s); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range sensors {
		if r.inUse[s] {
			return nil, ErrInUse.Fmt(s)
		}
	}

	for _, s := range sensors {
		r.inUse[s] = true
	}

	r.logger.Debug("sensor acquired", slog.String("kind", string(kind)))

	return &claim{registry: r, sensors: sensors}, nil
}

func (r *Registry) authorize(ctx context.Context, s models.Sensor) error {
	status, err := r.consent.Consent(s)
	if err != nil {
		return err
	}

	switch status {
	case models.Granted:
		return nil
	case models.Denied:
		return ErrNotAllowed.Fmt(s)
	}

	ok, err := r.prompter.Confirm(ctx, s)
	if err != nil {
		return err
	}

	status = models.Denied
	if ok {
		status = models.Granted
	}

	if err := r.consent.SetConsent(s, status); err != nil {
		return err
	}

	r.logger.Info(
		"sensor consent recorded",
		slog.String("sensor", string(s)),
		slog.String("status", string(status)),
	)

	if !ok {
		return ErrNotAllowed.Fmt(s)
	}

	return nil
}

func (r *Registry) release(sensors []models.Sensor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range sensors {
		delete(r.inUse, s)
	}
}

// OpenCamera acquires the camera and opens the configured source. Closing
// the stream releases the camera.
func (r *Registry) OpenCamera(ctx context.Context, c Constraints) (Stream, error) {
	handle, err := r.Acquire(ctx, models.Camera)
	if err != nil {
		return nil, err
	}

	stream, err := r.camera.Open(ctx, c)
	if err != nil {
		_ = handle.Close()
		return nil, err
	}

	return &claimedStream{Stream: stream, handle: handle}, nil
}

type claim struct {
	registry *Registry
	sensors  []models.Sensor
	once     sync.Once
}

func (c *claim) Close() error {
	c.once.Do(func() {
		c.registry.release(c.sensors)
	})

	return nil
}

type claimedStream struct {
	Stream
	handle io.Closer
}

func (s *claimedStream) Close() error {
	err := s.Stream.Close()

	if cerr := s.handle.Close(); err == nil {
		err = cerr
	}

	return err
}
