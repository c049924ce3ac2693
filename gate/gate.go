// Package gate tracks sensor permissions and the login session, and mediates
// every attempt to use a sensor
package gate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ayoisaiah/serene/device"
	"github.com/ayoisaiah/serene/internal/models"
	"github.com/ayoisaiah/serene/store"
)

// User-facing messages produced by RequestAccess.
const (
	MsgDevicesNotFound = "devices not found, check that the camera and microphone are connected and try again"
	MsgUnknownError    = "an unknown error occurred while requesting permissions"
)

type (
	// PermissionQuerier reads the current authorization status of a sensor.
	PermissionQuerier interface {
		Query(ctx context.Context, sensor models.Sensor) (models.PermissionStatus, error)
	}

	// DeviceAcquirer momentarily acquires the sensors covered by kind. The
	// returned handle must be closed to release them.
	DeviceAcquirer interface {
		Acquire(ctx context.Context, kind models.Sensor) (io.Closer, error)
	}

	// SessionStore is the durable key-value store backing the session.
	SessionStore interface {
		Get(key string) (string, bool, error)
		Set(key, value string) error
		Remove(keys ...string) error
	}

	// Session is the login state. The zero value is logged out.
	Session struct {
		UserName string
		LoggedIn bool
	}

	// Gate holds the permission and session state shared by all features.
	Gate struct {
		querier  PermissionQuerier
		acquirer DeviceAcquirer
		sessions SessionStore
		logger   *slog.Logger
		perms    models.PermissionState
		session  Session
		mu       sync.RWMutex
	}
)

// New returns a Gate with both sensors in the prompt state and no session.
// Call LoadSession and QueryPermissions to populate it.
func New(
	querier PermissionQuerier,
	acquirer DeviceAcquirer,
	sessions SessionStore,
	logger *slog.Logger,
) *Gate {
	return &Gate{
		querier:  querier,
		acquirer: acquirer,
		sessions: sessions,
		logger:   logger,
		perms: models.PermissionState{
			Camera:     models.Prompt,
			Microphone: models.Prompt,
		},
	}
}

// Permissions returns the last known permission state.
func (g *Gate) Permissions() models.PermissionState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.perms
}

// QueryPermissions reads the camera and microphone status together. If
// either query fails both are reported as prompt so the user can be asked
// again.
func (g *Gate) QueryPermissions(ctx context.Context) models.PermissionState {
	state := models.PermissionState{
		Camera:     models.Prompt,
		Microphone: models.Prompt,
	}

	camera, camErr := g.querier.Query(ctx, models.Camera)
	mic, micErr := g.querier.Query(ctx, models.Microphone)

	if err := errors.Join(camErr, micErr); err != nil {
		g.logger.Warn(
			"permission query failed",
			slog.Any("error", err),
		)
	} else if camera.Valid() && mic.Valid() {
		state = models.PermissionState{Camera: camera, Microphone: mic}
	}

	g.mu.Lock()
	g.perms = state
	g.mu.Unlock()

	g.logger.Debug(
		"permissions queried",
		slog.String("camera", string(state.Camera)),
		slog.String("microphone", string(state.Microphone)),
	)

	return state
}

// RequestAccess acquires the sensors for kind to trigger the consent prompt,
// releases them, then re-queries the permission status whatever the outcome.
// The returned message is empty on success and when the user declined.
func (g *Gate) RequestAccess(
	ctx context.Context,
	kind models.Sensor,
) (models.PermissionState, string) {
	var msg string

	handle, err := g.acquirer.Acquire(ctx, kind)

	switch {
	case err == nil:
		if cerr := handle.Close(); cerr != nil {
			g.logger.Warn("releasing device failed", slog.Any("error", cerr))
		}
	case errors.Is(err, device.ErrNotFound):
		msg = MsgDevicesNotFound
	case errors.Is(err, device.ErrNotAllowed):
		// the refreshed status conveys the denial
	default:
		msg = MsgUnknownError
	}

	if err != nil {
		g.logger.Info(
			"access request failed",
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
	}

	return g.QueryPermissions(ctx), msg
}

// Require returns an error unless every sensor covered by kind is granted.
func (g *Gate) Require(kind models.Sensor) error {
	perms := g.Permissions()

	for _, s := range kind.Expand() {
		if status := perms.For(s); status != models.Granted {
			return ErrPermissionRequired.Fmt(s, status)
		}
	}

	return nil
}

// LoadSession restores the session from the store. Both keys must be present
// for the user to be logged in.
func (g *Gate) LoadSession() (Session, error) {
	name, hasName, err := g.sessions.Get(store.KeyUserName)
	if err != nil {
		return Session{}, errLoadSession.Wrap(err)
	}

	flag, _, err := g.sessions.Get(store.KeyIsLoggedIn)
	if err != nil {
		return Session{}, errLoadSession.Wrap(err)
	}

	sess := Session{}
	if hasName && name != "" && flag == "true" {
		sess = Session{UserName: name, LoggedIn: true}
	}

	g.setSession(sess)

	return sess, nil
}

// Register logs in as name, replacing any stored name.
func (g *Gate) Register(name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return g.Current(), errEmptyName
	}

	return g.persist(name)
}

// Login logs in. A previously stored name takes precedence over name since
// credentials are not verified.
func (g *Gate) Login(name string) (Session, error) {
	stored, ok, err := g.sessions.Get(store.KeyUserName)
	if err != nil {
		return g.Current(), errSaveSession.Wrap(err)
	}

	if ok && stored != "" {
		name = stored
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return g.Current(), errEmptyName
	}

	return g.persist(name)
}

// Logout clears both session keys.
func (g *Gate) Logout() error {
	if err := g.sessions.Remove(store.KeyUserName, store.KeyIsLoggedIn); err != nil {
		return errSaveSession.Wrap(err)
	}

	g.setSession(Session{})
	g.logger.Info("logged out")

	return nil
}

// Current returns the in-memory session.
func (g *Gate) Current() Session {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.session
}

func (g *Gate) persist(name string) (Session, error) {
	if err := g.sessions.Set(store.KeyUserName, name); err != nil {
		return g.Current(), errSaveSession.Wrap(err)
	}

	if err := g.sessions.Set(store.KeyIsLoggedIn, "true"); err != nil {
		return g.Current(), errSaveSession.Wrap(err)
	}

	sess := Session{UserName: name, LoggedIn: true}
	g.setSession(sess)

	g.logger.Info("logged in", slog.String("user", name))

	return sess, nil
}

func (g *Gate) setSession(s Session) {
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
}
