package app

import (
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/device"
	"github.com/ayoisaiah/serene/gate"
	"github.com/ayoisaiah/serene/internal/config"
	"github.com/ayoisaiah/serene/internal/logger"
	"github.com/ayoisaiah/serene/internal/pathutil"
	"github.com/ayoisaiah/serene/internal/ui"
	"github.com/ayoisaiah/serene/store"
)

// env is the per-invocation state shared by the commands. Every consumer
// gets the gate from here instead of reading global flags.
type env struct {
	cfg      *config.Config
	db       *store.Client
	logger   *slog.Logger
	registry *device.Registry
	gate     *gate.Gate
	session  gate.Session
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	return config.New(
		config.WithPaths(
			pathutil.ConfigFilePath(),
			pathutil.DBFilePath(),
			pathutil.LogFilePath(),
		),
		config.WithViperConfig(pathutil.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
}

// setup loads the configuration, opens the store and restores the
// permission and session state.
func setup(ctx *cli.Context, prompter device.Prompter) (*env, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	l := logger.New(cfg.System.LogPath, cfg.Log.Level).
		With(slog.String("command", ctx.Command.Name))

	db, err := store.NewClient(cfg.System.DBPath)
	if err != nil {
		return nil, err
	}

	reg := device.NewRegistry(cfg, db, prompter, l)
	g := gate.New(reg, reg, db, l)

	sess, err := g.LoadSession()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	g.QueryPermissions(ctx.Context)

	return &env{
		cfg:      cfg,
		db:       db,
		logger:   l,
		registry: reg,
		gate:     g,
		session:  sess,
	}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.logger.Warn("closing database failed", slog.Any("error", err))
	}
}

// requireLogin fails unless a user is logged in.
func (e *env) requireLogin() error {
	if !e.session.LoggedIn {
		return errNotLoggedIn
	}

	return nil
}
