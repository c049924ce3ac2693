package app

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/breathing"
	"github.com/ayoisaiah/serene/device"
	"github.com/ayoisaiah/serene/internal/pathutil"
	"github.com/ayoisaiah/serene/internal/static"
)

// breatheAction runs the guided breathing exercise.
func breatheAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.requireLogin(); err != nil {
		return err
	}

	cfg := e.cfg.Breathing

	if !ctx.IsSet("duration") {
		cfg.Duration, err = breathing.SelectDuration(ctx.Context, cfg.Duration)
		if err != nil {
			return err
		}
	}

	if err := static.Install(pathutil.Dir()); err != nil {
		e.logger.Warn("unable to install static files", slog.Any("error", err))
	}

	// pathToIcon will be an empty string if file is not found
	pathToIcon := static.IconPath(pathutil.Dir())

	opts := []breathing.Option{
		breathing.WithHooks(breathing.SystemHooks{Icon: pathToIcon}),
		breathing.WithHistory(e.db, e.session.UserName),
	}

	if cfg.Chime {
		chimer := &breathing.ToneChimer{}
		defer chimer.Close()

		opts = append(opts, breathing.WithChimer(chimer))
	}

	m := breathing.New(&cfg, e.logger, opts...)

	_, err = tea.NewProgram(m, tea.WithContext(ctx.Context)).Run()

	return err
}
