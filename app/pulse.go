package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/device"
	"github.com/ayoisaiah/serene/internal/models"
	"github.com/ayoisaiah/serene/internal/ui"
	"github.com/ayoisaiah/serene/pulse"
	"github.com/ayoisaiah/serene/pulse/broadcast"
	"github.com/ayoisaiah/serene/report"
)

// renderReading formats a reading for the live area.
func renderReading(r pulse.Reading) string {
	var s strings.Builder

	bpm := "--"
	if r.BPM > 0 {
		bpm = fmt.Sprintf("%d", r.BPM)
	}

	s.WriteString(ui.Red("♥ ") + ui.Highlight(bpm) + " bpm\n")

	status := r.Status
	if r.Error != "" {
		status = ui.Red(r.Error)
	}

	s.WriteString(status)

	if r.State == pulse.StateActive && r.Phase == pulse.PhaseCalibrating {
		bar := min(int(float64(r.Progress)/100*20), 20)
		s.WriteString("\n" + ui.Cyan(strings.Repeat("█", bar)) + strings.Repeat("░", 20-bar))
	}

	return s.String()
}

func pulseRecord(
	user string,
	start time.Time,
	last pulse.Reading,
	completed bool,
) *models.Record {
	return &models.Record{
		Kind:      models.RecordPulse,
		User:      user,
		StartTime: start,
		EndTime:   last.Time,
		BPM:       last.BPM,
		Completed: completed,
	}
}

// pulseAction measures the heart rate until interrupted, the --for limit is
// reached or the camera stops.
func pulseAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.requireLogin(); err != nil {
		return err
	}

	m := pulse.NewMonitor(
		e.registry,
		device.ConstraintsFromConfig(&e.cfg.Camera),
		pulse.ParamsFromConfig(&e.cfg.Pulse),
		e.logger,
		pulse.WithAuthorizer(e.gate),
	)
	defer m.Close()

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if d := ctx.Duration("for"); d > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(runCtx, d)
		defer cancel()
	}

	readings, unsubscribe := m.Subscribe()
	defer unsubscribe()

	if addr := ctx.String("serve"); addr != "" {
		hub := broadcast.NewHub(e.logger)

		hubReadings, hubUnsubscribe := m.Subscribe()
		defer hubUnsubscribe()

		go hub.Run(runCtx, hubReadings)

		go func() {
			if err := hub.Serve(runCtx, addr); err != nil {
				e.logger.Error("websocket server failed", slog.Any("error", err))
			}
		}()

		report.Info("Broadcasting readings on ws://" + addr + "/ws")
	}

	start := time.Now()

	if err := m.Start(runCtx); err != nil {
		return err
	}

	area, _ := pterm.DefaultArea.Start()

	var (
		measured pulse.Reading
		failure  string
	)

loop:
	for {
		select {
		case <-runCtx.Done():
			break loop
		case r, ok := <-readings:
			if !ok {
				break loop
			}

			area.Update(renderReading(r))

			if r.BPM > 0 {
				measured = r
			}

			if r.State == pulse.StateIdle {
				failure = r.Error
				break loop
			}
		}
	}

	if final := m.Stop(); final.BPM > 0 {
		measured = final
	}

	_ = area.Stop()

	if measured.BPM == 0 {
		if failure != "" {
			return errors.New(failure)
		}

		report.Warn("No heart rate measured. Keep your finger on the camera for longer")

		return nil
	}

	rec := pulseRecord(e.session.UserName, start, measured, failure == "")
	if err := e.db.SaveRecord(rec); err != nil {
		e.logger.Warn("unable to save pulse reading", slog.Any("error", err))
	}

	if failure != "" {
		report.Warn(failure)
	}

	report.Success(fmt.Sprintf("Your heart rate is %d bpm", measured.BPM))

	return nil
}
