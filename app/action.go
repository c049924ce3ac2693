package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/device"
	"github.com/ayoisaiah/serene/gemini"
	"github.com/ayoisaiah/serene/internal/models"
	"github.com/ayoisaiah/serene/internal/osutil"
	"github.com/ayoisaiah/serene/internal/pathutil"
	"github.com/ayoisaiah/serene/internal/ui"
	"github.com/ayoisaiah/serene/quote"
	"github.com/ayoisaiah/serene/report"
	"github.com/ayoisaiah/serene/voice"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

func nameArg(ctx *cli.Context) string {
	return strings.TrimSpace(strings.Join(ctx.Args().Slice(), " "))
}

// loginAction logs in. A name remembered from an earlier session is reused.
func loginAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	sess, err := e.gate.Login(nameArg(ctx))
	if err != nil {
		return err
	}

	report.Success(fmt.Sprintf("Welcome back, %s", ui.Highlight(sess.UserName)))

	return nil
}

// registerAction logs in under a new name, replacing the stored one.
func registerAction(ctx *cli.Context) error {
	name := nameArg(ctx)
	if name == "" {
		return errMissingName
	}

	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	sess, err := e.gate.Register(name)
	if err != nil {
		return err
	}

	report.Success(fmt.Sprintf("Welcome, %s", ui.Highlight(sess.UserName)))

	return nil
}

func logoutAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.gate.Logout(); err != nil {
		return err
	}

	report.Info("Logged out")

	return nil
}

func whoamiAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	if !e.session.LoggedIn {
		report.Info("Not logged in")
		return nil
	}

	pterm.Println(e.session.UserName)

	return nil
}

func statusText(s models.PermissionStatus) string {
	switch s {
	case models.Granted:
		return ui.Green(s)
	case models.Denied:
		return ui.Red(s)
	}

	return ui.Cyan(s)
}

func printPermissions(p models.PermissionState) {
	ui.PrintTable([][]string{
		{"SENSOR", "STATUS"},
		{string(models.Camera), statusText(p.Camera)},
		{string(models.Microphone), statusText(p.Microphone)},
	}, os.Stdout)
}

// permissionsAction prints the permission state of each sensor.
func permissionsAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	printPermissions(e.gate.Permissions())

	return nil
}

func parseSensor(s string) (models.Sensor, error) {
	switch sensor := models.Sensor(strings.ToLower(strings.TrimSpace(s))); sensor {
	case models.Camera, models.Microphone, models.Both:
		return sensor, nil
	case "":
		return models.Both, nil
	default:
		return "", errInvalidSensor.Fmt(s)
	}
}

// allowAction requests access to a sensor and prints the resulting state.
func allowAction(ctx *cli.Context) error {
	kind, err := parseSensor(ctx.Args().First())
	if err != nil {
		return err
	}

	var prompter device.Prompter = device.FormPrompter{}
	if ctx.Bool("yes") {
		prompter = device.StaticPrompter(true)
	}

	e, err := setup(ctx, prompter)
	if err != nil {
		return err
	}
	defer e.close()

	state, msg := e.gate.RequestAccess(ctx.Context, kind)

	printPermissions(state)

	if msg != "" {
		report.Warn(msg)
	}

	return nil
}

// resetAction forgets every consent decision.
func resetAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.db.ResetConsent(); err != nil {
		return err
	}

	printPermissions(e.gate.QueryPermissions(ctx.Context))

	return nil
}

func geminiClient(ctx *cli.Context, e *env) (*gemini.Client, error) {
	return gemini.NewClient(ctx.Context, &e.cfg.Analysis, e.cfg.APIKey(), e.logger)
}

// quoteAction prints a motivational message. The fallback message is shown
// when the service cannot be reached.
func quoteAction(ctx *cli.Context) error {
	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	client, err := geminiClient(ctx, e)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Finding the right words...")

	text, err := quote.New(client, e.logger).Fetch(ctx.Context)

	_ = spinner.Stop()

	if err != nil {
		report.Warn(err.Error())
	}

	pterm.DefaultParagraph.Println(ui.Highlight(text))

	return nil
}

// resolveRecording looks for a bare file name in the recordings directory
// when it does not exist relative to the working directory.
func resolveRecording(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	if _, err := os.Stat(path); err == nil {
		return path
	}

	candidate := filepath.Join(pathutil.RecordingsDir(), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return path
}

// voiceAction analyses a speech recording.
func voiceAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return errMissingRecording
	}

	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.requireLogin(); err != nil {
		return err
	}

	rec, err := voice.LoadRecording(resolveRecording(path))
	if err != nil {
		return err
	}

	client, err := geminiClient(ctx, e)
	if err != nil {
		return err
	}

	analyzer := voice.NewAnalyzer(
		client,
		e.gate,
		e.logger,
		voice.WithHistory(e.db, e.session.UserName),
	)

	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Listening...")

	result, err := analyzer.Analyze(ctx.Context, rec)

	_ = spinner.Stop()

	if err != nil {
		if errors.Is(err, voice.ErrAnalysisFailed) {
			e.logger.Error("voice analysis failed", slog.Any("error", err))
			return voice.ErrAnalysisFailed
		}

		return err
	}

	tremor := "no"
	if result.Tremor {
		tremor = "yes"
	}

	ui.PrintTable([][]string{
		{"PACE", "TREMOR", "FILLER WORDS"},
		{string(result.Pace), tremor, fmt.Sprintf("%d", result.Fillers)},
	}, os.Stdout)

	report.Info(result.Feedback)

	return nil
}

// editConfigAction opens the config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	cmd := exec.Command(editor, cfg.System.ConfigPath)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// historyAction lists the activity of the current user.
func historyAction(ctx *cli.Context) error {
	start, end, err := historyRange(ctx, time.Now())
	if err != nil {
		return err
	}

	e, err := setup(ctx, device.FormPrompter{})
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.requireLogin(); err != nil {
		return err
	}

	records, err := e.db.Records(start, end, parseKinds(ctx.StringSlice("kind"))...)
	if err != nil {
		return err
	}

	records = filterUser(records, e.session.UserName)

	if ctx.Bool("delete") {
		return deleteRecords(e.db, records)
	}

	return listRecords(os.Stdout, records, ctx.Bool("json"))
}
