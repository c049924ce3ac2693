package app

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/internal/timeutil"
)

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Set the log level (debug, info, warn, error)",
	}

	sourceFlag = &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"src"},
		Usage:   "Camera frame source: 'simulated' or a directory of PNG/JPEG frames",
	}

	fpsFlag = &cli.IntFlag{
		Name:  "fps",
		Usage: "Frame rate requested from the camera",
	}

	bpmFlag = &cli.Float64Flag{
		Name:  "bpm",
		Usage: "Heart rate produced by the simulated camera",
	}

	modelFlag = &cli.StringFlag{
		Name:  "model",
		Usage: "Model used for voice analysis and motivational messages",
	}

	durationFlag = &cli.StringFlag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "Length of the breathing exercise (e.g. 3m). Prompts for 1, 3 or 5 minutes when omitted",
	}

	cmdFlag = &cli.StringFlag{
		Name:  "cmd",
		Usage: "Execute an arbitrary command after the exercise completes",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:  "disable-notification",
		Usage: "Disable the system notification that appears after the exercise",
	}

	noChimeFlag = &cli.BoolFlag{
		Name:  "no-chime",
		Usage: "Do not play a chime when the breathing phase changes",
	}

	serveFlag = &cli.StringFlag{
		Name:  "serve",
		Usage: "Broadcast readings over websocket on this address (e.g. :8080)",
	}

	forFlag = &cli.DurationFlag{
		Name:  "for",
		Usage: "Stop monitoring after this long (e.g. 30s). Runs until interrupted when omitted",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Grant access without asking",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only show entries since this time (e.g. '2 days ago', 'last monday')",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Reporting period: " + periodChoices(),
		Value:   string(timeutil.Period7Days),
	}

	kindFlag = &cli.StringSliceFlag{
		Name:  "kind",
		Usage: "Only show entries of this kind (pulse, breathing, voice)",
	}

	deleteFlag = &cli.BoolFlag{
		Name:  "delete",
		Usage: "Delete the matching entries",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}
)
