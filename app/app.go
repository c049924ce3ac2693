package app

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/internal/config"
)

const (
	envNoColor       = "NO_COLOR"
	envSereneNoColor = "SERENE_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func beforeAction(ctx *cli.Context) error {
	cli.AppHelpTemplate = helpText()

	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/serene/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	for _, name := range []string{envNoColor, envSereneNoColor} {
		if _, exists := os.LookupEnv(name); exists {
			disableStyling()
		}
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

// Get retrieves the serene app instance.
func Get() *cli.App {
	sereneApp := &cli.App{
		Name: "serene",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		Serene is a wellness companion for the command-line. It estimates your
		heart rate from a fingertip held over the camera, guides you through
		paced breathing and gives feedback on how you sound.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "Log in, reusing the remembered name when none is given",
				ArgsUsage: "[name]",
				Action:    loginAction,
			},
			{
				Name:      "register",
				Usage:     "Log in under a new name",
				ArgsUsage: "<name>",
				Action:    registerAction,
			},
			{
				Name:   "logout",
				Usage:  "Log out and forget the remembered name",
				Action: logoutAction,
			},
			{
				Name:   "whoami",
				Usage:  "Print the logged in user",
				Action: whoamiAction,
			},
			{
				Name:   "permissions",
				Usage:  "Show the camera and microphone permission state",
				Action: permissionsAction,
			},
			{
				Name:      "allow",
				Usage:     "Request access to the camera, microphone or both",
				ArgsUsage: "[camera|microphone|both]",
				Flags:     []cli.Flag{yesFlag},
				Action:    allowAction,
			},
			{
				Name:   "reset-permissions",
				Usage:  "Forget every camera and microphone decision",
				Action: resetAction,
			},
			{
				Name:   "pulse",
				Usage:  "Measure your heart rate with a finger over the camera",
				Flags:  []cli.Flag{serveFlag, forFlag},
				Action: pulseAction,
			},
			{
				Name:  "breathe",
				Usage: "Start a guided breathing exercise",
				Flags: []cli.Flag{
					durationFlag,
					cmdFlag,
					disableNotificationFlag,
					noChimeFlag,
				},
				Action: breatheAction,
			},
			{
				Name:      "voice",
				Usage:     "Analyse the pace and steadiness of a speech recording",
				ArgsUsage: "<recording>",
				Action:    voiceAction,
			},
			{
				Name:   "quote",
				Usage:  "Print a short motivational message",
				Action: quoteAction,
			},
			{
				Name: "history",
				Usage: `
				List your past readings and exercises. Defaults to a reporting
				period of 7 days`,
				Flags:  []cli.Flag{sinceFlag, periodFlag, kindFlag, jsonFlag, deleteFlag},
				Action: historyAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
			logLevelFlag,
			sourceFlag,
			fpsFlag,
			bpmFlag,
			modelFlag,
		},
		Before: beforeAction,
	}

	return sereneApp
}
