// Package report prints user-facing status lines
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/serene/internal/osutil"
)

func Info(msg string) {
	pterm.Info.Println(msg)
}

func Success(msg string) {
	pterm.Success.Println(msg)
}

func Warn(msg string) {
	pterm.Warning.Println(msg)
}

func Error(err error) {
	pterm.Error.Println(err)
}

// Quit prints err and exits with a failure status.
func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(int(osutil.ExitError))
}
