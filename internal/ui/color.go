// Package ui colours terminal output and renders tables
package ui

import (
	"github.com/pterm/pterm"
)

// DarkTheme selects the light variants of each colour so that text stays
// readable on a dark terminal background.
var DarkTheme bool

type colorFunc func(a ...any) string

func themed(onDark, onLight colorFunc, a any) string {
	if DarkTheme {
		return onDark(a)
	}

	return onLight(a)
}

// Green marks success: granted permissions, completed entries and totals.
func Green(a any) string {
	return themed(pterm.LightGreen, pterm.Green, a)
}

// Cyan marks neutral state such as a pending permission or the calibration
// bar.
func Cyan(a any) string {
	return themed(pterm.LightCyan, pterm.Cyan, a)
}

// Blue is used for section headings.
func Blue(a any) string {
	return themed(pterm.LightBlue, pterm.Blue, a)
}

// Red marks failures, denied permissions and the heart glyph.
func Red(a any) string {
	return themed(pterm.LightRed, pterm.Red, a)
}

// Highlight emphasises a value such as the user name or the current BPM.
func Highlight(a any) string {
	return themed(pterm.LightWhite, pterm.Black, a)
}
