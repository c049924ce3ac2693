package ui

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestThemeSelectsVariant(t *testing.T) {
	old := DarkTheme

	t.Cleanup(func() { DarkTheme = old })

	DarkTheme = true
	assert.Equal(t, pterm.LightGreen("ok"), Green("ok"))
	assert.Equal(t, pterm.LightWhite(72), Highlight(72))

	DarkTheme = false
	assert.Equal(t, pterm.Green("ok"), Green("ok"))
	assert.Equal(t, pterm.Red("denied"), Red("denied"))
	assert.Equal(t, pterm.Black(72), Highlight(72))
}

func TestPrintTable(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	var buf bytes.Buffer

	PrintTable([][]string{
		{"SENSOR", "STATUS"},
		{"camera", "granted"},
	}, &buf)

	out := buf.String()

	assert.Contains(t, out, "SENSOR")
	assert.Contains(t, out, "granted")
}
