package device

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/ayoisaiah/serene/internal/models"
)

// FormPrompter asks for consent with an interactive confirm dialog.
type FormPrompter struct{}

func (FormPrompter) Confirm(ctx context.Context, sensor models.Sensor) (bool, error) {
	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Allow %s access?", sensor)).
				Description("Serene needs this sensor for the selected feature.").
				Affirmative("Allow").
				Negative("Block").
				Value(&ok),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}

	return ok, nil
}

// StaticPrompter answers every consent request with the same decision.
type StaticPrompter bool

func (p StaticPrompter) Confirm(context.Context, models.Sensor) (bool, error) {
	return bool(p), nil
}
