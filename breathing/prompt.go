package breathing

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
)

// Durations offered when none is given on the command line.
var Durations = []time.Duration{
	1 * time.Minute,
	3 * time.Minute,
	5 * time.Minute,
}

// SelectDuration asks how long the exercise should last. current is
// preselected.
func SelectDuration(ctx context.Context, current time.Duration) (time.Duration, error) {
	d := current

	opts := make([]huh.Option[time.Duration], 0, len(Durations))
	for _, v := range Durations {
		opts = append(opts, huh.NewOption(timeLabel(v), v))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[time.Duration]().
				Title("How long would you like to breathe for?").
				Options(opts...).
				Value(&d),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return current, err
	}

	return d, nil
}

func timeLabel(d time.Duration) string {
	if d == time.Minute {
		return "1 minute"
	}

	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}
