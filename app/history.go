package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/internal/config"
	"github.com/ayoisaiah/serene/internal/models"
	"github.com/ayoisaiah/serene/internal/timeutil"
	"github.com/ayoisaiah/serene/internal/ui"
	"github.com/ayoisaiah/serene/store"
)

const noRecordsMsg = "No activity found for the specified time range"

func periodChoices() string {
	choices := make([]string, len(timeutil.PeriodCollection))
	for i, p := range timeutil.PeriodCollection {
		choices[i] = string(p)
	}

	return strings.Join(choices, ", ")
}

// historyRange works out the start and end of the listing from --since and
// --period. --since takes precedence.
func historyRange(ctx *cli.Context, now time.Time) (start, end time.Time, err error) {
	if s := ctx.String("since"); s != "" {
		start, err = timeutil.FromStr(s)
		if err != nil {
			return start, end, errInvalidSince.Fmt(s).Wrap(err)
		}

		return start, time.Time{}, nil
	}

	period := timeutil.Period(ctx.String("period"))
	if !slices.Contains(timeutil.PeriodCollection, period) {
		return start, end, errInvalidPeriod.Fmt(period)
	}

	start, end = timeutil.TimeRange(period, now)

	return start, end, nil
}

func parseKinds(values []string) []models.RecordKind {
	kinds := make([]models.RecordKind, 0, len(values))

	for _, v := range values {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				kinds = append(kinds, models.RecordKind(strings.ToLower(k)))
			}
		}
	}

	return kinds
}

func recordResult(rec *models.Record) string {
	switch rec.Kind {
	case models.RecordPulse:
		return fmt.Sprintf("%d bpm", rec.BPM)
	case models.RecordBreathing:
		return fmt.Sprintf("%d breaths", rec.Cycles)
	case models.RecordVoice:
		if rec.Voice == nil {
			return ""
		}

		tremor := "no tremor"
		if rec.Voice.Tremor {
			tremor = "tremor"
		}

		return fmt.Sprintf(
			"%s pace · %s · %d fillers",
			rec.Voice.Pace,
			tremor,
			rec.Voice.Fillers,
		)
	}

	return ""
}

// printRecordsTable prints a history table to w.
func printRecordsTable(w io.Writer, records []models.Record) {
	tableBody := make([][]string, len(records))

	for i := range records {
		rec := &records[i]

		statusText := ui.Green("completed")
		if !rec.Completed {
			statusText = ui.Red("stopped")
		}

		tableBody[i] = []string{
			fmt.Sprintf("%d", i+1),
			rec.StartTime.Local().Format("Jan 02, 2006 03:04 PM"),
			string(rec.Kind),
			timeutil.Clock(rec.Duration()),
			recordResult(rec),
			statusText,
		}
	}

	tableBody = append([][]string{
		{"#", "DATE", "ACTIVITY", "DURATION", "RESULT", "STATUS"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

func writeRecordsJSON(w io.Writer, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

type summary struct {
	pulseCount    int
	avgBPM        int
	breathingTime time.Duration
	breaths       int
	voiceCount    int
	completed     int
	stopped       int
}

func summarize(records []models.Record) summary {
	var (
		totals summary
		bpmSum int
	)

	for i := range records {
		rec := &records[i]

		switch rec.Kind {
		case models.RecordPulse:
			totals.pulseCount++
			bpmSum += rec.BPM
		case models.RecordBreathing:
			totals.breathingTime += rec.Duration()
			totals.breaths += rec.Cycles
		case models.RecordVoice:
			totals.voiceCount++
		}

		if rec.Completed {
			totals.completed++
		} else {
			totals.stopped++
		}
	}

	if totals.pulseCount > 0 {
		totals.avgBPM = timeutil.Round(float64(bpmSum) / float64(totals.pulseCount))
	}

	return totals
}

func printSummary(w io.Writer, totals summary) {
	avg := "--"
	if totals.avgBPM > 0 {
		avg = fmt.Sprintf("%d bpm", totals.avgBPM)
	}

	fmt.Fprintf(w, "\n%s\n", ui.Blue("Summary"))
	fmt.Fprintln(w, "Average heart rate:", ui.Green(avg))
	fmt.Fprintf(w, "Heart rate readings: %s\n", ui.Green(totals.pulseCount))
	fmt.Fprintf(
		w,
		"Time spent breathing: %s (%s breaths)\n",
		ui.Green(timeutil.Clock(totals.breathingTime)),
		ui.Green(totals.breaths),
	)
	fmt.Fprintln(w, "Voice checks:", ui.Green(totals.voiceCount))
	fmt.Fprintf(
		w,
		"Completed: %s  Stopped: %s\n",
		ui.Green(totals.completed),
		ui.Red(totals.stopped),
	)
}

// listRecords prints records as a table or JSON.
func listRecords(w io.Writer, records []models.Record, asJSON bool) error {
	if asJSON {
		return writeRecordsJSON(w, records)
	}

	if len(records) == 0 {
		pterm.Info.Println(noRecordsMsg)
		return nil
	}

	printRecordsTable(w, records)
	printSummary(w, summarize(records))

	return nil
}

// deleteRecords removes records permanently after the user confirms by
// pressing ENTER.
func deleteRecords(db store.DB, records []models.Record) error {
	if len(records) == 0 {
		pterm.Info.Println(noRecordsMsg)
		return nil
	}

	printRecordsTable(config.Stdout, records)

	warning := pterm.Warning.Sprint(
		"The above entries will be deleted permanently. Press ENTER to proceed",
	)

	fmt.Fprint(config.Stdout, warning)

	reader := bufio.NewReader(config.Stdin)

	_, _ = reader.ReadString('\n')

	return db.DeleteRecords(records)
}

// filterUser keeps the records made by user.
func filterUser(records []models.Record, user string) []models.Record {
	return slices.DeleteFunc(records, func(r models.Record) bool {
		return r.User != user
	})
}
