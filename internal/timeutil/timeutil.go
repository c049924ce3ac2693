// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
)

var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period30Days:    -29,
	Period90Days:    -89,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period30Days,
	Period90Days,
}

// Round rounds a float to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// TimeRange returns the start and end time of period relative to now.
func TimeRange(period Period, now time.Time) (start, end time.Time) {
	start = RoundToStart(now)
	end = RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case PeriodToday:
		return
	case PeriodYesterday:
		start = RoundToStart(now.AddDate(0, 0, Range[period]))
		end = RoundToEnd(start)

		return
	case PeriodAllTime:
		start = time.Time{}
		return
	default:
		start = RoundToStart(now.AddDate(0, 0, Range[period]))
	}

	return
}

// FromStr parses absolute ("2025-03-01 14:00") or relative ("2 days ago")
// date strings.
func FromStr(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	dt, err := dateparser.Parse(nil, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", s, err)
	}

	return dt.Time, nil
}

// Clock formats d as m:ss, rounding up to the next whole second.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	secs := int(math.Ceil(d.Seconds()))

	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

const keyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ToKey converts a time value to a database key for Bolt. Keys are fixed
// width UTC so that byte order matches chronological order.
func ToKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}
