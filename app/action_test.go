package app

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/serene/internal/models"
)

func TestParseSensor(t *testing.T) {
	cases := []struct {
		in      string
		want    models.Sensor
		wantErr bool
	}{
		{in: "", want: models.Both},
		{in: "camera", want: models.Camera},
		{in: " Microphone ", want: models.Microphone},
		{in: "both", want: models.Both},
		{in: "speaker", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseSensor(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, errInvalidSensor)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func historyContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("history", flag.ContinueOnError)
	set.String("since", "", "")
	set.String("period", "7days", "")

	require.NoError(t, set.Parse(args))

	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestHistoryRangePeriod(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)

	start, end, err := historyRange(historyContext(t), now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, 10, end.Day())
}

func TestHistoryRangeInvalidPeriod(t *testing.T) {
	_, _, err := historyRange(historyContext(t, "--period", "fortnight"), time.Now())

	require.ErrorIs(t, err, errInvalidPeriod)
}

func TestHistoryRangeSince(t *testing.T) {
	start, end, err := historyRange(
		historyContext(t, "--since", "2026-03-01 09:00", "--period", "today"),
		time.Now(),
	)
	require.NoError(t, err)

	assert.Equal(t, 2026, start.Year())
	assert.Equal(t, time.March, start.Month())
	assert.Equal(t, 1, start.Day())
	assert.True(t, end.IsZero())
}

func TestResolveRecordingPrefersWorkingDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.wav")

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.Equal(t, path, resolveRecording(path))
}

func TestFirstNonEmptyString(t *testing.T) {
	assert.Equal(t, "vim", firstNonEmptyString("", "vim", "nano"))
	assert.Empty(t, firstNonEmptyString("", ""))
}
