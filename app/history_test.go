package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/serene/internal/config"
	"github.com/ayoisaiah/serene/internal/models"
	"github.com/ayoisaiah/serene/internal/testutil"
	"github.com/ayoisaiah/serene/store"
)

type TestCase struct {
	Name       string
	GoldenFile string
	Snapshot   []byte
}

func (t TestCase) Output() (out []byte, name string) {
	return t.Snapshot, t.GoldenFile
}

func sampleRecords() []models.Record {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	return []models.Record{
		{
			Kind:      models.RecordPulse,
			User:      "Ana",
			StartTime: start,
			EndTime:   start.Add(45 * time.Second),
			BPM:       72,
			Completed: true,
		},
		{
			Kind:      models.RecordBreathing,
			User:      "Ana",
			StartTime: start.Add(time.Hour),
			EndTime:   start.Add(time.Hour + 3*time.Minute),
			Cycles:    12,
			Completed: true,
		},
		{
			Kind:      models.RecordVoice,
			User:      "Ana",
			StartTime: start.Add(2 * time.Hour),
			EndTime:   start.Add(2*time.Hour + 20*time.Second),
			Voice: &models.VoiceAnalysis{
				Feedback: "You sound calm and clear.",
				Pace:     models.PaceNormal,
				Fillers:  2,
			},
			Completed: true,
		},
	}
}

func TestHistoryJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, listRecords(&buf, sampleRecords(), true))

	testutil.CompareGoldenFile(t, TestCase{
		Name:       "history as json",
		GoldenFile: "history_json",
		Snapshot:   buf.Bytes(),
	})
}

func TestHistoryJSONEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, listRecords(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())
}

func TestHistoryTable(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	var buf bytes.Buffer

	require.NoError(t, listRecords(&buf, sampleRecords(), false))

	out := buf.String()

	assert.Contains(t, out, "ACTIVITY")
	assert.Contains(t, out, "72 bpm")
	assert.Contains(t, out, "12 breaths")
	assert.Contains(t, out, "normal pace · no tremor · 2 fillers")
	assert.Contains(t, out, "3:00")
	assert.Contains(t, out, "Average heart rate: 72 bpm")
}

func TestParseKinds(t *testing.T) {
	got := parseKinds([]string{"pulse, Voice", "", "breathing"})

	assert.Equal(t, []models.RecordKind{
		models.RecordPulse,
		models.RecordVoice,
		models.RecordBreathing,
	}, got)
}

func TestFilterUser(t *testing.T) {
	records := sampleRecords()
	records[1].User = "Bruno"

	got := filterUser(records, "Ana")

	require.Len(t, got, 2)

	for _, r := range got {
		assert.Equal(t, "Ana", r.User)
	}
}

func TestSummarize(t *testing.T) {
	records := sampleRecords()
	records = append(records, models.Record{
		Kind:      models.RecordPulse,
		BPM:       81,
		StartTime: records[0].StartTime,
		EndTime:   records[0].StartTime.Add(time.Minute),
	})

	got := summarize(records)

	assert.Equal(t, summary{
		pulseCount:    2,
		avgBPM:        77,
		breathingTime: 3 * time.Minute,
		breaths:       12,
		voiceCount:    1,
		completed:     3,
		stopped:       1,
	}, got)
}

func TestSummarizeWithoutPulse(t *testing.T) {
	got := summarize(sampleRecords()[1:])

	assert.Zero(t, got.avgBPM)
	assert.Equal(t, 2, got.completed)
}

func TestDeleteRecords(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	db, err := store.NewClient(filepath.Join(t.TempDir(), "serene.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	records := sampleRecords()
	for i := range records {
		require.NoError(t, db.SaveRecord(&records[i]))
	}

	var out bytes.Buffer

	oldIn, oldOut := config.Stdin, config.Stdout
	config.Stdin, config.Stdout = strings.NewReader("\n"), &out

	t.Cleanup(func() {
		config.Stdin, config.Stdout = oldIn, oldOut
	})

	require.NoError(t, deleteRecords(db, records[:2]))

	assert.Contains(t, out.String(), "deleted permanently")

	left, err := db.Records(time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, models.RecordVoice, left[0].Kind)
}
