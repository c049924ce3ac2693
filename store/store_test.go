package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/serene/internal/models"
)

func openTestStore(t *testing.T) (*Client, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "serene.db")

	c, err := NewClient(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c, path
}

func TestSessionKeysPersistAcrossReopen(t *testing.T) {
	c, path := openTestStore(t)

	require.NoError(t, c.Set(KeyUserName, "Ana"))
	require.NoError(t, c.Set(KeyIsLoggedIn, "true"))
	require.NoError(t, c.Close())

	reopened, err := NewClient(path)
	require.NoError(t, err)

	defer reopened.Close()

	name, ok, err := reopened.Get(KeyUserName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ana", name)

	require.NoError(t, reopened.Remove(KeyUserName, KeyIsLoggedIn))

	_, ok, err = reopened.Get(KeyUserName)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = reopened.Get(KeyIsLoggedIn)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSecondClientIsRejected(t *testing.T) {
	_, path := openTestStore(t)

	_, err := NewClient(path)
	assert.ErrorIs(t, err, errAlreadyRunning)
}

func TestConsent(t *testing.T) {
	c, _ := openTestStore(t)

	status, err := c.Consent(models.Camera)
	require.NoError(t, err)
	assert.Equal(t, models.Prompt, status)

	require.NoError(t, c.SetConsent(models.Camera, models.Granted))
	require.NoError(t, c.SetConsent(models.Microphone, models.Denied))

	status, err = c.Consent(models.Camera)
	require.NoError(t, err)
	assert.Equal(t, models.Granted, status)

	status, err = c.Consent(models.Microphone)
	require.NoError(t, err)
	assert.Equal(t, models.Denied, status)

	require.NoError(t, c.ResetConsent())

	status, err = c.Consent(models.Microphone)
	require.NoError(t, err)
	assert.Equal(t, models.Prompt, status)
}

func TestConsentIgnoresUnknownValues(t *testing.T) {
	c, _ := openTestStore(t)

	require.NoError(t, c.SetConsent(models.Camera, "maybe"))

	status, err := c.Consent(models.Camera)
	require.NoError(t, err)
	assert.Equal(t, models.Prompt, status)
}

func TestRecords(t *testing.T) {
	c, _ := openTestStore(t)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	pulse := models.Record{
		Kind:      models.RecordPulse,
		User:      "Ana",
		StartTime: base,
		EndTime:   base.Add(time.Minute),
		BPM:       72,
		Completed: true,
	}

	breath := models.Record{
		Kind:      models.RecordBreathing,
		User:      "Ana",
		StartTime: base.Add(2 * time.Hour),
		EndTime:   base.Add(2*time.Hour + 3*time.Minute),
		Cycles:    12,
		Completed: true,
	}

	voice := models.Record{
		Kind:      models.RecordVoice,
		User:      "Ana",
		StartTime: base.Add(24 * time.Hour),
		EndTime:   base.Add(24 * time.Hour),
		Voice: &models.VoiceAnalysis{
			Feedback: "Steady delivery.",
			Pace:     models.PaceNormal,
			Fillers:  2,
		},
		Completed: true,
	}

	for _, r := range []models.Record{voice, pulse, breath} {
		require.NoError(t, c.SaveRecord(&r))
	}

	all, err := c.Records(time.Time{}, time.Time{})
	require.NoError(t, err)

	if diff := cmp.Diff([]models.Record{pulse, breath, voice}, all); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	sameDay, err := c.Records(base, base.Add(23*time.Hour))
	require.NoError(t, err)
	assert.Len(t, sameDay, 2)

	onlyVoice, err := c.Records(time.Time{}, time.Time{}, models.RecordVoice)
	require.NoError(t, err)
	require.Len(t, onlyVoice, 1)
	assert.Equal(t, 2, onlyVoice[0].Voice.Fillers)

	require.NoError(t, c.DeleteRecords([]models.Record{pulse}))

	all, err = c.Records(time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMigrateHistoryKeys(t *testing.T) {
	c, path := openTestStore(t)

	start := time.Date(2024, 12, 1, 8, 30, 0, 0, time.FixedZone("WAT", 3600))

	rec := models.Record{
		Kind:      models.RecordBreathing,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
	}

	v, err := json.Marshal(rec)
	require.NoError(t, err)

	legacyKey := []byte(start.Format(time.RFC3339))

	err = c.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(historyBucket)).Put(legacyKey, v); err != nil {
			return err
		}

		return tx.Bucket([]byte(metaBucket)).Delete([]byte(keySchemaVersion))
	})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := NewClient(path)
	require.NoError(t, err)

	defer reopened.Close()

	err = reopened.View(func(tx *bolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte(historyBucket)).Get(legacyKey))
		return nil
	})
	require.NoError(t, err)

	records, err := reopened.Records(start.Add(-time.Minute), start.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].StartTime.Equal(start))
}
