package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ayoisaiah/serene/gemini"
	"github.com/ayoisaiah/serene/internal/logger"
	"github.com/ayoisaiah/serene/internal/models"
)

type fakeGenerator struct {
	err      error
	contents []*genai.Content
	cfg      *genai.GenerateContentConfig
	text     string
}

func (f *fakeGenerator) Generate(
	_ context.Context,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	f.contents = contents
	f.cfg = cfg

	if f.err != nil {
		return "", f.err
	}

	return f.text, nil
}

type staticAuth struct {
	err error
}

func (s staticAuth) Require(models.Sensor) error {
	return s.err
}

type memRecords struct {
	records []models.Record
}

func (m *memRecords) SaveRecord(rec *models.Record) error {
	m.records = append(m.records, *rec)
	return nil
}

func silence(n int) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if n <= 0 {
			return 0, false
		}

		k := min(len(samples), n)
		clear(samples[:k])
		n -= k

		return k, true
	})
}

func writeWAV(t *testing.T, samples int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "speech.wav")

	f, err := os.Create(path)
	require.NoError(t, err)

	defer f.Close()

	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}

	require.NoError(t, wav.Encode(f, silence(samples), format))

	return path
}

func TestLoadRecording(t *testing.T) {
	rec, err := LoadRecording(writeWAV(t, 8000))
	require.NoError(t, err)

	assert.Equal(t, "audio/wav", rec.MIMEType)
	assert.Equal(t, time.Second, rec.Duration)
	assert.NotEmpty(t, rec.Data)
}

func TestLoadRecordingRejectsGarbage(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "speech.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not audio at all"), 0o600))

	_, err := LoadRecording(bad)
	assert.ErrorIs(t, err, ErrInvalidAudio)

	_, err = LoadRecording(filepath.Join(dir, "speech.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadRecording(filepath.Join(dir, "missing.mp3"))
	assert.ErrorIs(t, err, errReadRecording)
}

func TestAnalyzeSendsAudioAndSchema(t *testing.T) {
	gen := &fakeGenerator{
		text: `{"feedback":" You sound steady. ","pace":"rápido","tremor":true,"fillers":3}`,
	}

	a := NewAnalyzer(gen, staticAuth{}, logger.Discard())

	rec := &Recording{MIMEType: "audio/ogg", Data: []byte("abc"), Duration: time.Second}

	got, err := a.Analyze(context.Background(), rec)
	require.NoError(t, err)

	want := &models.VoiceAnalysis{
		Feedback: "You sound steady.",
		Pace:     models.PaceFast,
		Tremor:   true,
		Fillers:  3,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Analyze() mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, gen.contents, 1)

	parts := gen.contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "audio/ogg", parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("abc"), parts[0].InlineData.Data)
	assert.Contains(t, parts[1].Text, "filler words")

	cfg := gen.cfg
	require.NotNil(t, cfg)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Equal(t, genai.TypeObject, cfg.ResponseSchema.Type)
	assert.Equal(t, genai.TypeInteger, cfg.ResponseSchema.Properties["fillers"].Type)
}

func TestAnalyzeRequiresMicrophone(t *testing.T) {
	denied := errors.New("microphone access is denied")
	gen := &fakeGenerator{}

	a := NewAnalyzer(gen, staticAuth{err: denied}, logger.Discard())

	_, err := a.Analyze(context.Background(), &Recording{})
	assert.ErrorIs(t, err, denied)
	assert.Nil(t, gen.contents, "nothing is sent without permission")
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	a := NewAnalyzer(&fakeGenerator{text: "I think they sound fine"}, nil, logger.Discard())

	_, err := a.Analyze(context.Background(), &Recording{})
	require.ErrorIs(t, err, ErrAnalysisFailed)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAnalyzeServiceError(t *testing.T) {
	a := NewAnalyzer(
		&fakeGenerator{err: gemini.ErrMissingAPIKey},
		nil,
		logger.Discard(),
	)

	_, err := a.Analyze(context.Background(), &Recording{})
	require.ErrorIs(t, err, ErrAnalysisFailed)
	assert.ErrorIs(t, err, gemini.ErrMissingAPIKey)
}

func TestAnalyzeSavesHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := &memRecords{}

	a := NewAnalyzer(
		&fakeGenerator{text: "```json\n{\"feedback\":\"ok\",\"pace\":\"lento\"}\n```"},
		nil,
		logger.Discard(),
		WithHistory(records, "Ana"),
		WithNow(func() time.Time { return now }),
	)

	_, err := a.Analyze(context.Background(), &Recording{Duration: 5 * time.Second})
	require.NoError(t, err)

	require.Len(t, records.records, 1)

	got := records.records[0]
	assert.Equal(t, models.RecordVoice, got.Kind)
	assert.Equal(t, "Ana", got.User)
	assert.Equal(t, 5*time.Second, got.Duration())
	assert.Equal(t, models.PaceSlow, got.Voice.Pace)
}

func TestNormalizePace(t *testing.T) {
	cases := map[string]models.Pace{
		"slow":   models.PaceSlow,
		"Lento":  models.PaceSlow,
		"normal": models.PaceNormal,
		"FAST":   models.PaceFast,
		"rápido": models.PaceFast,
		"rapido": models.PaceFast,
		"":       models.PaceNormal,
		"brisk":  models.PaceNormal,
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizePace(in), in)
	}
}
