// Package voice sends speech recordings for analysis and reports signs of
// anxiety such as tremor, pace and filler words
package voice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ayoisaiah/serene/internal/models"
)

const prompt = `Analyse this recording of a person speaking.
Identify signs of anxiety such as a tremor in the voice, the pace of speech (slow, normal or fast) and the use of filler words ('uhm', 'like', 'er').
Your answer MUST be JSON. Give short, encouraging feedback in a single sentence in the 'feedback' field.`

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"feedback": {
			Type:        genai.TypeString,
			Description: "Short, kind and encouraging feedback about the speech.",
		},
		"pace": {
			Type:        genai.TypeString,
			Description: "Pace of speech, one of 'slow', 'normal' or 'fast'.",
		},
		"tremor": {
			Type:        genai.TypeBoolean,
			Description: "Whether there is a noticeable tremor in the voice.",
		},
		"fillers": {
			Type:        genai.TypeInteger,
			Description: "Approximate count of filler words.",
		},
	},
}

type (
	// Generator returns the model's text for contents.
	Generator interface {
		Generate(
			ctx context.Context,
			contents []*genai.Content,
			cfg *genai.GenerateContentConfig,
		) (string, error)
	}

	// Authorizer reports whether a sensor may be used.
	Authorizer interface {
		Require(kind models.Sensor) error
	}

	// RecordStore persists analysis results.
	RecordStore interface {
		SaveRecord(rec *models.Record) error
	}

	Analyzer struct {
		gen    Generator
		auth   Authorizer
		store  RecordStore
		logger *slog.Logger
		now    func() time.Time
		user   string
	}

	Option func(*Analyzer)
)

// WithHistory saves every successful analysis for user.
func WithHistory(s RecordStore, user string) Option {
	return func(a *Analyzer) {
		a.store = s
		a.user = user
	}
}

// WithNow overrides the time source used for history records.
func WithNow(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer returns an analyzer that only runs when auth grants the
// microphone.
func NewAnalyzer(
	gen Generator,
	auth Authorizer,
	logger *slog.Logger,
	opts ...Option,
) *Analyzer {
	a := &Analyzer{
		gen:    gen,
		auth:   auth,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze sends rec for analysis. Errors other than a missing permission are
// wrapped in ErrAnalysisFailed.
func (a *Analyzer) Analyze(
	ctx context.Context,
	rec *Recording,
) (*models.VoiceAnalysis, error) {
	if a.auth != nil {
		if err := a.auth.Require(models.Microphone); err != nil {
			return nil, err
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(rec.Data, rec.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	start := a.now()

	text, err := a.gen.Generate(ctx, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return nil, ErrAnalysisFailed.Wrap(err)
	}

	result, err := parse(text)
	if err != nil {
		a.logger.Debug("unexpected analysis output", slog.String("raw", text))

		return nil, ErrAnalysisFailed.Wrap(err)
	}

	a.logger.Info(
		"voice analysed",
		slog.String("pace", string(result.Pace)),
		slog.Bool("tremor", result.Tremor),
		slog.Int("fillers", result.Fillers),
	)

	if a.store != nil {
		err = a.store.SaveRecord(&models.Record{
			Kind:      models.RecordVoice,
			User:      a.user,
			StartTime: start,
			EndTime:   start.Add(rec.Duration),
			Voice:     result,
			Completed: true,
		})
		if err != nil {
			a.logger.Warn("unable to save voice analysis", slog.Any("error", err))
		}
	}

	return result, nil
}

type rawAnalysis struct {
	Feedback string `json:"feedback"`
	Pace     string `json:"pace"`
	Tremor   bool   `json:"tremor"`
	Fillers  int    `json:"fillers"`
}

func parse(text string) (*models.VoiceAnalysis, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	var raw rawAnalysis

	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, ErrMalformedResponse.Wrap(err)
	}

	if raw.Fillers < 0 {
		raw.Fillers = 0
	}

	return &models.VoiceAnalysis{
		Feedback: strings.TrimSpace(raw.Feedback),
		Pace:     NormalizePace(raw.Pace),
		Tremor:   raw.Tremor,
		Fillers:  raw.Fillers,
	}, nil
}

// NormalizePace maps the reported pace onto slow, normal or fast. Portuguese
// labels are accepted as well. Anything unrecognised is treated as normal.
func NormalizePace(s string) models.Pace {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slow", "lento":
		return models.PaceSlow
	case "fast", "rápido", "rapido":
		return models.PaceFast
	default:
		return models.PaceNormal
	}
}
