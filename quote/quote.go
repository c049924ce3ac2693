// Package quote fetches a short motivational message for someone who is
// anxious before speaking in public
package quote

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/ayoisaiah/serene/gemini"
	"github.com/ayoisaiah/serene/internal/apperr"
)

// Fallback is shown whenever a message cannot be fetched.
const Fallback = "Remember to breathe. You can get through this."

const prompt = `Write a short, powerful and kind motivational message for someone who feels anxious before a presentation.
The message must have at most 25 words. Be direct and encouraging.`

var ErrFetch = &apperr.Error{
	Message: "unable to fetch a message, please try again",
}

// Generator returns the model's text for contents.
type Generator interface {
	Generate(
		ctx context.Context,
		contents []*genai.Content,
		cfg *genai.GenerateContentConfig,
	) (string, error)
}

type Source struct {
	gen    Generator
	logger *slog.Logger
}

func New(gen Generator, logger *slog.Logger) *Source {
	return &Source{gen: gen, logger: logger}
}

// Fetch returns a motivational message. On failure the fallback message is
// returned together with ErrFetch.
func (s *Source) Fetch(ctx context.Context) (string, error) {
	text, err := s.gen.Generate(ctx, genai.Text(prompt), &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		s.logger.Warn("fetching quote failed", slog.Any("error", err))

		return Fallback, ErrFetch.Wrap(err)
	}

	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" {
		return Fallback, ErrFetch.Wrap(gemini.ErrEmptyResponse)
	}

	return text, nil
}
