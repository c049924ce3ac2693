// Package gemini adapts the Gemini SDK to the text generation needed for
// voice feedback and motivational messages
package gemini

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ayoisaiah/serene/internal/config"
)

const apiVersion = "v1beta"

// Client generates text with the configured model.
type Client struct {
	models *genai.Models
	logger *slog.Logger
	model  string
}

// NewClient returns a client configured from the analysis section of cfg.
// Without an API key the client is still returned but every call fails with
// ErrMissingAPIKey.
func NewClient(
	ctx context.Context,
	cfg *config.AnalysisConfig,
	apiKey string,
	logger *slog.Logger,
) (*Client, error) {
	c := &Client{
		logger: logger,
		model:  cfg.Model,
	}

	if apiKey == "" {
		return c, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.Endpoint,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, ErrRequestFailed.Wrap(err)
	}

	c.models = gc.Models

	return c, nil
}

// Generate sends contents to the model and returns the text of the first
// candidate.
func (c *Client) Generate(
	ctx context.Context,
	contents []*genai.Content,
	gc *genai.GenerateContentConfig,
) (string, error) {
	if c.models == nil {
		return "", ErrMissingAPIKey
	}

	start := time.Now()

	resp, err := c.models.GenerateContent(ctx, c.model, contents, gc)

	c.logger.Debug(
		"generateContent",
		slog.String("model", c.model),
		slog.Duration("took", time.Since(start)),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		return "", ErrRequestFailed.Wrap(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
