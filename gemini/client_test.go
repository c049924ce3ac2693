package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ayoisaiah/serene/internal/config"
	"github.com/ayoisaiah/serene/internal/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc, key string) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), &config.AnalysisConfig{
		Endpoint: srv.URL + "/",
		Model:    "test-model",
		Timeout:  5 * time.Second,
	}, key, logger.Discard())
	require.NoError(t, err)

	return c
}

func textResponse(w http.ResponseWriter, parts ...string) {
	ps := make([]map[string]any, len(parts))
	for i, p := range parts {
		ps[i] = map[string]any{"text": p}
	}

	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{"role": "model", "parts": ps},
			},
		},
	})
}

func TestGenerateRequestShape(t *testing.T) {
	var got map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(
			t,
			strings.HasSuffix(r.URL.Path, "/v1beta/models/test-model:generateContent"),
			r.URL.Path,
		)
		assert.Equal(t, "secret", r.Header.Get("X-Goog-Api-Key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		textResponse(w, "hello ", "there")
	}, "secret")

	text, err := c.Generate(
		context.Background(),
		[]*genai.Content{
			genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromBytes([]byte("abc"), "audio/wav"),
				genai.NewPartFromText("describe"),
			}, genai.RoleUser),
		},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)

	parts := got["contents"].([]any)[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "audio/wav", parts[0].(map[string]any)["inlineData"].(map[string]any)["mimeType"])
	assert.Equal(t, "describe", parts[1].(map[string]any)["text"])

	gen := got["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", gen["responseMimeType"])
}

func TestGenerateMissingKey(t *testing.T) {
	called := false

	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		called = true
	}, "")

	_, err := c.Generate(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, called)
}

func TestGenerateAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}, "bad")

	_, err := c.Generate(
		context.Background(),
		genai.Text("hi"),
		nil,
	)
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateNoCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}, "key")

	_, err := c.Generate(context.Background(), genai.Text("hi"), nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateGarbage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}, "key")

	_, err := c.Generate(context.Background(), genai.Text("hi"), nil)
	assert.ErrorIs(t, err, ErrRequestFailed)
}
