package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-taskbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type textPart struct {
	Text string `json:"text"`
}

type content struct {
	Role  string     `json:"role"`
	Parts []textPart `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction"`
	GenerationConfig  struct {
		ResponseMIMEType string `json:"responseMimeType"`
		MaxOutputTokens  int    `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := newProvider(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "gemini-test")
	require.NoError(t, err)
	return p
}

func writeCandidate(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":` + jsonString(text) + `}]},"finishReason":"STOP"}]}`))
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestChat_RoutesSystemMessagesAndReturnsText(t *testing.T) {
	var got generateRequest
	var path string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCandidate(w, `{"action":"help"}`)
	})

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "reply with JSON"},
		{Role: "user", Content: "what can you do?"},
		{Role: "assistant", Content: `{"action":"help"}`},
		{Role: "user", Content: "and now?"},
	}, llm.WithMaxTokens(128))
	require.NoError(t, err)

	assert.Equal(t, `{"action":"help"}`, out)
	assert.True(t, strings.HasSuffix(path, "/models/gemini-test:generateContent"), path)

	require.NotNil(t, got.SystemInstruction)
	require.Len(t, got.SystemInstruction.Parts, 1)
	assert.Equal(t, "reply with JSON", got.SystemInstruction.Parts[0].Text)

	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "and now?", got.Contents[2].Parts[0].Text)
	for _, c := range got.Contents {
		assert.NotEqual(t, "reply with JSON", c.Parts[0].Text)
	}

	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMIMEType)
	assert.Equal(t, 128, got.GenerationConfig.MaxOutputTokens)
}

func TestChat_ContextLengthError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"The input token count (1200000) exceeds the maximum number of tokens allowed (1048576).","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := p.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, llm.ErrContextLengthExceeded)
}

func TestChat_OtherErrorStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid.","status":"PERMISSION_DENIED"}}`))
	})

	_, err := p.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrContextLengthExceeded)
	assert.Contains(t, err.Error(), "gemini request failed")
}

func TestChat_EmptyResponse(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := p.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response from gemini")
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), "", "")
	assert.Error(t, err)
}
