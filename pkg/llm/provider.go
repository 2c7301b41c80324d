package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrContextLengthExceeded is returned (wrapped) when the oracle itself rejects
// a prompt as too large for its context window.
var ErrContextLengthExceeded = errors.New("llm: context length exceeded")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens caps the size of the generated output.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// Resolve applies opts over the provider defaults.
func Resolve(defaultModel string, defaultTemperature float64, opts ...Option) Options {
	o := Options{Temperature: defaultTemperature, Model: defaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	return o
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

var contextLengthMarkers = []string{
	"context length",
	"context window",
	"maximum context",
	"too many tokens",
	"prompt is too long",
	"input is too long",
	"token limit",
	"exceeds the maximum number of tokens",
}

// LooksLikeContextLength reports whether an error body from a provider
// describes an oversized prompt.
func LooksLikeContextLength(body string) bool {
	lower := strings.ToLower(body)
	for _, m := range contextLengthMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
