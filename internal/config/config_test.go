package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PIPELINE_PROMPT_CEILING", "")
	t.Setenv("LLM_PROVIDER", "ollama")

	cfg := Load()

	assert.Equal(t, 6000, cfg.Pipeline.PromptCeiling)
	assert.Equal(t, 1024, cfg.Pipeline.OutputCeiling)
	assert.Equal(t, 8192, cfg.Pipeline.CombinedCeiling)
	assert.Equal(t, 20, cfg.Pipeline.TaskOverflowCap)
	assert.Equal(t, 50, cfg.Pipeline.FallbackMaxTitles)
	assert.Equal(t, "logs/parse_log_consumer.log", cfg.App.ConsumerLogPath)
	assert.Equal(t, "http://localhost:11434", cfg.Ai.BaseURLFor())
	assert.Empty(t, cfg.APIKeyFor())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PIPELINE_PROMPT_CEILING", "3000")
	t.Setenv("PIPELINE_TASK_OVERFLOW_CAP", "not-a-number")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "g-key")

	cfg := Load()

	assert.Equal(t, 3000, cfg.Pipeline.PromptCeiling)
	assert.Equal(t, 20, cfg.Pipeline.TaskOverflowCap)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, "g-key", cfg.APIKeyFor())
	assert.Empty(t, cfg.Ai.BaseURLFor())
}
