package factory

import (
	"context"
	"testing"

	"ai-taskbot-be/pkg/llm/huggingface"
	"ai-taskbot-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewLLMProvider(ctx, "ollama", "qwen2.5:7b", "", "")
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider(ctx, "huggingface", "meta-llama/Llama-3.1-8B-Instruct", "", "hf_x")
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)

	_, err = NewLLMProvider(ctx, "gemini", "", "", "")
	assert.Error(t, err)

	_, err = NewLLMProvider(ctx, "openai", "gpt", "", "")
	assert.ErrorContains(t, err, "unsupported LLM provider")
}
