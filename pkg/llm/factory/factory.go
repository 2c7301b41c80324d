package factory

import (
	"context"
	"fmt"

	"ai-taskbot-be/pkg/llm"
	"ai-taskbot-be/pkg/llm/gemini"
	"ai-taskbot-be/pkg/llm/huggingface"
	"ai-taskbot-be/pkg/llm/ollama"
)

func NewLLMProvider(ctx context.Context, providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	case "gemini":
		return gemini.NewGeminiProvider(ctx, apiKey, modelName)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
